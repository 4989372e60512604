package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vitrin-shop/vitrin/service"
)

// RouterConfig controls router-level behavior.
type RouterConfig struct {
	Origin string // SPA origin allowed for credentialed CORS; empty disables CORS
	Debug  bool
}

// NewRouter sets up the Gin router. Both legacy auth prefixes are served by
// the same handler set.
func NewRouter(
	auth *service.AuthService,
	products *service.ProductService,
	sessions *SessionManager,
	cfg RouterConfig,
) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	if cfg.Origin != "" {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     []string{cfg.Origin},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
		}))
	}

	router.Use(sessions.Middleware())

	authHandlers := NewAuthHandlers(auth, sessions)
	for _, prefix := range []string{"/api/auth", "/api/siwe"} {
		group := router.Group(prefix)
		{
			group.GET("/nonce", authHandlers.Nonce)
			group.POST("/verify", authHandlers.Verify)
			group.GET("/session", authHandlers.Session)
			group.GET("/check", authHandlers.Session)
			group.POST("/logout", authHandlers.Logout)
		}
	}

	productHandlers := NewProductHandlers(products)
	public := router.Group("/api/products")
	{
		public.GET("", productHandlers.List)
		public.GET("/:id", productHandlers.Get)
	}
	protected := router.Group("/api/products")
	protected.Use(AdminRequired(auth))
	{
		protected.POST("", productHandlers.Create)
		protected.PUT("/:id", productHandlers.Update)
		protected.DELETE("/:id", productHandlers.Delete)
	}

	return router
}
