package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vitrin-shop/vitrin/core"
	"github.com/vitrin-shop/vitrin/service"
)

const authUserContextKey = "authUser"

// AuthRequired gates routes on an authenticated session and attaches the
// derived AuthStatus to the context.
func AuthRequired(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := auth.Status(SessionFrom(c))
		if !status.Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication required",
			})
			return
		}
		c.Set(authUserContextKey, status)
		c.Next()
	}
}

// AdminRequired gates routes on registry membership. Membership is
// re-checked against the registry on every request, never trusted from
// stored state.
func AdminRequired(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := auth.Status(SessionFrom(c))
		if !status.Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication required",
			})
			return
		}
		if !status.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "not an admin",
			})
			return
		}
		c.Set(authUserContextKey, status)
		c.Next()
	}
}

// AuthUser returns the AuthStatus attached by AuthRequired or AdminRequired.
func AuthUser(c *gin.Context) (core.AuthStatus, bool) {
	v, ok := c.Get(authUserContextKey)
	if !ok {
		return core.AuthStatus{}, false
	}
	status, ok := v.(core.AuthStatus)
	return status, ok
}

// RequestLogger logs each request through zerolog.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request processed")
	}
}
