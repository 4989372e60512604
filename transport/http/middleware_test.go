package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrin-shop/vitrin/adapters/registry"
	"github.com/vitrin-shop/vitrin/adapters/siwe"
	"github.com/vitrin-shop/vitrin/adapters/store"
	"github.com/vitrin-shop/vitrin/core"
	"github.com/vitrin-shop/vitrin/service"
)

// middlewareEngine mounts a probe route behind the given middleware with the
// session pre-attached, bypassing the cookie plumbing.
func middlewareEngine(session *core.Session, mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(sessionContextKey, session)
	})
	engine.GET("/probe", mw, func(c *gin.Context) {
		user, ok := AuthUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "no auth user attached"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"address": user.Address})
	})
	return engine
}

func probe(t *testing.T, engine *gin.Engine) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/probe", nil)
	require.NoError(t, err)
	engine.ServeHTTP(rec, req)
	return rec
}

func authServiceWith(admins ...registry.Entry) *service.AuthService {
	return service.NewAuthService(
		store.NewMemorySessionStore(),
		siwe.Codec{},
		siwe.NewVerifier(testDomain),
		registry.New(admins),
		nil,
		time.Hour,
	)
}

func TestAuthRequiredRejectsAnonymous(t *testing.T) {
	auth := authServiceWith()
	session := &core.Session{ID: "sid-anon"}

	rec := probe(t, middlewareEngine(session, AuthRequired(auth)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequiredPassesAuthenticated(t *testing.T) {
	addr := "0x0000000000000000000000000000000000000123"
	auth := authServiceWith()
	session := &core.Session{ID: "sid-auth", Siwe: &core.SiweSession{Address: addr}}

	rec := probe(t, middlewareEngine(session, AuthRequired(auth)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), addr)
}

func TestAdminRequiredRejectsRevokedAdmin(t *testing.T) {
	// The session was established while the address was listed; the registry
	// no longer contains it. Membership is re-checked per request.
	addr := "0x0000000000000000000000000000000000000123"
	auth := authServiceWith()
	session := &core.Session{ID: "sid-revoked", Siwe: &core.SiweSession{Address: addr}}

	rec := probe(t, middlewareEngine(session, AdminRequired(auth)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not an admin")
}

func TestAdminRequiredPassesListedAdmin(t *testing.T) {
	addr := "0x0000000000000000000000000000000000000123"
	auth := authServiceWith(registry.Entry{Address: addr})
	session := &core.Session{ID: "sid-admin", Siwe: &core.SiweSession{Address: addr}}

	rec := probe(t, middlewareEngine(session, AdminRequired(auth)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRequiredRejectsAnonymous(t *testing.T) {
	rec := probe(t, middlewareEngine(&core.Session{ID: "sid-x"}, AdminRequired(authServiceWith())))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
