package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vitrin-shop/vitrin/core"
	"github.com/vitrin-shop/vitrin/ports"
)

const sessionContextKey = "session"

// SessionConfig controls the session cookie and lifetime.
type SessionConfig struct {
	CookieName string        // defaults to "connect.sid"
	TTL        time.Duration // defaults to 24h, renewed on activity
	Secure     bool          // set in production behind TLS
}

// SessionManager loads the session named by the request cookie, creating a
// fresh one when the cookie is absent or stale, and renews the cookie and
// store TTL on every request (rolling expiry).
type SessionManager struct {
	store ports.SessionStore
	cfg   SessionConfig
}

// NewSessionManager creates a session manager over the given store.
func NewSessionManager(store ports.SessionStore, cfg SessionConfig) *SessionManager {
	if cfg.CookieName == "" {
		cfg.CookieName = "connect.sid"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &SessionManager{store: store, cfg: cfg}
}

// Middleware attaches the request's session to the gin context.
func (m *SessionManager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionContextKey, m.load(c))
		c.Next()
	}
}

func (m *SessionManager) load(c *gin.Context) *core.Session {
	if id, err := c.Cookie(m.cfg.CookieName); err == nil && id != "" {
		session, err := m.store.Get(c.Request.Context(), id)
		switch {
		case err == nil:
			// Rolling renewal: touch both the store record and the cookie.
			if err := m.store.Save(c.Request.Context(), session, m.cfg.TTL); err != nil {
				log.Warn().Err(err).Str("session_id", id).Msg("failed to renew session")
			}
			m.setCookie(c, session.ID)
			return session
		case !errors.Is(err, core.ErrSessionNotFound):
			log.Warn().Err(err).Str("session_id", id).Msg("failed to load session")
		}
	}

	session := &core.Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}
	m.setCookie(c, session.ID)
	// Not persisted until a handler mutates it; a read-only request on a
	// fresh session never touches the store.
	return session
}

func (m *SessionManager) setCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, id, int(m.cfg.TTL.Seconds()), "/", "", m.cfg.Secure, true)
}

func (m *SessionManager) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, "", -1, "/", "", m.cfg.Secure, true)
}

// SessionFrom returns the session the middleware attached to the context.
func SessionFrom(c *gin.Context) *core.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if session, ok := v.(*core.Session); ok {
			return session
		}
	}
	return nil
}
