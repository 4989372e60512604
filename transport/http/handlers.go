package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitrin-shop/vitrin/core"
	"github.com/vitrin-shop/vitrin/service"
)

// AuthHandlers contains the HTTP handlers for the auth endpoints. The same
// handler set is mounted under every auth route prefix; there is exactly
// one verification code path.
type AuthHandlers struct {
	auth     *service.AuthService
	sessions *SessionManager
}

// NewAuthHandlers creates new auth handlers.
func NewAuthHandlers(auth *service.AuthService, sessions *SessionManager) *AuthHandlers {
	return &AuthHandlers{auth: auth, sessions: sessions}
}

// Nonce issues a fresh single-use nonce, replacing any prior one on the
// session.
func (h *AuthHandlers) Nonce(c *gin.Context) {
	nonce, err := h.auth.IssueNonce(c.Request.Context(), SessionFrom(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to issue nonce", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "nonce": nonce})
}

// Verify checks a signed challenge and establishes the session on success.
func (h *AuthHandlers) Verify(c *gin.Context) {
	var req struct {
		Message   string `json:"message"`
		Signature string `json:"signature"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" || req.Signature == "" {
		respondError(c, http.StatusBadRequest, "Missing message or signature", nil)
		return
	}

	siwe, err := h.auth.Verify(c.Request.Context(), SessionFrom(c), req.Message, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrMissingNonce):
			respondError(c, http.StatusBadRequest, "Nonce not found in message", nil)
		case errors.Is(err, core.ErrMissingAddress):
			respondError(c, http.StatusBadRequest, "Address not found in message", nil)
		case errors.Is(err, core.ErrNonceMismatch):
			respondError(c, http.StatusUnprocessableEntity, "Invalid nonce", nil)
		case errors.Is(err, core.ErrInvalidSignature), errors.Is(err, core.ErrDomainMismatch):
			respondError(c, http.StatusUnauthorized, "Invalid signature", nil)
		case errors.Is(err, core.ErrNotAdmin):
			respondError(c, http.StatusForbidden, "not an admin", nil)
		default:
			respondError(c, http.StatusInternalServerError, "Verification failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Signed in",
		"isAdmin": true,
		"address": siwe.Address,
	})
}

// Session reports the authentication state. Admin membership comes from a
// fresh registry lookup, never from the session record.
func (h *AuthHandlers) Session(c *gin.Context) {
	status := h.auth.Status(SessionFrom(c))

	resp := gin.H{"success": true, "authenticated": status.Authenticated}
	if status.Authenticated {
		resp["address"] = status.Address
		resp["isAdmin"] = status.IsAdmin
	}
	c.JSON(http.StatusOK, resp)
}

// Logout destroys the session and clears the cookie. Idempotent: a second
// call finds a fresh session and succeeds the same way.
func (h *AuthHandlers) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), SessionFrom(c)); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to log out", err)
		return
	}

	h.sessions.clearCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

func respondError(c *gin.Context, status int, message string, err error) {
	body := gin.H{"success": false, "message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	c.JSON(status, body)
}
