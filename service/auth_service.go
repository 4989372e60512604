package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vitrin-shop/vitrin/core"
	"github.com/vitrin-shop/vitrin/ports"
)

const nonceBytes = 16 // 128 bits of entropy per challenge

// AuthService implements the challenge-response authentication flow:
// nonce issuance, signed-message verification, admin gating, status
// derivation and logout. One service backs every auth route; there is a
// single code path for the whole contract.
type AuthService struct {
	store    ports.SessionStore
	codec    ports.Codec
	verifier ports.Verifier
	registry ports.AdminRegistry
	events   ports.EventPublisher

	sessionTTL time.Duration
}

// NewAuthService creates a new authentication service. A zero sessionTTL
// defaults to 24 hours.
func NewAuthService(
	store ports.SessionStore,
	codec ports.Codec,
	verifier ports.Verifier,
	registry ports.AdminRegistry,
	events ports.EventPublisher,
	sessionTTL time.Duration,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		store:      store,
		codec:      codec,
		verifier:   verifier,
		registry:   registry,
		events:     events,
		sessionTTL: sessionTTL,
	}
}

// SessionTTL returns the configured session lifetime.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// IssueNonce attaches a fresh single-use nonce to the session, replacing
// any prior value, and persists it.
func (s *AuthService) IssueNonce(ctx context.Context, session *core.Session) (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	nonce := hex.EncodeToString(buf)

	session.Nonce = nonce
	if err := s.store.Save(ctx, session, s.sessionTTL); err != nil {
		return "", fmt.Errorf("persist nonce: %w", err)
	}
	return nonce, nil
}

// Verify runs the verification state machine against the session's nonce.
//
// The nonce comparison is exact string equality and happens before any
// cryptography: a mismatch fails with core.ErrNonceMismatch regardless of
// signature validity, and the stored nonce is kept. Once a message carrying
// the matching nonce is processed the nonce is consumed — success or not —
// so a captured challenge cannot be replayed. session.Siwe is written only
// after the signature proves the address AND the registry admits it.
func (s *AuthService) Verify(ctx context.Context, session *core.Session, message, signature string) (*core.SiweSession, error) {
	if message == "" || signature == "" {
		return nil, core.ErrMissingCredentials
	}

	nonce, ok := s.codec.ExtractNonce(message)
	if !ok {
		return nil, core.ErrMissingNonce
	}
	if _, ok := s.codec.ExtractAddress(message); !ok {
		return nil, core.ErrMissingAddress
	}

	if session.Nonce == "" || nonce != session.Nonce {
		return nil, core.ErrNonceMismatch
	}
	session.Nonce = ""

	address, err := s.verifier.Verify(message, signature)
	if err != nil {
		s.persistConsumedNonce(ctx, session)
		return nil, err
	}

	if !s.registry.IsAdmin(address) {
		s.persistConsumedNonce(ctx, session)
		return nil, fmt.Errorf("%w: %s", core.ErrNotAdmin, address)
	}

	session.Siwe = &core.SiweSession{
		Address:  address,
		IssuedAt: time.Now().UTC(),
	}
	if err := s.store.Save(ctx, session, s.sessionTTL); err != nil {
		session.Siwe = nil
		return nil, fmt.Errorf("persist session: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishLogin(ctx, address, session.ID); err != nil {
			// The session is established; event delivery is best effort.
			log.Warn().Err(err).Str("address", address).Msg("failed to publish login event")
		}
	}

	return session.Siwe, nil
}

func (s *AuthService) persistConsumedNonce(ctx context.Context, session *core.Session) {
	if err := s.store.Save(ctx, session, s.sessionTTL); err != nil {
		log.Warn().Err(err).Str("session_id", session.ID).Msg("failed to persist consumed nonce")
	}
}

// Status derives the request-scoped authentication state. Admin membership
// is recomputed from the registry on every call and never read back from
// stored state.
func (s *AuthService) Status(session *core.Session) core.AuthStatus {
	if !session.Authenticated() {
		return core.AuthStatus{}
	}
	address := session.Siwe.Address
	return core.AuthStatus{
		Authenticated: true,
		Address:       address,
		IsAdmin:       s.registry.IsAdmin(address),
	}
}

// Logout destroys the session wholesale. Safe to call on a session that
// was never authenticated; a second call operates on a fresh session and
// succeeds the same way.
func (s *AuthService) Logout(ctx context.Context, session *core.Session) error {
	if session == nil {
		return nil
	}

	var address string
	if session.Siwe != nil {
		address = session.Siwe.Address
	}

	if err := s.store.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	session.Nonce = ""
	session.Siwe = nil

	if s.events != nil && address != "" {
		if err := s.events.PublishLogout(ctx, address, session.ID); err != nil {
			log.Warn().Err(err).Str("address", address).Msg("failed to publish logout event")
		}
	}
	return nil
}
