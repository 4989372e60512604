package ports

import (
	"context"
	"time"

	"github.com/vitrin-shop/vitrin/core"
)

// SessionStore persists sessions keyed by their opaque identifier.
// Records outlive process restarts within the TTL.
type SessionStore interface {
	// Get returns core.ErrSessionNotFound for unknown or expired IDs.
	Get(ctx context.Context, id string) (*core.Session, error)
	Save(ctx context.Context, session *core.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
