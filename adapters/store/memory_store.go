package store

import (
	"context"
	"sync"
	"time"

	"github.com/vitrin-shop/vitrin/core"
	"github.com/vitrin-shop/vitrin/ports"
)

type memorySessionEntry struct {
	session   core.Session
	expiresAt time.Time
}

// MemorySessionStore is an in-memory SessionStore, primarily for tests.
type MemorySessionStore struct {
	sessions map[string]memorySessionEntry
	mu       sync.RWMutex
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() ports.SessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memorySessionEntry),
	}
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, core.ErrSessionNotFound
	}

	session := entry.session
	if entry.session.Siwe != nil {
		siwe := *entry.session.Siwe
		session.Siwe = &siwe
	}
	return &session, nil
}

func (s *MemorySessionStore) Save(ctx context.Context, session *core.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *session
	if session.Siwe != nil {
		siwe := *session.Siwe
		stored.Siwe = &siwe
	}
	s.sessions[session.ID] = memorySessionEntry{
		session:   stored,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}
