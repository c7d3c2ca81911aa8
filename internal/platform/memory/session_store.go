// Package memory provides in-memory store implementations used in tests and
// single-process deployments.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/kanaptse/eduparent-api/internal/domain"
	"github.com/kanaptse/eduparent-api/internal/store"
)

// SessionStore is a mutex-guarded in-memory store.SessionStore.
// It hands out deep copies so callers never share mutable state with the map.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*domain.GameSession
}

// Ensure SessionStore implements store.SessionStore
var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*domain.GameSession),
	}
}

// Save implements store.SessionStore.Save.
func (s *SessionStore) Save(_ context.Context, session *domain.GameSession) error {
	if err := session.Validate(); err != nil {
		return store.NewStoreError("game session", "save", "validation failed", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.Clone()
	return nil
}

// Get implements store.SessionStore.Get.
func (s *SessionStore) Get(_ context.Context, id uuid.UUID) (*domain.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// Delete implements store.SessionStore.Delete.
func (s *SessionStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return store.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}
