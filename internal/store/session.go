package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/kanaptse/eduparent-api/internal/domain"
)

// SessionStore defines the interface for game session persistence.
//
// The game engine is single-writer per session: callers must serialize
// Save calls for the same session ID. Implementations only need to make
// individual operations safe for concurrent use across different sessions.
type SessionStore interface {
	// Save persists the session, inserting it on first save and replacing
	// the stored record on subsequent saves.
	// Returns validation errors if the session data is invalid.
	Save(ctx context.Context, session *domain.GameSession) error

	// Get retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.GameSession, error)

	// Delete removes a session from the store by its ID.
	// Returns ErrSessionNotFound if the session does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ScenarioStore defines read access to the loaded scenario catalog.
// Scenarios are immutable static content, so there are no write operations.
type ScenarioStore interface {
	// Get retrieves a scenario by its ID.
	// Returns ErrScenarioNotFound if no scenario with that ID is loaded.
	Get(ctx context.Context, id string) (*domain.Scenario, error)

	// List returns all loaded scenarios ordered by ID.
	List(ctx context.Context) ([]*domain.Scenario, error)
}
