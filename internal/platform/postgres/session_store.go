package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/kanaptse/eduparent-api/internal/domain"
	"github.com/kanaptse/eduparent-api/internal/platform/logger"
	"github.com/kanaptse/eduparent-api/internal/store"
)

// SessionStore implements the store.SessionStore interface using PostgreSQL.
//
// The session's progress state (rounds history, completion, scores) is stored
// as a JSONB payload next to a few indexed columns. The engine always reads
// and writes whole sessions, so the payload never needs partial updates.
type SessionStore struct {
	db store.DBTX
}

// NewSessionStore creates a PostgreSQL implementation of the SessionStore
// interface. The database handle is initialized and managed by the caller.
func NewSessionStore(db store.DBTX) *SessionStore {
	return &SessionStore{
		db: db,
	}
}

// Ensure SessionStore implements store.SessionStore interface
var _ store.SessionStore = (*SessionStore)(nil)

// Save implements store.SessionStore.Save as an upsert keyed on session ID.
func (s *SessionStore) Save(ctx context.Context, session *domain.GameSession) error {
	log := logger.FromContext(ctx)

	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal game session: %w", err)
	}

	query := `
		INSERT INTO game_sessions (id, user_id, scenario_id, game_completed, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET game_completed = EXCLUDED.game_completed,
		    payload = EXCLUDED.payload,
		    updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.ScenarioID,
		session.GameCompleted,
		payload,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to save game session",
			"session_id", session.ID,
			"scenario_id", session.ScenarioID,
			"error", err)
		return MapError(err)
	}

	return nil
}

// Get implements store.SessionStore.Get.
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*domain.GameSession, error) {
	query := `
		SELECT payload
		FROM game_sessions
		WHERE id = $1
	`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrSessionNotFound
		}
		return nil, MapError(err)
	}

	var session domain.GameSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game session %s: %w", id, err)
	}

	return &session, nil
}

// Delete implements store.SessionStore.Delete.
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM game_sessions
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrSessionNotFound
	}

	return nil
}
