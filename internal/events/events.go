package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Game lifecycle event types.
const (
	TypeGameStarted       = "game.started"
	TypeRoundResolved     = "round.resolved"
	TypeScenarioCompleted = "scenario.completed"
)

// GameEvent is an immutable record of something that happened to a game
// session. Events are emitted after the session state has been persisted,
// so handlers always observe facts, never in-flight transitions.
type GameEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// SessionID identifies the game session the event belongs to
	SessionID uuid.UUID `json:"session_id"`

	// UserID identifies the session owner
	UserID uuid.UUID `json:"user_id"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// OccurredAt is the timestamp when the event was created
	OccurredAt time.Time `json:"occurred_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *GameEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewGameEvent creates a GameEvent of the given type with a serialized payload.
func NewGameEvent(eventType string, sessionID, userID uuid.UUID, payload interface{}) (*GameEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &GameEvent{
		ID:         uuid.New(),
		Type:       eventType,
		SessionID:  sessionID,
		UserID:     userID,
		Payload:    payloadBytes,
		OccurredAt: time.Now(),
	}, nil
}

// GameStartedPayload is the payload for TypeGameStarted events.
type GameStartedPayload struct {
	ScenarioID string `json:"scenario_id"`
	Language   string `json:"language"`
	MaxRounds  int    `json:"max_rounds"`
}

// RoundResolvedPayload is the payload for TypeRoundResolved events.
type RoundResolvedPayload struct {
	RoundNumber  int  `json:"round_number"`
	Passed       bool `json:"passed"`
	Score        int  `json:"score"`
	AttemptsUsed int  `json:"attempts_used"`
}

// ScenarioCompletedPayload is the payload for TypeScenarioCompleted events.
type ScenarioCompletedPayload struct {
	ScenarioID      string   `json:"scenario_id"`
	FinalScore      int      `json:"final_score"`
	MasteryAchieved bool     `json:"mastery_achieved"`
	RoundsPassed    int      `json:"rounds_passed"`
	Badges          []string `json:"badges"`
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *GameEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *GameEvent) error
}
