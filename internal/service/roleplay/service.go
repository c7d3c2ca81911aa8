// Package roleplay implements the game engine for AI roleplay practice:
// scenario progression, attempt-limited retries, scoring policy, and
// completion/mastery determination. The engine owns all session state
// transitions; HTTP and AI concerns live behind collaborator interfaces.
package roleplay

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kanaptse/eduparent-api/internal/domain"
	"github.com/kanaptse/eduparent-api/internal/evaluation"
)

// Common game engine errors - sentinel errors used across the engine.
// Callers check for these with errors.Is(); the API layer maps them to
// HTTP status codes.
var (
	// ErrScenarioNotFound indicates the requested scenario is not loaded.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrSessionNotFound indicates the game session does not exist.
	ErrSessionNotFound = errors.New("game session not found")

	// ErrSessionAlreadyCompleted indicates a submission against a completed
	// session. The session is left unchanged.
	ErrSessionAlreadyCompleted = errors.New("game session is already completed")

	// ErrSessionNotOwned indicates the session belongs to a different user.
	ErrSessionNotOwned = errors.New("game session belongs to another user")

	// ErrEmptyResponse indicates the submitted response text was empty or
	// whitespace-only. No attempt is consumed and the evaluator is not called.
	ErrEmptyResponse = errors.New("response text cannot be empty")

	// ErrEvaluationUnavailable indicates the evaluator failed to score the
	// submission. The engine never guesses a score; whether the failed call
	// still consumes an attempt is configuration.
	ErrEvaluationUnavailable = errors.New("evaluation service unavailable")
)

// GameService exposes the roleplay engine to the request-handling layer.
// All methods return plain data records suitable for serialization.
//
// Callers must serialize SubmitResponse calls per session ID: the engine
// assumes at most one submission in flight per session and provides no
// mutual exclusion of its own.
type GameService interface {
	// GetAvailableScenarios lists the loaded scenarios, localized.
	GetAvailableScenarios(ctx context.Context, language string) ([]ScenarioSummary, error)

	// StartGame creates a new session for the scenario positioned at round 1
	// and returns it with the round-1 opening line.
	// Returns ErrScenarioNotFound if the scenario is not loaded.
	StartGame(ctx context.Context, userID uuid.UUID, scenarioID, language string) (*StartResult, error)

	// SubmitResponse runs one submit-response transition: consume an attempt,
	// score the response, generate the child's reply, and resolve or retry
	// the round. The session is mutated and persisted only after both
	// collaborator calls return.
	//
	// Returns ErrSessionNotFound, ErrSessionNotOwned,
	// ErrSessionAlreadyCompleted, ErrEmptyResponse, or
	// ErrEvaluationUnavailable. Responder failures are non-fatal: the round
	// outcome is still applied and the reply degrades to a placeholder.
	SubmitResponse(ctx context.Context, userID, sessionID uuid.UUID, responseText string) (*RoundResult, error)
}

// ScenarioSummary is the listing view of a loaded scenario.
type ScenarioSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Background   string `json:"background"`
	IsMultiRound bool   `json:"is_multi_round"`
	MaxRounds    int    `json:"max_rounds"`
}

// StartResult is returned by StartGame.
type StartResult struct {
	Session       *domain.GameSession `json:"session"`
	ScenarioTitle string              `json:"scenario_title"`
	Background    string              `json:"background"`
	ChildOpening  string              `json:"child_opening"`
}

// RoundResult is returned by SubmitResponse: the updated session plus
// everything the caller needs to render the exchange.
type RoundResult struct {
	Session    *domain.GameSession    `json:"session"`
	Evaluation domain.RoundEvaluation `json:"evaluation"`

	// Passed reports whether this submission met the round's threshold.
	Passed bool `json:"passed"`
	// RoundResolved reports whether the round was settled (passed, or failed
	// with all attempts used) and a history entry appended.
	RoundResolved bool `json:"round_resolved"`
	// CanRetry reports whether the same round accepts another attempt.
	CanRetry          bool `json:"can_retry"`
	AttemptsRemaining int  `json:"attempts_remaining"`

	ChildReply evaluation.ChildReply `json:"child_reply"`
	// ChildReplyFallback is set when the responder failed and the reply is a
	// canned placeholder.
	ChildReplyFallback bool `json:"child_reply_fallback"`

	// NextChildPrompt is the opening line of the next round, present only
	// when the session advanced.
	NextChildPrompt string `json:"next_child_prompt,omitempty"`

	GameCompleted bool                       `json:"game_completed"`
	Completion    *domain.ScenarioCompletion `json:"completion,omitempty"`
}

// ServiceError wraps engine errors with operation context so consumers can
// differentiate failures with errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "start_game", "submit_response")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewStartGameError returns a new ServiceError for the start_game operation.
func NewStartGameError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "start_game",
		Message:   message,
		Err:       err,
	}
}

// NewSubmitResponseError returns a new ServiceError for the submit_response operation.
func NewSubmitResponseError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "submit_response",
		Message:   message,
		Err:       err,
	}
}
