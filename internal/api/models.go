package api

import (
	"github.com/google/uuid"
	"github.com/kanaptse/eduparent-api/internal/domain"
	"github.com/kanaptse/eduparent-api/internal/service/roleplay"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT used for API authorization.
	AccessToken string `json:"token"`

	// RefreshToken is the JWT used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires.
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// StartGameRequest defines the payload for starting a roleplay session.
type StartGameRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
	Language   string `json:"language,omitempty"`
}

// StartGameResponse defines the successful response for the game start endpoint.
type StartGameResponse struct {
	SessionID     uuid.UUID `json:"session_id"`
	ScenarioID    string    `json:"scenario_id"`
	ScenarioTitle string    `json:"scenario_title"`
	Background    string    `json:"background"`
	ChildOpening  string    `json:"child_opening"`
	CurrentRound  int       `json:"current_round"`
	MaxRounds     int       `json:"max_rounds"`
	MaxAttempts   int       `json:"max_attempts"`
}

// SubmitResponseRequest defines the payload for submitting a parent response.
type SubmitResponseRequest struct {
	ResponseText string `json:"response_text" validate:"required"`
}

// SubmitResponseResponse defines the successful response for the respond endpoint.
type SubmitResponseResponse struct {
	SessionID uuid.UUID `json:"session_id"`

	Evaluation domain.RoundEvaluation `json:"evaluation"`
	Passed     bool                   `json:"passed"`

	ChildReply         string `json:"child_reply"`
	ChildEmotion       string `json:"child_emotion"`
	ChildReplyFallback bool   `json:"child_reply_fallback,omitempty"`

	RoundResolved     bool   `json:"round_resolved"`
	CanRetry          bool   `json:"can_retry"`
	AttemptsRemaining int    `json:"attempts_remaining"`
	CurrentRound      int    `json:"current_round"`
	NextChildPrompt   string `json:"next_child_prompt,omitempty"`

	GameCompleted bool                       `json:"game_completed"`
	FinalScore    *int                       `json:"final_score,omitempty"`
	Completion    *domain.ScenarioCompletion `json:"completion,omitempty"`
}

// ScenarioListResponse defines the response for the scenario listing endpoint.
type ScenarioListResponse struct {
	Scenarios []roleplay.ScenarioSummary `json:"scenarios"`
}

// newSubmitResponseResponse maps an engine RoundResult onto the wire shape.
func newSubmitResponseResponse(result *roleplay.RoundResult) SubmitResponseResponse {
	return SubmitResponseResponse{
		SessionID:          result.Session.ID,
		Evaluation:         result.Evaluation,
		Passed:             result.Passed,
		ChildReply:         result.ChildReply.Text,
		ChildEmotion:       result.ChildReply.Emotion,
		ChildReplyFallback: result.ChildReplyFallback,
		RoundResolved:      result.RoundResolved,
		CanRetry:           result.CanRetry,
		AttemptsRemaining:  result.AttemptsRemaining,
		CurrentRound:       result.Session.CurrentRound,
		NextChildPrompt:    result.NextChildPrompt,
		GameCompleted:      result.GameCompleted,
		FinalScore:         result.Session.FinalScore,
		Completion:         result.Completion,
	}
}
