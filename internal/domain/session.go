package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for GameSession
var (
	ErrEmptySessionID        = errors.New("session ID cannot be empty")
	ErrEmptySessionScenario  = errors.New("session scenario ID cannot be empty")
	ErrRoundOutOfRange       = errors.New("current round must be between 1 and max rounds")
	ErrAttemptsOutOfRange    = errors.New("round attempts must be between 0 and max round attempts")
	ErrHistoryTooLong        = errors.New("rounds history cannot exceed max rounds")
	ErrHistoryOutOfOrder     = errors.New("rounds history entries must be ordered by round number")
	ErrSessionCompleted      = errors.New("session is already completed")
	ErrSessionNotOnLastRound = errors.New("cannot advance past the last round")
)

// RoundSummary records the resolution of one round: whether it passed, the
// score that resolved it, and how many attempts were used. Entries are
// appended once per resolved round and never mutated.
type RoundSummary struct {
	RoundNumber  int  `json:"round_number"`
	Passed       bool `json:"passed"`
	Score        int  `json:"score"`
	AttemptsUsed int  `json:"attempts_used"`
}

// GameSession is the live, mutable progress record for one play-through of a
// scenario. It is owned by the game engine for its lifetime: created by
// StartGame, mutated only through SubmitResponse, and immutable once
// GameCompleted is true.
//
// Scenario limits are denormalized onto the session at start so that its
// invariants can be checked without re-loading the scenario.
type GameSession struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	ScenarioID string    `json:"scenario_id"`
	Language   string    `json:"language"`

	IsMultiRound     bool `json:"is_multi_round"`
	MaxRounds        int  `json:"max_rounds"`
	MaxRoundAttempts int  `json:"max_round_attempts"`

	// CurrentRound is 1-indexed; RoundAttempts resets to 0 at every round start.
	CurrentRound  int            `json:"current_round"`
	RoundAttempts int            `json:"round_attempts"`
	RoundsHistory []RoundSummary `json:"rounds_history"`

	GameCompleted bool                `json:"game_completed"`
	FinalScore    *int                `json:"final_score,omitempty"`
	Completion    *ScenarioCompletion `json:"completion,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGameSession creates a session for the given scenario positioned at
// round 1 with no attempts used. Returns an error if validation fails.
func NewGameSession(userID uuid.UUID, scenario *Scenario, language string) (*GameSession, error) {
	session := &GameSession{
		ID:               uuid.New(),
		UserID:           userID,
		ScenarioID:       scenario.ID,
		Language:         language,
		IsMultiRound:     scenario.IsMultiRound,
		MaxRounds:        scenario.MaxRounds(),
		MaxRoundAttempts: scenario.MaxRoundAttempts,
		CurrentRound:     1,
		RoundAttempts:    0,
		RoundsHistory:    nil,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks the session invariants. It holds before and after every
// engine transition.
func (s *GameSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}

	if s.ScenarioID == "" {
		return ErrEmptySessionScenario
	}

	if s.MaxRounds < 1 || s.CurrentRound < 1 || s.CurrentRound > s.MaxRounds {
		return ErrRoundOutOfRange
	}

	if s.MaxRoundAttempts < 1 || s.RoundAttempts < 0 || s.RoundAttempts > s.MaxRoundAttempts {
		return ErrAttemptsOutOfRange
	}

	if len(s.RoundsHistory) > s.MaxRounds {
		return ErrHistoryTooLong
	}

	for i, summary := range s.RoundsHistory {
		if summary.RoundNumber != i+1 {
			return ErrHistoryOutOfOrder
		}
	}

	return nil
}

// CanRetry reports whether the current round has attempts remaining.
func (s *GameSession) CanRetry() bool {
	return !s.GameCompleted && s.RoundAttempts < s.MaxRoundAttempts
}

// AttemptsRemaining returns the attempts left for the current round.
func (s *GameSession) AttemptsRemaining() int {
	remaining := s.MaxRoundAttempts - s.RoundAttempts
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsLastRound reports whether the session is on its final round.
func (s *GameSession) IsLastRound() bool {
	return s.CurrentRound >= s.MaxRounds
}

// ConsumeAttempt increments the round attempt counter.
// Returns ErrSessionCompleted on a completed session and
// ErrAttemptsOutOfRange when the limit is already reached.
func (s *GameSession) ConsumeAttempt() error {
	if s.GameCompleted {
		return ErrSessionCompleted
	}
	if s.RoundAttempts >= s.MaxRoundAttempts {
		return ErrAttemptsOutOfRange
	}
	s.RoundAttempts++
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// RecordRound appends the resolution of the current round to the history.
// The history is append-only and strictly ordered by round number.
func (s *GameSession) RecordRound(summary RoundSummary) error {
	if s.GameCompleted {
		return ErrSessionCompleted
	}
	if len(s.RoundsHistory) >= s.MaxRounds {
		return ErrHistoryTooLong
	}
	if summary.RoundNumber != len(s.RoundsHistory)+1 || summary.RoundNumber != s.CurrentRound {
		return ErrHistoryOutOfOrder
	}
	s.RoundsHistory = append(s.RoundsHistory, summary)
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// AdvanceRound moves the session to the next round and resets the attempt
// counter. Returns ErrSessionNotOnLastRound when already on the final round.
func (s *GameSession) AdvanceRound() error {
	if s.GameCompleted {
		return ErrSessionCompleted
	}
	if s.IsLastRound() {
		return ErrSessionNotOnLastRound
	}
	s.CurrentRound++
	s.RoundAttempts = 0
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Clone returns a deep copy of the session. Stores hand out clones so that
// callers cannot mutate persisted state through shared slices or pointers.
func (s *GameSession) Clone() *GameSession {
	clone := *s
	if s.RoundsHistory != nil {
		clone.RoundsHistory = make([]RoundSummary, len(s.RoundsHistory))
		copy(clone.RoundsHistory, s.RoundsHistory)
	}
	if s.FinalScore != nil {
		score := *s.FinalScore
		clone.FinalScore = &score
	}
	if s.Completion != nil {
		completion := *s.Completion
		completion.BadgesEarned = append([]string(nil), s.Completion.BadgesEarned...)
		completion.TechniquesUnlocked = append([]string(nil), s.Completion.TechniquesUnlocked...)
		clone.Completion = &completion
	}
	return &clone
}

// Complete marks the session terminal with its completion summary.
// GameCompleted is monotonic: completing an already-completed session fails.
func (s *GameSession) Complete(completion *ScenarioCompletion, finalScore int) error {
	if s.GameCompleted {
		return ErrSessionCompleted
	}
	s.GameCompleted = true
	s.Completion = completion
	s.FinalScore = &finalScore
	s.UpdatedAt = time.Now().UTC()
	return nil
}
