package domain

import "errors"

// Common validation errors for evaluations
var (
	ErrNegativeScore       = errors.New("criterion scores cannot be negative")
	ErrNoCriteriaScores    = errors.New("evaluation must contain at least one criterion score")
	ErrInvalidRoundNumber  = errors.New("evaluation round number must be at least 1")
	ErrInvalidMaxPossible  = errors.New("max possible score must be positive")
	ErrTotalScoreMismatch  = errors.New("total score must equal the sum of criterion scores")
	ErrTotalExceedsMaximum = errors.New("total score cannot exceed max possible score")
)

// RoundEvaluation is the tagged result of scoring a single submission.
// It has exactly two variants: SingleEvaluation for the legacy fixed rubric
// and MultiRoundEvaluation for per-round dynamic criteria. The engine only
// reads scores through this interface; the variants carry the
// rubric-specific breakdown.
type RoundEvaluation interface {
	// TotalScore is the sum of the per-criterion scores.
	TotalScore() int
	// MaxPossibleScore is the sum of the per-criterion maxima.
	MaxPossibleScore() int
	// FeedbackText is free-text coaching feedback for the parent.
	FeedbackText() string

	// roundEvaluation restricts implementations to this package.
	roundEvaluation()
}

// SingleEvaluation scores a response against the fixed tone/approach/respect
// rubric used by single-round scenarios: tone 0-4, approach 0-3, respect 0-3,
// for a total out of 10.
type SingleEvaluation struct {
	ToneScore     int    `json:"tone_score"`
	ApproachScore int    `json:"approach_score"`
	RespectScore  int    `json:"respect_score"`
	Total         int    `json:"total_score"`
	Feedback      string `json:"feedback"`
}

func (e SingleEvaluation) roundEvaluation() {}

// TotalScore implements RoundEvaluation.
func (e SingleEvaluation) TotalScore() int { return e.Total }

// MaxPossibleScore implements RoundEvaluation. The fixed rubric always
// scores out of 10.
func (e SingleEvaluation) MaxPossibleScore() int { return 10 }

// FeedbackText implements RoundEvaluation.
func (e SingleEvaluation) FeedbackText() string { return e.Feedback }

// Validate checks if the SingleEvaluation has valid data.
func (e SingleEvaluation) Validate() error {
	if e.ToneScore < 0 || e.ApproachScore < 0 || e.RespectScore < 0 {
		return ErrNegativeScore
	}
	if e.Total != e.ToneScore+e.ApproachScore+e.RespectScore {
		return ErrTotalScoreMismatch
	}
	if e.Total > e.MaxPossibleScore() {
		return ErrTotalExceedsMaximum
	}
	return nil
}

// MultiRoundEvaluation scores a response against the round's dynamic
// criteria set. Each criterion score is bounded by the configured
// per-criterion maximum; the breakdown and optional per-criterion feedback
// are preserved for rendering.
type MultiRoundEvaluation struct {
	RoundNumber      int               `json:"round_number"`
	CriteriaScores   map[string]int    `json:"criteria_scores"`
	Total            int               `json:"total_score"`
	MaxPossible      int               `json:"max_possible_score"`
	Feedback         string            `json:"feedback"`
	DetailedFeedback map[string]string `json:"detailed_feedback,omitempty"`
}

func (e MultiRoundEvaluation) roundEvaluation() {}

// TotalScore implements RoundEvaluation.
func (e MultiRoundEvaluation) TotalScore() int { return e.Total }

// MaxPossibleScore implements RoundEvaluation.
func (e MultiRoundEvaluation) MaxPossibleScore() int { return e.MaxPossible }

// FeedbackText implements RoundEvaluation.
func (e MultiRoundEvaluation) FeedbackText() string { return e.Feedback }

// Validate checks if the MultiRoundEvaluation has valid data.
func (e MultiRoundEvaluation) Validate() error {
	if e.RoundNumber < 1 {
		return ErrInvalidRoundNumber
	}
	if len(e.CriteriaScores) == 0 {
		return ErrNoCriteriaScores
	}
	sum := 0
	for _, score := range e.CriteriaScores {
		if score < 0 {
			return ErrNegativeScore
		}
		sum += score
	}
	if e.Total != sum {
		return ErrTotalScoreMismatch
	}
	if e.MaxPossible < 1 {
		return ErrInvalidMaxPossible
	}
	if e.Total > e.MaxPossible {
		return ErrTotalExceedsMaximum
	}
	return nil
}

// CriteriaMaxScores maps criterion names to the maximum score the evaluator
// may award for them. Unlisted criteria fall back to DefaultCriterionMaxScore.
type CriteriaMaxScores map[string]int

// MaxFor returns the score ceiling for a single criterion.
func (m CriteriaMaxScores) MaxFor(criterion string) int {
	if max, ok := m[criterion]; ok {
		return max
	}
	return DefaultCriterionMaxScore
}

// MaxPossible returns the summed score ceiling for a criteria set.
func (m CriteriaMaxScores) MaxPossible(criteria []string) int {
	total := 0
	for _, criterion := range criteria {
		total += m.MaxFor(criterion)
	}
	return total
}

// DefaultCriteriaMaxScores returns the standard per-criterion maxima used by
// the shipped scenarios. Callers may override individual entries via
// configuration.
func DefaultCriteriaMaxScores() CriteriaMaxScores {
	return CriteriaMaxScores{
		"emotion_acknowledgment": 3,
		"tone_empathy":           2,
		"solution_approach":      3,
		"fear_validation":        4,
		"concrete_reassurance":   3,
		"collaborative_approach": 3,
		"transition_strategy":    4,
		"child_agency":           3,
		"follow_through_clarity": 3,
	}
}
