package domain

import (
	"errors"
	"strings"
)

// Default scoring parameters applied when a scenario or round does not
// override them.
const (
	// DefaultPassThreshold is the minimum total score a response needs to
	// pass a round, on the conventional 10-point scale.
	DefaultPassThreshold = 7

	// DefaultCriterionMaxScore is the per-criterion score ceiling used for
	// criteria not listed in the configured criteria table.
	DefaultCriterionMaxScore = 3
)

// LanguageCantonese is the language tag for Cantonese content.
// Any other value falls back to the English fields.
const LanguageCantonese = "zh-HK"

// Common validation errors for Scenario
var (
	ErrEmptyScenarioID      = errors.New("scenario ID cannot be empty")
	ErrEmptyScenarioTitle   = errors.New("scenario title cannot be empty")
	ErrScenarioNoRounds     = errors.New("multi-round scenario must define at least one round")
	ErrScenarioNoOpening    = errors.New("single-round scenario must define an opening line")
	ErrRoundNumberMismatch  = errors.New("scenario rounds must be numbered sequentially from 1")
	ErrRoundNoCriteria      = errors.New("scenario round must define at least one evaluation criterion")
	ErrInvalidAttemptLimit  = errors.New("max round attempts must be at least 1")
	ErrInvalidPassThreshold = errors.New("round pass threshold must be positive")
)

// RoundDefinition describes one round of a multi-round scenario: the child's
// state and prompt for the round, the criteria the parent's response is
// scored against, and the score required to pass.
type RoundDefinition struct {
	Number        int      `json:"number"         mapstructure:"round"`
	ChildState    string   `json:"child_state"    mapstructure:"child_state"`
	ChildPrompt   string   `json:"child_prompt"   mapstructure:"child_prompt"`
	ChildPromptZH string   `json:"child_prompt_zh,omitempty" mapstructure:"child_prompt_zh"`
	Criteria      []string `json:"criteria"       mapstructure:"evaluation_criteria"`
	PassThreshold int      `json:"pass_threshold" mapstructure:"pass_threshold"`
	// Technique is unlocked in the scenario completion when this round is passed.
	Technique string `json:"technique,omitempty" mapstructure:"technique"`
}

// Prompt returns the child's prompt for the round in the requested language.
func (r *RoundDefinition) Prompt(language string) string {
	if language == LanguageCantonese && r.ChildPromptZH != "" {
		return r.ChildPromptZH
	}
	return r.ChildPrompt
}

// Scenario is the immutable definition of a practice conversation: its
// background, the child's opening line, and the ordered rounds with their
// pass criteria. Scenarios are loaded once at startup and never mutated.
type Scenario struct {
	ID            string            `json:"id"             mapstructure:"id"`
	Title         string            `json:"title"          mapstructure:"case_name"`
	TitleZH       string            `json:"title_zh,omitempty" mapstructure:"case_name_zh"`
	Background    string            `json:"background"     mapstructure:"background_and_instructions"`
	BackgroundZH  string            `json:"background_zh,omitempty" mapstructure:"background_and_instructions_zh"`
	OpeningLine   string            `json:"opening_line"   mapstructure:"child_opening"`
	OpeningLineZH string            `json:"opening_line_zh,omitempty" mapstructure:"child_opening_zh"`
	IsMultiRound  bool              `json:"is_multi_round" mapstructure:"multi_round"`
	Rounds        []RoundDefinition `json:"rounds,omitempty" mapstructure:"rounds"`
	// MaxRoundAttempts bounds retries within a single round.
	MaxRoundAttempts int `json:"max_round_attempts" mapstructure:"max_round_attempts"`
}

// Validate checks if the Scenario has valid data.
// Returns an error if any field fails validation.
func (s *Scenario) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrEmptyScenarioID
	}

	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyScenarioTitle
	}

	if s.MaxRoundAttempts < 1 {
		return ErrInvalidAttemptLimit
	}

	if s.IsMultiRound {
		if len(s.Rounds) == 0 {
			return ErrScenarioNoRounds
		}
		for i := range s.Rounds {
			round := &s.Rounds[i]
			if round.Number != i+1 {
				return ErrRoundNumberMismatch
			}
			if len(round.Criteria) == 0 {
				return ErrRoundNoCriteria
			}
			if round.PassThreshold < 0 {
				return ErrInvalidPassThreshold
			}
		}
	} else if strings.TrimSpace(s.OpeningLine) == "" {
		return ErrScenarioNoOpening
	}

	return nil
}

// MaxRounds returns the number of rounds in the scenario.
// Single-round scenarios always have exactly one round.
func (s *Scenario) MaxRounds() int {
	if s.IsMultiRound {
		return len(s.Rounds)
	}
	return 1
}

// Round returns the definition for the given 1-indexed round number,
// or nil when the number is out of range or the scenario is single-round.
func (s *Scenario) Round(number int) *RoundDefinition {
	if !s.IsMultiRound {
		return nil
	}
	if number < 1 || number > len(s.Rounds) {
		return nil
	}
	return &s.Rounds[number-1]
}

// LocalizedTitle returns the scenario title in the requested language.
func (s *Scenario) LocalizedTitle(language string) string {
	if language == LanguageCantonese && s.TitleZH != "" {
		return s.TitleZH
	}
	return s.Title
}

// LocalizedBackground returns the scenario background in the requested language.
func (s *Scenario) LocalizedBackground(language string) string {
	if language == LanguageCantonese && s.BackgroundZH != "" {
		return s.BackgroundZH
	}
	return s.Background
}

// Opening returns the child's opening line for the given round in the
// requested language. For single-round scenarios the round number is ignored.
func (s *Scenario) Opening(roundNumber int, language string) string {
	if round := s.Round(roundNumber); round != nil {
		return round.Prompt(language)
	}
	if language == LanguageCantonese && s.OpeningLineZH != "" {
		return s.OpeningLineZH
	}
	return s.OpeningLine
}

// CriteriaFor returns the evaluation criteria for the given round.
// Single-round scenarios use the fixed tone/approach/respect rubric.
func (s *Scenario) CriteriaFor(roundNumber int) []string {
	if round := s.Round(roundNumber); round != nil {
		return round.Criteria
	}
	return []string{"tone_score", "approach_score", "respect_score"}
}

// ThresholdFor returns the pass threshold for the given round, falling back
// to DefaultPassThreshold when the round does not override it.
func (s *Scenario) ThresholdFor(roundNumber int) int {
	if round := s.Round(roundNumber); round != nil && round.PassThreshold > 0 {
		return round.PassThreshold
	}
	return DefaultPassThreshold
}
