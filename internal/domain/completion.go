package domain

// Badge names awarded in a ScenarioCompletion.
const (
	// BadgeScenarioMastery is awarded when every round was passed.
	BadgeScenarioMastery = "scenario_mastery"
	// BadgeExpertCommunicator is awarded when the overall score reaches the
	// configured mastery score threshold.
	BadgeExpertCommunicator = "expert_communicator"
	// BadgeFlawlessRun is awarded when every round was passed on its first attempt.
	BadgeFlawlessRun = "flawless_run"
)

// DefaultMasteryScoreThreshold is the overall score at which the
// expert_communicator badge is awarded.
const DefaultMasteryScoreThreshold = 9.0

// ScenarioCompletion summarizes a finished play-through. It is derived
// exactly once, at the terminal transition, from the session's round history.
type ScenarioCompletion struct {
	ScenarioID      string   `json:"scenario_id"`
	ScenarioTitle   string   `json:"scenario_title"`
	RoundsCompleted int      `json:"rounds_completed"`
	TotalRounds     int      `json:"total_rounds"`
	RoundsPassed    int      `json:"rounds_passed"`
	OverallScore    float64  `json:"overall_score"`
	MasteryAchieved bool     `json:"mastery_achieved"`
	BadgesEarned    []string `json:"badges_earned"`
	// TechniquesUnlocked lists the communication techniques attached to the
	// rounds the parent passed.
	TechniquesUnlocked []string `json:"techniques_unlocked"`
}

// NewScenarioCompletion derives the completion summary for a session.
// The overall score is the average score of the passed rounds (0 when none
// passed); mastery requires every round to have been passed. Badge and
// technique derivation follows which rounds were passed and on which attempt.
func NewScenarioCompletion(
	scenario *Scenario,
	history []RoundSummary,
	masteryScoreThreshold float64,
) *ScenarioCompletion {
	if masteryScoreThreshold <= 0 {
		masteryScoreThreshold = DefaultMasteryScoreThreshold
	}

	roundsPassed := 0
	passedScoreSum := 0
	allFirstAttempt := true
	var techniques []string

	for _, summary := range history {
		if !summary.Passed {
			allFirstAttempt = false
			continue
		}
		roundsPassed++
		passedScoreSum += summary.Score
		if summary.AttemptsUsed != 1 {
			allFirstAttempt = false
		}
		if round := scenario.Round(summary.RoundNumber); round != nil && round.Technique != "" {
			techniques = append(techniques, round.Technique)
		}
	}

	overall := 0.0
	if roundsPassed > 0 {
		overall = float64(passedScoreSum) / float64(roundsPassed)
	}

	mastery := roundsPassed == scenario.MaxRounds()

	var badges []string
	if mastery {
		badges = append(badges, BadgeScenarioMastery)
	}
	if overall >= masteryScoreThreshold {
		badges = append(badges, BadgeExpertCommunicator)
	}
	if mastery && allFirstAttempt {
		badges = append(badges, BadgeFlawlessRun)
	}

	return &ScenarioCompletion{
		ScenarioID:         scenario.ID,
		ScenarioTitle:      scenario.Title,
		RoundsCompleted:    len(history),
		TotalRounds:        scenario.MaxRounds(),
		RoundsPassed:       roundsPassed,
		OverallScore:       overall,
		MasteryAchieved:    mastery,
		BadgesEarned:       badges,
		TechniquesUnlocked: techniques,
	}
}
