package roleplay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/kanaptse/eduparent-api/internal/config"
	"github.com/kanaptse/eduparent-api/internal/domain"
	"github.com/kanaptse/eduparent-api/internal/evaluation"
	"github.com/kanaptse/eduparent-api/internal/events"
	"github.com/kanaptse/eduparent-api/internal/store"
)

// gameEngine implements the GameService interface.
type gameEngine struct {
	scenarios   store.ScenarioStore
	sessions    store.SessionStore
	evaluator   evaluation.Evaluator
	responder   evaluation.ResponderGenerator
	emitter     events.EventEmitter
	cfg         config.GameConfig
	criteriaMax domain.CriteriaMaxScores
	logger      *slog.Logger
}

// Ensure gameEngine implements GameService interface
var _ GameService = (*gameEngine)(nil)

// NewGameService creates the roleplay game engine.
// The criteria max-score table starts from the shipped defaults with entries
// from cfg.CriteriaMaxScores layered on top.
func NewGameService(
	scenarios store.ScenarioStore,
	sessions store.SessionStore,
	evaluator evaluation.Evaluator,
	responder evaluation.ResponderGenerator,
	emitter events.EventEmitter,
	cfg config.GameConfig,
	logger *slog.Logger,
) (GameService, error) {
	if scenarios == nil {
		return nil, fmt.Errorf("scenario store cannot be nil")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store cannot be nil")
	}
	if evaluator == nil {
		return nil, fmt.Errorf("evaluator cannot be nil")
	}
	if responder == nil {
		return nil, fmt.Errorf("responder generator cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("event emitter cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.PassThreshold <= 0 {
		cfg.PassThreshold = domain.DefaultPassThreshold
	}

	criteriaMax := domain.DefaultCriteriaMaxScores()
	for name, max := range cfg.CriteriaMaxScores {
		criteriaMax[name] = max
	}

	return &gameEngine{
		scenarios:   scenarios,
		sessions:    sessions,
		evaluator:   evaluator,
		responder:   responder,
		emitter:     emitter,
		cfg:         cfg,
		criteriaMax: criteriaMax,
		logger:      logger.With("component", "roleplay_engine"),
	}, nil
}

// GetAvailableScenarios implements GameService.GetAvailableScenarios.
func (e *gameEngine) GetAvailableScenarios(ctx context.Context, language string) ([]ScenarioSummary, error) {
	scenarios, err := e.scenarios.List(ctx)
	if err != nil {
		e.logger.Error("failed to list scenarios", "error", err)
		return nil, NewStartGameError("failed to list scenarios", err)
	}

	summaries := make([]ScenarioSummary, 0, len(scenarios))
	for _, scenario := range scenarios {
		summaries = append(summaries, ScenarioSummary{
			ID:           scenario.ID,
			Title:        scenario.LocalizedTitle(language),
			Background:   scenario.LocalizedBackground(language),
			IsMultiRound: scenario.IsMultiRound,
			MaxRounds:    scenario.MaxRounds(),
		})
	}
	return summaries, nil
}

// StartGame implements GameService.StartGame.
func (e *gameEngine) StartGame(
	ctx context.Context,
	userID uuid.UUID,
	scenarioID, language string,
) (*StartResult, error) {
	scenario, err := e.scenarios.Get(ctx, scenarioID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrScenarioNotFound
		}
		e.logger.Error("failed to load scenario",
			"scenario_id", scenarioID,
			"error", err)
		return nil, NewStartGameError("failed to load scenario", err)
	}

	session, err := domain.NewGameSession(userID, scenario, language)
	if err != nil {
		return nil, NewStartGameError("failed to create session", err)
	}

	if err := e.sessions.Save(ctx, session); err != nil {
		e.logger.Error("failed to save new session",
			"session_id", session.ID,
			"scenario_id", scenarioID,
			"error", err)
		return nil, NewStartGameError("failed to save session", err)
	}

	e.logger.Info("game started",
		"session_id", session.ID,
		"user_id", userID,
		"scenario_id", scenarioID,
		"max_rounds", session.MaxRounds)

	e.emit(ctx, events.TypeGameStarted, session.ID, userID, events.GameStartedPayload{
		ScenarioID: scenarioID,
		Language:   session.Language,
		MaxRounds:  session.MaxRounds,
	})

	return &StartResult{
		Session:       session,
		ScenarioTitle: scenario.LocalizedTitle(language),
		Background:    scenario.LocalizedBackground(language),
		ChildOpening:  scenario.Opening(1, language),
	}, nil
}

// SubmitResponse implements GameService.SubmitResponse.
//
// The transition works on a copy of the session: the stored state changes
// only after both the evaluator and the responder have returned, so an
// abandoned or cancelled call leaves no partial state behind. The one
// exception is the configurable attempt charge on evaluator failure.
func (e *gameEngine) SubmitResponse(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	responseText string,
) (*RoundResult, error) {
	session, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		e.logger.Error("failed to load session",
			"session_id", sessionID,
			"error", err)
		return nil, NewSubmitResponseError("failed to load session", err)
	}

	if session.UserID != userID {
		return nil, ErrSessionNotOwned
	}
	if session.GameCompleted {
		return nil, ErrSessionAlreadyCompleted
	}

	responseText = strings.TrimSpace(responseText)
	if responseText == "" {
		return nil, ErrEmptyResponse
	}

	scenario, err := e.scenarios.Get(ctx, session.ScenarioID)
	if err != nil {
		e.logger.Error("scenario missing for live session",
			"session_id", sessionID,
			"scenario_id", session.ScenarioID,
			"error", err)
		return nil, NewSubmitResponseError("failed to load scenario for session", err)
	}

	// All mutations happen on the copy until the final save.
	next := session.Clone()

	// Charge the attempt. A counter already at the limit means earlier
	// attempts were burned by evaluator failures; this submission then
	// resolves the round without incrementing further.
	if err := next.ConsumeAttempt(); err != nil && !errors.Is(err, domain.ErrAttemptsOutOfRange) {
		return nil, NewSubmitResponseError("failed to consume attempt", err)
	}
	finalAttempt := next.RoundAttempts >= next.MaxRoundAttempts

	evalCtx := e.evaluationContext(scenario, next)
	threshold := e.thresholdFor(scenario, next.CurrentRound)

	result, err := e.evaluate(ctx, responseText, evalCtx, scenario, next, threshold)
	if err != nil {
		if e.cfg.ConsumeAttemptOnEvaluationFailure && next.RoundAttempts != session.RoundAttempts {
			if saveErr := e.sessions.Save(ctx, next); saveErr != nil {
				e.logger.Error("failed to persist attempt charge after evaluation failure",
					"session_id", sessionID,
					"error", saveErr)
			}
		}
		e.logger.Warn("evaluation unavailable",
			"session_id", sessionID,
			"round", session.CurrentRound,
			"attempt_charged", e.cfg.ConsumeAttemptOnEvaluationFailure,
			"error", err)
		return nil, fmt.Errorf("%w: %v", ErrEvaluationUnavailable, err)
	}

	// The child's reply is produced regardless of pass/fail to keep the
	// conversation naturalistic. Responder failure is non-fatal.
	reply, replyErr := e.responder.Respond(ctx, result.TotalScore(), evalCtx)
	fallback := false
	if replyErr != nil {
		e.logger.Warn("responder unavailable, using placeholder reply",
			"session_id", sessionID,
			"round", session.CurrentRound,
			"error", replyErr)
		reply = placeholderReply(next.Language)
		fallback = true
	}

	// Both collaborators have returned; resolve the round on the copy.
	outcome, err := e.resolveRound(scenario, next, result, threshold, finalAttempt)
	if err != nil {
		return nil, NewSubmitResponseError("failed to resolve round", err)
	}
	outcome.ChildReply = reply
	outcome.ChildReplyFallback = fallback

	if err := next.Validate(); err != nil {
		return nil, NewSubmitResponseError("session invariant violated", err)
	}
	if err := e.sessions.Save(ctx, next); err != nil {
		e.logger.Error("failed to save session",
			"session_id", sessionID,
			"error", err)
		return nil, NewSubmitResponseError("failed to save session", err)
	}

	e.logger.Info("response processed",
		"session_id", sessionID,
		"round", session.CurrentRound,
		"score", result.TotalScore(),
		"passed", outcome.Passed,
		"round_resolved", outcome.RoundResolved,
		"game_completed", outcome.GameCompleted)

	if outcome.RoundResolved {
		summary := next.RoundsHistory[len(next.RoundsHistory)-1]
		e.emit(ctx, events.TypeRoundResolved, sessionID, userID, events.RoundResolvedPayload{
			RoundNumber:  summary.RoundNumber,
			Passed:       summary.Passed,
			Score:        summary.Score,
			AttemptsUsed: summary.AttemptsUsed,
		})
	}
	if outcome.GameCompleted {
		e.emit(ctx, events.TypeScenarioCompleted, sessionID, userID, events.ScenarioCompletedPayload{
			ScenarioID:      next.ScenarioID,
			FinalScore:      int(math.Round(outcome.Completion.OverallScore)),
			MasteryAchieved: outcome.Completion.MasteryAchieved,
			RoundsPassed:    outcome.Completion.RoundsPassed,
			Badges:          outcome.Completion.BadgesEarned,
		})
	}

	return outcome, nil
}

// emit publishes a lifecycle event. Event delivery is best-effort: the state
// change is already persisted, so a failing handler must not fail the call.
func (e *gameEngine) emit(ctx context.Context, eventType string, sessionID, userID uuid.UUID, payload interface{}) {
	event, err := events.NewGameEvent(eventType, sessionID, userID, payload)
	if err != nil {
		e.logger.Warn("failed to build game event",
			"event_type", eventType,
			"session_id", sessionID,
			"error", err)
		return
	}
	if err := e.emitter.EmitEvent(ctx, event); err != nil {
		e.logger.Warn("failed to emit game event",
			"event_type", eventType,
			"session_id", sessionID,
			"error", err)
	}
}

// evaluationContext builds the collaborator context for the session's
// current round.
func (e *gameEngine) evaluationContext(scenario *domain.Scenario, session *domain.GameSession) evaluation.Context {
	evalCtx := evaluation.Context{
		ScenarioBackground: scenario.LocalizedBackground(session.Language),
		ChildPrompt:        scenario.Opening(session.CurrentRound, session.Language),
		RoundNumber:        session.CurrentRound,
		Language:           session.Language,
	}
	if round := scenario.Round(session.CurrentRound); round != nil {
		evalCtx.ChildState = round.ChildState
	}
	return evalCtx
}

// thresholdFor returns the pass threshold for a round: the round's own
// override when set, the engine default otherwise.
func (e *gameEngine) thresholdFor(scenario *domain.Scenario, roundNumber int) int {
	if round := scenario.Round(roundNumber); round != nil && round.PassThreshold > 0 {
		return round.PassThreshold
	}
	return e.cfg.PassThreshold
}

// evaluate dispatches to the rubric matching the session shape. The
// evaluator is authoritative for the scores; the engine only applies policy
// to the returned totals.
func (e *gameEngine) evaluate(
	ctx context.Context,
	responseText string,
	evalCtx evaluation.Context,
	scenario *domain.Scenario,
	session *domain.GameSession,
	threshold int,
) (domain.RoundEvaluation, error) {
	if session.IsMultiRound {
		criteria := evaluation.Criteria{
			Names:         scenario.CriteriaFor(session.CurrentRound),
			MaxScores:     e.criteriaMax,
			PassThreshold: threshold,
		}
		return e.evaluator.EvaluateRound(ctx, responseText, evalCtx, criteria)
	}
	return e.evaluator.Evaluate(ctx, responseText, evalCtx)
}

// resolveRound applies the pass/fail policy to the session copy.
//
// A passing score resolves the round. A failing score with attempts left
// keeps the round open for a retry. A failing score on the final attempt
// resolves the round as failed, and progression continues regardless: a
// failed round never blocks the scenario, it only costs partial credit and
// mastery.
func (e *gameEngine) resolveRound(
	scenario *domain.Scenario,
	session *domain.GameSession,
	eval domain.RoundEvaluation,
	threshold int,
	finalAttempt bool,
) (*RoundResult, error) {
	passed := eval.TotalScore() >= threshold

	result := &RoundResult{
		Evaluation: eval,
		Passed:     passed,
	}

	if !passed && !finalAttempt {
		// Round stays open; no history entry until the round resolves.
		result.CanRetry = true
		result.AttemptsRemaining = session.AttemptsRemaining()
		result.Session = session
		return result, nil
	}

	summary := domain.RoundSummary{
		RoundNumber:  session.CurrentRound,
		Passed:       passed,
		Score:        eval.TotalScore(),
		AttemptsUsed: session.RoundAttempts,
	}
	if err := session.RecordRound(summary); err != nil {
		return nil, err
	}
	result.RoundResolved = true

	if session.IsLastRound() {
		completion := domain.NewScenarioCompletion(scenario, session.RoundsHistory, e.cfg.MasteryScoreThreshold)
		finalScore := int(math.Round(completion.OverallScore))
		if err := session.Complete(completion, finalScore); err != nil {
			return nil, err
		}
		result.GameCompleted = true
		result.Completion = completion
	} else {
		if err := session.AdvanceRound(); err != nil {
			return nil, err
		}
		result.AttemptsRemaining = session.AttemptsRemaining()
		result.NextChildPrompt = scenario.Opening(session.CurrentRound, session.Language)
	}

	result.Session = session
	return result, nil
}

// placeholderReply is the canned child reply used when the responder is
// unavailable.
func placeholderReply(language string) evaluation.ChildReply {
	if language == domain.LanguageCantonese {
		return evaluation.ChildReply{
			Text:    "小朋友靜靜咁望住你，等緊你講多啲。",
			Emotion: "neutral",
		}
	}
	return evaluation.ChildReply{
		Text:    "The child looks at you quietly, waiting to hear more.",
		Emotion: "neutral",
	}
}
