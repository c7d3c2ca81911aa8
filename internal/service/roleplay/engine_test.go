package roleplay_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/kanaptse/eduparent-api/internal/config"
	"github.com/kanaptse/eduparent-api/internal/domain"
	"github.com/kanaptse/eduparent-api/internal/evaluation"
	"github.com/kanaptse/eduparent-api/internal/events"
	"github.com/kanaptse/eduparent-api/internal/platform/memory"
	"github.com/kanaptse/eduparent-api/internal/service/roleplay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGameConfig() config.GameConfig {
	return config.GameConfig{
		PassThreshold:                     7,
		MaxRoundAttempts:                  3,
		MasteryScoreThreshold:             9.0,
		ConsumeAttemptOnEvaluationFailure: true,
	}
}

func singleRoundScenario(maxAttempts int) *domain.Scenario {
	return &domain.Scenario{
		ID:               "messy_room",
		Title:            "Messy Room",
		Background:       "The room has not been cleaned in weeks.",
		OpeningLine:      "It's my room, why do you even care?",
		MaxRoundAttempts: maxAttempts,
	}
}

func twoRoundScenario() *domain.Scenario {
	return &domain.Scenario{
		ID:           "school_dropoff_anxiety",
		Title:        "School Drop-off Anxiety",
		Background:   "Your child clings to you at the school gate.",
		IsMultiRound: true,
		Rounds: []domain.RoundDefinition{
			{
				Number:        1,
				ChildState:    "anxious",
				ChildPrompt:   "I don't want to go!",
				Criteria:      []string{"emotion_acknowledgment", "tone_empathy", "solution_approach"},
				PassThreshold: 7,
				Technique:     "emotion_first",
			},
			{
				Number:        2,
				ChildState:    "calming",
				ChildPrompt:   "But what if you forget to pick me up?",
				Criteria:      []string{"fear_validation", "concrete_reassurance"},
				PassThreshold: 7,
				Technique:     "concrete_promises",
			},
		},
		MaxRoundAttempts: 3,
	}
}

type engineFixture struct {
	svc       roleplay.GameService
	sessions  *memory.SessionStore
	evaluator *mockEvaluator
	responder *mockResponder
	emitter   *recordingEmitter
}

func newEngineFixture(t *testing.T, cfg config.GameConfig, scenarios ...*domain.Scenario) *engineFixture {
	t.Helper()

	sessions := memory.NewSessionStore()
	evaluator := &mockEvaluator{}
	responder := &mockResponder{
		reply: evaluation.ChildReply{Text: "Okay...", Emotion: "calming"},
	}
	emitter := &recordingEmitter{}

	svc, err := roleplay.NewGameService(
		newMockScenarioStore(scenarios...),
		sessions,
		evaluator,
		responder,
		emitter,
		cfg,
		slog.Default(),
	)
	require.NoError(t, err)

	return &engineFixture{
		svc:       svc,
		sessions:  sessions,
		evaluator: evaluator,
		responder: responder,
		emitter:   emitter,
	}
}

func (f *engineFixture) start(t *testing.T, userID uuid.UUID, scenarioID string) *roleplay.StartResult {
	t.Helper()
	started, err := f.svc.StartGame(context.Background(), userID, scenarioID, "en")
	require.NoError(t, err)
	return started
}

func TestNewGameService_NilDependencies(t *testing.T) {
	t.Parallel()

	_, err := roleplay.NewGameService(nil, memory.NewSessionStore(), &mockEvaluator{}, &mockResponder{}, &recordingEmitter{}, testGameConfig(), slog.Default())
	assert.Error(t, err)

	_, err = roleplay.NewGameService(newMockScenarioStore(), nil, &mockEvaluator{}, &mockResponder{}, &recordingEmitter{}, testGameConfig(), slog.Default())
	assert.Error(t, err)

	_, err = roleplay.NewGameService(newMockScenarioStore(), memory.NewSessionStore(), nil, &mockResponder{}, &recordingEmitter{}, testGameConfig(), slog.Default())
	assert.Error(t, err)

	_, err = roleplay.NewGameService(newMockScenarioStore(), memory.NewSessionStore(), &mockEvaluator{}, nil, &recordingEmitter{}, testGameConfig(), slog.Default())
	assert.Error(t, err)

	_, err = roleplay.NewGameService(newMockScenarioStore(), memory.NewSessionStore(), &mockEvaluator{}, &mockResponder{}, nil, testGameConfig(), slog.Default())
	assert.Error(t, err)
}

func TestStartGame_ScenarioNotFound(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), singleRoundScenario(3))
	_, err := f.svc.StartGame(context.Background(), uuid.New(), "no_such_scenario", "en")
	assert.ErrorIs(t, err, roleplay.ErrScenarioNotFound)
}

func TestStartGame_CreatesAndPersistsSession(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), twoRoundScenario())
	userID := uuid.New()

	started := f.start(t, userID, "school_dropoff_anxiety")

	assert.Equal(t, 1, started.Session.CurrentRound)
	assert.Equal(t, 0, started.Session.RoundAttempts)
	assert.False(t, started.Session.GameCompleted)
	assert.Empty(t, started.Session.RoundsHistory)
	assert.Equal(t, "I don't want to go!", started.ChildOpening)

	stored, err := f.sessions.Get(context.Background(), started.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, stored.UserID)
	assert.Equal(t, "school_dropoff_anxiety", stored.ScenarioID)
}

func TestSubmitResponse_SessionNotFound(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), singleRoundScenario(3))
	_, err := f.svc.SubmitResponse(context.Background(), uuid.New(), uuid.New(), "a response")
	assert.ErrorIs(t, err, roleplay.ErrSessionNotFound)
}

func TestSubmitResponse_SessionNotOwned(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), singleRoundScenario(3))
	started := f.start(t, uuid.New(), "messy_room")

	_, err := f.svc.SubmitResponse(context.Background(), uuid.New(), started.Session.ID, "a response")
	assert.ErrorIs(t, err, roleplay.ErrSessionNotOwned)
	assert.Equal(t, 0, f.evaluator.callCount())
}

func TestSubmitResponse_EmptyResponse(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), singleRoundScenario(3))
	userID := uuid.New()
	started := f.start(t, userID, "messy_room")

	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := f.svc.SubmitResponse(context.Background(), userID, started.Session.ID, text)
		assert.ErrorIs(t, err, roleplay.ErrEmptyResponse)
	}

	// No attempt consumed and the evaluator never invoked.
	assert.Equal(t, 0, f.evaluator.callCount())
	stored, err := f.sessions.Get(context.Background(), started.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.RoundAttempts)
}

func TestSubmitResponse_SingleRoundPassFirstAttempt(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), singleRoundScenario(3))
	f.evaluator.script = []scriptedEvaluation{{single: singleEval(9)}}

	userID := uuid.New()
	started := f.start(t, userID, "messy_room")

	result, err := f.svc.SubmitResponse(context.Background(), userID, started.Session.ID, "I hear you, let's figure it out together.")
	require.NoError(t, err)

	assert.True(t, result.Passed)
	assert.True(t, result.RoundResolved)
	assert.True(t, result.GameCompleted)
	assert.Equal(t, 9, result.Evaluation.TotalScore())
	assert.Equal(t, "Okay...", result.ChildReply.Text)
	assert.False(t, result.ChildReplyFallback)
	assert.Equal(t, 9, f.responder.lastScore)

	session := result.Session
	require.NotNil(t, session.FinalScore)
	assert.Equal(t, 9, *session.FinalScore)
	require.Len(t, session.RoundsHistory, 1)
	assert.Equal(t, domain.RoundSummary{RoundNumber: 1, Passed: true, Score: 9, AttemptsUsed: 1}, session.RoundsHistory[0])

	require.NotNil(t, result.Completion)
	assert.Equal(t, 9.0, result.Completion.OverallScore)
	assert.True(t, result.Completion.MasteryAchieved)
	assert.Contains(t, result.Completion.BadgesEarned, domain.BadgeScenarioMastery)
	assert.Contains(t, result.Completion.BadgesEarned, domain.BadgeExpertCommunicator)
	assert.Contains(t, result.Completion.BadgesEarned, domain.BadgeFlawlessRun)
}

func TestGameLifecycleEvents(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), twoRoundScenario())
	f.evaluator.script = []scriptedEvaluation{
		{multi: multiEval(1, 5, 10)}, // retry, no event
		{multi: multiEval(1, 8, 10)},
		{multi: multiEval(2, 7, 10)},
	}

	userID := uuid.New()
	started := f.start(t, userID, "school_dropoff_anxiety")
	ctx := context.Background()

	startEvents := f.emitter.eventsOfType(events.TypeGameStarted)
	require.Len(t, startEvents, 1)
	assert.Equal(t, started.Session.ID, startEvents[0].SessionID)
	assert.Equal(t, userID, startEvents[0].UserID)
	var startPayload events.GameStartedPayload
	require.NoError(t, startEvents[0].UnmarshalPayload(&startPayload))
	assert.Equal(t, "school_dropoff_anxiety", startPayload.ScenarioID)
	assert.Equal(t, 2, startPayload.MaxRounds)

	for _, text := range []string{"Go on, you'll be fine.", "I know the gate feels scary.", "I'll wave from the fence until you're inside."} {
		_, err := f.svc.SubmitResponse(ctx, userID, started.Session.ID, text)
		require.NoError(t, err)
	}

	// The failed first attempt left the round open, so only two rounds resolved.
	resolved := f.emitter.eventsOfType(events.TypeRoundResolved)
	require.Len(t, resolved, 2)
	var round1 events.RoundResolvedPayload
	require.NoError(t, resolved[0].UnmarshalPayload(&round1))
	assert.Equal(t, events.RoundResolvedPayload{RoundNumber: 1, Passed: true, Score: 8, AttemptsUsed: 2}, round1)

	completed := f.emitter.eventsOfType(events.TypeScenarioCompleted)
	require.Len(t, completed, 1)
	var completion events.ScenarioCompletedPayload
	require.NoError(t, completed[0].UnmarshalPayload(&completion))
	assert.Equal(t, "school_dropoff_anxiety", completion.ScenarioID)
	assert.True(t, completion.MasteryAchieved)
	assert.Equal(t, 2, completion.RoundsPassed)
	assert.Equal(t, 8, completion.FinalScore)
}

func TestSubmitResponse_EmitterFailureDoesNotFailCall(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), singleRoundScenario(3))
	f.emitter.err = errors.New("audit sink down")
	f.evaluator.script = []scriptedEvaluation{{single: singleEval(9)}}

	userID := uuid.New()
	started := f.start(t, userID, "messy_room")

	result, err := f.svc.SubmitResponse(context.Background(), userID, started.Session.ID, "Let's sort this out together.")
	require.NoError(t, err)
	assert.True(t, result.GameCompleted)
}

func TestSubmitResponse_SingleRoundExhaustsAttempts(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), singleRoundScenario(2))
	f.evaluator.script = []scriptedEvaluation{
		{single: singleEval(4)},
		{single: singleEval(5)},
	}

	userID := uuid.New()
	started := f.start(t, userID, "messy_room")
	ctx := context.Background()

	first, err := f.svc.SubmitResponse(ctx, userID, started.Session.ID, "Clean it now!")
	require.NoError(t, err)
	assert.False(t, first.Passed)
	assert.False(t, first.RoundResolved)
	assert.True(t, first.CanRetry)
	assert.Equal(t, 1, first.AttemptsRemaining)
	assert.Empty(t, first.Session.RoundsHistory)

	second, err := f.svc.SubmitResponse(ctx, userID, started.Session.ID, "Please clean it.")
	require.NoError(t, err)
	assert.False(t, second.Passed)
	assert.True(t, second.RoundResolved)
	assert.True(t, second.GameCompleted)
	assert.False(t, second.CanRetry)

	session := second.Session
	require.Len(t, session.RoundsHistory, 1)
	assert.Equal(t, domain.RoundSummary{RoundNumber: 1, Passed: false, Score: 5, AttemptsUsed: 2}, session.RoundsHistory[0])

	require.NotNil(t, second.Completion)
	assert.False(t, second.Completion.MasteryAchieved)
	assert.Equal(t, 0.0, second.Completion.OverallScore)
	assert.Empty(t, second.Completion.BadgesEarned)
}

func TestSubmitResponse_TwoRoundsWithRetry(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), twoRoundScenario())
	f.evaluator.script = []scriptedEvaluation{
		{multi: multiEval(1, 8, 8)},
		{multi: multiEval(2, 5, 7)},
		{multi: multiEval(2, 7, 7)},
	}

	userID := uuid.New()
	started := f.start(t, userID, "school_dropoff_anxiety")
	ctx := context.Background()

	// Round 1 passes on the first attempt.
	r1, err := f.svc.SubmitResponse(ctx, userID, started.Session.ID, "You're scared, and that's okay.")
	require.NoError(t, err)
	assert.True(t, r1.Passed)
	assert.False(t, r1.GameCompleted)
	assert.Equal(t, 2, r1.Session.CurrentRound)
	assert.Equal(t, 0, r1.Session.RoundAttempts)
	assert.Equal(t, "But what if you forget to pick me up?", r1.NextChildPrompt)

	// Round 2 fails once, then passes.
	r2a, err := f.svc.SubmitResponse(ctx, userID, started.Session.ID, "Don't be silly.")
	require.NoError(t, err)
	assert.False(t, r2a.Passed)
	assert.True(t, r2a.CanRetry)
	assert.Equal(t, 2, r2a.AttemptsRemaining)

	r2b, err := f.svc.SubmitResponse(ctx, userID, started.Session.ID, "I will be at the gate at three, I promise.")
	require.NoError(t, err)
	assert.True(t, r2b.Passed)
	assert.True(t, r2b.GameCompleted)

	session := r2b.Session
	require.Len(t, session.RoundsHistory, 2)
	assert.Equal(t, domain.RoundSummary{RoundNumber: 1, Passed: true, Score: 8, AttemptsUsed: 1}, session.RoundsHistory[0])
	assert.Equal(t, domain.RoundSummary{RoundNumber: 2, Passed: true, Score: 7, AttemptsUsed: 2}, session.RoundsHistory[1])

	completion := r2b.Completion
	require.NotNil(t, completion)
	assert.True(t, completion.MasteryAchieved)
	assert.InDelta(t, 7.5, completion.OverallScore, 0.001)
	// Mastery without flawless: round 2 needed a retry.
	assert.Contains(t, completion.BadgesEarned, domain.BadgeScenarioMastery)
	assert.NotContains(t, completion.BadgesEarned, domain.BadgeFlawlessRun)
	assert.NotContains(t, completion.BadgesEarned, domain.BadgeExpertCommunicator)
	assert.Equal(t, []string{"emotion_first", "concrete_promises"}, completion.TechniquesUnlocked)
}

func TestSubmitResponse_FailedRoundStillAdvances(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), twoRoundScenario())
	f.evaluator.script = []scriptedEvaluation{
		{multi: multiEval(1, 2, 8)},
		{multi: multiEval(1, 3, 8)},
		{multi: multiEval(1, 4, 8)},
		{multi: multiEval(2, 7, 7)},
	}

	userID := uuid.New()
	started := f.start(t, userID, "school_dropoff_anxiety")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		r, err := f.svc.SubmitResponse(ctx, userID, started.Session.ID, "Stop crying.")
		require.NoError(t, err)
		assert.True(t, r.CanRetry)
	}

	// Third failing attempt resolves round 1 as failed and advances anyway.
	third, err := f.svc.SubmitResponse(ctx, userID, started.Session.ID, "Stop crying.")
	require.NoError(t, err)
	assert.False(t, third.Passed)
	assert.True(t, third.RoundResolved)
	assert.False(t, third.GameCompleted)
	assert.Equal(t, 2, third.Session.CurrentRound)
	assert.Equal(t, "But what if you forget to pick me up?", third.NextChildPrompt)
	require.Len(t, third.Session.RoundsHistory, 1)
	assert.Equal(t, domain.RoundSummary{RoundNumber: 1, Passed: false, Score: 4, AttemptsUsed: 3}, third.Session.RoundsHistory[0])

	// Scenario still completes after the last round, without mastery.
	last, err := f.svc.SubmitResponse(ctx, userID, started.Session.ID, "I promise I'll be there.")
	require.NoError(t, err)
	assert.True(t, last.GameCompleted)
	require.NotNil(t, last.Completion)
	assert.False(t, last.Completion.MasteryAchieved)
	assert.Equal(t, 1, last.Completion.RoundsPassed)
	assert.Equal(t, 2, last.Completion.RoundsCompleted)
	assert.Equal(t, []string{"concrete_promises"}, last.Completion.TechniquesUnlocked)
}

func TestSubmitResponse_CompletedSessionRejected(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), singleRoundScenario(3))
	f.evaluator.script = []scriptedEvaluation{{single: singleEval(9)}}

	userID := uuid.New()
	started := f.start(t, userID, "messy_room")
	ctx := context.Background()

	done, err := f.svc.SubmitResponse(ctx, userID, started.Session.ID, "Let's tidy together.")
	require.NoError(t, err)
	require.True(t, done.GameCompleted)

	before, err := f.sessions.Get(ctx, started.Session.ID)
	require.NoError(t, err)

	_, err = f.svc.SubmitResponse(ctx, userID, started.Session.ID, "One more try.")
	assert.ErrorIs(t, err, roleplay.ErrSessionAlreadyCompleted)

	// Idempotent rejection: session unchanged.
	after, err := f.sessions.Get(ctx, started.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSubmitResponse_EvaluatorFailureConsumesAttempt(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), singleRoundScenario(3))
	f.evaluator.script = []scriptedEvaluation{{err: evaluation.ErrTransientFailure}}

	userID := uuid.New()
	started := f.start(t, userID, "messy_room")
	ctx := context.Background()

	_, err := f.svc.SubmitResponse(ctx, userID, started.Session.ID, "A fine response.")
	assert.ErrorIs(t, err, roleplay.ErrEvaluationUnavailable)

	// The attempt is charged so a flaky dependency cannot bypass the limit.
	stored, err := f.sessions.Get(ctx, started.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.RoundAttempts)
	assert.Empty(t, stored.RoundsHistory)
	assert.False(t, stored.GameCompleted)
}

func TestSubmitResponse_EvaluatorFailureWithoutAttemptCharge(t *testing.T) {
	t.Parallel()

	cfg := testGameConfig()
	cfg.ConsumeAttemptOnEvaluationFailure = false

	f := newEngineFixture(t, cfg, singleRoundScenario(3))
	f.evaluator.script = []scriptedEvaluation{{err: evaluation.ErrTransientFailure}}

	userID := uuid.New()
	started := f.start(t, userID, "messy_room")
	ctx := context.Background()

	_, err := f.svc.SubmitResponse(ctx, userID, started.Session.ID, "A fine response.")
	assert.ErrorIs(t, err, roleplay.ErrEvaluationUnavailable)

	stored, err := f.sessions.Get(ctx, started.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.RoundAttempts)
}

func TestSubmitResponse_AttemptsBurnedByFailuresResolveOnNextScore(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), singleRoundScenario(2))
	f.evaluator.script = []scriptedEvaluation{
		{err: evaluation.ErrTransientFailure},
		{err: evaluation.ErrTransientFailure},
		{single: singleEval(5)},
	}

	userID := uuid.New()
	started := f.start(t, userID, "messy_room")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.svc.SubmitResponse(ctx, userID, started.Session.ID, "Try again.")
		assert.ErrorIs(t, err, roleplay.ErrEvaluationUnavailable)
	}

	// Both attempts are burned; the next scored submission is the final one.
	result, err := f.svc.SubmitResponse(ctx, userID, started.Session.ID, "Try again.")
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.True(t, result.RoundResolved)
	assert.True(t, result.GameCompleted)
	require.Len(t, result.Session.RoundsHistory, 1)
	assert.Equal(t, 2, result.Session.RoundsHistory[0].AttemptsUsed)
}

func TestSubmitResponse_ResponderFailureDegradesToPlaceholder(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), singleRoundScenario(3))
	f.evaluator.script = []scriptedEvaluation{{single: singleEval(8)}}
	f.responder.err = errors.New("responder timeout")

	userID := uuid.New()
	started := f.start(t, userID, "messy_room")

	result, err := f.svc.SubmitResponse(context.Background(), userID, started.Session.ID, "Let's do it together.")
	require.NoError(t, err)

	// The round outcome is still applied; only the reply degrades.
	assert.True(t, result.Passed)
	assert.True(t, result.GameCompleted)
	assert.True(t, result.ChildReplyFallback)
	assert.NotEmpty(t, result.ChildReply.Text)
	assert.Equal(t, "neutral", result.ChildReply.Emotion)
}

func TestSubmitResponse_InvariantsHoldAfterEveryCall(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), twoRoundScenario())
	f.evaluator.script = []scriptedEvaluation{
		{multi: multiEval(1, 3, 8)},
		{multi: multiEval(1, 8, 8)},
		{multi: multiEval(2, 2, 7)},
		{multi: multiEval(2, 2, 7)},
		{multi: multiEval(2, 2, 7)},
	}

	userID := uuid.New()
	started := f.start(t, userID, "school_dropoff_anxiety")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := f.svc.SubmitResponse(ctx, userID, started.Session.ID, "A response.")
		require.NoError(t, err)

		session := result.Session
		require.NoError(t, session.Validate())
		assert.GreaterOrEqual(t, session.CurrentRound, 1)
		assert.LessOrEqual(t, session.CurrentRound, session.MaxRounds)
		assert.GreaterOrEqual(t, session.RoundAttempts, 0)
		assert.LessOrEqual(t, session.RoundAttempts, session.MaxRoundAttempts)
		assert.LessOrEqual(t, len(session.RoundsHistory), session.MaxRounds)
		for j, summary := range session.RoundsHistory {
			assert.Equal(t, j+1, summary.RoundNumber)
		}

		if session.GameCompleted {
			break
		}
	}
}

func TestGetAvailableScenarios(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), singleRoundScenario(3), twoRoundScenario())

	summaries, err := f.svc.GetAvailableScenarios(context.Background(), "en")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := make(map[string]roleplay.ScenarioSummary)
	for _, s := range summaries {
		byID[s.ID] = s
	}
	assert.Equal(t, 1, byID["messy_room"].MaxRounds)
	assert.False(t, byID["messy_room"].IsMultiRound)
	assert.Equal(t, 2, byID["school_dropoff_anxiety"].MaxRounds)
	assert.True(t, byID["school_dropoff_anxiety"].IsMultiRound)
}

func TestSubmitResponse_EvaluationContext(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGameConfig(), twoRoundScenario())
	f.evaluator.script = []scriptedEvaluation{{multi: multiEval(1, 8, 8)}}

	userID := uuid.New()
	started := f.start(t, userID, "school_dropoff_anxiety")

	_, err := f.svc.SubmitResponse(context.Background(), userID, started.Session.ID, "You're scared, that's okay.")
	require.NoError(t, err)

	assert.Equal(t, 1, f.evaluator.lastCtx.RoundNumber)
	assert.Equal(t, "anxious", f.evaluator.lastCtx.ChildState)
	assert.Equal(t, "I don't want to go!", f.evaluator.lastCtx.ChildPrompt)
	assert.Equal(t, "en", f.evaluator.lastCtx.Language)
}
