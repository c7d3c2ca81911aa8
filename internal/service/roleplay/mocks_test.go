package roleplay_test

import (
	"context"
	"sync"

	"github.com/kanaptse/eduparent-api/internal/domain"
	"github.com/kanaptse/eduparent-api/internal/evaluation"
	"github.com/kanaptse/eduparent-api/internal/events"
	"github.com/kanaptse/eduparent-api/internal/store"
)

// recordingEmitter captures emitted game events for assertions.
type recordingEmitter struct {
	mu      sync.Mutex
	emitted []*events.GameEvent
	err     error
}

func (m *recordingEmitter) EmitEvent(_ context.Context, event *events.GameEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitted = append(m.emitted, event)
	return m.err
}

func (m *recordingEmitter) eventsOfType(eventType string) []*events.GameEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*events.GameEvent
	for _, e := range m.emitted {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// mockScenarioStore serves a fixed scenario catalog.
type mockScenarioStore struct {
	scenarios map[string]*domain.Scenario
}

func newMockScenarioStore(scenarios ...*domain.Scenario) *mockScenarioStore {
	m := &mockScenarioStore{scenarios: make(map[string]*domain.Scenario)}
	for _, s := range scenarios {
		m.scenarios[s.ID] = s
	}
	return m
}

func (m *mockScenarioStore) Get(_ context.Context, id string) (*domain.Scenario, error) {
	scenario, ok := m.scenarios[id]
	if !ok {
		return nil, store.ErrScenarioNotFound
	}
	return scenario, nil
}

func (m *mockScenarioStore) List(_ context.Context) ([]*domain.Scenario, error) {
	out := make([]*domain.Scenario, 0, len(m.scenarios))
	for _, s := range m.scenarios {
		out = append(out, s)
	}
	return out, nil
}

// scriptedEvaluation is one queued evaluator outcome.
type scriptedEvaluation struct {
	single domain.SingleEvaluation
	multi  domain.MultiRoundEvaluation
	err    error
}

// mockEvaluator returns queued results in order and records its invocations.
type mockEvaluator struct {
	mu      sync.Mutex
	script  []scriptedEvaluation
	calls   int
	lastCtx evaluation.Context
}

func (m *mockEvaluator) next() scriptedEvaluation {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.script) == 0 {
		return scriptedEvaluation{}
	}
	step := m.script[0]
	m.script = m.script[1:]
	return step
}

func (m *mockEvaluator) Evaluate(
	_ context.Context,
	_ string,
	evalCtx evaluation.Context,
) (domain.SingleEvaluation, error) {
	m.mu.Lock()
	m.lastCtx = evalCtx
	m.mu.Unlock()
	step := m.next()
	return step.single, step.err
}

func (m *mockEvaluator) EvaluateRound(
	_ context.Context,
	_ string,
	evalCtx evaluation.Context,
	_ evaluation.Criteria,
) (domain.MultiRoundEvaluation, error) {
	m.mu.Lock()
	m.lastCtx = evalCtx
	m.mu.Unlock()
	step := m.next()
	return step.multi, step.err
}

func (m *mockEvaluator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockResponder returns a fixed reply or error and records the score it saw.
type mockResponder struct {
	mu        sync.Mutex
	reply     evaluation.ChildReply
	err       error
	lastScore int
	calls     int
}

func (m *mockResponder) Respond(
	_ context.Context,
	score int,
	_ evaluation.Context,
) (evaluation.ChildReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastScore = score
	return m.reply, m.err
}

// singleEval builds a SingleEvaluation totalling the given score.
// Components are distributed tone-first within the 4/3/3 rubric bounds.
func singleEval(total int) domain.SingleEvaluation {
	tone := total
	if tone > 4 {
		tone = 4
	}
	rest := total - tone
	approach := rest
	if approach > 3 {
		approach = 3
	}
	respect := rest - approach
	return domain.SingleEvaluation{
		ToneScore:     tone,
		ApproachScore: approach,
		RespectScore:  respect,
		Total:         total,
		Feedback:      "scripted feedback",
	}
}

// multiEval builds a MultiRoundEvaluation for the given round with a single
// catch-all criterion carrying the whole score.
func multiEval(round, total, maxPossible int) domain.MultiRoundEvaluation {
	return domain.MultiRoundEvaluation{
		RoundNumber:    round,
		CriteriaScores: map[string]int{"overall": total},
		Total:          total,
		MaxPossible:    maxPossible,
		Feedback:       "scripted feedback",
	}
}
