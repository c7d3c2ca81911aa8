package evaluation

import (
	"context"

	"github.com/kanaptse/eduparent-api/internal/domain"
)

// Context carries the conversational situation an evaluation or reply is
// produced for. It is built by the engine from the scenario and the session's
// current round.
type Context struct {
	// ScenarioBackground describes the overall situation, localized.
	ScenarioBackground string
	// ChildPrompt is what the child said that the parent is responding to.
	ChildPrompt string
	// ChildState summarizes the child's emotional state for the round
	// (empty for single-round scenarios).
	ChildState string
	// RoundNumber is the 1-indexed round being played.
	RoundNumber int
	// Language selects the feedback/reply language (e.g. "en", "zh-HK").
	Language string
}

// Criteria describes what a multi-round submission is scored against.
type Criteria struct {
	// Names lists the round's criterion names in rubric order.
	Names []string
	// MaxScores bounds the score the evaluator may award per criterion.
	MaxScores domain.CriteriaMaxScores
	// PassThreshold is the total score required to pass the round.
	PassThreshold int
}

// Evaluator scores a parent's response. It is authoritative for the scores
// themselves; the engine applies pass/fail policy to the returned totals.
//
// Implementations are typically network-bound AI services: calls may block,
// must honor ctx cancellation, and return the error taxonomy in errors.go.
type Evaluator interface {
	// Evaluate scores a response against the fixed tone/approach/respect
	// rubric used by single-round scenarios.
	Evaluate(ctx context.Context, responseText string, evalCtx Context) (domain.SingleEvaluation, error)

	// EvaluateRound scores a response against a round's dynamic criteria.
	EvaluateRound(
		ctx context.Context,
		responseText string,
		evalCtx Context,
		criteria Criteria,
	) (domain.MultiRoundEvaluation, error)
}

// ResponderGenerator produces the child's in-character reply to the parent,
// conditioned on how well the parent communicated.
type ResponderGenerator interface {
	// Respond generates the child's reply for the given communication score.
	// Higher scores yield more cooperative replies.
	Respond(ctx context.Context, score int, evalCtx Context) (ChildReply, error)
}

// ChildReply is the responder's output: the reply text plus the emotional
// register it was written in.
type ChildReply struct {
	Text    string `json:"response"`
	Emotion string `json:"emotion"`
}
