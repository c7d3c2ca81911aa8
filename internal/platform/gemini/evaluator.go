package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kanaptse/eduparent-api/internal/config"
	"github.com/kanaptse/eduparent-api/internal/domain"
	"github.com/kanaptse/eduparent-api/internal/evaluation"
)

// Evaluator scores parent responses with the Gemini API.
type Evaluator struct {
	client *client
	model  string
}

// Compile-time interface check.
var _ evaluation.Evaluator = (*Evaluator)(nil)

// NewEvaluator creates a Gemini-backed evaluator.
//
// Parameters:
//   - ctx: Context for client initialization
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing the API key, model names, and retry settings
func NewEvaluator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Evaluator, error) {
	if cfg.EvaluatorModel == "" {
		return nil, fmt.Errorf("%w: evaluator model cannot be empty", evaluation.ErrInvalidConfig)
	}

	c, err := newClient(ctx, logger, cfg)
	if err != nil {
		return nil, err
	}
	c.logger = c.logger.With(slog.String("component", "gemini_evaluator"))

	return &Evaluator{client: c, model: cfg.EvaluatorModel}, nil
}

// singleEvalSchema is the JSON shape requested by the fixed-rubric prompt.
type singleEvalSchema struct {
	ToneScore     int    `json:"tone_score"`
	ApproachScore int    `json:"approach_score"`
	RespectScore  int    `json:"respect_score"`
	TotalScore    int    `json:"total_score"`
	Feedback      string `json:"feedback"`
}

// multiEvalSchema is the JSON shape requested by the dynamic-criteria prompt.
type multiEvalSchema struct {
	CriteriaScores   map[string]int    `json:"criteria_scores"`
	TotalScore       int               `json:"total_score"`
	Feedback         string            `json:"feedback"`
	DetailedFeedback map[string]string `json:"detailed_feedback"`
}

// Evaluate implements evaluation.Evaluator for the fixed tone/approach/respect rubric.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	responseText string,
	evalCtx evaluation.Context,
) (domain.SingleEvaluation, error) {
	if strings.TrimSpace(responseText) == "" {
		return domain.SingleEvaluation{}, evaluation.ErrEmptyResponseText
	}

	var schema singleEvalSchema
	prompt := singleEvalPrompt(responseText, evalCtx)
	if err := e.client.generateJSON(ctx, e.model, prompt, &schema); err != nil {
		return domain.SingleEvaluation{}, err
	}

	result := domain.SingleEvaluation{
		ToneScore:     schema.ToneScore,
		ApproachScore: schema.ApproachScore,
		RespectScore:  schema.RespectScore,
		// The model's own total is untrusted; recompute it.
		Total:    schema.ToneScore + schema.ApproachScore + schema.RespectScore,
		Feedback: schema.Feedback,
	}

	if err := result.Validate(); err != nil {
		return domain.SingleEvaluation{}, fmt.Errorf("%w: %v", evaluation.ErrInvalidResponse, err)
	}

	e.client.logger.DebugContext(ctx, "evaluation complete",
		"total_score", result.Total)

	return result, nil
}

// EvaluateRound implements evaluation.Evaluator for round-specific criteria.
// Criterion scores are clamped to their configured maxima, criteria the model
// invented are dropped, and missing criteria score zero.
func (e *Evaluator) EvaluateRound(
	ctx context.Context,
	responseText string,
	evalCtx evaluation.Context,
	criteria evaluation.Criteria,
) (domain.MultiRoundEvaluation, error) {
	if strings.TrimSpace(responseText) == "" {
		return domain.MultiRoundEvaluation{}, evaluation.ErrEmptyResponseText
	}
	if len(criteria.Names) == 0 {
		return domain.MultiRoundEvaluation{}, fmt.Errorf(
			"%w: criteria cannot be empty", evaluation.ErrInvalidConfig)
	}

	var schema multiEvalSchema
	prompt := multiEvalPrompt(responseText, evalCtx, criteria)
	if err := e.client.generateJSON(ctx, e.model, prompt, &schema); err != nil {
		return domain.MultiRoundEvaluation{}, err
	}

	scores := make(map[string]int, len(criteria.Names))
	detailed := make(map[string]string, len(criteria.Names))
	total := 0
	for _, name := range criteria.Names {
		score := schema.CriteriaScores[name]
		if score < 0 {
			score = 0
		}
		if max := criteria.MaxScores.MaxFor(name); score > max {
			score = max
		}
		scores[name] = score
		total += score
		if fb, ok := schema.DetailedFeedback[name]; ok {
			detailed[name] = fb
		}
	}

	result := domain.MultiRoundEvaluation{
		RoundNumber:      evalCtx.RoundNumber,
		CriteriaScores:   scores,
		Total:            total,
		MaxPossible:      criteria.MaxScores.MaxPossible(criteria.Names),
		Feedback:         schema.Feedback,
		DetailedFeedback: detailed,
	}

	if err := result.Validate(); err != nil {
		return domain.MultiRoundEvaluation{}, fmt.Errorf("%w: %v", evaluation.ErrInvalidResponse, err)
	}

	e.client.logger.DebugContext(ctx, "round evaluation complete",
		"round", evalCtx.RoundNumber,
		"total_score", result.Total,
		"max_possible", result.MaxPossible)

	return result, nil
}
