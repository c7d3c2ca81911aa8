package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kanaptse/eduparent-api/internal/config"
	"github.com/kanaptse/eduparent-api/internal/evaluation"
)

// Responder generates the child's in-character replies with the Gemini API.
type Responder struct {
	client *client
	model  string
}

// Compile-time interface check.
var _ evaluation.ResponderGenerator = (*Responder)(nil)

// NewResponder creates a Gemini-backed responder generator.
func NewResponder(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Responder, error) {
	if cfg.ResponderModel == "" {
		return nil, fmt.Errorf("%w: responder model cannot be empty", evaluation.ErrInvalidConfig)
	}

	c, err := newClient(ctx, logger, cfg)
	if err != nil {
		return nil, err
	}
	c.logger = c.logger.With(slog.String("component", "gemini_responder"))

	return &Responder{client: c, model: cfg.ResponderModel}, nil
}

// Respond implements evaluation.ResponderGenerator.
func (r *Responder) Respond(
	ctx context.Context,
	score int,
	evalCtx evaluation.Context,
) (evaluation.ChildReply, error) {
	var reply evaluation.ChildReply
	prompt := responderPrompt(score, evalCtx)
	if err := r.client.generateJSON(ctx, r.model, prompt, &reply); err != nil {
		return evaluation.ChildReply{}, err
	}

	if strings.TrimSpace(reply.Text) == "" {
		return evaluation.ChildReply{}, fmt.Errorf(
			"%w: responder returned an empty reply", evaluation.ErrInvalidResponse)
	}
	if reply.Emotion == "" {
		reply.Emotion = "neutral"
	}

	r.client.logger.DebugContext(ctx, "child reply generated",
		"score", score,
		"emotion", reply.Emotion)

	return reply, nil
}
