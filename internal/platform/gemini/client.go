package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/kanaptse/eduparent-api/internal/config"
	"github.com/kanaptse/eduparent-api/internal/evaluation"
	"google.golang.org/genai"
)

// client wraps a genai.Client with the retry and parsing behavior shared by
// the evaluator and responder adapters.
type client struct {
	genai  *genai.Client
	cfg    config.LLMConfig
	logger *slog.Logger
}

func newClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", evaluation.ErrInvalidConfig)
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			evaluation.ErrInvalidConfig, err)
	}

	return &client{
		genai:  genaiClient,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// generateJSON calls the Gemini API and unmarshals the (fence-cleaned) JSON
// reply into out. Transient errors are retried with exponential backoff and
// jitter up to cfg.MaxRetries times; permanent errors (safety blocks,
// malformed output) are returned immediately.
func (c *client) generateJSON(ctx context.Context, model, prompt string, out any) error {
	if prompt == "" {
		return evaluation.ErrEmptyResponseText
	}

	maxRetries := c.cfg.MaxRetries
	if maxRetries < 0 {
		c.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}

	baseDelaySeconds := c.cfg.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		c.logger.DebugContext(ctx, "calling Gemini API",
			"model", model,
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		text, err := c.generateOnce(ctx, model, prompt)
		if err == nil {
			cleaned := cleanJSONOutput(text)
			if unmarshalErr := json.Unmarshal([]byte(cleaned), out); unmarshalErr != nil {
				return fmt.Errorf("%w: failed to parse JSON response: %v",
					evaluation.ErrInvalidResponse, unmarshalErr)
			}
			return nil
		}

		c.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		// Permanent errors are not retried.
		if errors.Is(err, evaluation.ErrContentBlocked) || errors.Is(err, evaluation.ErrInvalidResponse) {
			return err
		}

		if attempt >= maxRetries {
			return fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				evaluation.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", evaluation.ErrTransientFailure, ctx.Err())
		}
	}
}

// generateOnce performs a single API call and extracts the reply text.
func (c *client) generateOnce(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		// Assume transport errors are transient; the caller decides whether
		// to retry.
		return "", fmt.Errorf("%w: %v", evaluation.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", evaluation.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response stopped by safety filters", evaluation.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty content in response", evaluation.ErrInvalidResponse)
	}

	return text, nil
}

// cleanJSONOutput strips the markdown code fences Gemini wraps JSON in.
func cleanJSONOutput(output string) string {
	output = strings.TrimSpace(output)
	output = strings.TrimPrefix(output, "```json")
	output = strings.TrimPrefix(output, "```")
	output = strings.TrimSuffix(output, "```")
	return strings.TrimSpace(output)
}
