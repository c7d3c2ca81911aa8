package evaluation

import "errors"

// Common errors returned by Evaluator and ResponderGenerator implementations
var (
	// ErrEvaluationFailed is returned when scoring fails for any general reason
	ErrEvaluationFailed = errors.New("failed to evaluate parent response")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error calling language model")

	// ErrInvalidConfig is returned when the adapter configuration is invalid
	ErrInvalidConfig = errors.New("invalid evaluator configuration")

	// ErrEmptyResponseText is returned when an empty response is submitted for scoring
	ErrEmptyResponseText = errors.New("response text cannot be empty")
)
