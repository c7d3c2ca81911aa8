package api

import (
	"errors"
	"net/http"

	"github.com/kanaptse/eduparent-api/internal/service/auth"
	"github.com/kanaptse/eduparent-api/internal/service/roleplay"
	"github.com/kanaptse/eduparent-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, roleplay.ErrSessionNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, roleplay.ErrScenarioNotFound),
		errors.Is(err, roleplay.ErrSessionNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, roleplay.ErrSessionAlreadyCompleted):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, roleplay.ErrEmptyResponse):
		return http.StatusBadRequest

	// Upstream dependency failures
	case errors.Is(err, roleplay.ErrEvaluationUnavailable):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, roleplay.ErrSessionNotOwned):
		return "You do not own this game session"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, roleplay.ErrScenarioNotFound):
		return "Scenario not found"

	case errors.Is(err, roleplay.ErrSessionNotFound):
		return "Game session not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, roleplay.ErrSessionAlreadyCompleted):
		return "Game session is already completed"

	case errors.Is(err, roleplay.ErrEmptyResponse):
		return "Response text cannot be empty"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, roleplay.ErrEvaluationUnavailable):
		return "Evaluation service is temporarily unavailable, please try again"

	default:
		return "An unexpected error occurred"
	}
}
