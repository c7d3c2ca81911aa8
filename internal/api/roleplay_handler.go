package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kanaptse/eduparent-api/internal/api/middleware"
	"github.com/kanaptse/eduparent-api/internal/api/shared"
	"github.com/kanaptse/eduparent-api/internal/service/roleplay"
)

// RoleplayHandler handles the roleplay game API requests.
type RoleplayHandler struct {
	gameService roleplay.GameService
	validator   *validator.Validate
}

// NewRoleplayHandler creates a new RoleplayHandler with the given dependencies.
func NewRoleplayHandler(gameService roleplay.GameService) *RoleplayHandler {
	return &RoleplayHandler{
		gameService: gameService,
		validator:   validator.New(),
	}
}

// ListScenarios handles GET /api/roleplay/scenarios.
// The optional "lang" query parameter selects the content language.
func (h *RoleplayHandler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("lang")

	scenarios, err := h.gameService.GetAvailableScenarios(r.Context(), language)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ScenarioListResponse{Scenarios: scenarios})
}

// StartGame handles POST /api/roleplay/game/start.
func (h *RoleplayHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req StartGameRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	started, err := h.gameService.StartGame(r.Context(), userID, req.ScenarioID, req.Language)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	session := started.Session
	shared.RespondWithJSON(w, r, http.StatusCreated, StartGameResponse{
		SessionID:     session.ID,
		ScenarioID:    session.ScenarioID,
		ScenarioTitle: started.ScenarioTitle,
		Background:    started.Background,
		ChildOpening:  started.ChildOpening,
		CurrentRound:  session.CurrentRound,
		MaxRounds:     session.MaxRounds,
		MaxAttempts:   session.MaxRoundAttempts,
	})
}

// SubmitResponse handles POST /api/roleplay/game/{sessionID}/respond.
func (h *RoleplayHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return
	}

	var req SubmitResponseRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.gameService.SubmitResponse(r.Context(), userID, sessionID, req.ResponseText)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newSubmitResponseResponse(result))
}
