package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kanaptse/eduparent-api/internal/api/shared"
	"github.com/kanaptse/eduparent-api/internal/domain"
	"github.com/kanaptse/eduparent-api/internal/evaluation"
	"github.com/kanaptse/eduparent-api/internal/service/roleplay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGameService returns scripted results for handler tests.
type mockGameService struct {
	scenarios    []roleplay.ScenarioSummary
	scenariosErr error
	startResult  *roleplay.StartResult
	startErr     error
	roundResult  *roleplay.RoundResult
	submitErr    error

	lastUserID    uuid.UUID
	lastSessionID uuid.UUID
	lastResponse  string
}

var _ roleplay.GameService = (*mockGameService)(nil)

func (m *mockGameService) GetAvailableScenarios(_ context.Context, _ string) ([]roleplay.ScenarioSummary, error) {
	return m.scenarios, m.scenariosErr
}

func (m *mockGameService) StartGame(_ context.Context, userID uuid.UUID, _, _ string) (*roleplay.StartResult, error) {
	m.lastUserID = userID
	return m.startResult, m.startErr
}

func (m *mockGameService) SubmitResponse(_ context.Context, userID, sessionID uuid.UUID, responseText string) (*roleplay.RoundResult, error) {
	m.lastUserID = userID
	m.lastSessionID = sessionID
	m.lastResponse = responseText
	return m.roundResult, m.submitErr
}

func testSession(userID uuid.UUID) *domain.GameSession {
	scenario := &domain.Scenario{
		ID:               "messy_room",
		Title:            "Messy Room",
		Background:       "The room has not been cleaned in weeks.",
		OpeningLine:      "It's my room, why do you even care?",
		MaxRoundAttempts: 3,
	}
	session, err := domain.NewGameSession(userID, scenario, "en")
	if err != nil {
		panic(err)
	}
	return session
}

// authedRequest builds a request whose context carries the user ID, as the
// auth middleware would.
func authedRequest(method, target string, body interface{}, userID uuid.UUID) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func TestListScenarios(t *testing.T) {
	t.Parallel()

	svc := &mockGameService{
		scenarios: []roleplay.ScenarioSummary{
			{ID: "messy_room", Title: "Messy Room", MaxRounds: 1},
			{ID: "school_dropoff_anxiety", Title: "School Drop-off Anxiety", IsMultiRound: true, MaxRounds: 3},
		},
	}
	handler := NewRoleplayHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/roleplay/scenarios?lang=en", nil)
	rec := httptest.NewRecorder()
	handler.ListScenarios(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ScenarioListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Scenarios, 2)
}

func TestStartGame(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	session := testSession(userID)
	svc := &mockGameService{
		startResult: &roleplay.StartResult{
			Session:       session,
			ScenarioTitle: "Messy Room",
			Background:    "The room has not been cleaned in weeks.",
			ChildOpening:  "It's my room, why do you even care?",
		},
	}
	handler := NewRoleplayHandler(svc)

	req := authedRequest(http.MethodPost, "/api/roleplay/game/start",
		StartGameRequest{ScenarioID: "messy_room", Language: "en"}, userID)
	rec := httptest.NewRecorder()
	handler.StartGame(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp StartGameResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, session.ID, resp.SessionID)
	assert.Equal(t, "messy_room", resp.ScenarioID)
	assert.Equal(t, 1, resp.CurrentRound)
	assert.Equal(t, "It's my room, why do you even care?", resp.ChildOpening)
	assert.Equal(t, userID, svc.lastUserID)
}

func TestStartGame_RequiresAuth(t *testing.T) {
	t.Parallel()

	handler := NewRoleplayHandler(&mockGameService{})
	req := httptest.NewRequest(http.MethodPost, "/api/roleplay/game/start", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()
	handler.StartGame(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStartGame_ScenarioNotFound(t *testing.T) {
	t.Parallel()

	svc := &mockGameService{startErr: roleplay.ErrScenarioNotFound}
	handler := NewRoleplayHandler(svc)

	req := authedRequest(http.MethodPost, "/api/roleplay/game/start",
		StartGameRequest{ScenarioID: "nope"}, uuid.New())
	rec := httptest.NewRecorder()
	handler.StartGame(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartGame_MissingScenarioID(t *testing.T) {
	t.Parallel()

	handler := NewRoleplayHandler(&mockGameService{})
	req := authedRequest(http.MethodPost, "/api/roleplay/game/start",
		StartGameRequest{}, uuid.New())
	rec := httptest.NewRecorder()
	handler.StartGame(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// submitViaRouter drives SubmitResponse through a chi router so the URL
// parameter is populated.
func submitViaRouter(handler *RoleplayHandler, req *http.Request) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Post("/api/roleplay/game/{sessionID}/respond", handler.SubmitResponse)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitResponse(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	session := testSession(userID)
	session.RoundAttempts = 1
	eval := domain.SingleEvaluation{ToneScore: 4, ApproachScore: 3, RespectScore: 2, Total: 9, Feedback: "well done"}
	svc := &mockGameService{
		roundResult: &roleplay.RoundResult{
			Session:       session,
			Evaluation:    eval,
			Passed:        true,
			RoundResolved: true,
			GameCompleted: true,
			ChildReply:    evaluation.ChildReply{Text: "Okay, I'll try.", Emotion: "calming"},
		},
	}
	handler := NewRoleplayHandler(svc)

	target := fmt.Sprintf("/api/roleplay/game/%s/respond", session.ID)
	req := authedRequest(http.MethodPost, target, SubmitResponseRequest{ResponseText: "Let's tidy together."}, userID)
	rec := submitViaRouter(handler, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.ID, svc.lastSessionID)
	assert.Equal(t, "Let's tidy together.", svc.lastResponse)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, true, resp["passed"])
	assert.Equal(t, true, resp["game_completed"])
	assert.Equal(t, "Okay, I'll try.", resp["child_reply"])
	assert.Equal(t, "calming", resp["child_emotion"])
}

func TestSubmitResponse_InvalidSessionID(t *testing.T) {
	t.Parallel()

	handler := NewRoleplayHandler(&mockGameService{})
	req := authedRequest(http.MethodPost, "/api/roleplay/game/not-a-uuid/respond",
		SubmitResponseRequest{ResponseText: "hello"}, uuid.New())
	rec := submitViaRouter(handler, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitResponse_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"session not found", roleplay.ErrSessionNotFound, http.StatusNotFound},
		{"session not owned", roleplay.ErrSessionNotOwned, http.StatusForbidden},
		{"already completed", roleplay.ErrSessionAlreadyCompleted, http.StatusConflict},
		{"empty response", roleplay.ErrEmptyResponse, http.StatusBadRequest},
		{"evaluation unavailable", roleplay.ErrEvaluationUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			handler := NewRoleplayHandler(&mockGameService{submitErr: tc.err})
			target := fmt.Sprintf("/api/roleplay/game/%s/respond", uuid.New())
			req := authedRequest(http.MethodPost, target,
				SubmitResponseRequest{ResponseText: "hello"}, uuid.New())
			rec := submitViaRouter(handler, req)

			assert.Equal(t, tc.wantStatus, rec.Code)

			var resp shared.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}
