package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/projectnexus/taskpilot/internal/assistant"
	"github.com/projectnexus/taskpilot/pkg/models"
)

var errMockTracker = errors.New("tracker unavailable")

// mockChat implements ChatEngine for testing.
type mockChat struct {
	turnFunc func(ctx context.Context, message, priorMessage, pendingToken string) (assistant.TurnResult, error)
}

func (m *mockChat) ProposeOrExecute(ctx context.Context, message, priorMessage, pendingToken string) (assistant.TurnResult, error) {
	if m.turnFunc != nil {
		return m.turnFunc(ctx, message, priorMessage, pendingToken)
	}
	return assistant.TurnResult{Reply: "ok", Outcome: assistant.OutcomeNone}, nil
}

// mockSnapshots implements Snapshots for testing.
type mockSnapshots struct {
	issues []models.Issue
	team   []models.TeamMember
	skills []models.Skill
	err    error
}

func (m *mockSnapshots) ListIssues(ctx context.Context) ([]models.Issue, error) {
	return m.issues, m.err
}

func (m *mockSnapshots) ListTeamMembers(ctx context.Context) ([]models.TeamMember, error) {
	return m.team, m.err
}

func (m *mockSnapshots) ListSkills(ctx context.Context) ([]models.Skill, error) {
	return m.skills, m.err
}

func newTestServer(chat *mockChat, snapshots *mockSnapshots) *Server {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	s := &Server{
		chat:    chat,
		tracker: snapshots,
		router:  router,
		now:     func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) },
	}
	s.registerRoutes(router)
	return s
}

func parseJSONResponse(t *testing.T, body *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v", err)
	}
	return result
}

func TestHandleHealthz(t *testing.T) {
	s := newTestServer(&mockChat{}, &mockSnapshots{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	resp := parseJSONResponse(t, w.Body)
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", resp["status"])
	}
}

func TestHandleChat(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		turnFunc       func(ctx context.Context, message, priorMessage, pendingToken string) (assistant.TurnResult, error)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name: "turn carries echoed state to the conversation",
			body: map[string]interface{}{
				"message":       "yes",
				"prior_message": "assign PN2-7 to Varad",
				"pending_token": "echoed-token",
			},
			turnFunc: func(ctx context.Context, message, priorMessage, pendingToken string) (assistant.TurnResult, error) {
				if message != "yes" || priorMessage != "assign PN2-7 to Varad" || pendingToken != "echoed-token" {
					return assistant.TurnResult{}, errors.New("echoed state not forwarded")
				}
				return assistant.TurnResult{
					Reply:    "Done — PN2-7 is now assigned to Varad Parte.",
					Executed: true,
					Outcome:  assistant.OutcomeSuccess,
				}, nil
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				if resp["success"] != true {
					t.Errorf("expected success true, got %v", resp["success"])
				}
				result := resp["result"].(map[string]interface{})
				if result["executed"] != true {
					t.Errorf("expected executed true, got %v", result["executed"])
				}
				if result["outcome"] != "success" {
					t.Errorf("expected outcome 'success', got %v", result["outcome"])
				}
			},
		},
		{
			name: "proposal returns decision and token",
			body: map[string]interface{}{
				"message": "whom should I assign PN2-7?",
			},
			turnFunc: func(ctx context.Context, message, priorMessage, pendingToken string) (assistant.TurnResult, error) {
				return assistant.TurnResult{
					Reply: "I recommend assigning PN2-7 to Varad Parte.",
					Decision: &models.PendingDecision{
						ID:           "d-1",
						IssueKey:     "PN2-7",
						AssigneeID:   "u-varad",
						AssigneeName: "Varad Parte",
					},
					Token:   "signed-token",
					Outcome: assistant.OutcomeNone,
				}, nil
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				result := resp["result"].(map[string]interface{})
				if result["token"] != "signed-token" {
					t.Errorf("expected token to round-trip, got %v", result["token"])
				}
				decision := result["decision"].(map[string]interface{})
				if decision["issue_key"] != "PN2-7" {
					t.Errorf("expected decision issue PN2-7, got %v", decision["issue_key"])
				}
			},
		},
		{
			name:           "missing message returns validation error",
			body:           map[string]interface{}{"prior_message": "hello"},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				if resp["success"] != false {
					t.Errorf("expected success false, got %v", resp["success"])
				}
				if resp["error"] != "message required" {
					t.Errorf("expected validation error, got %v", resp["error"])
				}
			},
		},
		{
			name:           "invalid JSON returns validation error",
			body:           "not json",
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				if resp["success"] != false {
					t.Errorf("expected success false, got %v", resp["success"])
				}
			},
		},
		{
			name: "conversation error returns 500",
			body: map[string]interface{}{"message": "assign PN2-7 to Varad"},
			turnFunc: func(ctx context.Context, message, priorMessage, pendingToken string) (assistant.TurnResult, error) {
				return assistant.TurnResult{}, errMockTracker
			},
			expectedStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				if resp["error"] != "tracker unavailable" {
					t.Errorf("expected error message, got %v", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&mockChat{turnFunc: tt.turnFunc}, &mockSnapshots{})

			var body []byte
			var err error
			switch v := tt.body.(type) {
			case string:
				body = []byte(v)
			default:
				body, err = json.Marshal(tt.body)
				if err != nil {
					t.Fatalf("failed to marshal body: %v", err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			s.router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			resp := parseJSONResponse(t, w.Body)
			tt.checkResponse(t, resp)
		})
	}
}

func TestHandleWorkloadReport(t *testing.T) {
	hours := 8.0
	snapshots := &mockSnapshots{
		team: []models.TeamMember{{ID: "u-varad", Name: "Varad Parte"}},
		issues: []models.Issue{
			{
				Key:            "PN2-7",
				Summary:        "Fix login bug",
				Status:         "In Progress",
				StatusCategory: models.StatusCategoryInProgress,
				EstimatedHours: &hours,
				Assignee:       &models.Assignee{AccountID: "u-varad", DisplayName: "Varad Parte"},
			},
		},
	}
	s := newTestServer(&mockChat{}, snapshots)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/workload", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	resp := parseJSONResponse(t, w.Body)
	if resp["success"] != true {
		t.Errorf("expected success true, got %v", resp["success"])
	}
	workloads := resp["workloads"].([]interface{})
	if len(workloads) != 1 {
		t.Fatalf("expected 1 workload, got %d", len(workloads))
	}
	if resp["text"] == "" {
		t.Error("expected rendered text report")
	}
}

func TestHandleWorkloadReport_TrackerError(t *testing.T) {
	s := newTestServer(&mockChat{}, &mockSnapshots{err: errMockTracker})

	req := httptest.NewRequest(http.MethodGet, "/api/reports/workload", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	resp := parseJSONResponse(t, w.Body)
	if resp["error"] != "tracker unavailable" {
		t.Errorf("expected error message, got %v", resp["error"])
	}
}

func TestHandlePriorityReport(t *testing.T) {
	due := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC) // overdue relative to the fixed clock
	snapshots := &mockSnapshots{
		issues: []models.Issue{
			{Key: "PN2-7", Summary: "Fix login bug", Type: "Bug", Status: "To Do", StatusCategory: models.StatusCategoryTodo, DueDate: &due},
			{Key: "PN2-8", Summary: "Write docs", Type: "Task", Status: "To Do", StatusCategory: models.StatusCategoryTodo},
		},
	}
	s := newTestServer(&mockChat{}, snapshots)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/priority", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	resp := parseJSONResponse(t, w.Body)
	priorities := resp["priorities"].([]interface{})
	if len(priorities) != 2 {
		t.Fatalf("expected 2 priorities, got %d", len(priorities))
	}
}

func TestHandleBottleneckReport(t *testing.T) {
	due := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	snapshots := &mockSnapshots{
		team: []models.TeamMember{{ID: "u-varad", Name: "Varad Parte"}},
		issues: []models.Issue{
			{Key: "PN2-7", Summary: "Fix login bug", Status: "To Do", StatusCategory: models.StatusCategoryTodo, DueDate: &due},
		},
	}
	s := newTestServer(&mockChat{}, snapshots)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/bottlenecks", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	resp := parseJSONResponse(t, w.Body)
	risks := resp["bottlenecks"].([]interface{})
	if len(risks) != 1 {
		t.Fatalf("expected 1 bottleneck (overdue issue), got %d", len(risks))
	}
	risk := risks[0].(map[string]interface{})
	if risk["type"] != "deadline" {
		t.Errorf("expected deadline risk, got %v", risk["type"])
	}
}

func TestHandleAllocationReport_SkipsAssignedAndDone(t *testing.T) {
	snapshots := &mockSnapshots{
		team: []models.TeamMember{{ID: "u-varad", Name: "Varad Parte"}},
		skills: []models.Skill{
			{Name: "react", Category: "frontend", OwnerID: "u-varad", OwnerName: "Varad Parte"},
		},
		issues: []models.Issue{
			{Key: "PN2-10", Summary: "Build react component", Status: "To Do", StatusCategory: models.StatusCategoryTodo},
			{Key: "PN2-11", Summary: "Already assigned", Status: "To Do", StatusCategory: models.StatusCategoryTodo,
				Assignee: &models.Assignee{AccountID: "u-varad", DisplayName: "Varad Parte"}},
			{Key: "PN2-12", Summary: "Shipped react page", Status: "Done", StatusCategory: models.StatusCategoryDone},
		},
	}
	s := newTestServer(&mockChat{}, snapshots)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/allocations", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	resp := parseJSONResponse(t, w.Body)
	allocations := resp["allocations"].([]interface{})
	if len(allocations) != 1 {
		t.Fatalf("expected 1 allocation (only the open unassigned issue), got %d", len(allocations))
	}
}
