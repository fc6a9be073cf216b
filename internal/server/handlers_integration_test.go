package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/ekrsw/knowledge-app-sub001/internal/server"
	"github.com/ekrsw/knowledge-app-sub001/knowledge"
	"github.com/ekrsw/knowledge-app-sub001/testutil"
)

// setupTestServer builds an App over the in-memory test services and
// returns it alongside the shared test fixtures.
func setupTestServer(t *testing.T) (*httptest.Server, *testutil.TestApp, func()) {
	t.Helper()

	app, cleanup := testutil.SetupTestApp(t)
	webApp := &server.App{
		Workflow: app.Workflow,
		Queue:    app.Queue,
		Users:    app.Users,
	}
	ts := httptest.NewServer(webApp.Router())

	return ts, app, func() {
		ts.Close()
		cleanup()
	}
}

// doJSON issues a request with an optional actor header and JSON body,
// decoding the JSON response into out when non-nil.
func doJSON(t *testing.T, ts *httptest.Server, method, path string, actor *knowledge.User, body any, out any) *http.Response {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, ts.URL+path, &reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req.Header.Set("X-User-ID", strconv.Itoa(actor.ID))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response body: %v", err)
		}
	}
	return resp
}

func TestRevisionLifecycleOverHTTP(t *testing.T) {
	ts, app, cleanup := setupTestServer(t)
	defer cleanup()

	proposer := testutil.CreateTestUser(t, app, "proposer", knowledge.RoleUser)
	approver := testutil.CreateTestUser(t, app, "approver", knowledge.RoleApprover)

	var created knowledge.Revision
	resp := doJSON(t, ts, "POST", "/api/revisions", proposer, map[string]any{
		"article_id":  "KBA-0001",
		"reason":      "steps changed in the new release",
		"approver_id": approver.ID,
		"after":       map[string]any{"answer": "Use the new settings page."},
	}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status = %d, want 201", resp.StatusCode)
	}
	if created.Status != knowledge.StatusDraft {
		t.Errorf("created status = %q, want draft", created.Status)
	}

	resp = doJSON(t, ts, "POST", fmt.Sprintf("/api/revisions/%s/submit", created.ID), proposer, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit: status = %d, want 200", resp.StatusCode)
	}

	var fetched knowledge.Revision
	resp = doJSON(t, ts, "GET", "/api/revisions/"+created.ID, approver, nil, &fetched)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: status = %d, want 200", resp.StatusCode)
	}
	if fetched.Status != knowledge.StatusSubmitted {
		t.Errorf("fetched status = %q, want submitted", fetched.Status)
	}

	var queue struct {
		Items []knowledge.ApprovalQueueItem `json:"items"`
		Total int                           `json:"total"`
	}
	resp = doJSON(t, ts, "GET", "/api/queue", approver, nil, &queue)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("queue: status = %d, want 200", resp.StatusCode)
	}
	if queue.Total != 1 || len(queue.Items) != 1 {
		t.Fatalf("queue: total = %d with %d items, want 1", queue.Total, len(queue.Items))
	}
	if queue.Items[0].RevisionID != created.ID {
		t.Errorf("queued revision = %s, want %s", queue.Items[0].RevisionID, created.ID)
	}

	var decided knowledge.Revision
	resp = doJSON(t, ts, "POST", fmt.Sprintf("/api/revisions/%s/decide", created.ID), approver, map[string]any{
		"action":  "approve",
		"comment": "verified on staging",
	}, &decided)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("decide: status = %d, want 200", resp.StatusCode)
	}
	if decided.Status != knowledge.StatusApproved {
		t.Errorf("decided status = %q, want approved", decided.Status)
	}
	if decided.ProcessedAt == nil {
		t.Error("expected processed_at in the decide response")
	}
}

func TestErrorStatusMapping(t *testing.T) {
	ts, app, cleanup := setupTestServer(t)
	defer cleanup()

	proposer := testutil.CreateTestUser(t, app, "proposer", knowledge.RoleUser)
	approver := testutil.CreateTestUser(t, app, "approver", knowledge.RoleApprover)
	intruder := testutil.CreateTestUser(t, app, "intruder", knowledge.RoleUser)

	t.Run("unknown revision is 404", func(t *testing.T) {
		var body struct {
			Kind string `json:"kind"`
		}
		resp := doJSON(t, ts, "GET", "/api/revisions/no-such-id", proposer, nil, &body)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
		if body.Kind != "not_found" {
			t.Errorf("kind = %q, want not_found", body.Kind)
		}
	})

	t.Run("illegal transition is 409", func(t *testing.T) {
		draft := testutil.CreateTestDraft(t, app, proposer, &approver.ID, "KBA-0001")

		resp := doJSON(t, ts, "POST", fmt.Sprintf("/api/revisions/%s/decide", draft.ID), approver, map[string]any{
			"action": "approve",
		}, nil)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("status = %d, want 409", resp.StatusCode)
		}
	})

	t.Run("missing authority is 403", func(t *testing.T) {
		revision := testutil.SubmitTestRevision(t, app, proposer, &approver.ID, "KBA-0002")

		resp := doJSON(t, ts, "POST", fmt.Sprintf("/api/revisions/%s/decide", revision.ID), intruder, map[string]any{
			"action": "approve",
		}, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})

	t.Run("bad input is 400", func(t *testing.T) {
		resp := doJSON(t, ts, "POST", "/api/revisions", proposer, map[string]any{
			"article_id": "KBA-0003",
		}, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("missing actor header is 401", func(t *testing.T) {
		resp := doJSON(t, ts, "GET", "/api/queue", nil, nil, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("unknown actor is 401", func(t *testing.T) {
		ghost := &knowledge.User{ID: 9999}
		resp := doJSON(t, ts, "GET", "/api/queue", ghost, nil, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})
}

func TestQueueEndpoints(t *testing.T) {
	ts, app, cleanup := setupTestServer(t)
	defer cleanup()

	proposer := testutil.CreateTestUser(t, app, "proposer", knowledge.RoleUser)
	approver := testutil.CreateTestUser(t, app, "approver", knowledge.RoleApprover)

	urgent := testutil.SubmitTestRevision(t, app, proposer, &approver.ID, "KBA-0001")
	testutil.SetPriority(t, app.DB, urgent.ID, knowledge.PriorityUrgent)
	testutil.SubmitTestRevision(t, app, proposer, &approver.ID, "KBA-0002")

	t.Run("queue supports the priority filter", func(t *testing.T) {
		var queue struct {
			Items []knowledge.ApprovalQueueItem `json:"items"`
			Total int                           `json:"total"`
		}
		resp := doJSON(t, ts, "GET", "/api/queue?priority=urgent", approver, nil, &queue)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if queue.Total != 1 || queue.Items[0].RevisionID != urgent.ID {
			t.Errorf("filtered queue = %+v, want only the urgent revision", queue)
		}
	})

	t.Run("workload reflects pending items", func(t *testing.T) {
		var workload knowledge.ApproverWorkload
		resp := doJSON(t, ts, "GET", "/api/workload", approver, nil, &workload)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if workload.PendingCount != 2 {
			t.Errorf("pending = %d, want 2", workload.PendingCount)
		}
		if workload.CurrentCapacity != knowledge.CapacityLow {
			t.Errorf("capacity = %q, want low", workload.CurrentCapacity)
		}
	})

	t.Run("insights return metrics and recommendations", func(t *testing.T) {
		var insights struct {
			Metrics         knowledge.WorkflowMetrics  `json:"metrics"`
			Recommendations []knowledge.Recommendation `json:"recommendations"`
		}
		resp := doJSON(t, ts, "GET", "/api/queue/insights", approver, nil, &insights)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if insights.Metrics.TotalItems != 2 {
			t.Errorf("metrics total = %d, want 2", insights.Metrics.TotalItems)
		}
		var sawUrgent bool
		for _, rec := range insights.Recommendations {
			if rec.Kind == knowledge.RecommendUrgentAttention {
				sawUrgent = true
			}
		}
		if !sawUrgent {
			t.Error("expected an urgent-attention recommendation")
		}
	})
}

func TestCreateUserOverHTTP(t *testing.T) {
	ts, _, cleanup := setupTestServer(t)
	defer cleanup()

	var created knowledge.User
	resp := doJSON(t, ts, "POST", "/api/users", nil, map[string]any{
		"screenname": "alice",
		"email":      "alice@example.com",
		"role":       "approver",
	}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if created.ID == 0 {
		t.Error("expected the response to carry the generated id")
	}
	if created.Role != knowledge.RoleApprover {
		t.Errorf("role = %q, want approver", created.Role)
	}

	resp = doJSON(t, ts, "POST", "/api/users", nil, map[string]any{
		"screenname": "alice",
		"email":      "alice+2@example.com",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("duplicate screenname: status = %d, want 400", resp.StatusCode)
	}
}
