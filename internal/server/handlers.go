package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ekrsw/knowledge-app-sub001/knowledge"
	"github.com/ekrsw/knowledge-app-sub001/knowledge/repository"
	"github.com/ekrsw/knowledge-app-sub001/knowledge/service"
	"github.com/gorilla/mux"
)

// actorHeader names the caller. Authentication itself lives in the
// gateway in front of this service; handlers only resolve the id to a
// stored user.
const actorHeader = "X-User-ID"

// actor resolves the calling user from the request headers. Writes the
// error response and returns nil when the caller cannot be resolved.
func (a *App) actor(rw http.ResponseWriter, req *http.Request) *knowledge.User {
	raw := req.Header.Get(actorHeader)
	if raw == "" {
		writeJSON(rw, http.StatusUnauthorized, errorBody{Error: "missing " + actorHeader + " header", Kind: "unauthenticated"})
		return nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeJSON(rw, http.StatusUnauthorized, errorBody{Error: "malformed " + actorHeader + " header", Kind: "unauthenticated"})
		return nil
	}
	user, err := a.Users.GetUser(id)
	if err != nil {
		writeJSON(rw, http.StatusUnauthorized, errorBody{Error: "unknown user", Kind: "unauthenticated"})
		return nil
	}
	return user
}

type createRevisionRequest struct {
	ArticleID  string                `json:"article_id"`
	Reason     string                `json:"reason"`
	ApproverID *int                  `json:"approver_id"`
	Priority   knowledge.Priority    `json:"priority"`
	After      knowledge.AfterFields `json:"after"`
}

// CreateRevisionHandler creates a new draft revision for the caller.
func (a *App) CreateRevisionHandler(rw http.ResponseWriter, req *http.Request) {
	actor := a.actor(rw, req)
	if actor == nil {
		return
	}

	var body createRevisionRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(rw, knowledge.NewValidationError("body", "malformed JSON"))
		return
	}

	revision, err := a.Workflow.CreateDraft(actor, service.DraftInput{
		ArticleID:  body.ArticleID,
		Reason:     body.Reason,
		ApproverID: body.ApproverID,
		Priority:   body.Priority,
		After:      body.After,
	})
	if err != nil {
		writeError(rw, err)
		return
	}

	slog.Info("revision drafted", "revision", revision.ID, "article", revision.ArticleID, "proposer", actor.ScreenName)
	writeJSON(rw, http.StatusCreated, revision)
}

// GetRevisionHandler returns a single revision.
func (a *App) GetRevisionHandler(rw http.ResponseWriter, req *http.Request) {
	if a.actor(rw, req) == nil {
		return
	}

	revision, err := a.Workflow.GetRevision(mux.Vars(req)["id"])
	if err != nil {
		writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, revision)
}

type updateRevisionRequest struct {
	Reason string                `json:"reason"`
	After  knowledge.AfterFields `json:"after"`
}

// UpdateRevisionHandler overwrites the provided after-fields of a draft.
func (a *App) UpdateRevisionHandler(rw http.ResponseWriter, req *http.Request) {
	actor := a.actor(rw, req)
	if actor == nil {
		return
	}

	var body updateRevisionRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(rw, knowledge.NewValidationError("body", "malformed JSON"))
		return
	}

	id := mux.Vars(req)["id"]
	if err := a.Workflow.UpdateContent(id, actor, body.After, body.Reason); err != nil {
		writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, map[string]string{"status": "updated"})
}

// SubmitRevisionHandler moves a draft into the approval queue.
func (a *App) SubmitRevisionHandler(rw http.ResponseWriter, req *http.Request) {
	actor := a.actor(rw, req)
	if actor == nil {
		return
	}

	id := mux.Vars(req)["id"]
	if err := a.Workflow.Submit(id, actor); err != nil {
		writeError(rw, err)
		return
	}

	slog.Info("revision submitted", "revision", id, "proposer", actor.ScreenName)
	writeJSON(rw, http.StatusOK, map[string]string{"status": string(knowledge.StatusSubmitted)})
}

// WithdrawRevisionHandler pulls a submitted revision back to draft.
func (a *App) WithdrawRevisionHandler(rw http.ResponseWriter, req *http.Request) {
	actor := a.actor(rw, req)
	if actor == nil {
		return
	}

	id := mux.Vars(req)["id"]
	if err := a.Workflow.Withdraw(id, actor); err != nil {
		writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, map[string]string{"status": string(knowledge.StatusDraft)})
}

type decideRequest struct {
	Action  knowledge.DecisionAction `json:"action"`
	Comment string                   `json:"comment"`
}

// DecideRevisionHandler applies an approver's decision.
func (a *App) DecideRevisionHandler(rw http.ResponseWriter, req *http.Request) {
	actor := a.actor(rw, req)
	if actor == nil {
		return
	}

	var body decideRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(rw, knowledge.NewValidationError("body", "malformed JSON"))
		return
	}

	id := mux.Vars(req)["id"]
	revision, err := a.Workflow.Decide(id, actor, body.Action, body.Comment)
	if err != nil {
		writeError(rw, err)
		return
	}

	slog.Info("revision decided", "revision", id, "action", body.Action, "decided_by", actor.ScreenName)
	writeJSON(rw, http.StatusOK, revision)
}

// EscalateRevisionHandler escalates a pending revision. Admin only.
func (a *App) EscalateRevisionHandler(rw http.ResponseWriter, req *http.Request) {
	actor := a.actor(rw, req)
	if actor == nil {
		return
	}

	id := mux.Vars(req)["id"]
	if err := a.Workflow.Escalate(id, actor); err != nil {
		writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, map[string]string{"status": string(knowledge.StatusEscalated)})
}

// QueueHandler returns the caller's ranked approval queue. Supports
// priority and article_id query filters.
func (a *App) QueueHandler(rw http.ResponseWriter, req *http.Request) {
	actor := a.actor(rw, req)
	if actor == nil {
		return
	}

	filters := repository.QueueFilters{
		Priority:  knowledge.Priority(req.URL.Query().Get("priority")),
		ArticleID: req.URL.Query().Get("article_id"),
	}

	queue, err := a.Queue.BuildQueue(actor.ID, filters)
	if err != nil {
		writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, map[string]any{"items": queue, "total": len(queue)})
}

// WorkloadHandler returns the caller's current workload snapshot.
func (a *App) WorkloadHandler(rw http.ResponseWriter, req *http.Request) {
	actor := a.actor(rw, req)
	if actor == nil {
		return
	}

	workload, err := a.Queue.Workload(actor)
	if err != nil {
		writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, workload)
}

// QueueInsightsHandler returns metrics and recommendations for the
// caller's queue in one response.
func (a *App) QueueInsightsHandler(rw http.ResponseWriter, req *http.Request) {
	actor := a.actor(rw, req)
	if actor == nil {
		return
	}

	queue, err := a.Queue.BuildQueue(actor.ID, repository.QueueFilters{})
	if err != nil {
		writeError(rw, err)
		return
	}
	workload, err := a.Queue.Workload(actor)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, http.StatusOK, map[string]any{
		"metrics":         a.Queue.Metrics(queue),
		"recommendations": a.Queue.Recommendations(queue, workload.CurrentCapacity),
	})
}

type createUserRequest struct {
	ScreenName string `json:"screenname"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

// CreateUserHandler registers a workflow actor.
func (a *App) CreateUserHandler(rw http.ResponseWriter, req *http.Request) {
	var body createUserRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(rw, knowledge.NewValidationError("body", "malformed JSON"))
		return
	}

	user := &knowledge.User{ScreenName: body.ScreenName, Email: body.Email, Role: body.Role}
	if err := a.Users.PostUser(user); err != nil {
		writeError(rw, err)
		return
	}

	slog.Info("user registered", "user", user.ScreenName, "role", user.Role)
	writeJSON(rw, http.StatusCreated, user)
}
