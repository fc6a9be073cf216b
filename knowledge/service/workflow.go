package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ekrsw/knowledge-app-sub001/knowledge"
	"github.com/ekrsw/knowledge-app-sub001/knowledge/repository"
	"github.com/microcosm-cc/bluemonday"
)

// DraftInput carries everything needed to open a new draft revision.
type DraftInput struct {
	ArticleID  string
	Reason     string
	ApproverID *int
	Priority   knowledge.Priority
	After      knowledge.AfterFields
}

// WorkflowService defines the operations that move a revision through
// the approval workflow.
type WorkflowService interface {
	// CreateDraft creates a new draft revision authored by the actor.
	CreateDraft(actor *knowledge.User, input DraftInput) (*knowledge.Revision, error)

	// GetRevision retrieves a revision by id.
	GetRevision(revisionID string) (*knowledge.Revision, error)

	// UpdateContent overwrites the provided after-fields of a draft.
	UpdateContent(revisionID string, actor *knowledge.User, after knowledge.AfterFields, reason string) error

	// Submit moves a draft or changes-requested revision into the queue.
	Submit(revisionID string, actor *knowledge.User) error

	// Withdraw pulls a submitted revision back to draft.
	Withdraw(revisionID string, actor *knowledge.User) error

	// Decide applies an approver's decision to a pending revision.
	Decide(revisionID string, actor *knowledge.User, action knowledge.DecisionAction, comment string) (*knowledge.Revision, error)

	// Escalate bumps a pending revision's priority and marks it escalated.
	Escalate(revisionID string, actor *knowledge.User) error
}

// workflowService is the default implementation of WorkflowService.
type workflowService struct {
	repo     repository.RevisionRepository
	notifier knowledge.Notifier
	strip    *bluemonday.Policy
}

// NewWorkflowService creates a new WorkflowService.
func NewWorkflowService(repo repository.RevisionRepository, notifier knowledge.Notifier) WorkflowService {
	return &workflowService{
		repo:     repo,
		notifier: notifier,
		strip:    bluemonday.StrictPolicy(),
	}
}

// decisionEvents maps a decision action to the event announced to the
// proposer.
var decisionEvents = map[knowledge.DecisionAction]knowledge.EventKind{
	knowledge.ActionApprove:        knowledge.EventApproved,
	knowledge.ActionReject:         knowledge.EventRejected,
	knowledge.ActionRequestChanges: knowledge.EventChangesRequested,
	knowledge.ActionDefer:          knowledge.EventDeferred,
}

// CreateDraft creates a new draft revision authored by the actor.
func (s *workflowService) CreateDraft(actor *knowledge.User, input DraftInput) (*knowledge.Revision, error) {
	if input.ArticleID == "" {
		return nil, knowledge.NewValidationError("article_id", "must not be empty")
	}
	if input.Reason == "" {
		return nil, knowledge.NewValidationError("reason", "must not be empty")
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return nil, knowledge.NewValidationError("priority", "unrecognized tier")
	}

	revision := knowledge.NewRevision(input.ArticleID, actor.ID, s.strip.Sanitize(input.Reason), input.After)
	revision.ApproverID = input.ApproverID
	if input.Priority != "" {
		revision.Priority = input.Priority
	}

	if err := s.repo.InsertRevision(revision); err != nil {
		return nil, err
	}
	return revision, nil
}

// GetRevision retrieves a revision by id.
func (s *workflowService) GetRevision(revisionID string) (*knowledge.Revision, error) {
	return s.repo.SelectRevision(revisionID)
}

// UpdateContent overwrites only the provided after-fields and, when
// non-empty, the reason. Valid only while the revision is a draft.
func (s *workflowService) UpdateContent(revisionID string, actor *knowledge.User, after knowledge.AfterFields, reason string) error {
	revision, err := s.repo.SelectRevision(revisionID)
	if err != nil {
		return err
	}
	if revision.ProposerID != actor.ID {
		return knowledge.NewPermissionError(actor.ID, "edit this revision")
	}
	if revision.Status != knowledge.StatusDraft {
		return knowledge.NewStatusError(revisionID, revision.Status, "")
	}

	merged := revision.After
	merged.Merge(after)
	return s.repo.UpdateRevisionContent(revisionID, merged, s.strip.Sanitize(reason))
}

// Submit moves a draft or changes-requested revision into the queue and
// notifies the designated approver.
func (s *workflowService) Submit(revisionID string, actor *knowledge.User) error {
	revision, err := s.repo.SelectRevision(revisionID)
	if err != nil {
		return err
	}
	if revision.ProposerID != actor.ID {
		return knowledge.NewPermissionError(actor.ID, "submit this revision")
	}
	if !revision.Status.CanTransition(knowledge.StatusSubmitted) {
		return knowledge.NewStatusError(revisionID, revision.Status, knowledge.StatusSubmitted)
	}

	now := time.Now()
	err = s.repo.CompareAndSetStatus(revisionID, revision.Status, knowledge.StatusSubmitted, repository.StatusUpdate{
		SubmittedAt: &now,
	})
	if err != nil {
		return s.conflictToStatusError(revisionID, knowledge.StatusSubmitted, err)
	}

	if revision.ApproverID != nil {
		s.notify(*revision.ApproverID, knowledge.EventSubmitted, revisionID, map[string]string{
			"proposer": actor.ScreenName,
			"article":  revision.ArticleID,
		})
	}
	return nil
}

// Withdraw pulls a submitted revision back to draft. Only the proposer
// may withdraw, and only before anyone starts reviewing.
func (s *workflowService) Withdraw(revisionID string, actor *knowledge.User) error {
	revision, err := s.repo.SelectRevision(revisionID)
	if err != nil {
		return err
	}
	if revision.ProposerID != actor.ID {
		return knowledge.NewPermissionError(actor.ID, "withdraw this revision")
	}
	if revision.Status != knowledge.StatusSubmitted {
		return knowledge.NewStatusError(revisionID, revision.Status, knowledge.StatusDraft)
	}

	err = s.repo.CompareAndSetStatus(revisionID, knowledge.StatusSubmitted, knowledge.StatusDraft, repository.StatusUpdate{})
	return s.conflictToStatusError(revisionID, knowledge.StatusDraft, err)
}

// Decide applies an approver's decision. The preconditions are checked
// in order and each failure maps to a distinct error kind: lookup,
// status gate, actor authority, action validity, transition table.
func (s *workflowService) Decide(revisionID string, actor *knowledge.User, action knowledge.DecisionAction, comment string) (*knowledge.Revision, error) {
	revision, err := s.repo.SelectRevision(revisionID)
	if err != nil {
		return nil, err
	}

	if !isDecidable(revision.Status) {
		return nil, knowledge.NewStatusError(revisionID, revision.Status, "")
	}

	if err := s.checkDecisionAuthority(revision, actor); err != nil {
		return nil, err
	}

	target, ok := action.TargetStatus()
	if !ok {
		return nil, knowledge.NewValidationError("action", "unrecognized decision "+string(action))
	}
	if !revision.Status.CanTransition(target) {
		return nil, knowledge.NewStatusError(revisionID, revision.Status, target)
	}

	update := repository.StatusUpdate{ApproverID: &actor.ID}
	now := time.Now()
	if target.IsTerminal() {
		update.ProcessedAt = &now
	}

	err = s.repo.CompareAndSetStatus(revisionID, revision.Status, target, update)
	if err != nil {
		return nil, s.conflictToStatusError(revisionID, target, err)
	}

	revision.Status = target
	revision.ApproverID = &actor.ID
	if target.IsTerminal() {
		revision.ProcessedAt = &now
	}

	s.notify(revision.ProposerID, decisionEvents[action], revisionID, map[string]string{
		"decided_by": actor.ScreenName,
		"comment":    s.strip.Sanitize(comment),
	})

	return revision, nil
}

// Escalate marks a pending revision escalated and bumps its priority
// tier. Admin only.
func (s *workflowService) Escalate(revisionID string, actor *knowledge.User) error {
	revision, err := s.repo.SelectRevision(revisionID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return knowledge.NewPermissionError(actor.ID, "escalate revisions")
	}
	if !revision.Status.CanTransition(knowledge.StatusEscalated) {
		return knowledge.NewStatusError(revisionID, revision.Status, knowledge.StatusEscalated)
	}

	err = s.repo.CompareAndSetStatus(revisionID, revision.Status, knowledge.StatusEscalated, repository.StatusUpdate{
		Priority: knowledge.EscalationTarget(revision.Priority),
	})
	if err != nil {
		return s.conflictToStatusError(revisionID, knowledge.StatusEscalated, err)
	}

	if revision.ApproverID != nil {
		s.notify(*revision.ApproverID, knowledge.EventEscalated, revisionID, map[string]string{
			"priority": string(knowledge.EscalationTarget(revision.Priority)),
		})
	}
	return nil
}

// isDecidable reports whether a status accepts approver decisions.
func isDecidable(status knowledge.Status) bool {
	switch status {
	case knowledge.StatusSubmitted, knowledge.StatusUnderReview, knowledge.StatusEscalated:
		return true
	}
	return false
}

// checkDecisionAuthority enforces the single-approver rule: the
// designated approver decides, unless an admin overrides. Revisions
// with no designated approver accept any approver-capable actor.
func (s *workflowService) checkDecisionAuthority(revision *knowledge.Revision, actor *knowledge.User) error {
	if actor.IsAdmin() {
		return nil
	}
	if revision.ApproverID == nil {
		if actor.CanApprove() {
			return nil
		}
		return knowledge.NewPermissionError(actor.ID, "decide revisions")
	}
	if *revision.ApproverID != actor.ID {
		return knowledge.NewPermissionError(actor.ID, "decide this revision")
	}
	return nil
}

// conflictToStatusError converts a compare-and-set conflict into a
// StatusError carrying the revision's fresh status, so a losing racer
// sees the same failure as a late sequential caller.
func (s *workflowService) conflictToStatusError(revisionID string, attempted knowledge.Status, err error) error {
	if !errors.Is(err, knowledge.ErrStatusConflict) {
		return err
	}
	current, fetchErr := s.repo.SelectRevision(revisionID)
	if fetchErr != nil {
		return knowledge.NewStatusError(revisionID, "", attempted)
	}
	return knowledge.NewStatusError(revisionID, current.Status, attempted)
}

// notify delivers an event, logging failures instead of propagating
// them. Delivery guarantees belong to the notifier.
func (s *workflowService) notify(recipientID int, kind knowledge.EventKind, revisionID string, metadata map[string]string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(recipientID, kind, revisionID, metadata); err != nil {
		slog.Warn("notification delivery failed", "event", kind, "revision", revisionID, "error", err)
	}
}
