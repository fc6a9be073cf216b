package repository

import (
	"time"

	"github.com/ekrsw/knowledge-app-sub001/knowledge"
)

// StatusUpdate carries the fields written together with a status change.
// Nil pointer fields and the empty priority leave the stored value alone.
type StatusUpdate struct {
	ApproverID  *int
	SubmittedAt *time.Time
	ProcessedAt *time.Time
	Priority    knowledge.Priority
}

// QueueFilters narrows the raw revision set fetched for queue building.
type QueueFilters struct {
	Priority  knowledge.Priority
	ArticleID string
	Statuses  []knowledge.Status
}

// RevisionRepository defines the persistence operations the workflow
// depends on. Implementations must give each call a consistent read of
// the current revision status.
type RevisionRepository interface {
	// InsertRevision stores a new draft revision.
	InsertRevision(r *knowledge.Revision) error

	// SelectRevision retrieves a revision by id, including its proposer.
	SelectRevision(id string) (*knowledge.Revision, error)

	// SelectRevisionsAwaitingApprover retrieves revisions waiting on the
	// given approver, i.e. those in a decidable status that either name
	// the approver or name no approver at all.
	SelectRevisionsAwaitingApprover(approverID int, filters QueueFilters) ([]*knowledge.Revision, error)

	// CompareAndSetStatus atomically moves a revision from the expected
	// status to the next one, applying the update in the same write.
	// Returns knowledge.ErrStatusConflict if the stored status no longer
	// matches expected, knowledge.ErrRevisionNotFound if the id does not
	// resolve.
	CompareAndSetStatus(id string, expected, next knowledge.Status, update StatusUpdate) error

	// UpdateRevisionContent overwrites the provided after-fields and,
	// when reason is non-empty, the reason. Only valid while drafting;
	// the status gate is the caller's responsibility.
	UpdateRevisionContent(id string, after knowledge.AfterFields, reason string) error

	// ApproverLoadCounts returns the raw workload numbers for an approver
	// as of now.
	ApproverLoadCounts(approverID int, now time.Time) (knowledge.LoadCounts, error)
}
