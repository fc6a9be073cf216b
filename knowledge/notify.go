package knowledge

// EventKind identifies a workflow event announced to a user.
type EventKind string

const (
	EventSubmitted        EventKind = "revision_submitted"
	EventApproved         EventKind = "revision_approved"
	EventRejected         EventKind = "revision_rejected"
	EventChangesRequested EventKind = "revision_changes_requested"
	EventDeferred         EventKind = "revision_deferred"
	EventEscalated        EventKind = "revision_escalated"
)

// Notifier delivers workflow events to users. Delivery is fire-and-forget
// from the workflow's perspective; implementations own retries and
// transport.
type Notifier interface {
	Notify(recipientID int, kind EventKind, revisionID string, metadata map[string]string) error
}
