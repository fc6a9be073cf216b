package knowledge

// Status represents a revision's position in the approval workflow.
type Status string

const (
	StatusDraft            Status = "draft"
	StatusSubmitted        Status = "submitted"
	StatusUnderReview      Status = "under_review"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusChangesRequested Status = "changes_requested"
	StatusEscalated        Status = "escalated"
	StatusDeleted          Status = "deleted"
)

// transitionTable maps each status to the statuses it may move to.
// Terminal statuses map to an empty slice.
var transitionTable = map[Status][]Status{
	StatusDraft:            {StatusSubmitted},
	StatusSubmitted:        {StatusUnderReview, StatusApproved, StatusRejected, StatusChangesRequested, StatusEscalated},
	StatusUnderReview:      {StatusApproved, StatusRejected, StatusChangesRequested, StatusEscalated},
	StatusChangesRequested: {StatusSubmitted},
	StatusEscalated:        {StatusApproved, StatusRejected, StatusChangesRequested},
	StatusApproved:         {},
	StatusRejected:         {},
	StatusDeleted:          {},
}

// ValidStatus reports whether s is a known workflow status.
func (s Status) Valid() bool {
	_, ok := transitionTable[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible from s.
func (s Status) IsTerminal() bool {
	next, ok := transitionTable[s]
	return ok && len(next) == 0
}

// CanTransition reports whether the workflow permits moving from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitionTable[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transitions returns the statuses reachable from s. The returned slice
// is a copy and safe to modify.
func (s Status) Transitions() []Status {
	next := transitionTable[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// DecisionAction is a decision an approver can take on a submitted revision.
type DecisionAction string

const (
	ActionApprove        DecisionAction = "approve"
	ActionReject         DecisionAction = "reject"
	ActionRequestChanges DecisionAction = "request_changes"
	ActionDefer          DecisionAction = "defer"
)

// decisionTargets maps each decision action to the status it produces.
var decisionTargets = map[DecisionAction]Status{
	ActionApprove:        StatusApproved,
	ActionReject:         StatusRejected,
	ActionRequestChanges: StatusChangesRequested,
	ActionDefer:          StatusUnderReview,
}

// Valid reports whether a is a recognized decision action.
func (a DecisionAction) Valid() bool {
	_, ok := decisionTargets[a]
	return ok
}

// TargetStatus returns the status a decision action moves a revision to.
// The second return is false for unrecognized actions.
func (a DecisionAction) TargetStatus() (Status, bool) {
	target, ok := decisionTargets[a]
	return target, ok
}
