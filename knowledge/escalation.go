package knowledge

// escalationRule pairs the pending-days threshold that triggers
// escalation with the tier a revision escalates to.
type escalationRule struct {
	ThresholdDays float64
	NextPriority  Priority
}

var escalationRules = map[Priority]escalationRule{
	PriorityLow:    {ThresholdDays: 7, NextPriority: PriorityMedium},
	PriorityMedium: {ThresholdDays: 3, NextPriority: PriorityHigh},
	PriorityHigh:   {ThresholdDays: 1, NextPriority: PriorityUrgent},
	PriorityUrgent: {ThresholdDays: 0.5, NextPriority: PriorityCritical},
}

// ShouldEscalate reports whether a revision at the given priority has
// been pending long enough to escalate. Unrecognized priorities never
// escalate.
func ShouldEscalate(priority Priority, daysPending float64) bool {
	rule, ok := escalationRules[priority]
	if !ok {
		return false
	}
	return daysPending >= rule.ThresholdDays
}

// EscalationTarget returns the priority a revision escalates to.
// Priorities without an escalation rule are returned unchanged.
func EscalationTarget(priority Priority) Priority {
	rule, ok := escalationRules[priority]
	if !ok {
		return priority
	}
	return rule.NextPriority
}
