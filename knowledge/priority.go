package knowledge

// Priority is the business-assigned urgency tier of a revision,
// distinct from the numeric score computed by PriorityScore.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityUrgent   Priority = "urgent"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a tier callers may assign to a revision.
// PriorityCritical is reachable only through escalation.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ImpactLevel summarizes how consequential a revision's changes are.
type ImpactLevel string

const (
	ImpactNone     ImpactLevel = "none"
	ImpactLow      ImpactLevel = "low"
	ImpactMedium   ImpactLevel = "medium"
	ImpactHigh     ImpactLevel = "high"
	ImpactCritical ImpactLevel = "critical"
)

// impactBaseScores sets the starting score per impact tier.
// Unknown tiers fall back to 50.
var impactBaseScores = map[ImpactLevel]int{
	ImpactCritical: 1000,
	ImpactHigh:     500,
	ImpactMedium:   200,
	ImpactLow:      100,
}

// priorityMultipliers scale the final score by business priority.
// Absent or unknown tiers are a no-op.
var priorityMultipliers = map[Priority]float64{
	PriorityUrgent: 2.0,
	PriorityHigh:   1.5,
	PriorityMedium: 1.0,
	PriorityLow:    0.8,
}

// PriorityScore computes the numeric urgency score used to order the
// approval queue. Higher is more urgent. The time penalty bands are
// exclusive: only the highest matching band applies.
func PriorityScore(impact ImpactLevel, daysPending float64, criticalChanges int, priority Priority) int {
	score, ok := impactBaseScores[impact]
	if !ok {
		score = 50
	}

	switch {
	case daysPending > 7:
		score += 200
	case daysPending > 3:
		score += 100
	case daysPending > 1:
		score += 50
	}

	score += 50 * criticalChanges

	if mult, ok := priorityMultipliers[priority]; ok {
		score = int(float64(score) * mult)
	}

	return score
}
