package knowledge

// CapacityLevel is an approver's current workload tier.
type CapacityLevel string

const (
	CapacityLow        CapacityLevel = "low"
	CapacityMedium     CapacityLevel = "medium"
	CapacityHigh       CapacityLevel = "high"
	CapacityOverloaded CapacityLevel = "overloaded"
)

// ClassifyCapacity derives an approver's capacity tier from their
// pending and overdue counts. Overdue items dominate: a backlog of
// overdue reviews escalates the tier even when few items are pending.
func ClassifyCapacity(pendingCount, overdueCount int) CapacityLevel {
	if overdueCount > 5 {
		return CapacityOverloaded
	}
	if overdueCount > 2 {
		return CapacityHigh
	}

	switch {
	case pendingCount <= 3:
		return CapacityLow
	case pendingCount <= 8:
		return CapacityMedium
	case pendingCount <= 15:
		return CapacityHigh
	default:
		return CapacityOverloaded
	}
}
