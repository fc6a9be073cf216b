package knowledge

import "fmt"

// QueueHealth summarizes whether the approval queue needs intervention.
type QueueHealth string

const (
	HealthGood           QueueHealth = "good"
	HealthNeedsAttention QueueHealth = "needs_attention"
)

// WorkflowMetrics aggregates the state of an approval queue.
type WorkflowMetrics struct {
	TotalItems           int                 `json:"total_items"`
	OverdueRate          float64             `json:"overdue_rate"`
	UrgentRate           float64             `json:"urgent_rate"`
	AvgDaysPending       float64             `json:"avg_days_pending"`
	AvgReviewTime        float64             `json:"avg_review_time"`
	PriorityDistribution map[Priority]int    `json:"priority_distribution"`
	ImpactDistribution   map[ImpactLevel]int `json:"impact_distribution"`
	Health               QueueHealth         `json:"health"`
}

// ComputeMetrics derives queue health metrics. An empty queue yields the
// zero metrics with good health, never a division by zero.
func ComputeMetrics(queue []ApprovalQueueItem) WorkflowMetrics {
	metrics := WorkflowMetrics{
		TotalItems:           len(queue),
		PriorityDistribution: make(map[Priority]int),
		ImpactDistribution:   make(map[ImpactLevel]int),
		Health:               HealthGood,
	}
	if len(queue) == 0 {
		return metrics
	}

	var overdue, urgent int
	var totalDays, totalReview float64
	for _, item := range queue {
		if item.IsOverdue {
			overdue++
		}
		if item.Priority == PriorityUrgent || item.Priority == PriorityCritical {
			urgent++
		}
		totalDays += item.DaysPending
		totalReview += float64(item.EstimatedReviewTime)
		metrics.PriorityDistribution[item.Priority]++
		metrics.ImpactDistribution[item.ImpactLevel]++
	}

	total := float64(len(queue))
	metrics.OverdueRate = 100 * float64(overdue) / total
	metrics.UrgentRate = 100 * float64(urgent) / total
	metrics.AvgDaysPending = totalDays / total
	metrics.AvgReviewTime = totalReview / total

	if float64(overdue) >= total*0.1 {
		metrics.Health = HealthNeedsAttention
	}

	return metrics
}

// RecommendationKind tags a queue recommendation.
type RecommendationKind string

const (
	RecommendUrgentAttention        RecommendationKind = "urgent_attention"
	RecommendOverdueCleanup         RecommendationKind = "overdue_cleanup"
	RecommendRedistributeWorkload   RecommendationKind = "redistribute_workload"
	RecommendScheduleComplexReviews RecommendationKind = "schedule_complex_reviews"
)

// Recommendation is an actionable advisory derived from queue state.
type Recommendation struct {
	Kind     RecommendationKind `json:"kind"`
	Message  string             `json:"message"`
	Action   string             `json:"action"`
	ItemRefs []string           `json:"item_refs,omitempty"`
}

// itemRefs collects revision ids of up to max items matching keep.
func itemRefs(queue []ApprovalQueueItem, max int, keep func(ApprovalQueueItem) bool) []string {
	var refs []string
	for _, item := range queue {
		if !keep(item) {
			continue
		}
		refs = append(refs, item.RevisionID)
		if len(refs) == max {
			break
		}
	}
	return refs
}

// Recommend evaluates each advisory rule independently against the queue
// and the approver's capacity. Zero, some, or all rules may fire.
func Recommend(queue []ApprovalQueueItem, capacity CapacityLevel) []Recommendation {
	var recs []Recommendation

	urgentRefs := itemRefs(queue, 3, func(item ApprovalQueueItem) bool {
		return item.Priority == PriorityUrgent || item.Priority == PriorityCritical
	})
	if len(urgentRefs) > 0 {
		recs = append(recs, Recommendation{
			Kind:     RecommendUrgentAttention,
			Message:  "Urgent-priority revisions are waiting for review",
			Action:   "Review urgent items before anything else",
			ItemRefs: urgentRefs,
		})
	}

	var overdueCount int
	for _, item := range queue {
		if item.IsOverdue {
			overdueCount++
		}
	}
	if overdueCount > 3 {
		recs = append(recs, Recommendation{
			Kind:     RecommendOverdueCleanup,
			Message:  fmt.Sprintf("%d revisions are past their review threshold", overdueCount),
			Action:   "Clear overdue items to stop further escalation",
			ItemRefs: itemRefs(queue, 5, func(item ApprovalQueueItem) bool { return item.IsOverdue }),
		})
	}

	if capacity == CapacityOverloaded {
		recs = append(recs, Recommendation{
			Kind:    RecommendRedistributeWorkload,
			Message: "Approver is overloaded",
			Action:  "Reassign part of the queue to other approvers",
		})
	}

	complexRefs := itemRefs(queue, 3, func(item ApprovalQueueItem) bool {
		return item.EstimatedReviewTime > 30
	})
	if len(complexRefs) > 0 {
		recs = append(recs, Recommendation{
			Kind:     RecommendScheduleComplexReviews,
			Message:  "Some revisions need a longer review session",
			Action:   "Block dedicated time for complex reviews",
			ItemRefs: complexRefs,
		})
	}

	return recs
}
