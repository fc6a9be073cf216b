package knowledge

import (
	"sort"
	"time"
)

// ApprovalQueueItem is a read-only projection of a pending revision,
// enriched with the computed fields the queue is ordered by. Items are
// built per query and never persisted.
type ApprovalQueueItem struct {
	RevisionID          string      `json:"revision_id"`
	ArticleID           string      `json:"article_id"`
	ProposerName        string      `json:"proposer_name"`
	Reason              string      `json:"reason"`
	Priority            Priority    `json:"priority"`
	ImpactLevel         ImpactLevel `json:"impact_level"`
	TotalChanges        int         `json:"total_changes"`
	CriticalChanges     int         `json:"critical_changes"`
	EstimatedReviewTime int         `json:"estimated_review_time"`
	SubmittedAt         time.Time   `json:"submitted_at"`
	DaysPending         float64     `json:"days_pending"`
	IsOverdue           bool        `json:"is_overdue"`
}

// Score returns the item's numeric urgency score.
func (item *ApprovalQueueItem) Score() int {
	return PriorityScore(item.ImpactLevel, item.DaysPending, item.CriticalChanges, item.Priority)
}

// NewQueueItem projects a revision into an approval queue item as of now.
func NewQueueItem(r *Revision, now time.Time) ApprovalQueueItem {
	total, critical := r.CountChanges()

	item := ApprovalQueueItem{
		RevisionID:          r.ID,
		ArticleID:           r.ArticleID,
		Reason:              r.Reason,
		Priority:            r.Priority,
		ImpactLevel:         r.Impact(),
		TotalChanges:        total,
		CriticalChanges:     critical,
		EstimatedReviewTime: EstimateReviewTime(total, critical),
		DaysPending:         r.DaysPending(now),
		IsOverdue:           r.IsOverdue(now),
	}
	if r.SubmittedAt != nil {
		item.SubmittedAt = *r.SubmittedAt
	}
	if r.Proposer != nil {
		item.ProposerName = r.Proposer.ScreenName
	}
	return item
}

// RankQueue orders queue items most urgent first: by priority score,
// then days pending, then critical change count, all descending. The
// sort is stable, so items with identical keys keep their input order.
func RankQueue(items []ApprovalQueueItem) []ApprovalQueueItem {
	type scored struct {
		item  ApprovalQueueItem
		score int
	}

	ranked := make([]scored, len(items))
	for i, item := range items {
		ranked[i] = scored{item: item, score: item.Score()}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if ranked[i].item.DaysPending != ranked[j].item.DaysPending {
			return ranked[i].item.DaysPending > ranked[j].item.DaysPending
		}
		return ranked[i].item.CriticalChanges > ranked[j].item.CriticalChanges
	})

	out := make([]ApprovalQueueItem, len(ranked))
	for i, s := range ranked {
		out[i] = s.item
	}
	return out
}

// LoadCounts are the raw workload numbers supplied by storage.
type LoadCounts struct {
	Pending           int `db:"pending"`
	Overdue           int `db:"overdue"`
	CompletedToday    int `db:"completed_today"`
	CompletedThisWeek int `db:"completed_this_week"`
}

// ApproverWorkload is a transient snapshot of one approver's load.
type ApproverWorkload struct {
	ApproverID        int           `json:"approver_id"`
	ApproverName      string        `json:"approver_name"`
	PendingCount      int           `json:"pending_count"`
	OverdueCount      int           `json:"overdue_count"`
	CompletedToday    int           `json:"completed_today"`
	CompletedThisWeek int           `json:"completed_this_week"`
	AvgReviewTime     float64       `json:"avg_review_time"`
	CurrentCapacity   CapacityLevel `json:"current_capacity"`
}
