package service

import (
	"time"

	"github.com/ekrsw/knowledge-app-sub001/knowledge"
	"github.com/ekrsw/knowledge-app-sub001/knowledge/repository"
)

// QueueService builds ordered approval queues and the read models
// derived from them.
type QueueService interface {
	// BuildQueue fetches the revisions awaiting the approver, projects
	// them into queue items and ranks them most urgent first.
	BuildQueue(approverID int, filters repository.QueueFilters) ([]knowledge.ApprovalQueueItem, error)

	// Workload returns the approver's current load snapshot.
	Workload(approver *knowledge.User) (*knowledge.ApproverWorkload, error)

	// Metrics aggregates a queue into health metrics.
	Metrics(queue []knowledge.ApprovalQueueItem) knowledge.WorkflowMetrics

	// Recommendations evaluates the advisory rules for a queue and the
	// approver's capacity.
	Recommendations(queue []knowledge.ApprovalQueueItem, capacity knowledge.CapacityLevel) []knowledge.Recommendation
}

// queueService is the default implementation of QueueService.
type queueService struct {
	repo repository.RevisionRepository
}

// NewQueueService creates a new QueueService.
func NewQueueService(repo repository.RevisionRepository) QueueService {
	return &queueService{repo: repo}
}

// BuildQueue fetches the revisions awaiting the approver, projects them
// into queue items and ranks them most urgent first.
func (s *queueService) BuildQueue(approverID int, filters repository.QueueFilters) ([]knowledge.ApprovalQueueItem, error) {
	revisions, err := s.repo.SelectRevisionsAwaitingApprover(approverID, filters)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]knowledge.ApprovalQueueItem, 0, len(revisions))
	for _, revision := range revisions {
		items = append(items, knowledge.NewQueueItem(revision, now))
	}

	return knowledge.RankQueue(items), nil
}

// Workload returns the approver's current load snapshot, with the
// capacity tier derived from pending and overdue counts.
func (s *queueService) Workload(approver *knowledge.User) (*knowledge.ApproverWorkload, error) {
	counts, err := s.repo.ApproverLoadCounts(approver.ID, time.Now())
	if err != nil {
		return nil, err
	}

	queue, err := s.BuildQueue(approver.ID, repository.QueueFilters{})
	if err != nil {
		return nil, err
	}
	var totalReview float64
	for _, item := range queue {
		totalReview += float64(item.EstimatedReviewTime)
	}
	var avgReview float64
	if len(queue) > 0 {
		avgReview = totalReview / float64(len(queue))
	}

	return &knowledge.ApproverWorkload{
		ApproverID:        approver.ID,
		ApproverName:      approver.ScreenName,
		PendingCount:      counts.Pending,
		OverdueCount:      counts.Overdue,
		CompletedToday:    counts.CompletedToday,
		CompletedThisWeek: counts.CompletedThisWeek,
		AvgReviewTime:     avgReview,
		CurrentCapacity:   knowledge.ClassifyCapacity(counts.Pending, counts.Overdue),
	}, nil
}

// Metrics aggregates a queue into health metrics.
func (s *queueService) Metrics(queue []knowledge.ApprovalQueueItem) knowledge.WorkflowMetrics {
	return knowledge.ComputeMetrics(queue)
}

// Recommendations evaluates the advisory rules for a queue and the
// approver's capacity.
func (s *queueService) Recommendations(queue []knowledge.ApprovalQueueItem, capacity knowledge.CapacityLevel) []knowledge.Recommendation {
	return knowledge.Recommend(queue, capacity)
}
