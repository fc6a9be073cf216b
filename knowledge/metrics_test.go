package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeMetrics_EmptyQueue(t *testing.T) {
	metrics := ComputeMetrics(nil)

	assert.Equal(t, 0, metrics.TotalItems)
	assert.Equal(t, 0.0, metrics.OverdueRate)
	assert.Equal(t, 0.0, metrics.UrgentRate)
	assert.Equal(t, 0.0, metrics.AvgDaysPending)
	assert.Equal(t, 0.0, metrics.AvgReviewTime)
	assert.Empty(t, metrics.PriorityDistribution)
	assert.Empty(t, metrics.ImpactDistribution)
	assert.Equal(t, HealthGood, metrics.Health)
}

func TestComputeMetrics_Aggregates(t *testing.T) {
	queue := []ApprovalQueueItem{
		{Priority: PriorityUrgent, ImpactLevel: ImpactHigh, DaysPending: 2, EstimatedReviewTime: 10, IsOverdue: true},
		{Priority: PriorityLow, ImpactLevel: ImpactLow, DaysPending: 4, EstimatedReviewTime: 20},
		{Priority: PriorityLow, ImpactLevel: ImpactHigh, DaysPending: 6, EstimatedReviewTime: 30},
		{Priority: PriorityMedium, ImpactLevel: ImpactMedium, DaysPending: 0, EstimatedReviewTime: 40},
	}

	metrics := ComputeMetrics(queue)
	assert.Equal(t, 4, metrics.TotalItems)
	assert.Equal(t, 25.0, metrics.OverdueRate)
	assert.Equal(t, 25.0, metrics.UrgentRate)
	assert.Equal(t, 3.0, metrics.AvgDaysPending)
	assert.Equal(t, 25.0, metrics.AvgReviewTime)
	assert.Equal(t, 2, metrics.PriorityDistribution[PriorityLow])
	assert.Equal(t, 2, metrics.ImpactDistribution[ImpactHigh])
	assert.Equal(t, HealthNeedsAttention, metrics.Health)
}

func TestComputeMetrics_HealthBoundary(t *testing.T) {
	clean := make([]ApprovalQueueItem, 10)
	assert.Equal(t, HealthGood, ComputeMetrics(clean).Health)

	// One overdue in ten hits the 10% threshold exactly.
	overdueOne := make([]ApprovalQueueItem, 10)
	overdueOne[0].IsOverdue = true
	assert.Equal(t, HealthNeedsAttention, ComputeMetrics(overdueOne).Health)

	// One overdue in eleven stays below it.
	overdueEleven := make([]ApprovalQueueItem, 11)
	overdueEleven[0].IsOverdue = true
	assert.Equal(t, HealthGood, ComputeMetrics(overdueEleven).Health)
}

func TestRecommend_NoRulesFire(t *testing.T) {
	queue := []ApprovalQueueItem{
		{RevisionID: "r1", Priority: PriorityMedium, EstimatedReviewTime: 10},
	}
	assert.Empty(t, Recommend(queue, CapacityLow))
}

func TestRecommend_UrgentAttention(t *testing.T) {
	queue := []ApprovalQueueItem{
		{RevisionID: "u1", Priority: PriorityUrgent},
		{RevisionID: "m1", Priority: PriorityMedium},
		{RevisionID: "u2", Priority: PriorityCritical},
		{RevisionID: "u3", Priority: PriorityUrgent},
		{RevisionID: "u4", Priority: PriorityUrgent},
	}

	recs := Recommend(queue, CapacityLow)
	if assert.Len(t, recs, 1) {
		assert.Equal(t, RecommendUrgentAttention, recs[0].Kind)
		// Top three only.
		assert.Equal(t, []string{"u1", "u2", "u3"}, recs[0].ItemRefs)
	}
}

func TestRecommend_OverdueCleanup(t *testing.T) {
	threeOverdue := []ApprovalQueueItem{
		{RevisionID: "o1", IsOverdue: true},
		{RevisionID: "o2", IsOverdue: true},
		{RevisionID: "o3", IsOverdue: true},
	}
	assert.Empty(t, Recommend(threeOverdue, CapacityLow), "exactly three overdue does not fire")

	manyOverdue := make([]ApprovalQueueItem, 0, 7)
	for _, id := range []string{"o1", "o2", "o3", "o4", "o5", "o6", "o7"} {
		manyOverdue = append(manyOverdue, ApprovalQueueItem{RevisionID: id, IsOverdue: true})
	}

	recs := Recommend(manyOverdue, CapacityLow)
	if assert.Len(t, recs, 1) {
		assert.Equal(t, RecommendOverdueCleanup, recs[0].Kind)
		// Top five only.
		assert.Equal(t, []string{"o1", "o2", "o3", "o4", "o5"}, recs[0].ItemRefs)
	}
}

func TestRecommend_OverloadedCapacity(t *testing.T) {
	recs := Recommend(nil, CapacityOverloaded)
	if assert.Len(t, recs, 1) {
		assert.Equal(t, RecommendRedistributeWorkload, recs[0].Kind)
		assert.Empty(t, recs[0].ItemRefs)
	}
}

func TestRecommend_ComplexReviews(t *testing.T) {
	queue := []ApprovalQueueItem{
		{RevisionID: "quick", EstimatedReviewTime: 30},
		{RevisionID: "slow", EstimatedReviewTime: 31},
	}

	recs := Recommend(queue, CapacityMedium)
	if assert.Len(t, recs, 1) {
		assert.Equal(t, RecommendScheduleComplexReviews, recs[0].Kind)
		assert.Equal(t, []string{"slow"}, recs[0].ItemRefs)
	}
}

func TestRecommend_AllRulesIndependent(t *testing.T) {
	queue := []ApprovalQueueItem{
		{RevisionID: "a", Priority: PriorityUrgent, IsOverdue: true, EstimatedReviewTime: 45},
		{RevisionID: "b", IsOverdue: true},
		{RevisionID: "c", IsOverdue: true},
		{RevisionID: "d", IsOverdue: true},
	}

	recs := Recommend(queue, CapacityOverloaded)
	kinds := make([]RecommendationKind, len(recs))
	for i, rec := range recs {
		kinds[i] = rec.Kind
	}
	assert.Equal(t, []RecommendationKind{
		RecommendUrgentAttention,
		RecommendOverdueCleanup,
		RecommendRedistributeWorkload,
		RecommendScheduleComplexReviews,
	}, kinds)
}
