package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityScore_BaseScores(t *testing.T) {
	assert.Equal(t, 1000, PriorityScore(ImpactCritical, 0, 0, ""))
	assert.Equal(t, 500, PriorityScore(ImpactHigh, 0, 0, ""))
	assert.Equal(t, 200, PriorityScore(ImpactMedium, 0, 0, ""))
	assert.Equal(t, 100, PriorityScore(ImpactLow, 0, 0, ""))

	// Unknown impact tiers fall back to 50.
	assert.Equal(t, 50, PriorityScore(ImpactLevel("mystery"), 0, 0, ""))
	assert.Equal(t, 50, PriorityScore(ImpactNone, 0, 0, ""))
}

func TestPriorityScore_TimePenaltyBands(t *testing.T) {
	// Only the highest matching band applies; bands are not cumulative.
	assert.Equal(t, 100, PriorityScore(ImpactLow, 0, 0, ""))
	assert.Equal(t, 100, PriorityScore(ImpactLow, 1, 0, ""))
	assert.Equal(t, 150, PriorityScore(ImpactLow, 1.5, 0, ""))
	assert.Equal(t, 150, PriorityScore(ImpactLow, 3, 0, ""))
	assert.Equal(t, 200, PriorityScore(ImpactLow, 3.5, 0, ""))
	assert.Equal(t, 200, PriorityScore(ImpactLow, 7, 0, ""))
	assert.Equal(t, 300, PriorityScore(ImpactLow, 7.5, 0, ""))
	assert.Equal(t, 300, PriorityScore(ImpactLow, 365, 0, ""))
}

func TestPriorityScore_MonotonicInDaysPending(t *testing.T) {
	days := []float64{0, 1, 2, 3, 4, 7, 8, 30}
	prev := -1
	for _, d := range days {
		score := PriorityScore(ImpactMedium, d, 2, PriorityHigh)
		assert.GreaterOrEqual(t, score, prev, "score decreased at days_pending=%v", d)
		prev = score
	}
}

func TestPriorityScore_CriticalChangesPenalty(t *testing.T) {
	// Linear and unbounded: +50 per critical change.
	assert.Equal(t, 250, PriorityScore(ImpactMedium, 0, 1, ""))
	assert.Equal(t, 700, PriorityScore(ImpactMedium, 0, 10, ""))
	assert.Equal(t, 5200, PriorityScore(ImpactMedium, 0, 100, ""))
}

func TestPriorityScore_BusinessPriorityMultiplier(t *testing.T) {
	assert.Equal(t, 400, PriorityScore(ImpactMedium, 0, 0, PriorityUrgent))
	assert.Equal(t, 300, PriorityScore(ImpactMedium, 0, 0, PriorityHigh))
	assert.Equal(t, 200, PriorityScore(ImpactMedium, 0, 0, PriorityMedium))
	assert.Equal(t, 160, PriorityScore(ImpactMedium, 0, 0, PriorityLow))

	// Absent or unknown priority is a no-op.
	assert.Equal(t, 200, PriorityScore(ImpactMedium, 0, 0, ""))
	assert.Equal(t, 200, PriorityScore(ImpactMedium, 0, 0, Priority("whatever")))
}

func TestPriorityScore_MultiplierAppliedLast(t *testing.T) {
	// (1000 base + 200 time + 150 critical) * 2.0
	assert.Equal(t, 2700, PriorityScore(ImpactCritical, 10, 3, PriorityUrgent))

	// Truncation: (100 + 50) * 0.8 = 120, and (100+50+50)*0.8 = 160.
	assert.Equal(t, 120, PriorityScore(ImpactLow, 2, 0, PriorityLow))
	assert.Equal(t, 160, PriorityScore(ImpactLow, 2, 1, PriorityLow))
}
