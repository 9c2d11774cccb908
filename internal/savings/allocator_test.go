package savings

import (
	"testing"

	"github.com/lentakristina/finance-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goalFor(id uint, target, current int64, pct float64) models.Goal {
	return models.Goal{
		ID:            id,
		TargetAmount:  target,
		CurrentAmount: current,
		AllocationPct: pct,
	}
}

func allocatedTotal(allocs []Allocation) int64 {
	var total int64
	for _, a := range allocs {
		total += a.Amount
	}
	return total
}

func TestAllocateWeighted(t *testing.T) {
	goals := []models.Goal{
		goalFor(1, 1_000_000, 0, 60),
		goalFor(2, 1_000_000, 0, 40),
	}

	allocs := Allocator{}.Allocate(500_000, goals)

	require.Len(t, allocs, 2)
	assert.Equal(t, Allocation{GoalID: 1, Amount: 300_000}, allocs[0])
	assert.Equal(t, Allocation{GoalID: 2, Amount: 200_000}, allocs[1])
}

func TestAllocateWeightedCapsAndRedistributes(t *testing.T) {
	// goal 1 wants 60% of 500 = 300 but only has room for 100; the capped
	// leftover flows back through the priority order
	goals := []models.Goal{
		goalFor(1, 100, 0, 60),
		goalFor(2, 1_000, 0, 40),
	}

	allocs := Allocator{}.Allocate(500, goals)

	require.Len(t, allocs, 3)
	assert.Equal(t, Allocation{GoalID: 1, Amount: 100}, allocs[0])
	assert.Equal(t, Allocation{GoalID: 2, Amount: 200}, allocs[1])
	assert.Equal(t, Allocation{GoalID: 2, Amount: 200}, allocs[2])
	assert.Equal(t, int64(500), allocatedTotal(allocs))
}

func TestAllocateWeightedRoundsHalfUp(t *testing.T) {
	goals := []models.Goal{
		goalFor(1, 10_000, 0, 50),
		goalFor(2, 10_000, 0, 50),
	}

	// 50% of 101 cents is 50.5, rounded half-up to 51; the second goal gets
	// what is left so nothing is invented
	allocs := Allocator{}.Allocate(101, goals)

	require.Len(t, allocs, 2)
	assert.Equal(t, int64(51), allocs[0].Amount)
	assert.Equal(t, int64(50), allocs[1].Amount)
	assert.Equal(t, int64(101), allocatedTotal(allocs))
}

func TestAllocatePriorityFill(t *testing.T) {
	goals := []models.Goal{
		goalFor(1, 300, 0, 0),
		goalFor(2, 1_000, 0, 0),
	}

	allocs := Allocator{}.Allocate(500, goals)

	require.Len(t, allocs, 2)
	assert.Equal(t, Allocation{GoalID: 1, Amount: 300}, allocs[0])
	assert.Equal(t, Allocation{GoalID: 2, Amount: 200}, allocs[1])
}

func TestAllocateSkipsFullGoals(t *testing.T) {
	goals := []models.Goal{
		goalFor(1, 300, 300, 0), // already full
		goalFor(2, 1_000, 990, 0),
	}

	allocs := Allocator{}.Allocate(500, goals)

	require.Len(t, allocs, 1)
	assert.Equal(t, Allocation{GoalID: 2, Amount: 10}, allocs[0])
}

func TestAllocateLeftoverIsUnattributed(t *testing.T) {
	goals := []models.Goal{
		goalFor(1, 100, 0, 70),
		goalFor(2, 100, 0, 30),
	}

	allocs := Allocator{}.Allocate(10_000, goals)

	// both goals fill, the rest stays general saving
	assert.Equal(t, int64(200), allocatedTotal(allocs))
}

func TestAllocateConservation(t *testing.T) {
	cases := []struct {
		name   string
		amount int64
		goals  []models.Goal
	}{
		{"weighted", 777, []models.Goal{goalFor(1, 500, 120, 33), goalFor(2, 400, 0, 67)}},
		{"priority", 999, []models.Goal{goalFor(1, 100, 50, 0), goalFor(2, 2_000, 0, 0)}},
		{"no goals", 100, nil},
		{"zero amount", 0, []models.Goal{goalFor(1, 100, 0, 50)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allocs := Allocator{}.Allocate(tc.amount, tc.goals)

			perGoal := make(map[uint]int64)
			for _, a := range allocs {
				assert.Positive(t, a.Amount)
				perGoal[a.GoalID] += a.Amount
			}
			assert.LessOrEqual(t, allocatedTotal(allocs), tc.amount)
			for _, g := range tc.goals {
				assert.LessOrEqual(t, perGoal[g.ID], g.Remaining(),
					"goal %d over its remaining capacity", g.ID)
			}
		})
	}
}
