package savings

import (
	"math"

	"github.com/lentakristina/finance-backend/internal/models"
)

// Allocation is one goal's share of a saving transaction.
type Allocation struct {
	GoalID uint
	Amount int64
}

// Allocator splits a single saving transaction across a set of goals. It is
// stateless and pure: it never touches storage, the coordinator persists the
// resulting savings logs and goal increments in its unit of work.
type Allocator struct{}

// Allocate distributes amount (cents) over goals, which must already be
// ordered by ascending priority. When at least one goal declares an
// allocation percentage the split is weighted by those percentages, with a
// priority-order second pass for whatever the per-goal capacity caps left
// over. Otherwise goals are filled in priority order. Any amount beyond the
// combined remaining capacity is not attributed to any goal.
func (Allocator) Allocate(amount int64, goals []models.Goal) []Allocation {
	if amount <= 0 || len(goals) == 0 {
		return nil
	}

	var totalPct float64
	for i := range goals {
		totalPct += goals[i].AllocationPct
	}

	// remaining capacity per goal, tracked across passes
	capacity := make(map[uint]int64, len(goals))
	for i := range goals {
		capacity[goals[i].ID] = goals[i].Remaining()
	}

	var out []Allocation
	remaining := amount

	take := func(goalID uint, want int64) {
		needed := capacity[goalID]
		if want <= 0 || needed <= 0 {
			return
		}
		allocated := want
		if allocated > needed {
			allocated = needed
		}
		if allocated > remaining {
			allocated = remaining
		}
		out = append(out, Allocation{GoalID: goalID, Amount: allocated})
		capacity[goalID] -= allocated
		remaining -= allocated
	}

	if totalPct > 0 {
		// weighted pass: per-goal portion rounded half-up at cent precision
		for i := range goals {
			if remaining <= 0 {
				break
			}
			pct := goals[i].AllocationPct
			if pct <= 0 {
				continue
			}
			portion := roundHalfUp(float64(amount) * pct / 100)
			take(goals[i].ID, portion)
		}
		// leftover from capping flows to the highest-priority open goals
		for i := range goals {
			if remaining <= 0 {
				break
			}
			take(goals[i].ID, remaining)
		}
		return out
	}

	// priority fill: first goal absorbs what it can, then the next
	for i := range goals {
		if remaining <= 0 {
			break
		}
		take(goals[i].ID, remaining)
	}
	return out
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
