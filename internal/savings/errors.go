package savings

import (
	"errors"
	"fmt"

	"github.com/lentakristina/finance-backend/internal/util"
)

var (
	// ErrNotFound means the goal or transaction does not exist (or is not
	// visible to the acting user).
	ErrNotFound = errors.New("record not found")
	// ErrNotOwned means the referenced goal belongs to another user.
	ErrNotOwned = errors.New("goal not owned by user")
	// ErrExplicitGoal is returned when a transaction names a goal while the
	// deployment runs in split allocation mode; one attribution policy is
	// active at a time.
	ErrExplicitGoal = errors.New("explicit goal attribution is disabled in split mode")
)

// CapacityError rejects a write that would push a goal's current amount past
// its target. Remaining is the headroom in cents at the time of the check.
type CapacityError struct {
	GoalName  string
	Remaining int64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("amount exceeds remaining target of goal '%s', maximum: %s",
		e.GoalName, util.FormatAmount(e.Remaining))
}

// ConsistencyError reports an internal invariant violation: the log-derived
// total for a goal is out of the valid range. It indicates a bug in the
// coordinator protocol, never a user mistake explainable by input.
type ConsistencyError struct {
	GoalID  uint
	Derived int64
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("inconsistent savings ledger for goal %d: derived total %d", e.GoalID, e.Derived)
}
