package savings

import (
	"errors"
	"fmt"

	"github.com/lentakristina/finance-backend/internal/models"

	"gorm.io/gorm"
)

// SyncResult is the outcome of resyncing one goal.
type SyncResult struct {
	GoalID uint
	Name   string
	Old    int64
	New    int64
}

// Changed reports whether the resync corrected a drifted amount.
func (r SyncResult) Changed() bool { return r.Old != r.New }

// SyncAll recalculates every goal's current amount from the savings ledger,
// one unit of work per goal. It is idempotent and safe to run while normal
// traffic mutates goals: each goal is locked for its own read-modify-write,
// and a lost race simply means the next run has nothing to fix. The visit
// callback, when non-nil, observes each result as it commits.
func SyncAll(db *gorm.DB, visit func(SyncResult)) (updated, unchanged int, err error) {
	var goals []models.Goal
	if err = db.Find(&goals).Error; err != nil {
		return 0, 0, fmt.Errorf("load goals: %w", err)
	}

	for i := range goals {
		goal := goals[i]
		res := SyncResult{GoalID: goal.ID, Name: goal.Name, Old: goal.CurrentAmount}
		err = db.Transaction(func(tx *gorm.DB) error {
			total, rerr := Recalculate(tx, goal.ID)
			if rerr != nil {
				return rerr
			}
			res.New = total
			return nil
		})
		if errors.Is(err, ErrNotFound) {
			// goal deleted since the listing; nothing to sync
			err = nil
			continue
		}
		if err != nil {
			return updated, unchanged, fmt.Errorf("sync goal %d: %w", goal.ID, err)
		}
		if res.Changed() {
			updated++
		} else {
			unchanged++
		}
		if visit != nil {
			visit(res)
		}
	}
	return updated, unchanged, nil
}
