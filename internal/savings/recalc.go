package savings

import (
	"errors"
	"fmt"

	"github.com/lentakristina/finance-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate takes a row-level lock on dialects that support SELECT ...
// FOR UPDATE. SQLite serializes writers on its own, so the clause is skipped
// there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// logTotal sums the savings log amounts attributed to a goal. When
// excludeTxnID is non-zero, rows belonging to that transaction are left out.
func logTotal(tx *gorm.DB, goalID uint, excludeTxnID uint) (int64, error) {
	q := tx.Model(&models.SavingsLog{}).Where("goal_id = ?", goalID)
	if excludeTxnID != 0 {
		q = q.Where("transaction_id <> ?", excludeTxnID)
	}
	var total int64
	if err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("sum savings logs for goal %d: %w", goalID, err)
	}
	return total, nil
}

// Recalculate derives a goal's current amount from its savings log rows and
// writes it back. It must run inside the caller's unit of work; the goal row
// stays locked for the read-modify-write. Idempotent: with no intervening
// writes, a second call yields the same amount.
func Recalculate(tx *gorm.DB, goalID uint) (int64, error) {
	var goal models.Goal
	if err := lockForUpdate(tx).First(&goal, goalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("load goal %d: %w", goalID, err)
	}

	total, err := logTotal(tx, goalID, 0)
	if err != nil {
		return 0, err
	}
	if total < 0 {
		return 0, &ConsistencyError{GoalID: goalID, Derived: total}
	}

	if total != goal.CurrentAmount {
		if err := tx.Model(&goal).Update("current_amount", total).Error; err != nil {
			return 0, fmt.Errorf("update goal %d: %w", goalID, err)
		}
	}
	return total, nil
}
