package savings

import (
	"errors"
	"fmt"
	"time"

	"github.com/lentakristina/finance-backend/internal/models"

	"gorm.io/gorm"
)

// Mode selects the goal attribution policy for a deployment.
type Mode string

const (
	// ModeSingle attributes a saving transaction in full to the one goal it
	// names.
	ModeSingle Mode = "single"
	// ModeSplit distributes a saving transaction across all of the owner's
	// goals via the Allocator.
	ModeSplit Mode = "split"
)

// ParseMode maps a config string to a Mode, defaulting to single attribution.
func ParseMode(s string) Mode {
	if Mode(s) == ModeSplit {
		return ModeSplit
	}
	return ModeSingle
}

// Coordinator owns every transaction write that can touch a goal. Each
// lifecycle transition (create, update, delete) runs as one atomic unit of
// work: ledger row, savings logs and goal amounts commit together or not at
// all. Goal rows are locked before their current amount is read, so
// concurrent mutations against the same goal serialize and recompute from
// committed state.
type Coordinator struct {
	db    *gorm.DB
	alloc Allocator
	mode  Mode
}

func NewCoordinator(db *gorm.DB, mode Mode) *Coordinator {
	return &Coordinator{db: db, mode: mode}
}

// TransactionUpdate carries the new field values for an update. GoalID nil
// detaches the transaction from any goal.
type TransactionUpdate struct {
	Date       time.Time
	CategoryID uint
	Amount     int64
	Note       string
	GoalID     *uint
}

// Create persists a new transaction. For saving-type categories it also
// performs goal attribution: a capacity-checked single-goal funding in single
// mode, or an allocator split in split mode.
func (c *Coordinator) Create(txn *models.Transaction) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		if err := tx.First(&cat, txn.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load category: %w", err)
		}
		saving := cat.Type == models.CategoryTypeSaving

		if c.mode == ModeSplit && txn.GoalID != nil {
			return ErrExplicitGoal
		}

		if txn.GoalID != nil {
			goal, err := c.lockGoal(tx, *txn.GoalID, txn.UserID)
			if err != nil {
				return err
			}
			if saving {
				return c.createAttributed(tx, txn, goal)
			}
		}

		if saving && c.mode == ModeSplit {
			return c.createSplit(tx, txn)
		}

		// plain ledger write, no goal bookkeeping
		if err := tx.Create(txn).Error; err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return nil
	})
}

// createAttributed funds one explicitly named goal with the full amount. The
// capacity check runs against the log-derived total, not the stored current
// amount, so it is immune to drift; it happens before any persistent write.
func (c *Coordinator) createAttributed(tx *gorm.DB, txn *models.Transaction, goal *models.Goal) error {
	current, err := logTotal(tx, goal.ID, 0)
	if err != nil {
		return err
	}
	if available := goal.TargetAmount - current; txn.Amount > available {
		return &CapacityError{GoalName: goal.Name, Remaining: available}
	}

	if err := tx.Create(txn).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	log := models.SavingsLog{TransactionID: txn.ID, GoalID: goal.ID, Amount: txn.Amount}
	if err := tx.Create(&log).Error; err != nil {
		return fmt.Errorf("create savings log: %w", err)
	}
	if err := tx.Model(&models.Goal{}).Where("id = ?", goal.ID).
		Update("current_amount", current+txn.Amount).Error; err != nil {
		return fmt.Errorf("update goal %d: %w", goal.ID, err)
	}
	return nil
}

func (c *Coordinator) createSplit(tx *gorm.DB, txn *models.Transaction) error {
	goals, err := c.lockUserGoals(tx, txn.UserID)
	if err != nil {
		return err
	}
	if err := tx.Create(txn).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return c.applyAllocations(tx, txn, goals)
}

func (c *Coordinator) applyAllocations(tx *gorm.DB, txn *models.Transaction, goals []models.Goal) error {
	for _, a := range c.alloc.Allocate(txn.Amount, goals) {
		log := models.SavingsLog{TransactionID: txn.ID, GoalID: a.GoalID, Amount: a.Amount}
		if err := tx.Create(&log).Error; err != nil {
			return fmt.Errorf("create savings log: %w", err)
		}
		if err := tx.Model(&models.Goal{}).Where("id = ?", a.GoalID).
			Update("current_amount", gorm.Expr("current_amount + ?", a.Amount)).Error; err != nil {
			return fmt.Errorf("update goal %d: %w", a.GoalID, err)
		}
	}
	return nil
}

// Update applies new field values to an existing transaction. Old goal
// attributions are removed first (delete-then-recreate, logs are never
// edited), the new attribution is applied under the same capacity rules as
// Create, and every goal that lost this transaction's contribution is
// recalculated from the remaining logs.
func (c *Coordinator) Update(userID, id uint, upd TransactionUpdate) (*models.Transaction, error) {
	var result models.Transaction
	err := c.db.Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load transaction: %w", err)
		}

		if c.mode == ModeSplit && upd.GoalID != nil {
			return ErrExplicitGoal
		}

		// goals currently funded by this transaction
		var oldGoalIDs []uint
		if err := tx.Model(&models.SavingsLog{}).Where("transaction_id = ?", txn.ID).
			Distinct().Pluck("goal_id", &oldGoalIDs).Error; err != nil {
			return fmt.Errorf("load savings logs: %w", err)
		}

		var newGoal *models.Goal
		if upd.GoalID != nil {
			g, err := c.lockGoal(tx, *upd.GoalID, userID)
			if err != nil {
				return err
			}
			newGoal = g
		}
		var newCat models.Category
		if err := tx.First(&newCat, upd.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load category: %w", err)
		}

		if len(oldGoalIDs) > 0 {
			if err := tx.Where("transaction_id = ?", txn.ID).Delete(&models.SavingsLog{}).Error; err != nil {
				return fmt.Errorf("delete savings logs: %w", err)
			}
		}

		if err := tx.Model(&txn).Updates(map[string]interface{}{
			"date":        upd.Date,
			"category_id": upd.CategoryID,
			"amount":      upd.Amount,
			"note":        upd.Note,
			"goal_id":     upd.GoalID,
		}).Error; err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		txn.Date = upd.Date
		txn.CategoryID = upd.CategoryID
		txn.Amount = upd.Amount
		txn.Note = upd.Note
		txn.GoalID = upd.GoalID

		saving := newCat.Type == models.CategoryTypeSaving
		switch {
		case saving && newGoal != nil:
			// total including the updated row; this row's old logs are gone
			total, err := logTotal(tx, newGoal.ID, 0)
			if err != nil {
				return err
			}
			total += txn.Amount
			if total > newGoal.TargetAmount {
				return &CapacityError{
					GoalName:  newGoal.Name,
					Remaining: newGoal.TargetAmount - (total - txn.Amount),
				}
			}
			log := models.SavingsLog{TransactionID: txn.ID, GoalID: newGoal.ID, Amount: txn.Amount}
			if err := tx.Create(&log).Error; err != nil {
				return fmt.Errorf("create savings log: %w", err)
			}
			if err := tx.Model(&models.Goal{}).Where("id = ?", newGoal.ID).
				Update("current_amount", total).Error; err != nil {
				return fmt.Errorf("update goal %d: %w", newGoal.ID, err)
			}
		case saving && c.mode == ModeSplit:
			goals, err := c.lockUserGoals(tx, userID)
			if err != nil {
				return err
			}
			if err := c.applyAllocations(tx, &txn, goals); err != nil {
				return err
			}
		}

		// goals that lost this transaction's contribution
		for _, gid := range oldGoalIDs {
			if saving && upd.GoalID != nil && gid == *upd.GoalID {
				continue // already written above with the absolute total
			}
			if _, err := Recalculate(tx, gid); err != nil {
				return err
			}
		}

		result = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a transaction. Its savings logs are dropped and every goal
// it funded is recalculated from the remaining logs.
func (c *Coordinator) Delete(userID, id uint) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load transaction: %w", err)
		}

		var goalIDs []uint
		if err := tx.Model(&models.SavingsLog{}).Where("transaction_id = ?", txn.ID).
			Distinct().Pluck("goal_id", &goalIDs).Error; err != nil {
			return fmt.Errorf("load savings logs: %w", err)
		}
		if len(goalIDs) > 0 {
			if err := tx.Where("transaction_id = ?", txn.ID).Delete(&models.SavingsLog{}).Error; err != nil {
				return fmt.Errorf("delete savings logs: %w", err)
			}
		}

		if err := tx.Delete(&txn).Error; err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}

		for _, gid := range goalIDs {
			if _, err := Recalculate(tx, gid); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Coordinator) lockGoal(tx *gorm.DB, goalID, userID uint) (*models.Goal, error) {
	var goal models.Goal
	if err := lockForUpdate(tx).First(&goal, goalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load goal %d: %w", goalID, err)
	}
	if goal.UserID != userID {
		return nil, ErrNotOwned
	}
	return &goal, nil
}

// lockUserGoals loads all of the owner's goals in allocation order. Locking
// the whole set up front is the owner-scoped escalation: goals are
// independent, but one lock order avoids deadlocks between concurrent
// allocations.
func (c *Coordinator) lockUserGoals(tx *gorm.DB, userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	if err := lockForUpdate(tx).Where("user_id = ?", userID).
		Order("priority ASC, id ASC").Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}
	return goals, nil
}
