package savings

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lentakristina/finance-backend/internal/database"
	"github.com/lentakristina/finance-backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory SQLite database for one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name, catType string) models.Category {
	t.Helper()
	cat := models.Category{Name: name, Type: catType}
	require.NoError(t, db.Create(&cat).Error)
	return cat
}

func seedGoal(t *testing.T, db *gorm.DB, userID uint, name string, target int64, priority int, pct float64) models.Goal {
	t.Helper()
	goal := models.Goal{
		UserID:        userID,
		Name:          name,
		TargetAmount:  target,
		Priority:      priority,
		AllocationPct: pct,
	}
	require.NoError(t, db.Create(&goal).Error)
	return goal
}

func newTxn(userID, categoryID uint, goalID *uint, amount int64) models.Transaction {
	return models.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		GoalID:     goalID,
		Amount:     amount,
		Date:       time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}
}

func reloadGoal(t *testing.T, db *gorm.DB, id uint) models.Goal {
	t.Helper()
	var goal models.Goal
	require.NoError(t, db.First(&goal, id).Error)
	return goal
}

func goalLogs(t *testing.T, db *gorm.DB, goalID uint) []models.SavingsLog {
	t.Helper()
	var logs []models.SavingsLog
	require.NoError(t, db.Where("goal_id = ?", goalID).Order("id ASC").Find(&logs).Error)
	return logs
}

// requireLedgerInvariant asserts that every goal's current amount equals the
// sum of its savings logs and stays within the target.
func requireLedgerInvariant(t *testing.T, db *gorm.DB) {
	t.Helper()
	var goals []models.Goal
	require.NoError(t, db.Find(&goals).Error)
	for _, goal := range goals {
		var sum int64
		require.NoError(t, db.Model(&models.SavingsLog{}).
			Where("goal_id = ?", goal.ID).
			Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error)
		require.Equalf(t, sum, goal.CurrentAmount,
			"goal %q current_amount drifted from its savings logs", goal.Name)
		require.LessOrEqualf(t, goal.CurrentAmount, goal.TargetAmount,
			"goal %q exceeds its target", goal.Name)
		require.GreaterOrEqual(t, goal.CurrentAmount, int64(0))
	}
}
