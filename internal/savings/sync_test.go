package savings

import (
	"testing"

	"github.com/lentakristina/finance-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncAllRepairsDrift(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "rina")
	saving := seedCategory(t, db, "Tabungan", models.CategoryTypeSaving)
	drifted := seedGoal(t, db, user.ID, "Drifted", 1_000_000, 0, 0)
	healthy := seedGoal(t, db, user.ID, "Healthy", 1_000_000, 1, 0)

	coord := NewCoordinator(db, ModeSingle)
	t1 := newTxn(user.ID, saving.ID, &drifted.ID, 250_000)
	require.NoError(t, coord.Create(&t1))
	t2 := newTxn(user.ID, saving.ID, &healthy.ID, 100_000)
	require.NoError(t, coord.Create(&t2))

	// corrupt the stored amount behind the coordinator's back
	require.NoError(t, db.Model(&models.Goal{}).Where("id = ?", drifted.ID).
		Update("current_amount", 999_999).Error)

	var results []SyncResult
	updated, unchanged, err := SyncAll(db, func(r SyncResult) {
		if r.Changed() {
			results = append(results, r)
		}
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 1, unchanged)

	require.Len(t, results, 1)
	assert.Equal(t, drifted.ID, results[0].GoalID)
	assert.Equal(t, "Drifted", results[0].Name)
	assert.Equal(t, int64(999_999), results[0].Old)
	assert.Equal(t, int64(250_000), results[0].New)

	assert.Equal(t, int64(250_000), reloadGoal(t, db, drifted.ID).CurrentAmount)
	assert.Equal(t, int64(100_000), reloadGoal(t, db, healthy.ID).CurrentAmount)
	requireLedgerInvariant(t, db)
}

func TestSyncAllZeroesGoalWithoutLogs(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "rina")
	goal := seedGoal(t, db, user.ID, "Orphaned", 500_000, 0, 0)

	require.NoError(t, db.Model(&models.Goal{}).Where("id = ?", goal.ID).
		Update("current_amount", 123_456).Error)

	updated, unchanged, err := SyncAll(db, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Zero(t, unchanged)
	assert.Zero(t, reloadGoal(t, db, goal.ID).CurrentAmount)
}

func TestSyncAllIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "rina")
	saving := seedCategory(t, db, "Tabungan", models.CategoryTypeSaving)
	goal := seedGoal(t, db, user.ID, "Stable", 1_000_000, 0, 0)

	coord := NewCoordinator(db, ModeSingle)
	txn := newTxn(user.ID, saving.ID, &goal.ID, 300_000)
	require.NoError(t, coord.Create(&txn))

	updated, unchanged, err := SyncAll(db, nil)
	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.Equal(t, 1, unchanged)

	updated, unchanged, err = SyncAll(db, nil)
	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.Equal(t, 1, unchanged)
}
