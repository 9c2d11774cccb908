package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/lentakristina/finance-backend/internal/models"
	"github.com/lentakristina/finance-backend/internal/savings"
	"github.com/lentakristina/finance-backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGoalStartsEmpty(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "rina")

	h := NewGoalHandler(db)
	body := `{"name":"Emergency Fund","target_amount":"1000000","priority":1,"allocation_pct":60}`
	c, w := testContext(t, &user, http.MethodPost, "/api/goals", body)
	h.CreateGoal(c)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	goal := env["data"].(map[string]interface{})["goal"].(map[string]interface{})
	assert.EqualValues(t, 100_000_000, goal["target_amount_cent"])
	assert.EqualValues(t, 0, goal["current_amount_cent"])
	assert.Equal(t, false, goal["completed"])
}

func TestCreateGoalRejectsBadAllocationPct(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "rina")

	h := NewGoalHandler(db)
	body := `{"name":"Emergency Fund","target_amount":"1000000","allocation_pct":150}`
	c, w := testContext(t, &user, http.MethodPost, "/api/goals", body)
	h.CreateGoal(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.EqualValues(t, util.CodeInvalidParam, env["code"])
}

func TestUpdateGoalRejectsTargetBelowAccumulated(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "rina")
	saving := seedCategory(t, db, "Tabungan", models.CategoryTypeSaving)
	goal := seedGoal(t, db, user.ID, "Emergency Fund", 100_000_000)

	coord := savings.NewCoordinator(db, savings.ModeSingle)
	th := NewTransactionHandler(db, coord)
	body := fmt.Sprintf(`{"date":"2025-06-15","category_id":%d,"amount":"400000","goal_id":%d}`,
		saving.ID, goal.ID)
	c, w := testContext(t, &user, http.MethodPost, "/api/transactions", body)
	th.CreateTransaction(c)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	h := NewGoalHandler(db)
	c, w = testContext(t, &user, http.MethodPut, "/api/goals/1",
		`{"name":"Emergency Fund","target_amount":"100000"}`)
	c.Params = paramID(goal.ID)
	h.UpdateGoal(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	assert.EqualValues(t, util.CodeCapacity, env["code"])

	// target unchanged
	var got models.Goal
	require.NoError(t, db.First(&got, goal.ID).Error)
	assert.Equal(t, int64(100_000_000), got.TargetAmount)
}

func TestDeleteGoalDetachesTransactions(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "rina")
	saving := seedCategory(t, db, "Tabungan", models.CategoryTypeSaving)
	goal := seedGoal(t, db, user.ID, "Emergency Fund", 100_000_000)

	coord := savings.NewCoordinator(db, savings.ModeSingle)
	th := NewTransactionHandler(db, coord)
	body := fmt.Sprintf(`{"date":"2025-06-15","category_id":%d,"amount":"400000","goal_id":%d}`,
		saving.ID, goal.ID)
	c, w := testContext(t, &user, http.MethodPost, "/api/transactions", body)
	th.CreateTransaction(c)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	h := NewGoalHandler(db)
	c, w = testContext(t, &user, http.MethodDelete, "/api/goals/1", "")
	c.Params = paramID(goal.ID)
	h.DeleteGoal(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var goalCount int64
	require.NoError(t, db.Model(&models.Goal{}).Count(&goalCount).Error)
	assert.Zero(t, goalCount)

	var logCount int64
	require.NoError(t, db.Model(&models.SavingsLog{}).Count(&logCount).Error)
	assert.Zero(t, logCount)

	// the ledger row survives, just without a goal
	var txn models.Transaction
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&txn).Error)
	assert.Nil(t, txn.GoalID)
}

func TestDeleteGoalOfOtherUser(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "rina")
	intruder := seedUser(t, db, "budi")
	goal := seedGoal(t, db, owner.ID, "Private", 100_000_000)

	h := NewGoalHandler(db)
	c, w := testContext(t, &intruder, http.MethodDelete, "/api/goals/1", "")
	c.Params = paramID(goal.ID)
	h.DeleteGoal(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	assert.EqualValues(t, util.CodeNotFound, env["code"])
}
