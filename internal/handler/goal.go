package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/lentakristina/finance-backend/internal/models"
	"github.com/lentakristina/finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GoalHandler exposes goal CRUD. Funding amounts are never written here;
// current_amount belongs to the savings core.
type GoalHandler struct {
	DB *gorm.DB
}

func NewGoalHandler(db *gorm.DB) *GoalHandler {
	return &GoalHandler{DB: db}
}

// ---------- request/response payloads ----------

type goalReq struct {
	Name          string  `json:"name" binding:"required,max=255"`
	TargetAmount  string  `json:"target_amount" binding:"required"`
	CategoryID    *uint   `json:"category_id"`
	Priority      int     `json:"priority"`
	AllocationPct float64 `json:"allocation_pct"`
}

type goalResp struct {
	ID                uint    `json:"id"`
	Name              string  `json:"name"`
	TargetAmountCent  int64   `json:"target_amount_cent"`
	TargetAmount      string  `json:"target_amount"`
	CurrentAmountCent int64   `json:"current_amount_cent"`
	CurrentAmount     string  `json:"current_amount"`
	RemainingCent     int64   `json:"remaining_cent"`
	CategoryID        *uint   `json:"category_id,omitempty"`
	Priority          int     `json:"priority"`
	AllocationPct     float64 `json:"allocation_pct"`
	Completed         bool    `json:"completed"`
}

func toGoalResp(g *models.Goal) goalResp {
	return goalResp{
		ID:                g.ID,
		Name:              g.Name,
		TargetAmountCent:  g.TargetAmount,
		TargetAmount:      util.FormatAmount(g.TargetAmount),
		CurrentAmountCent: g.CurrentAmount,
		CurrentAmount:     util.FormatAmount(g.CurrentAmount),
		RemainingCent:     g.Remaining(),
		CategoryID:        g.CategoryID,
		Priority:          g.Priority,
		AllocationPct:     g.AllocationPct,
		Completed:         g.CurrentAmount >= g.TargetAmount,
	}
}

func (h *GoalHandler) bindGoalReq(c *gin.Context) (*goalReq, int64, bool) {
	var req goalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return nil, 0, false
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "name is required")
		return nil, 0, false
	}

	targetCent, err := util.ParseAmount(req.TargetAmount)
	if err != nil || targetCent <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "target amount must be positive")
		return nil, 0, false
	}
	if err := util.ValidateAllocationPct(req.AllocationPct); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return nil, 0, false
	}

	return &req, targetCent, true
}

// ---------- CRUD ----------

func (h *GoalHandler) ListGoals(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var goals []models.Goal
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("priority ASC, id ASC").
		Find(&goals).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]goalResp, 0, len(goals))
	for i := range goals {
		items = append(items, toGoalResp(&goals[i]))
	}

	util.Success(c, util.Response{"items": items})
}

// CreateGoal makes a new goal. Accumulation always starts at zero; only
// transactions move it.
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	req, targetCent, ok := h.bindGoalReq(c)
	if !ok {
		return
	}

	goal := models.Goal{
		UserID:        user.ID,
		Name:          req.Name,
		TargetAmount:  targetCent,
		CurrentAmount: 0,
		CategoryID:    req.CategoryID,
		Priority:      req.Priority,
		AllocationPct: req.AllocationPct,
	}
	if err := h.DB.Create(&goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create goal")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code": util.CodeOK,
		"data": util.Response{"goal": toGoalResp(&goal)},
	})
}

func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	req, targetCent, ok := h.bindGoalReq(c)
	if !ok {
		return
	}

	var goal models.Goal
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "goal not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	// a target below the accumulated amount would break the cap invariant
	if targetCent < goal.CurrentAmount {
		util.Error(c, http.StatusUnprocessableEntity, util.CodeCapacity,
			"target cannot be lower than the accumulated amount of "+util.FormatAmount(goal.CurrentAmount))
		return
	}

	goal.Name = req.Name
	goal.TargetAmount = targetCent
	goal.CategoryID = req.CategoryID
	goal.Priority = req.Priority
	goal.AllocationPct = req.AllocationPct

	if err := h.DB.Save(&goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update goal")
		return
	}

	util.Success(c, util.Response{"goal": toGoalResp(&goal)})
}

// DeleteGoal removes a goal. Its savings logs cascade away and transactions
// that pointed at it are detached, not orphaned.
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var goal models.Goal
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "goal not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.SavingsLog{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Transaction{}).Where("goal_id = ?", goal.ID).
			Update("goal_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&goal).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete goal")
		return
	}

	util.Success(c, util.Response{
		"message": "goal deleted",
	})
}
