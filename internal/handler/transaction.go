package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/lentakristina/finance-backend/internal/models"
	"github.com/lentakristina/finance-backend/internal/savings"
	"github.com/lentakristina/finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TransactionHandler exposes transaction CRUD. Every mutation goes through
// the savings Coordinator so ledger rows, savings logs and goal amounts stay
// consistent.
type TransactionHandler struct {
	DB    *gorm.DB
	Coord *savings.Coordinator
}

func NewTransactionHandler(db *gorm.DB, coord *savings.Coordinator) *TransactionHandler {
	return &TransactionHandler{
		DB:    db,
		Coord: coord,
	}
}

// ---------- request/response payloads ----------

type transactionReq struct {
	Date       string `json:"date" binding:"required"`
	CategoryID uint   `json:"category_id" binding:"required"`
	Amount     string `json:"amount" binding:"required"`
	Note       string `json:"note" binding:"max=255"`
	GoalID     *uint  `json:"goal_id"`
}

type transactionResp struct {
	ID         uint      `json:"id"`
	CategoryID uint      `json:"category_id"`
	Category   string    `json:"category"`
	Type       string    `json:"type"`
	GoalID     *uint     `json:"goal_id,omitempty"`
	Goal       string    `json:"goal,omitempty"`
	AmountCent int64     `json:"amount_cent"`
	Amount     string    `json:"amount"`
	Note       string    `json:"note"`
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"created_at"`
}

func toTransactionResp(t *models.Transaction) transactionResp {
	resp := transactionResp{
		ID:         t.ID,
		CategoryID: t.CategoryID,
		Category:   t.Category.Name,
		Type:       t.Category.Type,
		GoalID:     t.GoalID,
		AmountCent: t.Amount,
		Amount:     util.FormatAmount(t.Amount),
		Note:       t.Note,
		Date:       t.Date,
		CreatedAt:  t.CreatedAt,
	}
	if t.Goal != nil {
		resp.Goal = t.Goal.Name
	}
	return resp
}

// ---------- helpers ----------

// parseTxnDate accepts the formats the frontend is known to send. The date
// must not be in the future.
func parseTxnDate(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,          // 2025-12-03T00:00:00+08:00
		"2006-01-02T15:04:05", // 2025-12-03T00:00:00
		"2006-01-02",          // 2025-12-03
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Format("2006-01-02") > time.Now().Format("2006-01-02") {
				return time.Time{}, errors.New("date is in the future")
			}
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format")
}

// writeCoordinatorError maps core errors to the response envelope.
func writeCoordinatorError(c *gin.Context, err error) {
	var capErr *savings.CapacityError
	switch {
	case errors.As(err, &capErr):
		util.Error(c, http.StatusUnprocessableEntity, util.CodeCapacity, capErr.Error())
	case errors.Is(err, savings.ErrNotOwned):
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "goal not found or unauthorized")
	case errors.Is(err, savings.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "record not found")
	case errors.Is(err, savings.ErrExplicitGoal):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save transaction")
	}
}

func (h *TransactionHandler) bindReq(c *gin.Context) (*transactionReq, time.Time, int64, bool) {
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return nil, time.Time{}, 0, false
	}

	date, err := parseTxnDate(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid date: "+err.Error())
		return nil, time.Time{}, 0, false
	}

	amountCent, err := util.ParseAmount(req.Amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
		return nil, time.Time{}, 0, false
	}
	if err := util.ValidateAmount(amountCent); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "amount must be positive")
		return nil, time.Time{}, 0, false
	}

	return &req, date, amountCent, true
}

// ---------- create ----------

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	req, date, amountCent, ok := h.bindReq(c)
	if !ok {
		return
	}

	txn := models.Transaction{
		UserID:     user.ID,
		CategoryID: req.CategoryID,
		GoalID:     req.GoalID,
		Amount:     amountCent,
		Date:       date,
		Note:       req.Note,
	}

	if err := h.Coord.Create(&txn); err != nil {
		writeCoordinatorError(c, err)
		return
	}

	if err := h.DB.Preload("Category").Preload("Goal").First(&txn, txn.ID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transaction")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code": util.CodeOK,
		"data": util.Response{"transaction": toTransactionResp(&txn)},
	})
}

// ---------- read ----------

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var txn models.Transaction
	if err := h.DB.Preload("Category").Preload("Goal").
		Where("id = ? AND user_id = ?", id, user.ID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	util.Success(c, util.Response{"transaction": toTransactionResp(&txn)})
}

// ListTransactions returns the user's transactions, newest first, with
// optional date range, category and goal filters plus pagination.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	base := h.DB.Model(&models.Transaction{}).Where("user_id = ?", user.ID)

	if startStr := c.Query("start"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid start date, expected YYYY-MM-DD")
			return
		}
		base = base.Where("date >= ?", start)
	}
	if endStr := c.Query("end"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid end date, expected YYYY-MM-DD")
			return
		}
		// end of day: < end+1
		base = base.Where("date < ?", end.Add(24*time.Hour))
	}
	if catStr := c.Query("category_id"); catStr != "" {
		if catID, err := strconv.Atoi(catStr); err == nil && catID > 0 {
			base = base.Where("category_id = ?", catID)
		}
	}
	if goalStr := c.Query("goal_id"); goalStr != "" {
		if goalID, err := strconv.Atoi(goalStr); err == nil && goalID > 0 {
			base = base.Where("goal_id = ?", goalID)
		}
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	var txns []models.Transaction
	if err := base.Session(&gorm.Session{}).
		Preload("Category").Preload("Goal").
		Order("date DESC, id DESC").
		Limit(size).
		Offset(offset).
		Find(&txns).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]transactionResp, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResp(&txns[i]))
	}

	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

// ---------- update ----------

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	req, date, amountCent, ok := h.bindReq(c)
	if !ok {
		return
	}

	txn, err := h.Coord.Update(user.ID, uint(id), savings.TransactionUpdate{
		Date:       date,
		CategoryID: req.CategoryID,
		Amount:     amountCent,
		Note:       req.Note,
		GoalID:     req.GoalID,
	})
	if err != nil {
		writeCoordinatorError(c, err)
		return
	}

	if err := h.DB.Preload("Category").Preload("Goal").First(txn, txn.ID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transaction")
		return
	}

	util.Success(c, util.Response{"transaction": toTransactionResp(txn)})
}

// ---------- delete ----------

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	if err := h.Coord.Delete(user.ID, uint(id)); err != nil {
		writeCoordinatorError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "transaction deleted",
	})
}
