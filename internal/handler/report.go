package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/lentakristina/finance-backend/internal/models"
	"github.com/lentakristina/finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ReportHandler serves read-only aggregations over transactions and
// categories. It reads the ledger directly and never touches goal state.
type ReportHandler struct {
	DB *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{DB: db}
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Summary returns per-month income/expense/saving totals for the last three
// months plus the current one.
func (h *ReportHandler) Summary(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	since := startOfMonth(time.Now().AddDate(0, -3, 0))

	var txns []models.Transaction
	if err := h.DB.Preload("Category").
		Where("user_id = ? AND date >= ?", user.ID, since).
		Order("date ASC").
		Find(&txns).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	type monthSummary struct {
		Month       string `json:"month"`
		IncomeCent  int64  `json:"income_cent"`
		Income      string `json:"income"`
		ExpenseCent int64  `json:"expense_cent"`
		Expense     string `json:"expense"`
		SavingCent  int64  `json:"saving_cent"`
		Saving      string `json:"saving"`
	}

	byMonth := make(map[time.Time]*monthSummary)
	for i := range txns {
		t := &txns[i]
		key := startOfMonth(t.Date)
		ms, ok := byMonth[key]
		if !ok {
			ms = &monthSummary{Month: key.Format("Jan 2006")}
			byMonth[key] = ms
		}
		switch t.Category.Type {
		case models.CategoryTypeIncome:
			ms.IncomeCent += t.Amount
		case models.CategoryTypeExpense:
			ms.ExpenseCent += t.Amount
		case models.CategoryTypeSaving:
			ms.SavingCent += t.Amount
		}
	}

	keys := make([]time.Time, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	months := make([]monthSummary, 0, len(keys))
	for _, k := range keys {
		ms := byMonth[k]
		ms.Income = util.FormatAmount(ms.IncomeCent)
		ms.Expense = util.FormatAmount(ms.ExpenseCent)
		ms.Saving = util.FormatAmount(ms.SavingCent)
		months = append(months, *ms)
	}

	util.Success(c, util.Response{"months": months})
}

// SummaryCurrent returns income and outgoing totals for the current month.
// Savings count as outgoing money, same as expenses.
func (h *ReportHandler) SummaryCurrent(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	now := time.Now()
	start := startOfMonth(now)
	end := start.AddDate(0, 1, 0)

	var txns []models.Transaction
	if err := h.DB.Preload("Category").
		Where("user_id = ? AND date >= ? AND date < ?", user.ID, start, end).
		Find(&txns).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	var incomeCent, expenseCent int64
	for i := range txns {
		t := &txns[i]
		switch t.Category.Type {
		case models.CategoryTypeIncome:
			incomeCent += t.Amount
		case models.CategoryTypeExpense, models.CategoryTypeSaving:
			expenseCent += t.Amount
		}
	}

	util.Success(c, util.Response{
		"income_cent":  incomeCent,
		"income":       util.FormatAmount(incomeCent),
		"expense_cent": expenseCent,
		"expense":      util.FormatAmount(expenseCent),
		"balance_cent": incomeCent - expenseCent,
		"balance":      util.FormatAmount(incomeCent - expenseCent),
	})
}

type expenseByCategory struct {
	Name  string
	Total int64
}

// monthExpenses loads one month of expense transactions and aggregates the
// total plus the top category.
func (h *ReportHandler) monthExpenses(userID uint, start time.Time) (int64, *expenseByCategory, error) {
	end := start.AddDate(0, 1, 0)

	var txns []models.Transaction
	err := h.DB.Preload("Category").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND categories.type = ? AND transactions.date >= ? AND transactions.date < ?",
			userID, models.CategoryTypeExpense, start, end).
		Find(&txns).Error
	if err != nil {
		return 0, nil, err
	}

	var total int64
	byCat := make(map[string]int64)
	for i := range txns {
		total += txns[i].Amount
		byCat[txns[i].Category.Name] += txns[i].Amount
	}

	var top *expenseByCategory
	for name, sum := range byCat {
		if top == nil || sum > top.Total {
			top = &expenseByCategory{Name: name, Total: sum}
		}
	}
	return total, top, nil
}

// Insight compares this month's expenses with last month's and names the top
// category of each. The two month windows load concurrently.
func (h *ReportHandler) Insight(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	now := time.Now()
	thisMonth := startOfMonth(now)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	var (
		currentTotal, lastTotal int64
		currentTop, lastTop     *expenseByCategory
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		currentTotal, currentTop, err = h.monthExpenses(user.ID, thisMonth)
		return err
	})
	g.Go(func() error {
		var err error
		lastTotal, lastTop, err = h.monthExpenses(user.ID, lastMonth)
		return err
	})
	if err := g.Wait(); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	var growth int64
	switch {
	case lastTotal > 0:
		growth = (currentTotal - lastTotal) * 100 / lastTotal
	case currentTotal > 0:
		growth = 100
	}

	topJSON := func(top *expenseByCategory) gin.H {
		if top == nil {
			return gin.H{"name": nil, "amount_cent": 0, "amount": util.FormatAmount(0)}
		}
		return gin.H{
			"name":        top.Name,
			"amount_cent": top.Total,
			"amount":      util.FormatAmount(top.Total),
		}
	}

	util.Success(c, util.Response{
		"growth":                  growth,
		"current_total_cent":      currentTotal,
		"current_total":           util.FormatAmount(currentTotal),
		"last_total_cent":         lastTotal,
		"last_total":              util.FormatAmount(lastTotal),
		"top_category_this_month": topJSON(currentTop),
		"top_category_last_month": topJSON(lastTop),
	})
}
