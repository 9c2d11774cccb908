package models

import "time"

// Category types. Saving-type categories fund goals instead of tracking
// plain income or expense.
const (
	CategoryTypeIncome  = "income"
	CategoryTypeExpense = "expense"
	CategoryTypeSaving  = "saving"
)

// Category represents income/expense/saving category.
type Category struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:64;not null"`
	Type      string    `gorm:"size:16;index;not null"` // income / expense / saving
	CreatedAt time.Time
	UpdatedAt time.Time
}
