package models

import "time"

// Transaction represents a single income, expense or saving record.
// Amounts are stored in cents to avoid float error.
type Transaction struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"index;not null"`
	CategoryID uint      `gorm:"index;not null"`
	GoalID     *uint     `gorm:"index"` // only meaningful for saving-type categories
	Amount     int64     `gorm:"not null"`
	Date       time.Time `gorm:"index;not null"`
	Note       string    `gorm:"size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	User     User     `gorm:"constraint:OnDelete:CASCADE"`
	Category Category `gorm:"constraint:OnDelete:CASCADE"`
	Goal     *Goal    `gorm:"constraint:OnDelete:SET NULL"`
}
