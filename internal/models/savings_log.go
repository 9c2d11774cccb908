package models

import "time"

// SavingsLog records that part or all of a transaction's amount was
// attributed to a specific goal. A split saving transaction produces one row
// per funded goal. Rows are never updated in place: when an attribution
// changes, the old rows are deleted and fresh ones created.
type SavingsLog struct {
	ID            uint  `gorm:"primaryKey"`
	TransactionID uint  `gorm:"index;not null"`
	GoalID        uint  `gorm:"index;not null"`
	Amount        int64 `gorm:"not null"`
	CreatedAt     time.Time

	Transaction Transaction `gorm:"constraint:OnDelete:CASCADE"`
	Goal        Goal        `gorm:"constraint:OnDelete:CASCADE"`
}
