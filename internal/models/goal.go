package models

import "time"

// Goal is a named savings target with a capped accumulation. CurrentAmount
// must always equal the sum of savings log amounts attributed to the goal
// and never exceed TargetAmount; internal/savings owns both invariants.
type Goal struct {
	ID            uint    `gorm:"primaryKey"`
	UserID        uint    `gorm:"index;not null"`
	Name          string  `gorm:"size:255;not null"`
	TargetAmount  int64   `gorm:"not null"`
	CurrentAmount int64   `gorm:"not null;default:0"`
	CategoryID    *uint   `gorm:"index"`
	Priority      int     `gorm:"index;default:0"` // lower fills first
	AllocationPct float64 `gorm:"default:0"`       // 0-100, declared share in weighted allocation
	CreatedAt     time.Time
	UpdatedAt     time.Time

	User     User      `gorm:"constraint:OnDelete:CASCADE"`
	Category *Category `gorm:"constraint:OnDelete:SET NULL"`
}

// Remaining returns the capacity still available before the target is hit.
func (g *Goal) Remaining() int64 {
	return g.TargetAmount - g.CurrentAmount
}
