package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy is an insurance offering. PremiumAmount is the ceiling for any single claim.
type Policy struct {
	BaseModel
	Name          string          `json:"name" gorm:"not null"`
	Description   string          `json:"description" gorm:"not null"`
	PremiumAmount decimal.Decimal `json:"premium_amount" gorm:"type:decimal(14,2);not null"`
	PolicyEndDate time.Time       `json:"policy_end_date" gorm:"not null"`

	// Projected from the purchases table.
	Users []string `json:"users,omitempty" gorm:"-"`
}

// Purchase links a user to a policy they bought. The composite key makes a repeat
// purchase impossible at the storage layer.
type Purchase struct {
	UserID    string    `json:"user_id" gorm:"type:varchar(36);primaryKey"`
	PolicyID  string    `json:"policy_id" gorm:"type:varchar(36);primaryKey;index"`
	CreatedAt time.Time `json:"created_at"`
}
