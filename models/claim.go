package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClaimStatus represents all possible states of a claim
type ClaimStatus string

const (
	StatusPending  ClaimStatus = "pending"
	StatusApproved ClaimStatus = "approved"
	StatusRejected ClaimStatus = "rejected"
)

type Claim struct {
	BaseModel
	UserID      string          `json:"user_id" gorm:"type:varchar(36);not null;index"`
	User        *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	PolicyID    string          `json:"policy_id" gorm:"type:varchar(36);not null;index"`
	Policy      *Policy         `json:"policy,omitempty" gorm:"foreignKey:PolicyID"`
	ClaimDate   time.Time       `json:"claim_date" gorm:"not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	Description string          `json:"description" gorm:"not null"`
	Status      ClaimStatus     `json:"status" gorm:"type:varchar(16);not null;default:'pending'"`
}
