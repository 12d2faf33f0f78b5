package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account types.
const (
	AccountTypeBank         = "bank"
	AccountTypeCash         = "cash"
	AccountTypeMobileWallet = "mobile_wallet"
)

// Account statuses.
const (
	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"
)

// Account represents a monetary account (bank, cash box, mobile wallet).
// CurrentBalance is only ever mutated through the ledger account store;
// it must always equal OpeningBalance plus the signed sum of every
// non-reversed ledger effect applied to it.
type Account struct {
	ID             uint            `gorm:"primaryKey"`
	Name           string          `gorm:"size:64;not null"`
	Number         string          `gorm:"size:32;uniqueIndex;not null"`
	Type           string          `gorm:"size:16;index;not null"` // bank / cash / mobile_wallet
	OpeningBalance decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status         string          `gorm:"size:16;index;not null;default:active"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
