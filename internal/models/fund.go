package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fund statuses.
const (
	FundStatusActive = "active"
	FundStatusClosed = "closed"
)

// Fund transaction directions.
const (
	FundDirectionIn  = "in"
	FundDirectionOut = "out"
)

// Investor is a thin reference entity; its CRUD screens live outside the
// ledger core.
type Investor struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:64;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fund tracks one investor's capital. At most one active fund exists per
// investor; it closes automatically when the balance reaches zero and
// reopens if a later reversal raises it above zero again.
type Fund struct {
	ID             uint            `gorm:"primaryKey"`
	FundCode       string          `gorm:"size:16;uniqueIndex;not null"` // FD-NNNN
	InvestorID     uint            `gorm:"index;not null"`
	AccountID      uint            `gorm:"index;not null"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status         string          `gorm:"size:16;index;not null;default:active"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Investor Investor `gorm:"foreignKey:InvestorID"`
	Account  Account  `gorm:"foreignKey:AccountID"`
}

// FundTransaction is one capital contribution (in) or withdrawal (out).
// fund.CurrentBalance equals the signed sum of these amounts.
type FundTransaction struct {
	ID                uint            `gorm:"primaryKey"`
	TransactionNumber string          `gorm:"size:32;uniqueIndex;not null"` // FTRX-YYYYMMDD-NNNN
	FundID            uint            `gorm:"index;not null"`
	AccountID         uint            `gorm:"index;not null"`
	Direction         string          `gorm:"size:8;not null"` // in / out
	Amount            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date              time.Time       `gorm:"index;not null"`
	Description       string          `gorm:"size:255"`
	CreatedBy         string          `gorm:"size:64"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Fund    Fund    `gorm:"foreignKey:FundID"`
	Account Account `gorm:"foreignKey:AccountID"`
}
