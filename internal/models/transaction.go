package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction types.
const (
	TransactionTypeIncome        = "income"
	TransactionTypeExpense       = "expense"
	TransactionTypeTransfer      = "transfer"
	TransactionTypeAssetPurchase = "asset_purchase"
)

// Source types linking a transaction to the domain event that created it.
// Plain entries created directly through the transaction API carry none.
const (
	SourceWelfareLoan            = "welfare_loan"
	SourceWelfareLoanInstallment = "welfare_loan_installment"
	SourceWelfareDonation        = "welfare_donation"
)

// Transaction is one row of the canonical append-only money history.
// Every non-deleted transaction has been reflected exactly once in its
// account's balance (and the destination account's, for transfers).
// Cancellation soft-deletes rather than removes, except the loan
// disbursement row which is hard-deleted when a loan is cancelled.
type Transaction struct {
	ID                  uint            `gorm:"primaryKey"`
	TransactionNumber   string          `gorm:"size:32;uniqueIndex;not null"` // TXN-YYYYMMDD-NNNN
	AccountID           uint            `gorm:"index;not null"`
	Type                string          `gorm:"size:16;index;not null"`
	Amount              decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date                time.Time       `gorm:"index;not null"`
	CategoryID          *uint           `gorm:"index"`
	TransferToAccountID *uint           `gorm:"index"`
	Description         string          `gorm:"size:255"`
	CreatedBy           string          `gorm:"size:64"`
	SourceType          string          `gorm:"size:32;index"` // welfare_loan / welfare_loan_installment / welfare_donation
	SourceID            uint            `gorm:"index"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`

	Account           Account  `gorm:"foreignKey:AccountID"`
	Category          Category `gorm:"foreignKey:CategoryID"`
	TransferToAccount *Account `gorm:"foreignKey:TransferToAccountID"`
}
