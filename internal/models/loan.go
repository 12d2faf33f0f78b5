package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Welfare loan statuses.
const (
	LoanStatusActive    = "active"
	LoanStatusPaid      = "paid"
	LoanStatusCancelled = "cancelled"
)

// Installment statuses.
const (
	InstallmentStatusPending = "pending"
	InstallmentStatusPaid    = "paid"
)

// Teacher is a thin reference entity; staff CRUD lives outside the ledger
// core.
type Teacher struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:64;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WelfareLoan is a staff-welfare loan with an amortized monthly schedule.
// RemainingAmount is kept equal to LoanAmount - TotalPaid at every write;
// status moves active -> paid when it reaches zero, active -> cancelled
// only while TotalPaid is zero. Terminal states have no exit.
type WelfareLoan struct {
	ID                   uint            `gorm:"primaryKey"`
	LoanNumber           string          `gorm:"size:32;uniqueIndex;not null"` // SWL-YYYYMMDD-NNNN
	TeacherID            uint            `gorm:"index;not null"`
	AccountID            uint            `gorm:"index;not null"`
	LoanAmount           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPaid            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RemainingAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	InstallmentCount     int             `gorm:"not null"`
	PaidInstallments     int             `gorm:"not null"`
	InstallmentAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LoanDate             time.Time       `gorm:"not null"`
	FirstInstallmentDate time.Time       `gorm:"not null"`
	Status               string          `gorm:"size:16;index;not null;default:active"`
	CreatedBy            string          `gorm:"size:64"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Teacher      Teacher                  `gorm:"foreignKey:TeacherID"`
	Account      Account                  `gorm:"foreignKey:AccountID"`
	Installments []WelfareLoanInstallment `gorm:"foreignKey:LoanID"`
}

// WelfareLoanInstallment is one scheduled repayment. Amounts across a
// loan's installments sum exactly to LoanAmount; the last one absorbs the
// rounding remainder.
type WelfareLoanInstallment struct {
	ID                uint            `gorm:"primaryKey"`
	LoanID            uint            `gorm:"index;not null"`
	InstallmentNumber int             `gorm:"not null"`
	Amount            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DueDate           time.Time       `gorm:"index;not null"`
	Status            string          `gorm:"size:16;index;not null;default:pending"`
	PaidDate          *time.Time
	AccountID         *uint  `gorm:"index"` // account the payment was received into
	Method            string `gorm:"size:32"`
	Reference         string `gorm:"size:64"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
