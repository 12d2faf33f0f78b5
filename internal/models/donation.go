package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WelfareFundDonation is a donation into the staff-welfare fund. The
// welfare fund balance itself is never stored; it is computed as
// donations - loans given + recoveries.
type WelfareFundDonation struct {
	ID             uint            `gorm:"primaryKey"`
	DonationNumber string          `gorm:"size:32;uniqueIndex;not null"` // WFD-YYYYMMDD-NNNN
	AccountID      uint            `gorm:"index;not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date           time.Time       `gorm:"index;not null"`
	DonorName      string          `gorm:"size:64;not null"`
	Method         string          `gorm:"size:32"`
	CreatedBy      string          `gorm:"size:64"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Account Account `gorm:"foreignKey:AccountID"`
}
