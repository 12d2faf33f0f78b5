package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/models"
)

// DonationLedger records donations into the staff-welfare fund. The
// welfare balance itself is never stored; WelfareSummary derives it from
// donations, loans given and recoveries.
type DonationLedger struct {
	db       *gorm.DB
	accounts *AccountStore
	txns     *TransactionLedger
	seq      *Sequences

	// IncomeCategoryID is stamped on generated donation transactions.
	IncomeCategoryID uint
}

// NewDonationLedger returns a DonationLedger over db.
func NewDonationLedger(db *gorm.DB, accounts *AccountStore, txns *TransactionLedger, seq *Sequences, incomeCategoryID uint) *DonationLedger {
	return &DonationLedger{db: db, accounts: accounts, txns: txns, seq: seq, IncomeCategoryID: incomeCategoryID}
}

// RecordDonationParams describe one donation.
type RecordDonationParams struct {
	AccountID uint
	Amount    decimal.Decimal
	Date      time.Time
	DonorName string
	Method    string
	Actor     string
}

// Record credits the receiving account through a linked income
// transaction and stores the donation row, all in one unit.
func (l *DonationLedger) Record(p RecordDonationParams) (*models.WelfareFundDonation, error) {
	if !p.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if strings.TrimSpace(p.DonorName) == "" {
		return nil, fmt.Errorf("%w: donor name is required", ErrValidation)
	}

	var don *models.WelfareFundDonation
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := l.accounts.exists(tx, p.AccountID); err != nil {
			return err
		}
		number, err := l.seq.Next(tx, PrefixDonation, p.Date)
		if err != nil {
			return err
		}
		don = &models.WelfareFundDonation{
			DonationNumber: number,
			AccountID:      p.AccountID,
			Amount:         p.Amount,
			Date:           p.Date,
			DonorName:      strings.TrimSpace(p.DonorName),
			Method:         p.Method,
			CreatedBy:      p.Actor,
		}
		if err := tx.Create(don).Error; err != nil {
			return fmt.Errorf("insert donation: %w", err)
		}

		categoryID := l.IncomeCategoryID
		_, err = l.txns.recordIn(tx, RecordParams{
			AccountID:   p.AccountID,
			Type:        models.TransactionTypeIncome,
			Amount:      p.Amount,
			Date:        p.Date,
			CategoryID:  &categoryID,
			Description: fmt.Sprintf("Welfare donation %s from %s", don.DonationNumber, don.DonorName),
			Actor:       p.Actor,
			SourceType:  models.SourceWelfareDonation,
			SourceID:    don.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return don, nil
}

// Delete reverses the donation's account effect and removes the donation
// row, but deliberately leaves the linked income transaction untouched as
// the audit trail. This is the one documented exception to the rule that
// a live transaction row is reflected in its account's balance.
func (l *DonationLedger) Delete(id uint) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		var don models.WelfareFundDonation
		if err := tx.First(&don, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("donation %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("get donation %d: %w", id, err)
		}
		if err := l.accounts.Apply(tx, credit(don.AccountID, don.Amount).Reverse()); err != nil {
			return err
		}
		if err := tx.Delete(&don).Error; err != nil {
			return fmt.Errorf("delete donation %d: %w", id, err)
		}
		return nil
	})
}

// List returns all donations newest first.
func (l *DonationLedger) List() ([]models.WelfareFundDonation, error) {
	var dons []models.WelfareFundDonation
	if err := l.db.Order("date DESC, id DESC").Find(&dons).Error; err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return dons, nil
}

// WelfareSummary is the implicit welfare fund position.
type WelfareSummary struct {
	TotalDonations decimal.Decimal `json:"total_donations"`
	LoansGiven     decimal.Decimal `json:"loans_given"`
	Recoveries     decimal.Decimal `json:"recoveries"`
	Balance        decimal.Decimal `json:"balance"`
}

// Summary computes donations - loans given (non-cancelled) + recoveries.
func (l *DonationLedger) Summary() (*WelfareSummary, error) {
	sum := func(q *gorm.DB, column string) (decimal.Decimal, error) {
		var s *string
		if err := q.Select("SUM(" + column + ")").Scan(&s).Error; err != nil {
			return decimal.Zero, err
		}
		if s == nil {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(*s)
	}

	donations, err := sum(l.db.Model(&models.WelfareFundDonation{}), "amount")
	if err != nil {
		return nil, fmt.Errorf("sum donations: %w", err)
	}
	loans, err := sum(l.db.Model(&models.WelfareLoan{}).
		Where("status <> ?", models.LoanStatusCancelled), "loan_amount")
	if err != nil {
		return nil, fmt.Errorf("sum loans: %w", err)
	}
	recoveries, err := sum(l.db.Model(&models.WelfareLoan{}).
		Where("status <> ?", models.LoanStatusCancelled), "total_paid")
	if err != nil {
		return nil, fmt.Errorf("sum recoveries: %w", err)
	}

	return &WelfareSummary{
		TotalDonations: donations,
		LoansGiven:     loans,
		Recoveries:     recoveries,
		Balance:        donations.Sub(loans).Add(recoveries),
	}, nil
}
