package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/models"
)

// FundLedger tracks investor capital as a sub-ledger over the account
// store. A fund's balance equals the signed sum of its fund transactions;
// every mutation touches the fund row and the backing account in the same
// database transaction.
type FundLedger struct {
	db       *gorm.DB
	accounts *AccountStore
	seq      *Sequences
}

// NewFundLedger returns a FundLedger over db.
func NewFundLedger(db *gorm.DB, accounts *AccountStore, seq *Sequences) *FundLedger {
	return &FundLedger{db: db, accounts: accounts, seq: seq}
}

// FundMoveParams describe a capital contribution or withdrawal.
type FundMoveParams struct {
	InvestorID  uint
	AccountID   uint
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Actor       string
}

// signedFundAmount derives the fund-balance delta of a fund transaction
// from its direction. Edits and deletes reuse it so the sign is never
// hardcoded per call site.
func signedFundAmount(direction string, amount decimal.Decimal) decimal.Decimal {
	if direction == models.FundDirectionOut {
		return amount.Neg()
	}
	return amount
}

// FundIn records a capital contribution, creating the investor's fund on
// first use.
func (l *FundLedger) FundIn(p FundMoveParams) (*models.FundTransaction, error) {
	if !p.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	var ft *models.FundTransaction
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := l.accounts.exists(tx, p.AccountID); err != nil {
			return err
		}
		fund, err := l.activeFund(tx, p.InvestorID)
		if err != nil && !errors.Is(err, ErrNoActiveFund) {
			return err
		}
		if fund == nil {
			fund, err = l.openFund(tx, p.InvestorID, p.AccountID)
			if err != nil {
				return err
			}
		}

		number, err := l.seq.Next(tx, PrefixFundTransaction, p.Date)
		if err != nil {
			return err
		}
		ft = &models.FundTransaction{
			TransactionNumber: number,
			FundID:            fund.ID,
			AccountID:         p.AccountID,
			Direction:         models.FundDirectionIn,
			Amount:            p.Amount,
			Date:              p.Date,
			Description:       p.Description,
			CreatedBy:         p.Actor,
		}
		if err := tx.Create(ft).Error; err != nil {
			return fmt.Errorf("insert fund transaction: %w", err)
		}
		if err := l.applyFundDelta(tx, fund.ID, p.Amount); err != nil {
			return err
		}
		if err := l.accounts.Increment(tx, p.AccountID, p.Amount); err != nil {
			return err
		}
		return l.normalizeStatus(tx, fund.ID)
	})
	if err != nil {
		return nil, err
	}
	return ft, nil
}

// FundOut records a withdrawal. Unlike the plain expense path, it
// enforces sufficiency on both the fund and the backing account, and
// closes the fund when its balance lands on exactly zero.
func (l *FundLedger) FundOut(p FundMoveParams) (*models.FundTransaction, error) {
	if !p.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	var ft *models.FundTransaction
	err := l.db.Transaction(func(tx *gorm.DB) error {
		fund, err := l.activeFund(tx, p.InvestorID)
		if err != nil {
			return err
		}

		if err := l.decrementFundChecked(tx, fund.ID, p.Amount); err != nil {
			return err
		}
		if err := l.accounts.DecrementChecked(tx, p.AccountID, p.Amount); err != nil {
			return err
		}

		number, err := l.seq.Next(tx, PrefixFundTransaction, p.Date)
		if err != nil {
			return err
		}
		ft = &models.FundTransaction{
			TransactionNumber: number,
			FundID:            fund.ID,
			AccountID:         p.AccountID,
			Direction:         models.FundDirectionOut,
			Amount:            p.Amount,
			Date:              p.Date,
			Description:       p.Description,
			CreatedBy:         p.Actor,
		}
		if err := tx.Create(ft).Error; err != nil {
			return fmt.Errorf("insert fund transaction: %w", err)
		}
		return l.normalizeStatus(tx, fund.ID)
	})
	if err != nil {
		return nil, err
	}
	return ft, nil
}

// EditTransaction re-points an existing fund transaction at a new amount,
// date and description. Balances absorb only the delta between old and
// new amount, signed by the row's direction: increasing an "out" row
// means more money left, so both balances decrease further.
func (l *FundLedger) EditTransaction(id uint, newAmount decimal.Decimal, newDate time.Time, newDescription string) (*models.FundTransaction, error) {
	if !newAmount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	var ft models.FundTransaction
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ft, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("fund transaction %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("get fund transaction %d: %w", id, err)
		}

		delta := newAmount.Sub(ft.Amount)
		signed := signedFundAmount(ft.Direction, delta)
		if err := l.applyFundDelta(tx, ft.FundID, signed); err != nil {
			return err
		}
		if err := l.accounts.Apply(tx, Effects{{AccountID: ft.AccountID, Delta: signed}}); err != nil {
			return err
		}

		ft.Amount = newAmount
		ft.Date = newDate
		ft.Description = newDescription
		if err := tx.Save(&ft).Error; err != nil {
			return fmt.Errorf("update fund transaction %d: %w", id, err)
		}
		return l.normalizeStatus(tx, ft.FundID)
	})
	if err != nil {
		return nil, err
	}
	return &ft, nil
}

// DeleteTransaction reverses the row's full signed effect on the fund and
// the account, then removes it. A closed fund whose balance climbs back
// above zero reopens.
func (l *FundLedger) DeleteTransaction(id uint) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		var ft models.FundTransaction
		if err := tx.First(&ft, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("fund transaction %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("get fund transaction %d: %w", id, err)
		}

		inverse := signedFundAmount(ft.Direction, ft.Amount).Neg()
		if err := l.applyFundDelta(tx, ft.FundID, inverse); err != nil {
			return err
		}
		if err := l.accounts.Apply(tx, Effects{{AccountID: ft.AccountID, Delta: inverse}}); err != nil {
			return err
		}
		if err := tx.Delete(&ft).Error; err != nil {
			return fmt.Errorf("delete fund transaction %d: %w", id, err)
		}
		return l.normalizeStatus(tx, ft.FundID)
	})
}

// GetFund loads one fund.
func (l *FundLedger) GetFund(id uint) (*models.Fund, error) {
	var fund models.Fund
	if err := l.db.First(&fund, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("fund %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get fund %d: %w", id, err)
	}
	return &fund, nil
}

// ListFunds returns all funds with their investors.
func (l *FundLedger) ListFunds() ([]models.Fund, error) {
	var funds []models.Fund
	if err := l.db.Preload("Investor").Order("id ASC").Find(&funds).Error; err != nil {
		return nil, fmt.Errorf("list funds: %w", err)
	}
	return funds, nil
}

func (l *FundLedger) activeFund(tx *gorm.DB, investorID uint) (*models.Fund, error) {
	var fund models.Fund
	err := tx.Where("investor_id = ? AND status = ?", investorID, models.FundStatusActive).
		First(&fund).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("investor %d: %w", investorID, ErrNoActiveFund)
		}
		return nil, fmt.Errorf("find active fund for investor %d: %w", investorID, err)
	}
	return &fund, nil
}

func (l *FundLedger) openFund(tx *gorm.DB, investorID, accountID uint) (*models.Fund, error) {
	var n int64
	if err := tx.Model(&models.Investor{}).Where("id = ?", investorID).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("check investor %d: %w", investorID, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("investor %d: %w", investorID, ErrNotFound)
	}

	code, err := l.seq.NextCode(tx, PrefixFundCode)
	if err != nil {
		return nil, err
	}
	fund := models.Fund{
		FundCode:       code,
		InvestorID:     investorID,
		AccountID:      accountID,
		CurrentBalance: decimal.Zero,
		Status:         models.FundStatusActive,
	}
	if err := tx.Create(&fund).Error; err != nil {
		return nil, fmt.Errorf("create fund: %w", err)
	}
	return &fund, nil
}

func (l *FundLedger) applyFundDelta(tx *gorm.DB, fundID uint, delta decimal.Decimal) error {
	res := tx.Model(&models.Fund{}).
		Where("id = ?", fundID).
		UpdateColumn("current_balance", gorm.Expr("current_balance + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("update fund %d balance: %w", fundID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("fund %d: %w", fundID, ErrNotFound)
	}
	return nil
}

func (l *FundLedger) decrementFundChecked(tx *gorm.DB, fundID uint, amount decimal.Decimal) error {
	res := tx.Model(&models.Fund{}).
		Where("id = ? AND current_balance >= ?", fundID, amount).
		UpdateColumn("current_balance", gorm.Expr("current_balance - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("decrement fund %d: %w", fundID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("fund %d: %w", fundID, ErrInsufficientFunds)
	}
	return nil
}

// normalizeStatus closes a fund that landed on exactly zero and reopens
// one a reversal pushed back above zero.
func (l *FundLedger) normalizeStatus(tx *gorm.DB, fundID uint) error {
	var fund models.Fund
	if err := tx.First(&fund, fundID).Error; err != nil {
		return fmt.Errorf("get fund %d: %w", fundID, err)
	}
	status := fund.Status
	switch {
	case fund.CurrentBalance.IsZero():
		status = models.FundStatusClosed
	case fund.CurrentBalance.IsPositive():
		status = models.FundStatusActive
	}
	if status == fund.Status {
		return nil
	}
	if err := tx.Model(&models.Fund{}).Where("id = ?", fundID).
		UpdateColumn("status", status).Error; err != nil {
		return fmt.Errorf("update fund %d status: %w", fundID, err)
	}
	return nil
}
