package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/models"
)

// AccountStore owns every balance mutation. All engines that touch an
// account balance go through it, so serialization lives in one place:
// deltas are applied as single relative UPDATE statements, never as
// read-modify-write from Go.
type AccountStore struct {
	db *gorm.DB
}

// NewAccountStore returns an AccountStore over db.
func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

// CreateAccountParams are the operator-supplied fields of a new account.
type CreateAccountParams struct {
	Name           string
	Number         string
	Type           string
	OpeningBalance decimal.Decimal
}

var accountTypes = map[string]bool{
	models.AccountTypeBank:         true,
	models.AccountTypeCash:         true,
	models.AccountTypeMobileWallet: true,
}

// Create inserts a new account. This is the only place CurrentBalance is
// written directly; afterwards it moves only through Increment/Decrement.
func (s *AccountStore) Create(p CreateAccountParams) (*models.Account, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Number = strings.TrimSpace(p.Number)
	if p.Name == "" || p.Number == "" {
		return nil, fmt.Errorf("%w: name and number are required", ErrValidation)
	}
	if !accountTypes[p.Type] {
		return nil, fmt.Errorf("%w: unknown account type %q", ErrValidation, p.Type)
	}
	if p.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance cannot be negative", ErrValidation)
	}

	acc := models.Account{
		Name:           p.Name,
		Number:         p.Number,
		Type:           p.Type,
		OpeningBalance: p.OpeningBalance,
		CurrentBalance: p.OpeningBalance,
		Status:         models.AccountStatusActive,
	}
	if err := s.db.Create(&acc).Error; err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &acc, nil
}

// Get loads one account.
func (s *AccountStore) Get(id uint) (*models.Account, error) {
	var acc models.Account
	if err := s.db.First(&acc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("account %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get account %d: %w", id, err)
	}
	return &acc, nil
}

// List returns all accounts ordered by number.
func (s *AccountStore) List() ([]models.Account, error) {
	var accs []models.Account
	if err := s.db.Order("number ASC").Find(&accs).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accs, nil
}

// Balance returns an account's current balance.
func (s *AccountStore) Balance(id uint) (decimal.Decimal, error) {
	acc, err := s.Get(id)
	if err != nil {
		return decimal.Zero, err
	}
	return acc.CurrentBalance, nil
}

// Increment adds amount to the account balance inside tx.
func (s *AccountStore) Increment(tx *gorm.DB, id uint, amount decimal.Decimal) error {
	return s.applyDelta(tx, id, amount)
}

// Decrement subtracts amount from the account balance inside tx. It does
// not check sufficiency: the plain transaction path allows operating cash
// to go negative (back-dated entries and the like). Engines that enforce
// a no-overdraft rule must use DecrementChecked instead.
func (s *AccountStore) Decrement(tx *gorm.DB, id uint, amount decimal.Decimal) error {
	return s.applyDelta(tx, id, amount.Neg())
}

// DecrementChecked subtracts amount only if the balance covers it,
// returning ErrInsufficientFunds otherwise. The sufficiency condition is
// part of the UPDATE itself, so a concurrent decrement cannot slip
// through on a stale read.
func (s *AccountStore) DecrementChecked(tx *gorm.DB, id uint, amount decimal.Decimal) error {
	res := tx.Model(&models.Account{}).
		Where("id = ? AND current_balance >= ?", id, amount).
		UpdateColumn("current_balance", gorm.Expr("current_balance - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("decrement account %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing account from an uncovered one.
		var n int64
		if err := tx.Model(&models.Account{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("decrement account %d: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("account %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("account %d: %w", id, ErrInsufficientFunds)
	}
	return nil
}

// exists reports ErrNotFound when no account row has this id. Engines
// call it before inserting rows that reference the account, keeping the
// error kind ahead of the foreign key constraint.
func (s *AccountStore) exists(tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.Model(&models.Account{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check account %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	return nil
}

// Apply runs every effect in the set against its account inside tx.
func (s *AccountStore) Apply(tx *gorm.DB, effects Effects) error {
	for _, fx := range effects {
		if err := s.applyDelta(tx, fx.AccountID, fx.Delta); err != nil {
			return err
		}
	}
	return nil
}

func (s *AccountStore) applyDelta(tx *gorm.DB, id uint, delta decimal.Decimal) error {
	res := tx.Model(&models.Account{}).
		Where("id = ?", id).
		UpdateColumn("current_balance", gorm.Expr("current_balance + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("update account %d balance: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes an account that no live transaction references. Soft
// deleted transactions still count for identifier purposes but not here.
func (s *AccountStore) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// existence read inside the transaction, one snapshot with the
		// dependent count and the delete
		var acc models.Account
		if err := tx.First(&acc, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("account %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("get account %d: %w", id, err)
		}
		var n int64
		if err := tx.Model(&models.Transaction{}).
			Where("account_id = ? OR transfer_to_account_id = ?", id, id).
			Count(&n).Error; err != nil {
			return fmt.Errorf("count account %d transactions: %w", id, err)
		}
		if n > 0 {
			return fmt.Errorf("account %d has %d transactions: %w", id, n, ErrHasDependents)
		}
		if err := tx.Delete(&models.Account{}, id).Error; err != nil {
			return fmt.Errorf("delete account %d: %w", id, err)
		}
		return nil
	})
}
