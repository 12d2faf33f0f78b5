package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/models"
)

// TransactionLedger records money movements against accounts and keeps
// the canonical history whose signed sum equals each account's balance.
// Every operation runs inside a single database transaction: the number
// allocation, the row insert and the balance mutation commit together or
// not at all.
type TransactionLedger struct {
	db       *gorm.DB
	accounts *AccountStore
	seq      *Sequences
}

// NewTransactionLedger returns a TransactionLedger over db.
func NewTransactionLedger(db *gorm.DB, accounts *AccountStore, seq *Sequences) *TransactionLedger {
	return &TransactionLedger{db: db, accounts: accounts, seq: seq}
}

// RecordParams describe one money-moving command.
type RecordParams struct {
	AccountID           uint
	Type                string
	Amount              decimal.Decimal
	Date                time.Time
	CategoryID          *uint
	TransferToAccountID *uint
	Description         string
	Actor               string

	// Source links the row to the domain event that created it (loan
	// disbursement, installment payment, donation). Empty for plain
	// entries.
	SourceType string
	SourceID   uint
}

var transactionTypes = map[string]bool{
	models.TransactionTypeIncome:        true,
	models.TransactionTypeExpense:       true,
	models.TransactionTypeTransfer:      true,
	models.TransactionTypeAssetPurchase: true,
}

func (l *TransactionLedger) validate(p RecordParams) error {
	if !transactionTypes[p.Type] {
		return fmt.Errorf("%w: unknown transaction type %q", ErrValidation, p.Type)
	}
	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	switch p.Type {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
		if p.CategoryID == nil {
			return fmt.Errorf("%w: category is required for %s", ErrValidation, p.Type)
		}
	case models.TransactionTypeTransfer:
		if p.TransferToAccountID == nil {
			return fmt.Errorf("%w: destination account is required for transfer", ErrValidation)
		}
		if *p.TransferToAccountID == p.AccountID {
			return fmt.Errorf("%w: cannot transfer to the same account", ErrValidation)
		}
	}
	return nil
}

// effectsFor derives the signed balance deltas of a transaction row. Both
// apply and reversal paths use it, so the arithmetic cannot drift apart.
func effectsFor(t *models.Transaction) Effects {
	switch t.Type {
	case models.TransactionTypeIncome:
		return credit(t.AccountID, t.Amount)
	case models.TransactionTypeTransfer:
		fx := debit(t.AccountID, t.Amount)
		if t.TransferToAccountID != nil {
			fx = append(fx, credit(*t.TransferToAccountID, t.Amount)...)
		}
		return fx
	default: // expense, asset_purchase
		return debit(t.AccountID, t.Amount)
	}
}

// Record validates, allocates a TXN number, writes the row and applies
// its balance effects as one atomic unit.
func (l *TransactionLedger) Record(p RecordParams) (*models.Transaction, error) {
	var txn *models.Transaction
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var err error
		txn, err = l.recordIn(tx, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// recordIn is Record inside an existing transaction; the fund, loan and
// donation engines call it so their own writes share one commit.
func (l *TransactionLedger) recordIn(tx *gorm.DB, p RecordParams) (*models.Transaction, error) {
	if err := l.validate(p); err != nil {
		return nil, err
	}
	if err := l.accounts.exists(tx, p.AccountID); err != nil {
		return nil, err
	}
	if p.TransferToAccountID != nil {
		if err := l.accounts.exists(tx, *p.TransferToAccountID); err != nil {
			return nil, err
		}
	}
	if p.CategoryID != nil {
		var n int64
		if err := tx.Model(&models.Category{}).Where("id = ?", *p.CategoryID).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("check category: %w", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("category %d: %w", *p.CategoryID, ErrNotFound)
		}
	}

	number, err := l.seq.Next(tx, PrefixTransaction, p.Date)
	if err != nil {
		return nil, err
	}

	txn := models.Transaction{
		TransactionNumber:   number,
		AccountID:           p.AccountID,
		Type:                p.Type,
		Amount:              p.Amount,
		Date:                p.Date,
		CategoryID:          p.CategoryID,
		TransferToAccountID: p.TransferToAccountID,
		Description:         p.Description,
		CreatedBy:           p.Actor,
		SourceType:          p.SourceType,
		SourceID:            p.SourceID,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	if err := l.accounts.Apply(tx, effectsFor(&txn)); err != nil {
		return nil, err
	}
	return &txn, nil
}

// Get loads one live transaction.
func (l *TransactionLedger) Get(id uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := l.db.First(&txn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return &txn, nil
}

// ReverseAndDelete applies the exact inverse of the row's balance effects
// and soft-deletes it. The row remains visible to auditing and, being
// soft-deleted, can never free its transaction number for reuse.
func (l *TransactionLedger) ReverseAndDelete(id uint) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		if err := tx.First(&txn, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("get transaction %d: %w", id, err)
		}
		if err := l.accounts.Apply(tx, effectsFor(&txn).Reverse()); err != nil {
			return err
		}
		if err := tx.Delete(&txn).Error; err != nil {
			return fmt.Errorf("delete transaction %d: %w", id, err)
		}
		return nil
	})
}

// ListParams filter the transaction history.
type ListParams struct {
	From      *time.Time
	To        *time.Time
	Type      string
	AccountID uint
}

// List returns live transactions newest first.
func (l *TransactionLedger) List(p ListParams) ([]models.Transaction, error) {
	q := l.db.Model(&models.Transaction{})
	if p.From != nil {
		q = q.Where("date >= ?", *p.From)
	}
	if p.To != nil {
		q = q.Where("date < ?", *p.To)
	}
	if p.Type != "" {
		q = q.Where("type = ?", p.Type)
	}
	if p.AccountID != 0 {
		q = q.Where("account_id = ? OR transfer_to_account_id = ?", p.AccountID, p.AccountID)
	}

	var txns []models.Transaction
	if err := q.Order("date DESC, id DESC").Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}
