package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/models"
)

func TestCreateAccount(t *testing.T) {
	f := newFixture(t)

	acc := f.newAccount(t, "Main", dec("1000"))
	assert.Equal(t, models.AccountStatusActive, acc.Status)
	assert.True(t, acc.CurrentBalance.Equal(dec("1000")))
	assert.True(t, acc.OpeningBalance.Equal(dec("1000")))
}

func TestCreateAccountValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.accounts.Create(CreateAccountParams{Name: "", Number: "X", Type: models.AccountTypeCash})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.accounts.Create(CreateAccountParams{Name: "A", Number: "X", Type: "stocks"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.accounts.Create(CreateAccountParams{
		Name: "A", Number: "X", Type: models.AccountTypeCash,
		OpeningBalance: dec("-1"),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIncrementDecrement(t *testing.T) {
	f := newFixture(t)
	acc := f.newAccount(t, "Main", dec("100"))

	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		return f.accounts.Increment(tx, acc.ID, dec("50"))
	}))
	assert.True(t, f.balance(t, acc.ID).Equal(dec("150")))

	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		return f.accounts.Decrement(tx, acc.ID, dec("200"))
	}))
	// plain decrement has no overdraft protection
	assert.True(t, f.balance(t, acc.ID).Equal(dec("-50")))
}

func TestDecrementCheckedInsufficient(t *testing.T) {
	f := newFixture(t)
	acc := f.newAccount(t, "Main", dec("100"))

	err := f.db.Transaction(func(tx *gorm.DB) error {
		return f.accounts.DecrementChecked(tx, acc.ID, dec("100.01"))
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.True(t, f.balance(t, acc.ID).Equal(dec("100")))

	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		return f.accounts.DecrementChecked(tx, acc.ID, dec("100"))
	}))
	assert.True(t, f.balance(t, acc.ID).IsZero())
}

func TestMutateMissingAccount(t *testing.T) {
	f := newFixture(t)

	err := f.db.Transaction(func(tx *gorm.DB) error {
		return f.accounts.Increment(tx, 9999, dec("1"))
	})
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.db.Transaction(func(tx *gorm.DB) error {
		return f.accounts.DecrementChecked(tx, 9999, dec("1"))
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAccountWithDependents(t *testing.T) {
	f := newFixture(t)
	acc := f.newAccount(t, "Main", dec("1000"))

	_, err := f.txns.Record(RecordParams{
		AccountID:  acc.ID,
		Type:       models.TransactionTypeIncome,
		Amount:     dec("10"),
		Date:       date(2024, time.February, 1),
		CategoryID: &f.incomeCat,
		Actor:      "bursar",
	})
	require.NoError(t, err)

	err = f.accounts.Delete(acc.ID)
	assert.ErrorIs(t, err, ErrHasDependents)

	// still present
	_, err = f.accounts.Get(acc.ID)
	assert.NoError(t, err)
}

func TestDeleteMissingAccount(t *testing.T) {
	f := newFixture(t)

	err := f.accounts.Delete(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAccountClean(t *testing.T) {
	f := newFixture(t)
	acc := f.newAccount(t, "Spare", decimal.Zero)

	require.NoError(t, f.accounts.Delete(acc.ID))
	_, err := f.accounts.Get(acc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
