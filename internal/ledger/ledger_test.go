package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/config"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/database"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/models"
)

// fixture wires the full ledger core over a throwaway database.
type fixture struct {
	db        *gorm.DB
	accounts  *AccountStore
	txns      *TransactionLedger
	funds     *FundLedger
	loans     *LoanEngine
	donations *DonationLedger

	incomeCat  uint
	expenseCat uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Init(config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "ledger_test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	expenseCat, err := database.EnsureCategory(db, "Staff Welfare Loan", models.TransactionTypeExpense)
	require.NoError(t, err)
	incomeCat, err := database.EnsureCategory(db, "Staff Welfare Recovery", models.TransactionTypeIncome)
	require.NoError(t, err)

	seq := NewSequences()
	accounts := NewAccountStore(db)
	txns := NewTransactionLedger(db, accounts, seq)

	return &fixture{
		db:         db,
		accounts:   accounts,
		txns:       txns,
		funds:      NewFundLedger(db, accounts, seq),
		loans:      NewLoanEngine(db, accounts, txns, seq, expenseCat, incomeCat),
		donations:  NewDonationLedger(db, accounts, txns, seq, incomeCat),
		incomeCat:  incomeCat,
		expenseCat: expenseCat,
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) newAccount(t *testing.T, name string, opening decimal.Decimal) *models.Account {
	t.Helper()
	acc, err := f.accounts.Create(CreateAccountParams{
		Name:           name,
		Number:         "AC-" + name,
		Type:           models.AccountTypeBank,
		OpeningBalance: opening,
	})
	require.NoError(t, err)
	return acc
}

func (f *fixture) newInvestor(t *testing.T, name string) *models.Investor {
	t.Helper()
	inv := models.Investor{Name: name}
	require.NoError(t, f.db.Create(&inv).Error)
	return &inv
}

func (f *fixture) newTeacher(t *testing.T, name string) *models.Teacher {
	t.Helper()
	tc := models.Teacher{Name: name}
	require.NoError(t, f.db.Create(&tc).Error)
	return &tc
}

func (f *fixture) balance(t *testing.T, accountID uint) decimal.Decimal {
	t.Helper()
	b, err := f.accounts.Balance(accountID)
	require.NoError(t, err)
	return b
}

// recomputedBalance rebuilds an account balance from the full history:
// opening balance plus the signed effects of live transactions and fund
// transactions. Tests use it to assert the core balance invariant.
func (f *fixture) recomputedBalance(t *testing.T, accountID uint) decimal.Decimal {
	t.Helper()

	var acc models.Account
	require.NoError(t, f.db.First(&acc, accountID).Error)
	total := acc.OpeningBalance

	var txns []models.Transaction
	require.NoError(t, f.db.
		Where("account_id = ? OR transfer_to_account_id = ?", accountID, accountID).
		Find(&txns).Error)
	for i := range txns {
		for _, fx := range effectsFor(&txns[i]) {
			if fx.AccountID == accountID {
				total = total.Add(fx.Delta)
			}
		}
	}

	var fts []models.FundTransaction
	require.NoError(t, f.db.Where("account_id = ?", accountID).Find(&fts).Error)
	for i := range fts {
		total = total.Add(signedFundAmount(fts[i].Direction, fts[i].Amount))
	}

	return total
}

func (f *fixture) assertInvariant(t *testing.T, accountID uint) {
	t.Helper()
	got := f.balance(t, accountID)
	want := f.recomputedBalance(t, accountID)
	require.True(t, got.Equal(want),
		"balance invariant broken: stored %s, recomputed %s", got, want)
}
