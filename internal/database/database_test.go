package database

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/config"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/models"
)

// Referential integrity must hold on every pooled connection, not just
// the one that happened to serve a setup statement.
func TestForeignKeysEnforcedAcrossPool(t *testing.T) {
	db, err := Init(config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "database_test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	const n = 10
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			txn := models.Transaction{
				TransactionNumber: "TXN-19700101-" + string(rune('A'+i)),
				AccountID:         9999,
				Type:              models.TransactionTypeAssetPurchase,
				Amount:            decimal.NewFromInt(1),
				Date:              time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC),
			}
			errs[i] = db.Create(&txn).Error
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.Error(t, err, "insert %d referencing a missing account must fail", i)
	}

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEnsureCategoryIdempotent(t *testing.T) {
	db, err := Init(config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "database_test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	first, err := EnsureCategory(db, "Staff Welfare Loan", models.TransactionTypeExpense)
	require.NoError(t, err)
	second, err := EnsureCategory(db, "Staff Welfare Loan", models.TransactionTypeExpense)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
