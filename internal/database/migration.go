package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/models"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
		&models.Investor{},
		&models.Fund{},
		&models.FundTransaction{},
		&models.Teacher{},
		&models.WelfareLoan{},
		&models.WelfareLoanInstallment{},
		&models.WelfareFundDonation{},
		&models.Sequence{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// EnsureCategory finds or creates a category by name and type, returning
// its id. The welfare engines need fixed categories to stamp on generated
// transactions.
func EnsureCategory(db *gorm.DB, name, categoryType string) (uint, error) {
	var cat models.Category
	err := db.Where(models.Category{Name: name, Type: categoryType}).
		FirstOrCreate(&cat).Error
	if err != nil {
		return 0, fmt.Errorf("ensure category %s/%s: %w", categoryType, name, err)
	}
	return cat.ID, nil
}
