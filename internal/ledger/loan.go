package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/models"
)

// LoanEngine drives staff-welfare loans: disbursement against an account,
// an amortized monthly installment schedule, repayment tracking, and the
// active -> paid / active -> cancelled state machine. It writes the
// transaction ledger and the account store inside the same database
// transaction as its own rows.
type LoanEngine struct {
	db       *gorm.DB
	accounts *AccountStore
	txns     *TransactionLedger
	seq      *Sequences

	// ExpenseCategoryID / IncomeCategoryID are the categories stamped on
	// generated disbursement and repayment transactions.
	ExpenseCategoryID uint
	IncomeCategoryID  uint
}

// NewLoanEngine returns a LoanEngine over db.
func NewLoanEngine(db *gorm.DB, accounts *AccountStore, txns *TransactionLedger, seq *Sequences, expenseCategoryID, incomeCategoryID uint) *LoanEngine {
	return &LoanEngine{
		db:                db,
		accounts:          accounts,
		txns:              txns,
		seq:               seq,
		ExpenseCategoryID: expenseCategoryID,
		IncomeCategoryID:  incomeCategoryID,
	}
}

// CreateLoanParams describe a new loan disbursement.
type CreateLoanParams struct {
	TeacherID            uint
	AccountID            uint
	LoanAmount           decimal.Decimal
	InstallmentAmount    decimal.Decimal
	LoanDate             time.Time
	FirstInstallmentDate time.Time
	Actor                string
}

// monthlyDueDate advances the first due date by whole months, clamping to
// the last day of shorter months. AddDate would normalize Jan 31 + 1
// month into Mar 2 and break the monthly cadence.
func monthlyDueDate(first time.Time, months int) time.Time {
	if months == 0 {
		return first
	}
	y, m, d := first.Date()
	anchor := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, first.Location())
	if last := anchor.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(anchor.Year(), anchor.Month(), d, 0, 0, 0, 0, first.Location())
}

// buildSchedule splits amount into count monthly installments of size
// each, the last absorbing the remainder so the sum is exact.
func buildSchedule(loanID uint, amount, each decimal.Decimal, count int, firstDue time.Time) []models.WelfareLoanInstallment {
	rows := make([]models.WelfareLoanInstallment, count)
	for i := 0; i < count; i++ {
		a := each
		if i == count-1 {
			a = amount.Sub(each.Mul(decimal.NewFromInt(int64(count - 1))))
		}
		rows[i] = models.WelfareLoanInstallment{
			LoanID:            loanID,
			InstallmentNumber: i + 1,
			Amount:            a,
			DueDate:           monthlyDueDate(firstDue, i),
			Status:            models.InstallmentStatusPending,
		}
	}
	return rows
}

// CreateLoan disburses a loan: decrements the paying account, records the
// expense transaction, and generates ceil(amount/installment) monthly
// installments starting at FirstInstallmentDate.
func (e *LoanEngine) CreateLoan(p CreateLoanParams) (*models.WelfareLoan, error) {
	if !p.LoanAmount.IsPositive() {
		return nil, fmt.Errorf("%w: loan amount must be positive", ErrValidation)
	}
	if !p.InstallmentAmount.IsPositive() {
		return nil, fmt.Errorf("%w: installment amount must be positive", ErrValidation)
	}
	if p.InstallmentAmount.GreaterThan(p.LoanAmount) {
		p.InstallmentAmount = p.LoanAmount
	}

	count := int(p.LoanAmount.Div(p.InstallmentAmount).Ceil().IntPart())

	var loan *models.WelfareLoan
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Teacher{}).Where("id = ?", p.TeacherID).Count(&n).Error; err != nil {
			return fmt.Errorf("check teacher %d: %w", p.TeacherID, err)
		}
		if n == 0 {
			return fmt.Errorf("teacher %d: %w", p.TeacherID, ErrNotFound)
		}
		if err := e.accounts.exists(tx, p.AccountID); err != nil {
			return err
		}

		number, err := e.seq.Next(tx, PrefixWelfareLoan, p.LoanDate)
		if err != nil {
			return err
		}
		loan = &models.WelfareLoan{
			LoanNumber:           number,
			TeacherID:            p.TeacherID,
			AccountID:            p.AccountID,
			LoanAmount:           p.LoanAmount,
			TotalPaid:            decimal.Zero,
			RemainingAmount:      p.LoanAmount,
			InstallmentCount:     count,
			PaidInstallments:     0,
			InstallmentAmount:    p.InstallmentAmount,
			LoanDate:             p.LoanDate,
			FirstInstallmentDate: p.FirstInstallmentDate,
			Status:               models.LoanStatusActive,
			CreatedBy:            p.Actor,
		}
		if err := tx.Create(loan).Error; err != nil {
			return fmt.Errorf("insert loan: %w", err)
		}

		schedule := buildSchedule(loan.ID, p.LoanAmount, p.InstallmentAmount, count, p.FirstInstallmentDate)
		if err := tx.Create(&schedule).Error; err != nil {
			return fmt.Errorf("insert installments: %w", err)
		}

		categoryID := e.ExpenseCategoryID
		_, err = e.txns.recordIn(tx, RecordParams{
			AccountID:   p.AccountID,
			Type:        models.TransactionTypeExpense,
			Amount:      p.LoanAmount,
			Date:        p.LoanDate,
			CategoryID:  &categoryID,
			Description: fmt.Sprintf("Welfare loan %s disbursement", loan.LoanNumber),
			Actor:       p.Actor,
			SourceType:  models.SourceWelfareLoan,
			SourceID:    loan.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// PayInstallmentParams describe one repayment.
type PayInstallmentParams struct {
	InstallmentID uint
	AccountID     uint
	Method        string
	Reference     string
	PaidDate      time.Time
	Actor         string
}

// PayInstallment marks an installment paid, advances the loan's totals,
// credits the receiving account and records the income transaction. The
// loan flips to paid the moment RemainingAmount reaches zero.
func (e *LoanEngine) PayInstallment(p PayInstallmentParams) (*models.WelfareLoan, error) {
	var loan models.WelfareLoan
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var inst models.WelfareLoanInstallment
		if err := tx.First(&inst, p.InstallmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("installment %d: %w", p.InstallmentID, ErrNotFound)
			}
			return fmt.Errorf("get installment %d: %w", p.InstallmentID, err)
		}
		if inst.Status == models.InstallmentStatusPaid {
			return fmt.Errorf("installment %d: %w", p.InstallmentID, ErrAlreadyPaid)
		}

		if err := tx.First(&loan, inst.LoanID).Error; err != nil {
			return fmt.Errorf("get loan %d: %w", inst.LoanID, err)
		}
		if loan.Status != models.LoanStatusActive {
			return fmt.Errorf("loan %s is %s: %w", loan.LoanNumber, loan.Status, ErrInvalidState)
		}

		paidDate := p.PaidDate
		inst.Status = models.InstallmentStatusPaid
		inst.PaidDate = &paidDate
		inst.AccountID = &p.AccountID
		inst.Method = p.Method
		inst.Reference = p.Reference
		if err := tx.Save(&inst).Error; err != nil {
			return fmt.Errorf("update installment %d: %w", inst.ID, err)
		}

		loan.TotalPaid = loan.TotalPaid.Add(inst.Amount)
		loan.RemainingAmount = loan.LoanAmount.Sub(loan.TotalPaid)
		loan.PaidInstallments++
		if loan.RemainingAmount.LessThanOrEqual(decimal.Zero) {
			loan.Status = models.LoanStatusPaid
		}
		if err := tx.Save(&loan).Error; err != nil {
			return fmt.Errorf("update loan %d: %w", loan.ID, err)
		}

		categoryID := e.IncomeCategoryID
		_, err := e.txns.recordIn(tx, RecordParams{
			AccountID:   p.AccountID,
			Type:        models.TransactionTypeIncome,
			Amount:      inst.Amount,
			Date:        p.PaidDate,
			CategoryID:  &categoryID,
			Description: fmt.Sprintf("Welfare loan %s installment %d", loan.LoanNumber, inst.InstallmentNumber),
			Actor:       p.Actor,
			SourceType:  models.SourceWelfareLoanInstallment,
			SourceID:    inst.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// CancelLoan undoes an untouched disbursement: the account gets the full
// amount back, the disbursement transaction is removed outright (it never
// happened, as opposed to being reversed), and the loan goes terminal.
// Any repayment at all blocks cancellation.
func (e *LoanEngine) CancelLoan(id uint) (*models.WelfareLoan, error) {
	var loan models.WelfareLoan
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&loan, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("loan %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("get loan %d: %w", id, err)
		}
		if loan.Status != models.LoanStatusActive || !loan.TotalPaid.IsZero() {
			return fmt.Errorf("loan %s is %s with %s paid: %w",
				loan.LoanNumber, loan.Status, loan.TotalPaid, ErrInvalidState)
		}

		txn, err := e.disbursement(tx, loan.ID)
		if err != nil {
			return err
		}
		if err := e.accounts.Apply(tx, effectsFor(txn).Reverse()); err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(txn).Error; err != nil {
			return fmt.Errorf("delete disbursement transaction: %w", err)
		}

		loan.Status = models.LoanStatusCancelled
		if err := tx.Save(&loan).Error; err != nil {
			return fmt.Errorf("update loan %d: %w", loan.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// EditLoanParams describe an amendment of an unpaid loan.
type EditLoanParams struct {
	LoanID               uint
	LoanAmount           decimal.Decimal
	InstallmentCount     int
	LoanDate             time.Time
	FirstInstallmentDate time.Time
	Description          string
}

// EditLoan re-shapes an active loan nothing has been paid on: the
// schedule is regenerated from the new amount and count, the account
// absorbs only the delta between old and new principal, and the linked
// disbursement transaction is rewritten in place.
func (e *LoanEngine) EditLoan(p EditLoanParams) (*models.WelfareLoan, error) {
	if !p.LoanAmount.IsPositive() {
		return nil, fmt.Errorf("%w: loan amount must be positive", ErrValidation)
	}
	if p.InstallmentCount < 1 {
		return nil, fmt.Errorf("%w: installment count must be at least 1", ErrValidation)
	}

	var loan models.WelfareLoan
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&loan, p.LoanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("loan %d: %w", p.LoanID, ErrNotFound)
			}
			return fmt.Errorf("get loan %d: %w", p.LoanID, err)
		}
		if loan.Status != models.LoanStatusActive || !loan.TotalPaid.IsZero() {
			return fmt.Errorf("loan %s is %s with %s paid: %w",
				loan.LoanNumber, loan.Status, loan.TotalPaid, ErrInvalidState)
		}

		// More principal means more money out of the account, and vice
		// versa.
		delta := p.LoanAmount.Sub(loan.LoanAmount)
		if err := e.accounts.Apply(tx, Effects{{AccountID: loan.AccountID, Delta: delta.Neg()}}); err != nil {
			return err
		}

		if err := tx.Where("loan_id = ?", loan.ID).
			Delete(&models.WelfareLoanInstallment{}).Error; err != nil {
			return fmt.Errorf("clear installments: %w", err)
		}
		// Floor-rounded so the tail installment at amount - each*(count-1)
		// is always at least each; half-up rounding could push it negative.
		each := p.LoanAmount.Div(decimal.NewFromInt(int64(p.InstallmentCount))).RoundDown(2)
		if !each.IsPositive() {
			return fmt.Errorf("%w: amount %s cannot be split into %d installments",
				ErrValidation, p.LoanAmount, p.InstallmentCount)
		}
		schedule := buildSchedule(loan.ID, p.LoanAmount, each, p.InstallmentCount, p.FirstInstallmentDate)
		if err := tx.Create(&schedule).Error; err != nil {
			return fmt.Errorf("insert installments: %w", err)
		}

		txn, err := e.disbursement(tx, loan.ID)
		if err != nil {
			return err
		}
		txn.Amount = p.LoanAmount
		txn.Date = p.LoanDate
		if p.Description != "" {
			txn.Description = p.Description
		}
		if err := tx.Save(txn).Error; err != nil {
			return fmt.Errorf("update disbursement transaction: %w", err)
		}

		loan.LoanAmount = p.LoanAmount
		loan.RemainingAmount = p.LoanAmount
		loan.InstallmentCount = p.InstallmentCount
		loan.InstallmentAmount = each
		loan.LoanDate = p.LoanDate
		loan.FirstInstallmentDate = p.FirstInstallmentDate
		if err := tx.Save(&loan).Error; err != nil {
			return fmt.Errorf("update loan %d: %w", loan.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// Get loads one loan with its schedule.
func (e *LoanEngine) Get(id uint) (*models.WelfareLoan, error) {
	var loan models.WelfareLoan
	err := e.db.Preload("Installments", func(db *gorm.DB) *gorm.DB {
		return db.Order("installment_number ASC")
	}).First(&loan, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("loan %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get loan %d: %w", id, err)
	}
	return &loan, nil
}

// List returns all loans, optionally filtered by status.
func (e *LoanEngine) List(status string) ([]models.WelfareLoan, error) {
	q := e.db.Preload("Teacher").Order("id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var loans []models.WelfareLoan
	if err := q.Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}

// disbursement finds the loan's expense transaction by its source link;
// description text is never matched against.
func (e *LoanEngine) disbursement(tx *gorm.DB, loanID uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := tx.Where("source_type = ? AND source_id = ?", models.SourceWelfareLoan, loanID).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("disbursement for loan %d: %w", loanID, ErrNotFound)
		}
		return nil, fmt.Errorf("find disbursement for loan %d: %w", loanID, err)
	}
	return &txn, nil
}
