package ledger

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/models"
)

// Identifier prefixes.
const (
	PrefixTransaction     = "TXN"
	PrefixFundTransaction = "FTRX"
	PrefixWelfareLoan     = "SWL"
	PrefixDonation        = "WFD"
	PrefixFundCode        = "FD"
)

// Sequences hands out human-readable sequential identifiers from
// per-scope counter rows. Counting existing records and probing for
// collisions is racy under concurrent writers, so every allocation is a
// relative UPDATE on the scope's row inside the caller's transaction: the
// row stays locked until commit and two writers can never see the same
// value.
type Sequences struct{}

// NewSequences returns a Sequences generator.
func NewSequences() *Sequences {
	return &Sequences{}
}

// Next allocates the next number in a day-scoped series and formats it as
// PREFIX-YYYYMMDD-NNNN.
func (s *Sequences) Next(tx *gorm.DB, prefix string, date time.Time) (string, error) {
	day := date.Format("20060102")
	scope := prefix + "-" + day
	n, err := s.bump(tx, scope)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, day, n), nil
}

// NextCode allocates the next number in a global series and formats it as
// PREFIX-NNNN.
func (s *Sequences) NextCode(tx *gorm.DB, prefix string) (string, error) {
	n, err := s.bump(tx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", prefix, n), nil
}

// bump increments the scope's counter and returns the new value. The row
// is created on first use; the ON CONFLICT guard makes concurrent first
// uses collapse onto the same row.
func (s *Sequences) bump(tx *gorm.DB, scope string) (int64, error) {
	seq := models.Sequence{Scope: scope, Value: 0}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}},
		DoNothing: true,
	}).Create(&seq).Error; err != nil {
		return 0, fmt.Errorf("create sequence %s: %w", scope, err)
	}

	res := tx.Model(&models.Sequence{}).
		Where("scope = ?", scope).
		UpdateColumn("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("bump sequence %s: %w", scope, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("bump sequence %s: %w", scope, ErrIdentifierCollision)
	}

	var cur models.Sequence
	if err := tx.Where("scope = ?", scope).First(&cur).Error; err != nil {
		return 0, fmt.Errorf("read sequence %s: %w", scope, err)
	}
	return cur.Value, nil
}
