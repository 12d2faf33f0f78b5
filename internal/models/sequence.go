package models

import "time"

// Sequence is the atomic counter behind generated identifiers. One row per
// scope (e.g. "TXN-20240101" for a day series, "FD" for a global series);
// Value is only ever bumped with a relative UPDATE inside the transaction
// that consumes the number, so two writers can never observe the same
// count.
type Sequence struct {
	ID        uint   `gorm:"primaryKey"`
	Scope     string `gorm:"size:32;uniqueIndex;not null"`
	Value     int64  `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
