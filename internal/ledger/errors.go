package ledger

import "errors"

// Error kinds surfaced by ledger operations. Every operation is
// all-or-nothing: any of these aborts the enclosing database transaction
// with no partial effect. Handlers map them to HTTP responses.
var (
	// ErrValidation means the input shape or range was rejected before
	// any mutation.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means a referenced account, fund, loan or installment
	// does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrHasDependents blocks deleting an account that live transactions
	// still reference.
	ErrHasDependents = errors.New("record has dependents")

	// ErrAlreadyPaid rejects paying an installment twice.
	ErrAlreadyPaid = errors.New("installment already paid")

	// ErrNoActiveFund rejects a withdrawal for an investor with no open
	// fund.
	ErrNoActiveFund = errors.New("no active fund")

	// ErrInsufficientFunds rejects a fund withdrawal larger than the fund
	// or account balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidState rejects a loan transition the state machine does
	// not allow (cancel after payment, edit of a paid loan, and so on).
	ErrInvalidState = errors.New("invalid state transition")

	// ErrIdentifierCollision is kept for completeness. Identifier
	// allocation runs on atomic per-scope counters, so it is not expected
	// to occur.
	ErrIdentifierCollision = errors.New("identifier collision")
)
