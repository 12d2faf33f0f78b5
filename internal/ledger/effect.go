package ledger

import "github.com/shopspring/decimal"

// Effect is one signed balance delta against one account, produced as the
// side effect of recording or reversing a monetary event.
type Effect struct {
	AccountID uint
	Delta     decimal.Decimal
}

// Effects is the full set of balance deltas one operation applies.
type Effects []Effect

// Reverse returns the exact inverse of every delta. Applying an
// operation's effects and then their reverse leaves every touched balance
// bit-for-bit where it started; all edit/delete paths go through this
// instead of re-deriving signs per entity.
func (e Effects) Reverse() Effects {
	out := make(Effects, len(e))
	for i, fx := range e {
		out[i] = Effect{AccountID: fx.AccountID, Delta: fx.Delta.Neg()}
	}
	return out
}

// credit and debit build single-account effect sets.
func credit(accountID uint, amount decimal.Decimal) Effects {
	return Effects{{AccountID: accountID, Delta: amount}}
}

func debit(accountID uint, amount decimal.Decimal) Effects {
	return Effects{{AccountID: accountID, Delta: amount.Neg()}}
}
