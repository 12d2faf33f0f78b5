package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectsReverse(t *testing.T) {
	fx := Effects{
		{AccountID: 1, Delta: dec("-100")},
		{AccountID: 2, Delta: dec("100")},
	}
	rev := fx.Reverse()

	assert.Equal(t, uint(1), rev[0].AccountID)
	assert.True(t, rev[0].Delta.Equal(dec("100")))
	assert.Equal(t, uint(2), rev[1].AccountID)
	assert.True(t, rev[1].Delta.Equal(dec("-100")))

	// reversing twice is the identity
	twice := rev.Reverse()
	for i := range fx {
		assert.True(t, twice[i].Delta.Equal(fx[i].Delta))
	}

	// the original is untouched
	assert.True(t, fx[0].Delta.Equal(dec("-100")))
}

func TestCreditDebitCancelOut(t *testing.T) {
	c := credit(7, dec("42.50"))
	d := debit(7, dec("42.50"))
	assert.True(t, c[0].Delta.Add(d[0].Delta).IsZero())
}
