package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/models"
)

func TestFundInOpensFundAndCredits(t *testing.T) {
	f := newFixture(t)
	acc := f.newAccount(t, "Bank", dec("1000"))
	inv := f.newInvestor(t, "Rahim")

	ft, err := f.funds.FundIn(FundMoveParams{
		InvestorID: inv.ID,
		AccountID:  acc.ID,
		Amount:     dec("2000"),
		Date:       date(2024, time.March, 1),
		Actor:      "bursar",
	})
	require.NoError(t, err)
	assert.Equal(t, "FTRX-20240301-0001", ft.TransactionNumber)

	fund, err := f.funds.GetFund(ft.FundID)
	require.NoError(t, err)
	assert.Equal(t, "FD-0001", fund.FundCode)
	assert.Equal(t, models.FundStatusActive, fund.Status)
	assert.True(t, fund.CurrentBalance.Equal(dec("2000")))
	assert.True(t, f.balance(t, acc.ID).Equal(dec("3000")))
	f.assertInvariant(t, acc.ID)
}

func TestFundInReusesActiveFund(t *testing.T) {
	f := newFixture(t)
	acc := f.newAccount(t, "Bank", dec("0"))
	inv := f.newInvestor(t, "Rahim")

	first, err := f.funds.FundIn(FundMoveParams{
		InvestorID: inv.ID, AccountID: acc.ID,
		Amount: dec("500"), Date: date(2024, time.March, 1),
	})
	require.NoError(t, err)
	second, err := f.funds.FundIn(FundMoveParams{
		InvestorID: inv.ID, AccountID: acc.ID,
		Amount: dec("500"), Date: date(2024, time.March, 2),
	})
	require.NoError(t, err)

	assert.Equal(t, first.FundID, second.FundID)
	fund, err := f.funds.GetFund(first.FundID)
	require.NoError(t, err)
	assert.True(t, fund.CurrentBalance.Equal(dec("1000")))
}

func TestFundInUnknownInvestor(t *testing.T) {
	f := newFixture(t)
	acc := f.newAccount(t, "Bank", dec("0"))

	_, err := f.funds.FundIn(FundMoveParams{
		InvestorID: 77, AccountID: acc.ID,
		Amount: dec("100"), Date: date(2024, time.March, 1),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFundInUnknownAccount(t *testing.T) {
	f := newFixture(t)
	inv := f.newInvestor(t, "Rahim")

	_, err := f.funds.FundIn(FundMoveParams{
		InvestorID: inv.ID, AccountID: 9999,
		Amount: dec("100"), Date: date(2024, time.March, 1),
	})
	assert.ErrorIs(t, err, ErrNotFound)

	var n int64
	require.NoError(t, f.db.Model(&models.Fund{}).Count(&n).Error)
	assert.Zero(t, n, "no fund may be opened against a missing account")
}

func TestFundOutInsufficientFundBalance(t *testing.T) {
	f := newFixture(t)
	acc := f.newAccount(t, "Bank", dec("0"))
	inv := f.newInvestor(t, "Rahim")

	in, err := f.funds.FundIn(FundMoveParams{
		InvestorID: inv.ID, AccountID: acc.ID,
		Amount: dec("300"), Date: date(2024, time.March, 1),
	})
	require.NoError(t, err)

	_, err = f.funds.FundOut(FundMoveParams{
		InvestorID: inv.ID, AccountID: acc.ID,
		Amount: dec("400"), Date: date(2024, time.March, 2),
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// nothing moved
	fund, err := f.funds.GetFund(in.FundID)
	require.NoError(t, err)
	assert.True(t, fund.CurrentBalance.Equal(dec("300")))
	assert.True(t, f.balance(t, acc.ID).Equal(dec("300")))
}

func TestFundOutInsufficientAccountBalance(t *testing.T) {
	f := newFixture(t)
	rich := f.newAccount(t, "Bank", dec("0"))
	poor := f.newAccount(t, "Cash", dec("50"))
	inv := f.newInvestor(t, "Rahim")

	_, err := f.funds.FundIn(FundMoveParams{
		InvestorID: inv.ID, AccountID: rich.ID,
		Amount: dec("300"), Date: date(2024, time.March, 1),
	})
	require.NoError(t, err)

	// fund can cover it but the chosen account cannot
	_, err = f.funds.FundOut(FundMoveParams{
		InvestorID: inv.ID, AccountID: poor.ID,
		Amount: dec("100"), Date: date(2024, time.March, 2),
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.True(t, f.balance(t, poor.ID).Equal(dec("50")))
}

func TestFundOutClosesAtZero(t *testing.T) {
	f := newFixture(t)
	acc := f.newAccount(t, "Bank", dec("0"))
	inv := f.newInvestor(t, "Rahim")

	in, err := f.funds.FundIn(FundMoveParams{
		InvestorID: inv.ID, AccountID: acc.ID,
		Amount: dec("300"), Date: date(2024, time.March, 1),
	})
	require.NoError(t, err)

	_, err = f.funds.FundOut(FundMoveParams{
		InvestorID: inv.ID, AccountID: acc.ID,
		Amount: dec("300"), Date: date(2024, time.March, 2),
	})
	require.NoError(t, err)

	fund, err := f.funds.GetFund(in.FundID)
	require.NoError(t, err)
	assert.Equal(t, models.FundStatusClosed, fund.Status)
	assert.True(t, fund.CurrentBalance.IsZero())

	// a closed fund takes no more withdrawals
	_, err = f.funds.FundOut(FundMoveParams{
		InvestorID: inv.ID, AccountID: acc.ID,
		Amount: dec("1"), Date: date(2024, time.March, 3),
	})
	assert.ErrorIs(t, err, ErrNoActiveFund)
}

func TestFundOutWithoutFund(t *testing.T) {
	f := newFixture(t)
	acc := f.newAccount(t, "Bank", dec("1000"))
	inv := f.newInvestor(t, "Rahim")

	_, err := f.funds.FundOut(FundMoveParams{
		InvestorID: inv.ID, AccountID: acc.ID,
		Amount: dec("100"), Date: date(2024, time.March, 1),
	})
	assert.ErrorIs(t, err, ErrNoActiveFund)
}

func TestEditFundTransactionAppliesDelta(t *testing.T) {
	f := newFixture(t)
	acc := f.newAccount(t, "Bank", dec("0"))
	inv := f.newInvestor(t, "Rahim")

	in, err := f.funds.FundIn(FundMoveParams{
		InvestorID: inv.ID, AccountID: acc.ID,
		Amount: dec("200"), Date: date(2024, time.March, 1),
	})
	require.NoError(t, err)

	// 200 -> 500: fund and account absorb +300, not a full replay
	edited, err := f.funds.EditTransaction(in.ID, dec("500"), date(2024, time.March, 2), "revised")
	require.NoError(t, err)
	assert.True(t, edited.Amount.Equal(dec("500")))

	fund, err := f.funds.GetFund(in.FundID)
	require.NoError(t, err)
	assert.True(t, fund.CurrentBalance.Equal(dec("500")))
	assert.True(t, f.balance(t, acc.ID).Equal(dec("500")))
	f.assertInvariant(t, acc.ID)
}

func TestEditFundOutTransaction(t *testing.T) {
	f := newFixture(t)
	acc := f.newAccount(t, "Bank", dec("0"))
	inv := f.newInvestor(t, "Rahim")

	in, err := f.funds.FundIn(FundMoveParams{
		InvestorID: inv.ID, AccountID: acc.ID,
		Amount: dec("1000"), Date: date(2024, time.March, 1),
	})
	require.NoError(t, err)
	out, err := f.funds.FundOut(FundMoveParams{
		InvestorID: inv.ID, AccountID: acc.ID,
		Amount: dec("200"), Date: date(2024, time.March, 2),
	})
	require.NoError(t, err)

	// growing an "out" row means more money left
	_, err = f.funds.EditTransaction(out.ID, dec("300"), out.Date, "")
	require.NoError(t, err)

	fund, err := f.funds.GetFund(in.FundID)
	require.NoError(t, err)
	assert.True(t, fund.CurrentBalance.Equal(dec("700")))
	assert.True(t, f.balance(t, acc.ID).Equal(dec("700")))
}

func TestDeleteFundTransactionReopensFund(t *testing.T) {
	f := newFixture(t)
	acc := f.newAccount(t, "Bank", dec("0"))
	inv := f.newInvestor(t, "Rahim")

	in, err := f.funds.FundIn(FundMoveParams{
		InvestorID: inv.ID, AccountID: acc.ID,
		Amount: dec("300"), Date: date(2024, time.March, 1),
	})
	require.NoError(t, err)
	out, err := f.funds.FundOut(FundMoveParams{
		InvestorID: inv.ID, AccountID: acc.ID,
		Amount: dec("300"), Date: date(2024, time.March, 2),
	})
	require.NoError(t, err)

	fund, err := f.funds.GetFund(in.FundID)
	require.NoError(t, err)
	require.Equal(t, models.FundStatusClosed, fund.Status)

	// removing the withdrawal brings the balance back and reopens
	require.NoError(t, f.funds.DeleteTransaction(out.ID))

	fund, err = f.funds.GetFund(in.FundID)
	require.NoError(t, err)
	assert.Equal(t, models.FundStatusActive, fund.Status)
	assert.True(t, fund.CurrentBalance.Equal(dec("300")))
	assert.True(t, f.balance(t, acc.ID).Equal(dec("300")))
	f.assertInvariant(t, acc.ID)
}

func TestDeleteFundInTransaction(t *testing.T) {
	f := newFixture(t)
	acc := f.newAccount(t, "Bank", dec("0"))
	inv := f.newInvestor(t, "Rahim")

	in, err := f.funds.FundIn(FundMoveParams{
		InvestorID: inv.ID, AccountID: acc.ID,
		Amount: dec("300"), Date: date(2024, time.March, 1),
	})
	require.NoError(t, err)

	require.NoError(t, f.funds.DeleteTransaction(in.ID))

	fund, err := f.funds.GetFund(in.FundID)
	require.NoError(t, err)
	assert.Equal(t, models.FundStatusClosed, fund.Status)
	assert.True(t, fund.CurrentBalance.IsZero())
	assert.True(t, f.balance(t, acc.ID).IsZero())

	var n int64
	require.NoError(t, f.db.Model(&models.FundTransaction{}).Count(&n).Error)
	assert.Zero(t, n)
}
