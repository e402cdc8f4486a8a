package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UhaiMong/Bank-Manaagement/internal/ledger"
	"github.com/UhaiMong/Bank-Manaagement/internal/models"
)

func TestRequestLoanLeavesBalanceUntouched(t *testing.T) {
	engine, mem := newTestEngine(t)
	account := newAccount(t, mem, "alice", "100.00")

	loan, err := engine.RequestLoan(context.Background(), account.ID, dec("250.00"))
	require.NoError(t, err)

	assert.Equal(t, models.Loan, loan.Type)
	assert.False(t, loan.LoanApproved)
	assert.True(t, loan.Amount.Equal(dec("250.00")))
	// snapshot of the balance at request time, unchanged by the request
	assert.True(t, loan.BalanceAfter.Equal(dec("100.00")))
	assert.True(t, balanceOf(t, mem, account.ID).Equal(dec("100.00")))
}

func TestRequestLoanRejectsNonPositiveAmount(t *testing.T) {
	engine, mem := newTestEngine(t)
	account := newAccount(t, mem, "alice", "100.00")

	_, err := engine.RequestLoan(context.Background(), account.ID, dec("0"))
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
	assert.Empty(t, entriesOf(t, mem, account.ID))
}

func TestApproveLoanCreditsBalance(t *testing.T) {
	engine, mem := newTestEngine(t)
	account := newAccount(t, mem, "alice", "50.00")

	loan, err := engine.RequestLoan(context.Background(), account.ID, dec("100.00"))
	require.NoError(t, err)

	approved, err := engine.ApproveLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.True(t, approved.LoanApproved)
	assert.True(t, balanceOf(t, mem, account.ID).Equal(dec("150.00")))

	// approving an already approved loan must not credit twice
	_, err = engine.ApproveLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.True(t, balanceOf(t, mem, account.ID).Equal(dec("150.00")))
}

func TestApproveLoanRejectsNonLoanEntry(t *testing.T) {
	engine, mem := newTestEngine(t)
	account := newAccount(t, mem, "alice", "100.00")

	deposit, err := engine.Deposit(context.Background(), account.ID, dec("10.00"))
	require.NoError(t, err)

	_, err = engine.ApproveLoan(context.Background(), deposit.ID)
	assert.ErrorIs(t, err, ledger.ErrLoanNotFound)

	_, err = engine.ApproveLoan(context.Background(), 9999)
	assert.ErrorIs(t, err, ledger.ErrLoanNotFound)
}

func TestLoanLimit(t *testing.T) {
	engine, mem := newTestEngine(t)
	account := newAccount(t, mem, "alice", "1000.00")
	ctx := context.Background()

	var loans []*models.Transaction
	for i := 0; i < ledger.MaxApprovedLoans; i++ {
		loan, err := engine.RequestLoan(ctx, account.ID, dec("10.00"))
		require.NoError(t, err)
		_, err = engine.ApproveLoan(ctx, loan.ID)
		require.NoError(t, err)
		loans = append(loans, loan)
	}

	// pending requests do not count, only approved loans do
	_, err := engine.RequestLoan(ctx, account.ID, dec("10.00"))
	assert.ErrorIs(t, err, ledger.ErrLoanLimitExceeded)

	// paying one off frees a slot
	_, err = engine.PayLoan(ctx, loans[0].ID)
	require.NoError(t, err)
	_, err = engine.RequestLoan(ctx, account.ID, dec("10.00"))
	require.NoError(t, err)
}

func TestLoanLimitDoesNotCountPendingRequests(t *testing.T) {
	engine, mem := newTestEngine(t)
	account := newAccount(t, mem, "alice", "100.00")
	ctx := context.Background()

	for i := 0; i < ledger.MaxApprovedLoans+2; i++ {
		_, err := engine.RequestLoan(ctx, account.ID, dec("10.00"))
		require.NoError(t, err)
	}
	loans, err := engine.ListLoans(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, loans, ledger.MaxApprovedLoans+2)
}

func TestPayLoanUnapproved(t *testing.T) {
	engine, mem := newTestEngine(t)
	account := newAccount(t, mem, "alice", "100.00")

	loan, err := engine.RequestLoan(context.Background(), account.ID, dec("50.00"))
	require.NoError(t, err)

	_, err = engine.PayLoan(context.Background(), loan.ID)
	assert.ErrorIs(t, err, ledger.ErrLoanNotApproved)
	assert.True(t, balanceOf(t, mem, account.ID).Equal(dec("100.00")))
}

func TestPayLoanInsufficientFunds(t *testing.T) {
	engine, mem := newTestEngine(t)
	account := newAccount(t, mem, "alice", "0.00")
	ctx := context.Background()

	loan, err := engine.RequestLoan(ctx, account.ID, dec("100.00"))
	require.NoError(t, err)
	_, err = engine.ApproveLoan(ctx, loan.ID)
	require.NoError(t, err)

	// balance equals the loan amount: payoff requires strictly more
	_, err = engine.PayLoan(ctx, loan.ID)
	assert.ErrorIs(t, err, ledger.ErrInsufficientFundsForPayoff)
	assert.True(t, balanceOf(t, mem, account.ID).Equal(dec("100.00")))

	// the entry must still be an approved, unpaid loan
	entry, err := mem.TransactionByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Loan, entry.Type)
	assert.True(t, entry.LoanApproved)
}

func TestPayLoanExactlyOnce(t *testing.T) {
	engine, mem := newTestEngine(t)
	account := newAccount(t, mem, "alice", "100.00")
	ctx := context.Background()

	loan, err := engine.RequestLoan(ctx, account.ID, dec("60.00"))
	require.NoError(t, err)
	_, err = engine.ApproveLoan(ctx, loan.ID)
	require.NoError(t, err)
	require.True(t, balanceOf(t, mem, account.ID).Equal(dec("160.00")))

	paid, err := engine.PayLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanPaid, paid.Type)
	assert.True(t, paid.BalanceAfter.Equal(dec("100.00")))
	assert.True(t, balanceOf(t, mem, account.ID).Equal(dec("100.00")))

	// a second payoff cannot re-deduct: the entry is no longer a loan
	_, err = engine.PayLoan(ctx, loan.ID)
	assert.ErrorIs(t, err, ledger.ErrLoanNotFound)
	assert.True(t, balanceOf(t, mem, account.ID).Equal(dec("100.00")))
}

func TestListLoansExcludesPaidOff(t *testing.T) {
	engine, mem := newTestEngine(t)
	account := newAccount(t, mem, "alice", "1000.00")
	ctx := context.Background()

	first, err := engine.RequestLoan(ctx, account.ID, dec("10.00"))
	require.NoError(t, err)
	second, err := engine.RequestLoan(ctx, account.ID, dec("20.00"))
	require.NoError(t, err)
	_, err = engine.Deposit(ctx, account.ID, dec("5.00"))
	require.NoError(t, err)

	loans, err := engine.ListLoans(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, loans, 2)
	// creation order
	assert.Equal(t, first.ID, loans[0].ID)
	assert.Equal(t, second.ID, loans[1].ID)

	_, err = engine.ApproveLoan(ctx, first.ID)
	require.NoError(t, err)
	_, err = engine.PayLoan(ctx, first.ID)
	require.NoError(t, err)

	loans, err = engine.ListLoans(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, second.ID, loans[0].ID)
}
