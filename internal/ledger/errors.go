package ledger

import "errors"

// Domain errors. Every operation either succeeds fully or fails with one of
// these and leaves the ledger untouched; anything else is an infrastructure
// error wrapped by the store.
var (
	ErrInvalidAmount              = errors.New("amount must be greater than zero")
	ErrInsufficientFunds          = errors.New("insufficient funds")
	ErrBankrupt                   = errors.New("account is bankrupt, withdrawals are blocked")
	ErrLoanLimitExceeded          = errors.New("loan limit exceeded")
	ErrAccountNotFound            = errors.New("account not found")
	ErrLoanNotFound               = errors.New("loan not found")
	ErrLoanNotApproved            = errors.New("loan is not approved")
	ErrInsufficientFundsForPayoff = errors.New("loan amount exceeds available balance")
	ErrSameAccount                = errors.New("source and destination accounts are the same")
)
