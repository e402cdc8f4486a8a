package ledger

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/UhaiMong/Bank-Manaagement/internal/models"
)

// RequestLoan records a pending loan request. The balance is not touched at
// request time; the credit takes effect on approval, which happens outside
// the core. An account may hold at most MaxApprovedLoans approved loans.
func (e *Engine) RequestLoan(ctx context.Context, accountID uint, amount decimal.Decimal) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	entry := &models.Transaction{AccountID: accountID, Amount: amount, Type: models.Loan}
	err := e.store.Atomic(ctx, func(tx Tx) error {
		account, err := tx.AccountForUpdate(accountID)
		if err != nil {
			return err
		}
		approved, err := tx.CountApprovedLoans(accountID)
		if err != nil {
			return err
		}
		if approved >= MaxApprovedLoans {
			return ErrLoanLimitExceeded
		}
		entry.BalanceAfter = account.Balance
		return tx.CreateTransaction(entry)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("loan requested",
		zap.Uint("account", accountID),
		zap.String("amount", amount.String()))
	return entry, nil
}

// ApproveLoan marks a pending loan as approved and credits the amount to the
// account. Administrative mutation point: the approval decision itself is
// made outside the core.
func (e *Engine) ApproveLoan(ctx context.Context, loanID uint) (*models.Transaction, error) {
	var loan *models.Transaction
	err := e.store.Atomic(ctx, func(tx Tx) error {
		var err error
		loan, err = tx.TransactionForUpdate(loanID)
		if err != nil {
			return err
		}
		if loan.Type != models.Loan {
			return ErrLoanNotFound
		}
		if loan.LoanApproved {
			return nil
		}
		account, err := tx.AccountForUpdate(loan.AccountID)
		if err != nil {
			return err
		}
		account.Balance = account.Balance.Add(loan.Amount)
		if err := tx.SaveAccount(account); err != nil {
			return err
		}
		loan.LoanApproved = true
		return tx.SaveTransaction(loan)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("loan approved",
		zap.Uint("loan", loanID),
		zap.Uint("account", loan.AccountID),
		zap.String("amount", loan.Amount.String()))
	return loan, nil
}

// PayLoan settles an approved loan. The loan entry itself is rewritten in
// place: Type flips to LoanPaid and BalanceAfter is re-snapshotted. This is
// the only mutation of a ledger entry after creation, and it happens at most
// once: a paid loan is no longer Loan-typed so a repeated call cannot
// re-deduct.
func (e *Engine) PayLoan(ctx context.Context, loanID uint) (*models.Transaction, error) {
	var loan *models.Transaction
	err := e.store.Atomic(ctx, func(tx Tx) error {
		var err error
		loan, err = tx.TransactionForUpdate(loanID)
		if err != nil {
			return err
		}
		if loan.Type != models.Loan {
			return ErrLoanNotFound
		}
		if !loan.LoanApproved {
			return ErrLoanNotApproved
		}
		account, err := tx.AccountForUpdate(loan.AccountID)
		if err != nil {
			return err
		}
		if account.Balance.LessThanOrEqual(loan.Amount) {
			return ErrInsufficientFundsForPayoff
		}
		account.Balance = account.Balance.Sub(loan.Amount)
		if err := tx.SaveAccount(account); err != nil {
			return err
		}
		loan.BalanceAfter = account.Balance
		loan.Type = models.LoanPaid
		return tx.SaveTransaction(loan)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("loan paid off",
		zap.Uint("loan", loanID),
		zap.Uint("account", loan.AccountID),
		zap.String("amount", loan.Amount.String()))
	return loan, nil
}

// ListLoans returns the account's loan entries in creation order. Paid-off
// loans drop out because payoff retypes the entry.
func (e *Engine) ListLoans(ctx context.Context, accountID uint) ([]models.Transaction, error) {
	all, err := e.store.TransactionsByAccount(ctx, accountID, nil, nil)
	if err != nil {
		return nil, err
	}
	loans := make([]models.Transaction, 0)
	for _, t := range all {
		if t.Type == models.Loan {
			loans = append(loans, t)
		}
	}
	return loans, nil
}
