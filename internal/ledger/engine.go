// Package ledger implements the transaction/balance consistency core of the
// bank: the five transaction kinds, the loan lifecycle and balance reporting.
// Callers (an API layer, a CLI) are expected to supply an already
// authenticated account and validated input; the engine enforces the business
// rules and leaves state untouched on every failure path.
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/UhaiMong/Bank-Manaagement/internal/models"
)

// MaxApprovedLoans is the number of approved, not yet paid off loans an
// account may carry at once.
const MaxApprovedLoans = 3

type Engine struct {
	store Store
	log   *zap.Logger
}

func NewEngine(store Store, log *zap.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// Deposit credits amount to the account and records the entry. It has no
// business failure modes beyond a non-positive amount.
func (e *Engine) Deposit(ctx context.Context, accountID uint, amount decimal.Decimal) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	entry := &models.Transaction{AccountID: accountID, Amount: amount, Type: models.Deposit}
	err := e.store.Atomic(ctx, func(tx Tx) error {
		account, err := tx.AccountForUpdate(accountID)
		if err != nil {
			return err
		}
		account.Balance = account.Balance.Add(amount)
		if err := tx.SaveAccount(account); err != nil {
			return err
		}
		entry.BalanceAfter = account.Balance
		return tx.CreateTransaction(entry)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("deposit applied",
		zap.Uint("account", accountID),
		zap.String("amount", amount.String()),
		zap.String("balance", entry.BalanceAfter.String()))
	return entry, nil
}

// Withdraw debits amount from the account. Bankrupt accounts are blocked and
// the balance is never driven negative.
func (e *Engine) Withdraw(ctx context.Context, accountID uint, amount decimal.Decimal) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	entry := &models.Transaction{AccountID: accountID, Amount: amount, Type: models.Withdraw}
	err := e.store.Atomic(ctx, func(tx Tx) error {
		account, err := tx.AccountForUpdate(accountID)
		if err != nil {
			return err
		}
		if account.Bankrupt {
			return ErrBankrupt
		}
		if account.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}
		account.Balance = account.Balance.Sub(amount)
		if err := tx.SaveAccount(account); err != nil {
			return err
		}
		entry.BalanceAfter = account.Balance
		return tx.CreateTransaction(entry)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("withdrawal applied",
		zap.Uint("account", accountID),
		zap.String("amount", amount.String()),
		zap.String("balance", entry.BalanceAfter.String()))
	return entry, nil
}

// Transfer moves amount from the source account to the account identified by
// destinationNumber. Both balances change in one atomic unit and a single
// entry is recorded on the source side. The two rows are locked in ascending
// ID order so concurrent opposing transfers cannot deadlock.
func (e *Engine) Transfer(ctx context.Context, sourceID uint, destinationNumber string, amount decimal.Decimal) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	destination, err := e.store.AccountByNumber(ctx, destinationNumber)
	if err != nil {
		return nil, err
	}
	if destination.ID == sourceID {
		return nil, ErrSameAccount
	}

	entry := &models.Transaction{AccountID: sourceID, Amount: amount, Type: models.BalanceTransfer}
	err = e.store.Atomic(ctx, func(tx Tx) error {
		firstID, secondID := sourceID, destination.ID
		if firstID > secondID {
			firstID, secondID = secondID, firstID
		}
		first, err := tx.AccountForUpdate(firstID)
		if err != nil {
			return err
		}
		second, err := tx.AccountForUpdate(secondID)
		if err != nil {
			return err
		}
		source, dest := first, second
		if source.ID != sourceID {
			source, dest = second, first
		}

		if source.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}
		source.Balance = source.Balance.Sub(amount)
		dest.Balance = dest.Balance.Add(amount)
		if err := tx.SaveAccount(source); err != nil {
			return err
		}
		if err := tx.SaveAccount(dest); err != nil {
			return err
		}
		entry.BalanceAfter = source.Balance
		return tx.CreateTransaction(entry)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("transfer applied",
		zap.Uint("source", sourceID),
		zap.Uint("destination", destination.ID),
		zap.String("amount", amount.String()))
	return entry, nil
}

// SetBankrupt toggles the bankruptcy flag. Administrative: the decision is
// made outside the core, this is only the mutation point.
func (e *Engine) SetBankrupt(ctx context.Context, accountID uint, bankrupt bool) error {
	err := e.store.Atomic(ctx, func(tx Tx) error {
		account, err := tx.AccountForUpdate(accountID)
		if err != nil {
			return err
		}
		account.Bankrupt = bankrupt
		return tx.SaveAccount(account)
	})
	if err != nil {
		return err
	}
	e.log.Warn("bankruptcy flag changed", zap.Uint("account", accountID), zap.Bool("bankrupt", bankrupt))
	return nil
}
