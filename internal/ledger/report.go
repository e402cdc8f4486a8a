package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/UhaiMong/Bank-Manaagement/internal/models"
)

// Report is a derived, read-only view of an account's ledger.
type Report struct {
	Account      *models.Account
	Transactions []models.Transaction
	// Balance is the account's current balance for an unfiltered report, or
	// the sum of the filtered entries' amounts when a date range is given.
	Balance decimal.Decimal
}

// Report builds the transaction report for an account. from and to are
// inclusive date bounds; both nil means the full history with the current
// balance. Querying a report never creates or mutates ledger entries.
func (e *Engine) Report(ctx context.Context, accountID uint, from, to *time.Time) (*Report, error) {
	account, err := e.store.AccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entries, err := e.store.TransactionsByAccount(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}

	report := &Report{Account: account, Transactions: entries}
	if from == nil && to == nil {
		report.Balance = account.Balance
		return report, nil
	}

	// Filtered view: the displayed balance is the turnover of the selected
	// entries, scoped to this account only.
	sum := decimal.Zero
	for _, t := range entries {
		sum = sum.Add(t.Amount)
	}
	report.Balance = sum
	return report, nil
}
