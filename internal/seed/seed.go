package seed

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/UhaiMong/Bank-Manaagement/internal/ledger"
	"github.com/UhaiMong/Bank-Manaagement/internal/logger"
	"github.com/UhaiMong/Bank-Manaagement/internal/models"
)

var demoAccounts = []struct {
	Owner   string
	Opening string
}{
	{"demo-user-1", "1000.00"},
	{"demo-user-2", "500.00"},
	{"demo-user-3", "250.00"},
}

// Run creates a handful of demo accounts with opening balances. Opening
// balances go through the engine as deposits so the ledger trail is real.
// Idempotent: if any demo owner already has an account, nothing is created.
func Run(ctx context.Context, store ledger.Store, engine *ledger.Engine) error {
	for _, d := range demoAccounts {
		existing, err := store.AccountsByOwner(ctx, d.Owner)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			logger.Log.Info("seed already applied, skipping")
			return nil
		}
	}

	for _, d := range demoAccounts {
		account := &models.Account{
			Number:  uuid.NewString(),
			OwnerID: d.Owner,
			Balance: decimal.Zero,
		}
		if err := store.CreateAccount(ctx, account); err != nil {
			return err
		}
		opening := decimal.RequireFromString(d.Opening)
		if _, err := engine.Deposit(ctx, account.ID, opening); err != nil {
			return err
		}
		logger.Log.Info("seeded account",
			zap.String("owner", d.Owner),
			zap.String("number", account.Number),
			zap.String("balance", opening.String()))
	}
	return nil
}
