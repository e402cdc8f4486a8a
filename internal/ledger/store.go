package ledger

import (
	"context"
	"time"

	"github.com/UhaiMong/Bank-Manaagement/internal/models"
)

// Store is the persistence boundary of the ledger. Implementations must
// translate their not-found conditions into ErrAccountNotFound and
// ErrLoanNotFound so the engine can rely on errors.Is.
type Store interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	AccountByID(ctx context.Context, id uint) (*models.Account, error)
	AccountByNumber(ctx context.Context, number string) (*models.Account, error)
	AccountsByOwner(ctx context.Context, ownerID string) ([]models.Account, error)
	TransactionByID(ctx context.Context, id uint) (*models.Transaction, error)
	// TransactionsByAccount returns the account's entries in creation order.
	// from and to are inclusive date bounds; nil means unbounded.
	TransactionsByAccount(ctx context.Context, accountID uint, from, to *time.Time) ([]models.Transaction, error)

	// Atomic runs fn as one all-or-nothing unit. If fn returns an error,
	// nothing written through the Tx survives.
	Atomic(ctx context.Context, fn func(Tx) error) error
}

// Tx is the mutating view available inside an Atomic scope. Rows obtained
// through the ForUpdate methods are held exclusively until the scope ends,
// which serializes concurrent read-check-write sequences on the same account.
type Tx interface {
	AccountForUpdate(id uint) (*models.Account, error)
	SaveAccount(account *models.Account) error
	CreateTransaction(t *models.Transaction) error
	TransactionForUpdate(id uint) (*models.Transaction, error)
	SaveTransaction(t *models.Transaction) error
	CountApprovedLoans(accountID uint) (int64, error)
}
