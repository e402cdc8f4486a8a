package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/UhaiMong/Bank-Manaagement/internal/ledger"
	"github.com/UhaiMong/Bank-Manaagement/internal/models"
)

// Memory is an in-memory ledger store. Atomic scopes run one at a time under
// a single mutex and stage their writes, committing only when the scope
// succeeds; a failed scope leaves no trace. Serializing whole scopes is a
// stricter schedule than the per-row locks of the Postgres store, so every
// interleaving it allows is also valid there.
type Memory struct {
	mu           sync.Mutex
	accounts     map[uint]*models.Account
	transactions map[uint]*models.Transaction
	order        []uint
	nextAccount  uint
	nextEntry    uint
	now          func() time.Time
}

var _ ledger.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		accounts:     make(map[uint]*models.Account),
		transactions: make(map[uint]*models.Transaction),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the commit timestamp source. Test hook.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Memory) CreateAccount(ctx context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextAccount++
	account.ID = m.nextAccount
	if account.Number == "" {
		account.Number = uuid.NewString()
	}
	account.CreatedAt = m.now()
	cp := *account
	m.accounts[account.ID] = &cp
	return nil
}

func (m *Memory) AccountByID(ctx context.Context, id uint) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

func (m *Memory) AccountByNumber(ctx context.Context, number string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, account := range m.accounts {
		if account.Number == number {
			cp := *account
			return &cp, nil
		}
	}
	return nil, ledger.ErrAccountNotFound
}

func (m *Memory) AccountsByOwner(ctx context.Context, ownerID string) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	accounts := make([]models.Account, 0)
	for id := uint(1); id <= m.nextAccount; id++ {
		if account, ok := m.accounts[id]; ok && account.OwnerID == ownerID {
			accounts = append(accounts, *account)
		}
	}
	return accounts, nil
}

func (m *Memory) TransactionByID(ctx context.Context, id uint) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.transactions[id]
	if !ok {
		return nil, ledger.ErrLoanNotFound
	}
	cp := *entry
	return &cp, nil
}

func (m *Memory) TransactionsByAccount(ctx context.Context, accountID uint, from, to *time.Time) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]models.Transaction, 0)
	for _, id := range m.order {
		t := m.transactions[id]
		if t.AccountID != accountID {
			continue
		}
		if from != nil && t.Timestamp.Before(from.UTC()) {
			continue
		}
		if to != nil && !t.Timestamp.Before(to.UTC().AddDate(0, 0, 1)) {
			continue
		}
		entries = append(entries, *t)
	}
	return entries, nil
}

func (m *Memory) Atomic(ctx context.Context, fn func(ledger.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{
		m:        m,
		accounts: make(map[uint]*models.Account),
		updated:  make(map[uint]*models.Transaction),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// memTx stages every write; nothing reaches the maps before commit.
type memTx struct {
	m        *Memory
	accounts map[uint]*models.Account
	created  []*models.Transaction
	updated  map[uint]*models.Transaction
}

func (t *memTx) AccountForUpdate(id uint) (*models.Account, error) {
	if staged, ok := t.accounts[id]; ok {
		return staged, nil
	}
	account, ok := t.m.accounts[id]
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}
	cp := *account
	t.accounts[id] = &cp
	return &cp, nil
}

func (t *memTx) SaveAccount(account *models.Account) error {
	if _, ok := t.accounts[account.ID]; !ok {
		return ledger.ErrAccountNotFound
	}
	t.accounts[account.ID] = account
	return nil
}

func (t *memTx) CreateTransaction(entry *models.Transaction) error {
	t.created = append(t.created, entry)
	return nil
}

func (t *memTx) TransactionForUpdate(id uint) (*models.Transaction, error) {
	if staged, ok := t.updated[id]; ok {
		return staged, nil
	}
	entry, ok := t.m.transactions[id]
	if !ok {
		return nil, ledger.ErrLoanNotFound
	}
	cp := *entry
	t.updated[id] = &cp
	return &cp, nil
}

func (t *memTx) SaveTransaction(entry *models.Transaction) error {
	if _, ok := t.updated[entry.ID]; !ok {
		return ledger.ErrLoanNotFound
	}
	t.updated[entry.ID] = entry
	return nil
}

func (t *memTx) CountApprovedLoans(accountID uint) (int64, error) {
	var count int64
	for id, entry := range t.m.transactions {
		if staged, ok := t.updated[id]; ok {
			entry = staged
		}
		if entry.AccountID == accountID && entry.Type == models.Loan && entry.LoanApproved {
			count++
		}
	}
	for _, entry := range t.created {
		if entry.AccountID == accountID && entry.Type == models.Loan && entry.LoanApproved {
			count++
		}
	}
	return count, nil
}

// commit applies the staged writes. IDs and timestamps for new entries are
// assigned here so they reflect commit order.
func (t *memTx) commit() {
	for id, account := range t.accounts {
		cp := *account
		t.m.accounts[id] = &cp
	}
	for id, entry := range t.updated {
		cp := *entry
		t.m.transactions[id] = &cp
	}
	now := t.m.now()
	for _, entry := range t.created {
		t.m.nextEntry++
		entry.ID = t.m.nextEntry
		entry.CreatedAt = now
		if entry.Timestamp.IsZero() {
			entry.Timestamp = now
		}
		cp := *entry
		t.m.transactions[entry.ID] = &cp
		t.m.order = append(t.m.order, entry.ID)
	}
}
