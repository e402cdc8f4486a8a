// Package store provides the persistence backends of the ledger: a
// gorm/Postgres store for production and an in-memory store for tests and
// local experiments. Both satisfy ledger.Store.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/UhaiMong/Bank-Manaagement/internal/ledger"
	"github.com/UhaiMong/Bank-Manaagement/internal/models"
)

type Postgres struct {
	db *gorm.DB
}

var _ ledger.Store = (*Postgres)(nil)

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: false,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return &Postgres{db: db}, nil
}

// Migrate creates or updates the accounts and transactions tables.
func (p *Postgres) Migrate() error {
	if err := p.db.AutoMigrate(&models.Account{}, &models.Transaction{}); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (p *Postgres) CreateAccount(ctx context.Context, account *models.Account) error {
	if err := p.db.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (p *Postgres) AccountByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	err := p.db.WithContext(ctx).First(&account, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load account %d: %w", id, err)
	}
	return &account, nil
}

func (p *Postgres) AccountByNumber(ctx context.Context, number string) (*models.Account, error) {
	var account models.Account
	err := p.db.WithContext(ctx).Where("number = ?", number).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load account %s: %w", number, err)
	}
	return &account, nil
}

func (p *Postgres) AccountsByOwner(ctx context.Context, ownerID string) ([]models.Account, error) {
	var accounts []models.Account
	err := p.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id ASC").Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("load accounts for owner %s: %w", ownerID, err)
	}
	return accounts, nil
}

func (p *Postgres) TransactionByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var t models.Transaction
	err := p.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load transaction %d: %w", id, err)
	}
	return &t, nil
}

func (p *Postgres) TransactionsByAccount(ctx context.Context, accountID uint, from, to *time.Time) ([]models.Transaction, error) {
	q := p.db.WithContext(ctx).Where("account_id = ?", accountID).Order("id ASC")
	if from != nil {
		q = q.Where("timestamp >= ?", from.UTC())
	}
	if to != nil {
		// inclusive end-of-day bound
		q = q.Where("timestamp < ?", to.UTC().AddDate(0, 0, 1))
	}
	var entries []models.Transaction
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load transactions for account %d: %w", accountID, err)
	}
	return entries, nil
}

// Atomic wraps fn in a database transaction. Row locks taken through the Tx
// view are held until commit or rollback.
func (p *Postgres) Atomic(ctx context.Context, fn func(ledger.Tx) error) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&pgTx{db: tx})
	})
}

type pgTx struct {
	db *gorm.DB
}

func (t *pgTx) AccountForUpdate(id uint) (*models.Account, error) {
	var account models.Account
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&account, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock account %d: %w", id, err)
	}
	return &account, nil
}

func (t *pgTx) SaveAccount(account *models.Account) error {
	if err := t.db.Save(account).Error; err != nil {
		return fmt.Errorf("save account %d: %w", account.ID, err)
	}
	return nil
}

func (t *pgTx) CreateTransaction(entry *models.Transaction) error {
	if err := t.db.Create(entry).Error; err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	return nil
}

func (t *pgTx) TransactionForUpdate(id uint) (*models.Transaction, error) {
	var entry models.Transaction
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&entry, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock transaction %d: %w", id, err)
	}
	return &entry, nil
}

func (t *pgTx) SaveTransaction(entry *models.Transaction) error {
	if err := t.db.Save(entry).Error; err != nil {
		return fmt.Errorf("save transaction %d: %w", entry.ID, err)
	}
	return nil
}

func (t *pgTx) CountApprovedLoans(accountID uint) (int64, error) {
	var count int64
	err := t.db.Model(&models.Transaction{}).
		Where("account_id = ? AND type = ? AND loan_approved = ?", accountID, models.Loan, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count approved loans for account %d: %w", accountID, err)
	}
	return count, nil
}
