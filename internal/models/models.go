package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType int

const (
	Deposit TransactionType = iota + 1
	Withdraw
	Loan
	LoanPaid
	BalanceTransfer
)

func (t TransactionType) String() string {
	switch t {
	case Deposit:
		return "deposit"
	case Withdraw:
		return "withdraw"
	case Loan:
		return "loan"
	case LoanPaid:
		return "loan_paid"
	case BalanceTransfer:
		return "balance_transfer"
	default:
		return "unknown"
	}
}

// Account holds a user's balance. OwnerID is an opaque reference managed by
// the auth layer; Number is the external identifier used as the destination
// of balance transfers.
type Account struct {
	gorm.Model
	Number   string          `gorm:"uniqueIndex;size:36;not null"`
	OwnerID  string          `gorm:"index;size:64;not null"`
	Balance  decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Bankrupt bool            `gorm:"not null;default:false"`
}

// Transaction is a ledger entry. BalanceAfter snapshots the account balance
// at the moment the entry was committed and is never recomputed; the single
// exception is loan payoff, which flips Type to LoanPaid and re-snapshots
// BalanceAfter in place.
type Transaction struct {
	gorm.Model
	AccountID    uint            `gorm:"index;not null"`
	Amount       decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Type         TransactionType `gorm:"index;not null"`
	BalanceAfter decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Timestamp    time.Time       `gorm:"index;not null"`
	LoanApproved bool            `gorm:"not null;default:false"`
}

// BeforeCreate stamps the entry inside the insert transaction so the recorded
// time follows the durable commit order, not validation time.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}
	return nil
}
