package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind identifies what produced a ledger entry.
type EntryKind string

const (
	EntryCreated     EntryKind = "Account Created"
	EntryDeposit     EntryKind = "Deposit"
	EntryWithdrawal  EntryKind = "Withdrawal"
	EntryTransferOut EntryKind = "Transfer Out"
	EntryTransferIn  EntryKind = "Transfer In"
	EntryPinChanged  EntryKind = "PIN Changed"
)

// LedgerEntry is one immutable record of an event on an account.
type LedgerEntry struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Seq          uint64          `json:"seq"` // per-account insertion index
	Kind         EntryKind       `json:"kind"`
	Amount       decimal.Decimal `json:"amount"` // always >= 0, direction comes from Kind
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Counterparty string          `json:"counterparty,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SignedAmount returns the change this entry made to the account balance.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	switch e.Kind {
	case EntryCreated, EntryDeposit, EntryTransferIn:
		return e.Amount
	case EntryWithdrawal, EntryTransferOut:
		return e.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// Label is the short description used in activity lines and history tables.
func (e LedgerEntry) Label() string {
	switch e.Kind {
	case EntryTransferOut:
		return "Transfer to " + e.Counterparty
	case EntryTransferIn:
		return "Transfer from " + e.Counterparty
	default:
		return string(e.Kind)
	}
}

// NewerFirst orders entries newest-first: later timestamp wins, ties go to the
// later insertion.
func NewerFirst(a, b LedgerEntry) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.Seq > b.Seq:
		return -1
	case a.Seq < b.Seq:
		return 1
	}
	return 0
}
