package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryPosted is emitted for every ledger entry written to the audit journal.
type EntryPosted struct {
	EntryID      string          `json:"entry_id"`
	AccountID    string          `json:"account_id"`
	Kind         string          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Counterparty string          `json:"counterparty,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
}
