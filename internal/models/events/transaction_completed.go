package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCompleted follows the two EntryPosted events of a transfer and
// ties the debit and credit entries together.
type TransactionCompleted struct {
	TransactionID string          `json:"transaction_id"`
	FromAccount   string          `json:"from_account"`
	ToAccount     string          `json:"to_account"`
	Amount        decimal.Decimal `json:"amount"`
	DebitEntryID  string          `json:"debit_entry_id"`
	CreditEntryID string          `json:"credit_entry_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
