package interfaces

import (
	"context"

	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
)

type LedgerStore interface {
	SaveEntry(ctx context.Context, entry models.LedgerEntry) error
	// SaveEntries stores all entries or none of them.
	SaveEntries(ctx context.Context, entries ...models.LedgerEntry) error
	GetEntriesByAccount(accountId string) ([]models.LedgerEntry, error)
	GetLedgerEntries() ([]models.LedgerEntry, error)
}
