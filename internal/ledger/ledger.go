package ledger

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	interfaces "github.com/sheikh-saqib/atm-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
	"github.com/sheikh-saqib/atm-ledger-system/internal/models/events"
	"github.com/shopspring/decimal"
)

// Ledger is the audit journal. Accounts keep the authoritative state in
// memory; every entry they post is copied here and announced on the event
// stream.
type Ledger struct {
	store     interfaces.LedgerStore    // Interface to save ledger entries, can be any storage implementation
	publisher interfaces.EventPublisher // nil disables events
	topic     string                    // topic every event is written to
}

// NewLedger creates a journal over store. publisher may be nil.
// We pass in a storage implementation (MemoryLedgerStore, postgres, etc.)
func NewLedger(store interfaces.LedgerStore, publisher interfaces.EventPublisher, topic string) *Ledger {
	return &Ledger{
		store:     store,     // Assign the storage implementation to the ledger's store field
		publisher: publisher, // may be nil when no brokers are configured
		topic:     topic,
	}
}

// RecordEntry saves one entry and publishes it.
func (l *Ledger) RecordEntry(ctx context.Context, entry models.LedgerEntry) error {
	// Save the entry using the LedgerStore interface
	// If saving fails, return the error immediately and publish nothing
	if err := l.store.SaveEntry(ctx, entry); err != nil {
		return fmt.Errorf("save entry %s: %w", entry.ID, err)
	}
	// Announce the stored entry, keyed by its account
	l.publish(entry.AccountID, entryPosted(entry))
	return nil
}

// RecordTransfer saves both sides of a transfer together, publishes each
// entry and then a TransactionCompleted event for the pair.
func (l *Ledger) RecordTransfer(ctx context.Context, debit, credit models.LedgerEntry) error {
	// Save the debit and credit entries in one call
	// Ensures both sides of the transfer are recorded or neither is
	if err := l.store.SaveEntries(ctx, debit, credit); err != nil {
		return fmt.Errorf("save transfer %s: %w", debit.ID, err)
	}
	// One event per side, each keyed by its own account
	l.publish(debit.AccountID, entryPosted(debit))
	l.publish(credit.AccountID, entryPosted(credit))
	// Then the summary of the whole transfer, keyed by the sender
	l.publish(debit.AccountID, events.TransactionCompleted{
		TransactionID: uuid.NewString(),
		FromAccount:   debit.AccountID,
		ToAccount:     credit.AccountID,
		Amount:        debit.Amount,
		DebitEntryID:  debit.ID,
		CreditEntryID: credit.ID,
		OccurredAt:    debit.CreatedAt,
	})
	return nil
}

// GetBalance rebuilds an account balance from the journal.
func (l *Ledger) GetBalance(accountId string) (decimal.Decimal, error) {
	ledgerEntries, err := l.store.GetEntriesByAccount(accountId)
	if err != nil {
		return decimal.Zero, err
	}
	balance := decimal.Zero

	// debits carry a negative sign, everything else adds
	for _, ledgerEntry := range ledgerEntries {
		balance = balance.Add(ledgerEntry.SignedAmount())
	}
	return balance, nil
}

func (l *Ledger) GetLedgerEntries() ([]models.LedgerEntry, error) {
	ledgerEntries, err := l.store.GetLedgerEntries()
	if err != nil {
		return []models.LedgerEntry{}, err
	}
	return ledgerEntries, nil
}

// Publish failures are logged; the journal copy is already stored.
func (l *Ledger) publish(key string, event any) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.Publish(l.topic, key, event); err != nil {
		log.Printf("publish %T for account %s: %v", event, key, err)
	}
}

func entryPosted(e models.LedgerEntry) events.EntryPosted {
	return events.EntryPosted{
		EntryID:      e.ID,
		AccountID:    e.AccountID,
		Kind:         string(e.Kind),
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		Counterparty: e.Counterparty,
		OccurredAt:   e.CreatedAt,
	}
}
