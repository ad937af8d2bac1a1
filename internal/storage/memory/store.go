package memory

import (
	"context" // standard Go package for request-scoped context (timeouts, cancellation)
	"sync"    // standard Go package for concurrency primitives like Mutex

	interfaces "github.com/sheikh-saqib/atm-ledger-system/internal/interfaces" // interface LedgerStore
	"github.com/sheikh-saqib/atm-ledger-system/internal/models"                // domain models: LedgerEntry
)

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore.
// Saving an entry whose ID is already stored is a no-op.
type MemoryLedgerStore struct {
	mu      sync.Mutex           // mutex to protect entries and seen from concurrent access
	entries []models.LedgerEntry // slice that holds all ledger entries, in save order
	seen    map[string]struct{}  // entry ids already stored
}

// NewMemoryLedgerStore creates and returns a new MemoryLedgerStore instance
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		entries: make([]models.LedgerEntry, 0),
		seen:    make(map[string]struct{}),
	}
}

// SaveEntry saves a single LedgerEntry.
// Implements the LedgerStore interface.
func (m *MemoryLedgerStore) SaveEntry(ctx context.Context, entry models.LedgerEntry) error {
	return m.SaveEntries(ctx, entry)
}

// SaveEntries saves entries under one lock, so readers see all of them or none.
func (m *MemoryLedgerStore) SaveEntries(ctx context.Context, entries ...models.LedgerEntry) error {
	if err := ctx.Err(); err != nil {
		return err // caller gave up before we started
	}

	m.mu.Lock()         // lock the mutex to prevent concurrent writes
	defer m.mu.Unlock() // unlock automatically when function exits (even if error occurs)

	for _, e := range entries {
		if _, dup := m.seen[e.ID]; dup {
			continue // already stored, saving again is a no-op
		}
		m.seen[e.ID] = struct{}{}
		m.entries = append(m.entries, e) // append the new entry to the slice
	}
	return nil // always succeeds in memory
}

// GetLedgerEntries returns a copy of all entries in the order they were saved.
func (m *MemoryLedgerStore) GetLedgerEntries() ([]models.LedgerEntry, error) {
	m.mu.Lock()         // lock to prevent concurrent modification while reading
	defer m.mu.Unlock() // unlock automatically at the end

	// create a new slice to copy entries
	copied := make([]models.LedgerEntry, len(m.entries))
	copy(copied, m.entries) // copy all entries to the new slice
	return copied, nil      // return the copy so external code can't modify internal state
}

// GetEntriesByAccount returns the entries of one account in save order.
func (m *MemoryLedgerStore) GetEntriesByAccount(accountId string) ([]models.LedgerEntry, error) {
	m.mu.Lock()         // lock to prevent concurrent writes while scanning
	defer m.mu.Unlock() // unlock automatically at the end

	var result []models.LedgerEntry
	for _, e := range m.entries {
		if e.AccountID == accountId {
			result = append(result, e)
		}
	}
	return result, nil
}

// Compile-time check: ensure MemoryLedgerStore implements LedgerStore interface
var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)
