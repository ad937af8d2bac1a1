package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sheikh-saqib/atm-ledger-system/internal/atm"
	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
	"github.com/sheikh-saqib/atm-ledger-system/internal/models/events"
	"github.com/sheikh-saqib/atm-ledger-system/internal/storage/memory"
	"github.com/shopspring/decimal"
)

type fakePublisher struct {
	mu     sync.Mutex
	topics []string
	keys   []string
	events []any
	err    error
}

func (p *fakePublisher) Publish(topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.keys = append(p.keys, key)
	p.events = append(p.events, event)
	return p.err
}

func newJournaledRegistry(t *testing.T, pub *fakePublisher) (*atm.Registry, *Ledger) {
	t.Helper()
	l := NewLedger(memory.NewMemoryLedgerStore(), pub, "atm.ledger")
	r, err := atm.NewRegistry(atm.Options{
		Seeds: []atm.SeedAccount{
			{Number: "A", PIN: "1111", Holder: "A", OpeningBalance: decimal.NewFromInt(1000)},
			{Number: "B", PIN: "2222", Holder: "B", OpeningBalance: decimal.NewFromInt(300)},
		},
		Journal: l,
	})
	if err != nil {
		t.Fatal(err)
	}
	return r, l
}

func TestJournalReconcilesWithAccounts(t *testing.T) {
	r, l := newJournaledRegistry(t, nil)
	a, _ := r.Lookup("A")
	b, _ := r.Lookup("B")

	_, _ = a.Deposit(decimal.NewFromInt(250))
	_, _ = a.Withdraw(decimal.NewFromInt(100))
	_, _ = a.ChangePin("1111", "3333")
	if _, err := r.TransferBetween(a, decimal.NewFromInt(200), "B"); err != nil {
		t.Fatal(err)
	}

	for _, acct := range []*atm.Account{a, b} {
		got, err := l.GetBalance(acct.Number())
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(acct.Balance()) {
			t.Fatalf("%s: journal=%s account=%s", acct.Number(), got, acct.Balance())
		}
	}

	entries, _ := l.GetLedgerEntries()
	// 2 creations, deposit, withdrawal, pin change, debit, credit
	if len(entries) != 7 {
		t.Fatalf("entries=%d want=7", len(entries))
	}
}

func TestTransferPublishesEvents(t *testing.T) {
	pub := &fakePublisher{}
	r, _ := newJournaledRegistry(t, pub)
	a, _ := r.Lookup("A")

	if _, err := r.TransferBetween(a, decimal.NewFromInt(200), "B"); err != nil {
		t.Fatal(err)
	}

	last := pub.events[len(pub.events)-1]
	done, ok := last.(events.TransactionCompleted)
	if !ok {
		t.Fatalf("last event %T, want TransactionCompleted", last)
	}
	if done.FromAccount != "A" || done.ToAccount != "B" || !done.Amount.Equal(decimal.NewFromInt(200)) || done.DebitEntryID == "" {
		t.Fatalf("event=%+v", done)
	}
	for _, topic := range pub.topics {
		if topic != "atm.ledger" {
			t.Fatalf("topic=%q", topic)
		}
	}
	// 2 creations + debit + credit + completion
	if len(pub.events) != 5 {
		t.Fatalf("events=%d want=5", len(pub.events))
	}
}

func TestPublishFailureKeepsEntry(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	l := NewLedger(memory.NewMemoryLedgerStore(), pub, "t")

	e := models.LedgerEntry{ID: "e1", AccountID: "A", Kind: models.EntryDeposit, Amount: decimal.NewFromInt(5)}
	if err := l.RecordEntry(context.Background(), e); err != nil {
		t.Fatalf("publish failure should not fail the journal: %v", err)
	}
	entries, _ := l.GetLedgerEntries()
	if len(entries) != 1 {
		t.Fatalf("entries=%d want=1", len(entries))
	}
}
