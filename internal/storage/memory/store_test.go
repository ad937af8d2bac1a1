package memory

import (
	"context"
	"testing"

	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
	"github.com/shopspring/decimal"
)

func TestSaveAndQuery(t *testing.T) {
	s := NewMemoryLedgerStore()
	ctx := context.Background()

	entries := []models.LedgerEntry{
		{ID: "e1", AccountID: "A", Kind: models.EntryCreated, Amount: decimal.NewFromInt(1000)},
		{ID: "e2", AccountID: "B", Kind: models.EntryCreated, Amount: decimal.NewFromInt(500)},
		{ID: "e3", AccountID: "A", Kind: models.EntryWithdrawal, Amount: decimal.NewFromInt(100)},
	}
	for _, e := range entries {
		if err := s.SaveEntry(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := s.GetLedgerEntries()
	if len(all) != 3 {
		t.Fatalf("all=%d want=3", len(all))
	}
	byA, _ := s.GetEntriesByAccount("A")
	if len(byA) != 2 || byA[0].ID != "e1" || byA[1].ID != "e3" {
		t.Fatalf("byA=%+v", byA)
	}
}

func TestDuplicateIDsIgnored(t *testing.T) {
	s := NewMemoryLedgerStore()
	e := models.LedgerEntry{ID: "e1", AccountID: "A", Kind: models.EntryDeposit, Amount: decimal.NewFromInt(5)}

	_ = s.SaveEntry(context.Background(), e)
	_ = s.SaveEntries(context.Background(), e, e)

	all, _ := s.GetLedgerEntries()
	if len(all) != 1 {
		t.Fatalf("entries=%d want=1", len(all))
	}
}

func TestReturnedSliceIsCopy(t *testing.T) {
	s := NewMemoryLedgerStore()
	_ = s.SaveEntry(context.Background(), models.LedgerEntry{ID: "e1", AccountID: "A"})

	all, _ := s.GetLedgerEntries()
	all[0].AccountID = "mutated"

	again, _ := s.GetLedgerEntries()
	if again[0].AccountID != "A" {
		t.Fatal("store state leaked through returned slice")
	}
}

func TestCancelledContext(t *testing.T) {
	s := NewMemoryLedgerStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.SaveEntry(ctx, models.LedgerEntry{ID: "e1"}); err == nil {
		t.Fatal("want context error")
	}
}
