package atm

import (
	"context"
	"log"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
	"github.com/shopspring/decimal"
)

const (
	pinLength        = 4
	activityCapacity = 10
	recentShown      = 5
	currency         = "Rs."
)

// Account owns a balance, credentials and three logs: the full history, a
// bounded recent-activity ring and a queue of pending notifications.
// All methods are safe for concurrent use.
type Account struct {
	number string
	holder string
	env    *registryEnv

	mu            sync.Mutex
	pin           string // stored form produced by env.hasher
	balance       decimal.Decimal
	history       []models.LedgerEntry
	activity      *activityLog
	notifications []string
}

func newAccount(env *registryEnv, number, storedPin, holder string, opening decimal.Decimal) *Account {
	a := &Account{
		number:   number,
		holder:   holder,
		env:      env,
		pin:      storedPin,
		activity: newActivityLog(activityCapacity),
	}
	a.post(models.EntryCreated, opening, "")
	return a
}

func (a *Account) Number() string { return a.number }

func (a *Account) Holder() string { return a.holder }

func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

func (a *Account) Summary() models.AccountSummary {
	return models.AccountSummary{Number: a.number, Holder: a.holder, Balance: a.Balance()}
}

// Deposit adds amount to the balance and returns the notification text.
func (a *Account) Deposit(amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	entry := a.post(models.EntryDeposit, amount, "")
	a.journal(entry)
	return a.notify("Deposit successful! New balance: " + money(entry.BalanceAfter)), nil
}

// Withdraw removes amount from the balance. Overdrafts are refused.
func (a *Account) Withdraw(amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if amount.GreaterThan(a.balance) {
		return "", ErrInsufficientFunds
	}
	entry := a.post(models.EntryWithdrawal, amount, "")
	a.journal(entry)
	return a.notify("Withdrawal successful! New balance: " + money(entry.BalanceAfter)), nil
}

// Transfer debits amount and records a transfer to recipientID. It does not
// credit the recipient; Registry.TransferBetween does both sides atomically
// and is what front ends should call.
func (a *Account) Transfer(amount decimal.Decimal, recipientID string) (string, error) {
	if !amount.IsPositive() {
		return "", ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, notice, err := a.debitTransferLocked(amount, recipientID)
	if err != nil {
		return "", err
	}
	a.journal(entry)
	return notice, nil
}

// ChangePin replaces the PIN when oldPin matches the current one.
func (a *Account) ChangePin(oldPin, newPin string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.env.hasher.Matches(a.pin, oldPin) {
		return "", ErrAuthFailure
	}
	if len(newPin) != pinLength {
		return "", ErrInvalidPin
	}
	stored, err := a.env.hasher.Hash(newPin)
	if err != nil {
		return "", err
	}
	a.pin = stored
	entry := a.post(models.EntryPinChanged, decimal.Zero, "")
	a.journal(entry)
	return a.notify("PIN changed successfully!"), nil
}

// History returns every ledger entry in insertion order.
func (a *Account) History() []models.LedgerEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.history)
}

// HistoryNewestFirst returns the history sorted for display.
func (a *Account) HistoryNewestFirst() []models.LedgerEntry {
	out := a.History()
	slices.SortStableFunc(out, models.NewerFirst)
	return out
}

// RecentActivities returns up to five activity lines, most recent first.
func (a *Account) RecentActivities() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activity.Latest(recentShown)
}

// ActivityLog returns every retained activity line, most recent first.
func (a *Account) ActivityLog() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activity.Latest(0)
}

// DrainNotifications returns and clears the pending notifications in FIFO order.
func (a *Account) DrainNotifications() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.notifications
	a.notifications = nil
	return out
}

func (a *Account) pinMatches(pin string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.env.hasher.Matches(a.pin, pin)
}

// debitTransferLocked requires a.mu held.
func (a *Account) debitTransferLocked(amount decimal.Decimal, recipientID string) (models.LedgerEntry, string, error) {
	if amount.GreaterThan(a.balance) {
		return models.LedgerEntry{}, "", ErrInsufficientFunds
	}
	entry := a.post(models.EntryTransferOut, amount, recipientID)
	notice := a.notify("Transfer successful! New balance: " + money(entry.BalanceAfter))
	return entry, notice, nil
}

// creditTransferLocked requires a.mu held.
func (a *Account) creditTransferLocked(amount decimal.Decimal, senderID string) models.LedgerEntry {
	entry := a.post(models.EntryTransferIn, amount, senderID)
	a.notify("Received " + money(amount) + " from " + senderID + ". New balance: " + money(entry.BalanceAfter))
	return entry
}

// post applies kind to the balance and appends the entry and activity line.
// Callers hold a.mu, except newAccount before the account is published.
func (a *Account) post(kind models.EntryKind, amount decimal.Decimal, counterparty string) models.LedgerEntry {
	entry := models.LedgerEntry{
		ID:           uuid.NewString(),
		AccountID:    a.number,
		Seq:          uint64(len(a.history)),
		Kind:         kind,
		Amount:       amount,
		Counterparty: counterparty,
		CreatedAt:    a.env.now(),
	}
	a.balance = a.balance.Add(entry.SignedAmount())
	entry.BalanceAfter = a.balance

	a.history = append(a.history, entry)
	a.activity.Push(entry.Label() + " - " + money(amount))
	return entry
}

func (a *Account) notify(msg string) string {
	a.notifications = append(a.notifications, msg)
	return msg
}

// journal copies entries to the audit journal. Callers hold a.mu so an
// account's entries are recorded in Seq order.
func (a *Account) journal(entries ...models.LedgerEntry) {
	if a.env.journal == nil {
		return
	}
	for _, e := range entries {
		if err := a.env.journal.RecordEntry(context.Background(), e); err != nil {
			log.Printf("journal entry %s for account %s: %v", e.ID, e.AccountID, err)
		}
	}
}

func money(d decimal.Decimal) string {
	return currency + d.StringFixed(2)
}
