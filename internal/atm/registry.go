// Package atm models a single-branch teller machine: accounts, their ledgers
// and the registry that authenticates customers and routes transfers.
package atm

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sheikh-saqib/atm-ledger-system/internal/credential"
	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
	"github.com/shopspring/decimal"
)

const DefaultMaxLoginAttempts = 3

var DefaultMinOpeningDeposit = decimal.NewFromInt(500)

// Journal receives a copy of every entry posted to any account.
type Journal interface {
	RecordEntry(ctx context.Context, entry models.LedgerEntry) error
	RecordTransfer(ctx context.Context, debit, credit models.LedgerEntry) error
}

// SeedAccount describes an account created when the registry starts.
type SeedAccount struct {
	Number         string
	PIN            string
	Holder         string
	OpeningBalance decimal.Decimal
}

type Options struct {
	Seeds             []SeedAccount
	MinOpeningDeposit *decimal.Decimal // nil means DefaultMinOpeningDeposit
	MaxLoginAttempts  int              // zero means DefaultMaxLoginAttempts
	Hasher            credential.Hasher
	Journal           Journal
	Now               func() time.Time
}

// Session is the account currently logged in at the terminal.
type Session struct {
	ID        string
	Account   *Account
	StartedAt time.Time
}

type registryEnv struct {
	now     func() time.Time
	hasher  credential.Hasher
	journal Journal
}

// Registry owns the accounts of the branch, the login lockout policy and the
// single terminal session.
type Registry struct {
	env         *registryEnv
	minDeposit  decimal.Decimal
	maxAttempts int

	mu       sync.RWMutex // protects accounts
	accounts map[string]*Account

	authMu  sync.Mutex // protects failed and session
	failed  map[string]int
	session *Session
}

// NewRegistry builds a registry and creates opts.Seeds through CreateAccount,
// so seeds obey the same rules as customer-created accounts. A negative
// minimum opening deposit is rejected.
func NewRegistry(opts Options) (*Registry, error) {
	minDeposit := DefaultMinOpeningDeposit
	if opts.MinOpeningDeposit != nil {
		minDeposit = *opts.MinOpeningDeposit
	}
	if minDeposit.IsNegative() {
		return nil, fmt.Errorf("minimum opening deposit %s: %w", minDeposit, ErrInvalidAmount)
	}

	env := &registryEnv{now: opts.Now, hasher: opts.Hasher, journal: opts.Journal}
	if env.now == nil {
		env.now = time.Now
	}
	if env.hasher == nil {
		env.hasher = credential.Plain{}
	}

	r := &Registry{
		env:         env,
		minDeposit:  minDeposit,
		maxAttempts: opts.MaxLoginAttempts,
		accounts:    make(map[string]*Account),
		failed:      make(map[string]int),
	}
	if r.maxAttempts <= 0 {
		r.maxAttempts = DefaultMaxLoginAttempts
	}

	for _, s := range opts.Seeds {
		if _, err := r.CreateAccount(s.Number, s.PIN, s.Holder, s.OpeningBalance); err != nil {
			return nil, &SeedError{Number: s.Number, Err: err}
		}
	}
	return r, nil
}

// SeedError reports a seed account that could not be created.
type SeedError struct {
	Number string
	Err    error
}

func (e *SeedError) Error() string { return "seed account " + e.Number + ": " + e.Err.Error() }

func (e *SeedError) Unwrap() error { return e.Err }

// CreateAccount opens a new account with an opening deposit.
func (r *Registry) CreateAccount(number, pin, holder string, openingDeposit decimal.Decimal) (*Account, error) {
	number = normalize(number)
	if r.Exists(number) {
		return nil, ErrDuplicateAccount
	}
	if len(pin) != pinLength {
		return nil, ErrInvalidPin
	}
	if openingDeposit.LessThan(r.minDeposit) {
		return nil, ErrDepositTooLow
	}
	stored, err := r.env.hasher.Hash(pin)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if _, exists := r.accounts[number]; exists {
		r.mu.Unlock()
		return nil, ErrDuplicateAccount
	}
	a := newAccount(r.env, number, stored, holder, openingDeposit)
	// hold the account until its opening entry is journaled, so later
	// entries cannot reach the journal first
	a.mu.Lock()
	defer a.mu.Unlock()
	r.accounts[number] = a
	r.mu.Unlock()

	a.journal(a.history...)
	return a, nil
}

// normalize is applied to every account number a caller hands in.
func normalize(number string) string { return strings.TrimSpace(number) }

func (r *Registry) MinOpeningDeposit() decimal.Decimal { return r.minDeposit }

func (r *Registry) Exists(number string) bool {
	_, err := r.Lookup(number)
	return err == nil
}

func (r *Registry) Lookup(number string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(normalize(number))
}

// lookupLocked requires r.mu held and number already normalized.
func (r *Registry) lookupLocked(number string) (*Account, error) {
	a, ok := r.accounts[number]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

// CloseAccount removes an account. An active session on it is ended.
func (r *Registry) CloseAccount(number string) (models.AccountSummary, error) {
	number = normalize(number)
	r.mu.Lock()
	a, ok := r.accounts[number]
	if !ok {
		r.mu.Unlock()
		return models.AccountSummary{}, ErrAccountNotFound
	}
	delete(r.accounts, number)
	r.mu.Unlock()

	r.authMu.Lock()
	delete(r.failed, number)
	if r.session != nil && r.session.Account == a {
		r.session = nil
	}
	r.authMu.Unlock()

	return a.Summary(), nil
}

// ListAccounts returns every account ordered by account number.
func (r *Registry) ListAccounts() []models.AccountSummary {
	r.mu.RLock()
	accts := make([]*Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		accts = append(accts, a)
	}
	r.mu.RUnlock()

	slices.SortFunc(accts, func(x, y *Account) int { return strings.Compare(x.number, y.number) })
	out := make([]models.AccountSummary, 0, len(accts))
	for _, a := range accts {
		out = append(out, a.Summary())
	}
	return out
}

// Login authenticates a customer. The lockout check, PIN comparison and
// counter update happen under one lock so concurrent attempts cannot slip
// past the limit. A successful login replaces any previous session.
func (r *Registry) Login(number, pin string) (Session, error) {
	number = normalize(number)
	a, err := r.Lookup(number)
	if err != nil {
		return Session{}, err
	}

	r.authMu.Lock()
	defer r.authMu.Unlock()

	if r.failed[number] >= r.maxAttempts {
		return Session{}, ErrAccountLocked
	}
	if !a.pinMatches(pin) {
		r.failed[number]++
		remaining := r.maxAttempts - r.failed[number]
		if remaining == 0 {
			log.Printf("account %s locked after %d failed logins", number, r.maxAttempts)
		}
		return Session{}, &AuthError{Remaining: remaining}
	}

	r.failed[number] = 0
	r.session = &Session{ID: uuid.NewString(), Account: a, StartedAt: r.env.now()}
	return *r.session, nil
}

// AttemptsRemaining reports how many wrong PINs the account can still take.
func (r *Registry) AttemptsRemaining(number string) int {
	r.authMu.Lock()
	defer r.authMu.Unlock()
	return max(r.maxAttempts-r.failed[normalize(number)], 0)
}

func (r *Registry) Logout() {
	r.authMu.Lock()
	r.session = nil
	r.authMu.Unlock()
}

// Session returns the active session, if any.
func (r *Registry) Session() (Session, bool) {
	r.authMu.Lock()
	defer r.authMu.Unlock()
	if r.session == nil {
		return Session{}, false
	}
	return *r.session, true
}

func (r *Registry) IsLoggedIn() bool {
	_, ok := r.Session()
	return ok
}

func (r *Registry) CurrentAccount() (*Account, error) {
	s, ok := r.Session()
	if !ok {
		return nil, ErrNoSession
	}
	return s.Account, nil
}

// TransferBetween moves amount from one account to another. The recipient
// must exist and differ from the sender. The registry read lock is held
// until both sides are posted, so neither account can be closed halfway.
// Account locks are taken in account-number order, and the debit and credit
// apply together or not at all.
func (r *Registry) TransferBetween(from *Account, amount decimal.Decimal, toNumber string) (string, error) {
	if !amount.IsPositive() {
		return "", ErrInvalidAmount
	}
	toNumber = normalize(toNumber)
	if toNumber == from.number {
		return "", ErrSameAccount
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if cur, err := r.lookupLocked(from.number); err != nil || cur != from {
		return "", ErrAccountNotFound
	}
	to, err := r.lookupLocked(toNumber)
	if err != nil {
		return "", ErrRecipientNotFound
	}

	// Lock in order to avoid deadlocks
	first, second := from, to
	if to.number < from.number {
		first, second = to, from
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	debit, notice, err := from.debitTransferLocked(amount, to.number)
	if err != nil {
		return "", err
	}
	credit := to.creditTransferLocked(amount, from.number)

	// journaled under both locks so each account's entries leave in Seq order
	if r.env.journal != nil {
		if err := r.env.journal.RecordTransfer(context.Background(), debit, credit); err != nil {
			log.Printf("journal transfer %s -> %s: %v", from.number, to.number, err)
		}
	}
	return notice, nil
}
