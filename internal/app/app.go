// Package app wires configuration, the audit journal and the registry
// together for the command entry points.
package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"

	"github.com/sheikh-saqib/atm-ledger-system/internal/atm"
	"github.com/sheikh-saqib/atm-ledger-system/internal/config"
	"github.com/sheikh-saqib/atm-ledger-system/internal/credential"
	"github.com/sheikh-saqib/atm-ledger-system/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/atm-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/atm-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/atm-ledger-system/internal/storage/memory"
	"github.com/sheikh-saqib/atm-ledger-system/internal/storage/postgres"
)

type App struct {
	Config   *config.Config
	Registry *atm.Registry
	Journal  *ledger.Ledger

	closers []func() error
}

// New builds the registry with its journal backends. Close releases them.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	store, err := a.ledgerStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewPublisher(cfg.KafkaBrokers)
		a.closers = append(a.closers, p.Close)
		publisher = p
		log.Printf("Publishing ledger events to %v topic %s", cfg.KafkaBrokers, cfg.KafkaTopic)
	}
	a.Journal = ledger.NewLedger(store, publisher, cfg.KafkaTopic)

	hasher, err := credential.ByName(cfg.PinHasher)
	if err != nil {
		a.Close()
		return nil, err
	}
	seeds, err := cfg.Seeds()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Registry, err = atm.NewRegistry(atm.Options{
		Seeds:             seeds,
		MinOpeningDeposit: &cfg.MinOpeningDeposit,
		MaxLoginAttempts:  cfg.MaxLoginAttempts,
		Hasher:            hasher,
		Journal:           a.Journal,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	log.Printf("Registry ready with %d accounts", len(seeds))
	return a, nil
}

func (a *App) ledgerStore(ctx context.Context) (interfaces.LedgerStore, error) {
	if a.Config.DatabaseURL == "" {
		return memory.NewMemoryLedgerStore(), nil
	}
	db, err := postgres.Connect(ctx, a.Config.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	store := postgres.NewPostgresLedgerStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// SessionSecret returns the configured token secret, or a random one that
// lives as long as the process.
func (a *App) SessionSecret() ([]byte, error) {
	if a.Config.SessionSecret != "" {
		return []byte(a.Config.SessionSecret), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	log.Println("ATM_SESSION_SECRET not set, tokens will not survive a restart")
	return secret, nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("close: %v", err)
		}
	}
	a.closers = nil
}
