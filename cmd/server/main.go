package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikh-saqib/atm-ledger-system/internal/app"
	"github.com/sheikh-saqib/atm-ledger-system/internal/config"
	"github.com/sheikh-saqib/atm-ledger-system/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close()

	secret, err := a.SessionSecret()
	if err != nil {
		log.Fatal(err)
	}
	s := server.NewServer(a.Registry, a.Journal, server.Options{
		AdminPassword: cfg.AdminPassword,
		SessionSecret: secret,
		SessionTTL:    cfg.SessionTTL,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Println("Starting server on", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
