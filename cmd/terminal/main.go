package main

import (
	"context"
	"log"
	"os"

	"github.com/sheikh-saqib/atm-ledger-system/internal/app"
	"github.com/sheikh-saqib/atm-ledger-system/internal/config"
	"github.com/sheikh-saqib/atm-ledger-system/internal/terminal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close()

	if err := terminal.New(a.Registry, cfg.AdminPassword, os.Stdin, os.Stdout).Run(); err != nil {
		log.Println("terminal:", err)
	}
}
