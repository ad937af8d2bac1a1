// Package config loads runtime settings from the environment, an optional
// .env file and an optional TOML seed file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPAddr      string
	AdminPassword string
	SeedFile      string // empty means the built-in demo accounts
	PinHasher     string

	MinOpeningDeposit decimal.Decimal
	MaxLoginAttempts  int

	SessionSecret string
	SessionTTL    time.Duration

	DatabaseURL  string // empty keeps the audit journal in memory
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	minDeposit, err := decimal.NewFromString(getEnv("ATM_MIN_OPENING_DEPOSIT", "500"))
	if err != nil {
		return nil, fmt.Errorf("ATM_MIN_OPENING_DEPOSIT: %w", err)
	}
	if minDeposit.IsNegative() {
		return nil, fmt.Errorf("ATM_MIN_OPENING_DEPOSIT: %s is negative", minDeposit)
	}
	ttl, err := time.ParseDuration(getEnv("ATM_SESSION_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("ATM_SESSION_TTL: %w", err)
	}

	cfg := &Config{
		HTTPAddr:          getEnv("ATM_HTTP_ADDR", ":8080"),
		AdminPassword:     getEnv("ATM_ADMIN_PASSWORD", "Skp123"),
		SeedFile:          getEnv("ATM_SEED_FILE", ""),
		PinHasher:         getEnv("ATM_PIN_HASHER", "plain"),
		MinOpeningDeposit: minDeposit,
		MaxLoginAttempts:  GetEnvInt("ATM_MAX_LOGIN_ATTEMPTS", 3),
		SessionSecret:     getEnv("ATM_SESSION_SECRET", ""),
		SessionTTL:        ttl,
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		KafkaBrokers:      splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "atm.ledger"),
	}
	if cfg.AdminPassword == "Skp123" {
		log.Println("ATM_ADMIN_PASSWORD not set, using the demo admin password")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func GetEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
		log.Printf("ignoring %s=%q: %v", key, value, err)
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
