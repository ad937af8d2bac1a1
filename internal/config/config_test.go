package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{
		"ATM_HTTP_ADDR", "ATM_ADMIN_PASSWORD", "ATM_SEED_FILE", "ATM_PIN_HASHER",
		"ATM_MIN_OPENING_DEPOSIT", "ATM_MAX_LOGIN_ATTEMPTS", "ATM_SESSION_TTL",
		"DATABASE_URL", "KAFKA_BROKERS", "KAFKA_TOPIC",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.MaxLoginAttempts != 3 || cfg.SessionTTL != 15*time.Minute {
		t.Fatalf("cfg=%+v", cfg)
	}
	if !cfg.MinOpeningDeposit.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("min deposit=%s", cfg.MinOpeningDeposit)
	}
	if cfg.KafkaBrokers != nil || cfg.DatabaseURL != "" {
		t.Fatalf("optional backends should be off: %+v", cfg)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ATM_MAX_LOGIN_ATTEMPTS", "5")
	t.Setenv("ATM_MIN_OPENING_DEPOSIT", "1000.50")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxLoginAttempts != 5 {
		t.Fatalf("attempts=%d", cfg.MaxLoginAttempts)
	}
	if !cfg.MinOpeningDeposit.Equal(decimal.RequireFromString("1000.50")) {
		t.Fatalf("min deposit=%s", cfg.MinOpeningDeposit)
	}
	if want := []string{"k1:9092", "k2:9092"}; !reflect.DeepEqual(cfg.KafkaBrokers, want) {
		t.Fatalf("brokers=%v", cfg.KafkaBrokers)
	}
}

func TestFromEnvBadValues(t *testing.T) {
	for _, v := range []string{"lots", "-100"} {
		t.Setenv("ATM_MIN_OPENING_DEPOSIT", v)
		if _, err := FromEnv(); err == nil {
			t.Fatalf("want error for ATM_MIN_OPENING_DEPOSIT=%q", v)
		}
	}
}

func TestFromEnvZeroMinimumKept(t *testing.T) {
	t.Setenv("ATM_MIN_OPENING_DEPOSIT", "0")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.MinOpeningDeposit.IsZero() {
		t.Fatalf("min deposit=%s want=0", cfg.MinOpeningDeposit)
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	data := `
[[Accounts]]
Number = "5555666677"
PIN = "2468"
Holder = "Test Holder"
OpeningBalance = "750.25"

[[Accounts]]
Number = "5555666678"
PIN = "1357"
Holder = "Second"
OpeningBalance = "900"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{SeedFile: path}
	seeds, err := cfg.Seeds()
	if err != nil {
		t.Fatal(err)
	}
	if len(seeds) != 2 || seeds[0].Holder != "Test Holder" || !seeds[0].OpeningBalance.Equal(decimal.RequireFromString("750.25")) {
		t.Fatalf("seeds=%+v", seeds)
	}
}

func TestDemoSeedWhenNoFile(t *testing.T) {
	seeds, err := (&Config{}).Seeds()
	if err != nil {
		t.Fatal(err)
	}
	if len(seeds) != 3 || seeds[0].Number != "1234567890" {
		t.Fatalf("seeds=%+v", seeds)
	}
}
