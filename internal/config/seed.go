package config

import (
	"fmt"
	"os"

	"github.com/naoina/toml"
	"github.com/sheikh-saqib/atm-ledger-system/internal/atm"
	"github.com/shopspring/decimal"
)

type seedFile struct {
	Accounts []seedAccount
}

type seedAccount struct {
	Number         string
	PIN            string
	Holder         string
	OpeningBalance string
}

// DemoSeed returns the three demo accounts the branch ships with.
func DemoSeed() []atm.SeedAccount {
	return []atm.SeedAccount{
		{Number: "1234567890", PIN: "1234", Holder: "Shubham kumar", OpeningBalance: decimal.NewFromInt(10000)},
		{Number: "0987654321", PIN: "4321", Holder: "Navneet parmar", OpeningBalance: decimal.NewFromInt(15000)},
		{Number: "1111222233", PIN: "9999", Holder: "Sikandar", OpeningBalance: decimal.NewFromInt(5000)},
	}
}

// Seeds returns the accounts named by SeedFile, or DemoSeed when it is empty.
func (c *Config) Seeds() ([]atm.SeedAccount, error) {
	if c.SeedFile == "" {
		return DemoSeed(), nil
	}
	return LoadSeedFile(c.SeedFile)
}

func LoadSeedFile(path string) ([]atm.SeedAccount, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var file seedFile
	if err := toml.NewDecoder(f).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}

	out := make([]atm.SeedAccount, 0, len(file.Accounts))
	for _, s := range file.Accounts {
		balance, err := decimal.NewFromString(s.OpeningBalance)
		if err != nil {
			return nil, fmt.Errorf("seed account %s: opening balance: %w", s.Number, err)
		}
		out = append(out, atm.SeedAccount{
			Number:         s.Number,
			PIN:            s.PIN,
			Holder:         s.Holder,
			OpeningBalance: balance,
		})
	}
	return out, nil
}
