// Package credential stores and checks account PINs.
package credential

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a PIN into its stored form and checks candidates against it.
type Hasher interface {
	Hash(pin string) (string, error)
	Matches(stored, pin string) bool
}

// Plain keeps PINs as-is. It matches the behaviour of the classic terminal,
// which compared raw strings.
type Plain struct{}

func (Plain) Hash(pin string) (string, error) { return pin, nil }

func (Plain) Matches(stored, pin string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(pin)) == 1
}

// Bcrypt stores PINs as bcrypt hashes.
type Bcrypt struct {
	Cost int // zero means bcrypt.DefaultCost
}

func (b Bcrypt) Hash(pin string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(hashed), nil
}

func (Bcrypt) Matches(stored, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(pin)) == nil
}

// ByName returns the hasher configured by name ("plain" or "bcrypt").
func ByName(name string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "plain":
		return Plain{}, nil
	case "bcrypt":
		return Bcrypt{}, nil
	}
	return nil, fmt.Errorf("unknown pin hasher %q", name)
}
