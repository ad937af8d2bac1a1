package atm

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidPin        = errors.New("pin must be 4 digits")
	ErrAuthFailure       = errors.New("invalid pin")
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountLocked     = errors.New("account locked due to too many failed attempts")
	ErrDuplicateAccount  = errors.New("account already exists")
	ErrDepositTooLow     = errors.New("opening deposit below minimum")
	ErrRecipientNotFound = errors.New("recipient account not found")
	ErrSameAccount       = errors.New("cannot transfer to the same account")
	ErrNoSession         = errors.New("no active session")
)

// AuthError is returned by Login on a PIN mismatch.
type AuthError struct {
	Remaining int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: attempts remaining: %d", ErrAuthFailure, e.Remaining)
}

func (e *AuthError) Unwrap() error { return ErrAuthFailure }
