package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sheikh-saqib/atm-ledger-system/internal/atm"
)

type errorResponse struct {
	Code              string `json:"code"`
	Message           string `json:"message"`
	AttemptsRemaining *int   `json:"attempts_remaining,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps atm errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	resp := errorResponse{Message: err.Error()}
	status := http.StatusInternalServerError

	var authErr *atm.AuthError
	switch {
	case errors.As(err, &authErr):
		status, resp.Code = http.StatusUnauthorized, "auth_failure"
		resp.AttemptsRemaining = &authErr.Remaining
	case errors.Is(err, atm.ErrAuthFailure):
		status, resp.Code = http.StatusUnauthorized, "auth_failure"
	case errors.Is(err, atm.ErrNoSession):
		status, resp.Code = http.StatusUnauthorized, "no_session"
	case errors.Is(err, atm.ErrAccountLocked):
		status, resp.Code = http.StatusLocked, "account_locked"
	case errors.Is(err, atm.ErrAccountNotFound):
		status, resp.Code = http.StatusNotFound, "account_not_found"
	case errors.Is(err, atm.ErrRecipientNotFound):
		status, resp.Code = http.StatusNotFound, "recipient_not_found"
	case errors.Is(err, atm.ErrDuplicateAccount):
		status, resp.Code = http.StatusConflict, "duplicate_account"
	case errors.Is(err, atm.ErrInsufficientFunds):
		status, resp.Code = http.StatusConflict, "insufficient_funds"
	case errors.Is(err, atm.ErrInvalidAmount):
		status, resp.Code = http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, atm.ErrInvalidPin):
		status, resp.Code = http.StatusBadRequest, "invalid_pin"
	case errors.Is(err, atm.ErrDepositTooLow):
		status, resp.Code = http.StatusBadRequest, "deposit_too_low"
	case errors.Is(err, atm.ErrSameAccount):
		status, resp.Code = http.StatusBadRequest, "same_account"
	default:
		resp.Code, resp.Message = "internal_error", "internal error"
	}
	writeJSON(w, status, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return false
	}
	return true
}
