// Package server exposes the registry over a JSON HTTP API. It plays the
// part of the teller terminal: one customer session at a time.
package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sheikh-saqib/atm-ledger-system/internal/atm"
	"github.com/sheikh-saqib/atm-ledger-system/internal/ledger"
)

type Options struct {
	AdminPassword string
	SessionSecret []byte
	SessionTTL    time.Duration
	Now           func() time.Time
}

type Server struct {
	registry      *atm.Registry
	journal       *ledger.Ledger
	adminPassword string
	tokens        *tokenIssuer
}

func NewServer(registry *atm.Registry, journal *ledger.Ledger, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 15 * time.Minute
	}
	return &Server{
		registry:      registry,
		journal:       journal,
		adminPassword: opts.AdminPassword,
		tokens:        &tokenIssuer{secret: opts.SessionSecret, ttl: opts.SessionTTL, now: opts.Now},
	}
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/accounts", s.handleCreateAccount).Methods(http.MethodPost)

	r.HandleFunc("/session", s.handleSession).Methods(http.MethodGet)
	r.HandleFunc("/session/login", s.handleLogin).Methods(http.MethodPost)
	r.Handle("/session/logout", s.requireSession(http.HandlerFunc(s.handleLogout))).Methods(http.MethodPost)

	acct := r.PathPrefix("/account").Subrouter()
	acct.Use(s.requireSession)
	acct.HandleFunc("/balance", s.handleBalance).Methods(http.MethodGet)
	acct.HandleFunc("/deposit", s.handleDeposit).Methods(http.MethodPost)
	acct.HandleFunc("/withdraw", s.handleWithdraw).Methods(http.MethodPost)
	acct.HandleFunc("/transfer", s.handleTransfer).Methods(http.MethodPost)
	acct.HandleFunc("/pin", s.handleChangePin).Methods(http.MethodPost)
	acct.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	acct.HandleFunc("/activities", s.handleActivities).Methods(http.MethodGet)
	acct.HandleFunc("/notifications", s.handleNotifications).Methods(http.MethodGet)

	r.Handle("/admin/accounts", s.requireAdmin(http.HandlerFunc(s.handleListAccounts))).Methods(http.MethodGet)
	r.Handle("/admin/accounts/{number}", s.requireAdmin(http.HandlerFunc(s.handleCloseAccount))).Methods(http.MethodDelete)
	r.Handle("/ledgerEntries", s.requireAdmin(http.HandlerFunc(s.handleLedgerEntries))).Methods(http.MethodGet)

	return r
}
