package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
	"github.com/shopspring/decimal"
)

type noticeResponse struct {
	Notice  string          `json:"notice"`
	Balance decimal.Decimal `json:"balance"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountNumber  string          `json:"account_number"`
		PIN            string          `json:"pin"`
		HolderName     string          `json:"holder_name"`
		OpeningDeposit decimal.Decimal `json:"opening_deposit"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	a, err := s.registry.CreateAccount(req.AccountNumber, req.PIN, req.HolderName, req.OpeningDeposit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a.Summary())
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountNumber string `json:"account_number"`
		PIN           string `json:"pin"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := s.registry.Login(req.AccountNumber, req.PIN)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	token, exp, err := s.tokens.issue(sess)
	if err != nil {
		s.registry.Logout()
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Token      string    `json:"token"`
		ExpiresAt  time.Time `json:"expires_at"`
		HolderName string    `json:"holder_name"`
	}{token, exp, sess.Account.Holder()})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.registry.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	resp := struct {
		Active        bool   `json:"active"`
		AccountNumber string `json:"account_number,omitempty"`
		HolderName    string `json:"holder_name,omitempty"`
	}{}
	if sess, ok := s.registry.Session(); ok {
		resp.Active = true
		resp.AccountNumber = sess.Account.Number()
		resp.HolderName = sess.Account.Holder()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	a := accountFrom(r.Context())
	writeJSON(w, http.StatusOK, models.AccountSummary{Number: a.Number(), Holder: a.Holder(), Balance: a.Balance()})
}

type amountRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	ToAccount string          `json:"to_account,omitempty"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a := accountFrom(r.Context())
	notice, err := a.Deposit(req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, noticeResponse{Notice: notice, Balance: a.Balance()})
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a := accountFrom(r.Context())
	notice, err := a.Withdraw(req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, noticeResponse{Notice: notice, Balance: a.Balance()})
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a := accountFrom(r.Context())
	notice, err := s.registry.TransferBetween(a, req.Amount, req.ToAccount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, noticeResponse{Notice: notice, Balance: a.Balance()})
}

func (s *Server) handleChangePin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPIN string `json:"old_pin"`
		NewPIN string `json:"new_pin"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	a := accountFrom(r.Context())
	notice, err := a.ChangePin(req.OldPIN, req.NewPIN)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, noticeResponse{Notice: notice, Balance: a.Balance()})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, accountFrom(r.Context()).HistoryNewestFirst())
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"activities": accountFrom(r.Context()).RecentActivities()})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	notes := accountFrom(r.Context()).DrainNotifications()
	if notes == nil {
		notes = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"notifications": notes})
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.ListAccounts())
}

func (s *Server) handleCloseAccount(w http.ResponseWriter, r *http.Request) {
	sum, err := s.registry.CloseAccount(mux.Vars(r)["number"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleLedgerEntries(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, http.StatusNotFound, "journal_disabled", "audit journal not configured")
		return
	}
	entries, err := s.journal.GetLedgerEntries()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
