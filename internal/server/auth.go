package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sheikh-saqib/atm-ledger-system/internal/atm"
)

const issuer = "atm-ledger-system"

type sessionClaims struct {
	SessionID string `json:"sid"`
	Account   string `json:"acct"`
	jwt.RegisteredClaims
}

type ctxKey struct{}

// tokenIssuer signs bearer tokens for registry sessions.
type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (ti *tokenIssuer) issue(s atm.Session) (string, time.Time, error) {
	exp := ti.now().Add(ti.ttl)
	claims := &sessionClaims{
		SessionID: s.ID,
		Account:   s.Account.Number(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(ti.now()),
			Issuer:    issuer,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	return signed, exp, err
}

func (ti *tokenIssuer) parse(tokenString string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return ti.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// requireSession admits a request only when its token belongs to the
// registry's current session.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || tokenString == "" {
			writeError(w, http.StatusUnauthorized, "missing_token", "missing bearer token")
			return
		}
		claims, err := s.tokens.parse(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid or expired token")
			return
		}
		sess, active := s.registry.Session()
		if !active || sess.ID != claims.SessionID {
			writeDomainError(w, atm.ErrNoSession)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, sess.Account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		given := r.Header.Get("X-Admin-Password")
		if subtle.ConstantTimeCompare([]byte(given), []byte(s.adminPassword)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid_admin_password", "invalid admin password")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func accountFrom(ctx context.Context) *atm.Account {
	a, _ := ctx.Value(ctxKey{}).(*atm.Account)
	return a
}
