package models

import "github.com/shopspring/decimal"

// AccountSummary is the read-only projection shown in admin listings.
type AccountSummary struct {
	Number  string          `json:"account_number"`
	Holder  string          `json:"holder_name"`
	Balance decimal.Decimal `json:"balance"`
}
