// Package domain holds the entities and derived types of the personal
// finance tracker. All rows live in the hosted Supabase backend; this
// layer only models them.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account.
type AccountType string

const (
	AccountChecking AccountType = "CHECKING"
	AccountSavings  AccountType = "SAVINGS"
	AccountCash     AccountType = "CASH"
	AccountOther    AccountType = "OTHER"
)

// Account is a money holder. InitialBalance is a point-in-time stored value
// edited by the user, not derived from the transaction history.
type Account struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CreatedAt      time.Time       `json:"created_at,omitempty"`
}

// CreateAccountRequest is the payload for POST /v1/accounts.
type CreateAccountRequest struct {
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}
