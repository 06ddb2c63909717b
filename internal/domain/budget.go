package domain

import "github.com/shopspring/decimal"

// Budget is the single monthly spending budget. MonthYear is "YYYY-MM";
// one active budget exists per calendar month.
type Budget struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	MonthYear string          `json:"month_year"`
}

// UpsertBudgetRequest sets the budget for the current month, replacing any
// existing one.
type UpsertBudgetRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Category labels transactions and recurring items.
type Category struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Type TransactionType `json:"type"`
	Icon string          `json:"icon,omitempty"`
}
