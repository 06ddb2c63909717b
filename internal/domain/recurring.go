package domain

import "github.com/shopspring/decimal"

// Frequency is how often a recurring item repeats.
type Frequency string

const (
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// RecurringItem is a template for repeated income or expense. Open-ended
// when EndDate is nil.
type RecurringItem struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	AccountID   string          `json:"account_id,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   Frequency       `json:"frequency"`
	StartDate   Date            `json:"start_date"`
	EndDate     *Date           `json:"end_date,omitempty"`
	Description string          `json:"description,omitempty"`

	// LastRunDate tracks the most recent materialization by the recurring
	// processor; nil if the item never produced a transaction.
	LastRunDate *Date `json:"last_run_date,omitempty"`
}

// CreateRecurringRequest is the payload for POST /v1/recurrings.
type CreateRecurringRequest struct {
	AccountID   string          `json:"account_id,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   Frequency       `json:"frequency"`
	StartDate   Date            `json:"start_date"`
	EndDate     *Date           `json:"end_date,omitempty"`
	Description string          `json:"description,omitempty"`
}
