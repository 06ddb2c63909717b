package domain

import "github.com/shopspring/decimal"

// Card is a credit card with a monthly billing cycle. ClosingDay and DueDay
// are days of month (1-31); days past a short month's end clamp to its last
// day.
type Card struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Name        string          `json:"name"`
	LimitAmount decimal.Decimal `json:"limit_amount"`
	ClosingDay  int             `json:"closing_day"`
	DueDay      int             `json:"due_day"`
}

// CreateCardRequest is the payload for POST /v1/cards.
type CreateCardRequest struct {
	Name        string          `json:"name"`
	LimitAmount decimal.Decimal `json:"limit_amount"`
	ClosingDay  int             `json:"closing_day"`
	DueDay      int             `json:"due_day"`
}
