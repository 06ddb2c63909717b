package domain

import "github.com/shopspring/decimal"

// ============================================================
// Derived types — computed on demand, never persisted
// ============================================================

// MonthlyForecast is one month of the balance projection.
type MonthlyForecast struct {
	Month           string          `json:"month"` // YYYY-MM
	Label           string          `json:"label"` // Jan 2026
	StartingBalance decimal.Decimal `json:"starting_balance"`
	Income          decimal.Decimal `json:"income"`
	Expense         decimal.Decimal `json:"expense"`
	EndingBalance   decimal.Decimal `json:"ending_balance"`
	IsNegative      bool            `json:"is_negative"`
	CardRisk        bool            `json:"card_risk"`
}

// InvoiceStatus is the lifecycle state of a card invoice.
type InvoiceStatus string

const (
	InvoiceOpen   InvoiceStatus = "OPEN"
	InvoiceClosed InvoiceStatus = "CLOSED"
	InvoicePaid   InvoiceStatus = "PAID"
	InvoiceFuture InvoiceStatus = "FUTURE"
)

// Invoice is one monthly billing-cycle bucket of a card. The month is the
// month containing the due date; the billing window is
// (previous closing date, closing date].
type Invoice struct {
	ID           string          `json:"id"` // cardID-YYYY-MM
	CardID       string          `json:"card_id"`
	Month        string          `json:"month"` // YYYY-MM
	Label        string          `json:"label"` // January 2026
	Amount       decimal.Decimal `json:"amount"`
	Status       InvoiceStatus   `json:"status"`
	DueDate      Date            `json:"due_date"`
	ClosingDate  Date            `json:"closing_date"`
	Transactions []Transaction   `json:"transactions"`
}

// BudgetStatus is the qualitative state of the smart daily budget.
type BudgetStatus string

const (
	BudgetSafe     BudgetStatus = "SAFE"
	BudgetWarning  BudgetStatus = "WARNING"
	BudgetSaving   BudgetStatus = "SAVING"
	BudgetExceeded BudgetStatus = "EXCEEDED"
)

// SmartBudgetResult is the dashboard's adaptive daily spending allowance.
// Progress percentages are unclamped and may exceed 100.
type SmartBudgetResult struct {
	DailyLimit        decimal.Decimal `json:"daily_limit"`
	SpentToday        decimal.Decimal `json:"spent_today"`
	RemainingForToday decimal.Decimal `json:"remaining_for_today"`
	Status            BudgetStatus    `json:"status"`
	Message           string          `json:"message"`
	MonthProgress     float64         `json:"month_progress"`
	BudgetProgress    float64         `json:"budget_progress"`
}

// SimulatedItem is a hypothetical what-if entry overlaid onto real data at
// projection time, never written back. A non-empty Frequency makes it a
// hypothetical recurring item; otherwise it is a one-off transaction on Date.
type SimulatedItem struct {
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	CardID      string          `json:"card_id,omitempty"`
	Date        *Date           `json:"date,omitempty"`
	Frequency   Frequency       `json:"frequency,omitempty"`
	StartDate   *Date           `json:"start_date,omitempty"`
	EndDate     *Date           `json:"end_date,omitempty"`
	Description string          `json:"description,omitempty"`
}

// ForecastRequest is the payload for POST /v1/forecast.
type ForecastRequest struct {
	Months    int             `json:"months,omitempty"` // defaults to 12
	Simulated []SimulatedItem `json:"simulated,omitempty"`
}

// DashboardSummary aggregates the dashboard widgets in one response.
type DashboardSummary struct {
	TotalBalance       decimal.Decimal    `json:"total_balance"`
	MonthlyIncome      decimal.Decimal    `json:"monthly_income"`
	MonthlyExpense     decimal.Decimal    `json:"monthly_expense"`
	ExpensesToday      decimal.Decimal    `json:"expenses_today"`
	RecentTransactions []Transaction      `json:"recent_transactions"`
	SmartBudget        *SmartBudgetResult `json:"smart_budget,omitempty"`
}
