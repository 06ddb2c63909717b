package domain

import "github.com/shopspring/decimal"

// TransactionType distinguishes money in, money out and internal moves.
type TransactionType string

const (
	TransactionIncome   TransactionType = "INCOME"
	TransactionExpense  TransactionType = "EXPENSE"
	TransactionTransfer TransactionType = "TRANSFER"
)

// Transaction is a single financial movement. Card purchases paid in
// installments are pre-expanded: each installment is its own row with its
// own date, linked by PurchaseID.
type Transaction struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	AccountID         string          `json:"account_id,omitempty"`
	CardID            string          `json:"card_id,omitempty"`
	CategoryID        string          `json:"category_id,omitempty"`
	Type              TransactionType `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Date              Date            `json:"date"`
	Description       string          `json:"description,omitempty"`
	FromAccountID     string          `json:"from_account_id,omitempty"`
	ToAccountID       string          `json:"to_account_id,omitempty"`
	InstallmentNumber int             `json:"installment_number,omitempty"`
	TotalInstallments int             `json:"total_installments,omitempty"`
	PurchaseID        string          `json:"purchase_id,omitempty"`
}

// CreateTransactionRequest is the payload for POST /v1/transactions.
type CreateTransactionRequest struct {
	AccountID     string          `json:"account_id,omitempty"`
	CardID        string          `json:"card_id,omitempty"`
	CategoryID    string          `json:"category_id,omitempty"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Date          Date            `json:"date"`
	Description   string          `json:"description,omitempty"`
	FromAccountID string          `json:"from_account_id,omitempty"`
	ToAccountID   string          `json:"to_account_id,omitempty"`
}

// CardPurchaseRequest is the payload for POST /v1/cards/{cardId}/purchases.
// Installments > 1 expands into that many EXPENSE rows, one month apart.
type CardPurchaseRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	Date         Date            `json:"date"`
	Description  string          `json:"description,omitempty"`
	CategoryID   string          `json:"category_id,omitempty"`
	Installments int             `json:"installments,omitempty"`
}

// UpdateTransactionRequest is the payload for PATCH /v1/transactions/{id}.
// Zero-valued fields are left untouched.
type UpdateTransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Date        *Date            `json:"date,omitempty"`
	Description *string          `json:"description,omitempty"`
	CategoryID  *string          `json:"category_id,omitempty"`
}
