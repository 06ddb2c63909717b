// Package service holds the application services that orchestrate the store,
// the cache and the projection core.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gfranca/grana-go/internal/domain"
	"github.com/gfranca/grana-go/internal/infra/observability"
	"github.com/gfranca/grana-go/internal/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service/finance")

// Finance owns CRUD for accounts, transactions, recurring items, cards,
// budgets and categories. Every mutation invalidates the user's cached
// projections.
type Finance struct {
	store   port.FinanceStore
	cache   port.Cache[any]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewFinance creates the finance service with all dependencies injected.
func NewFinance(store port.FinanceStore, cache port.Cache[any], metrics *observability.Metrics, logger *zap.Logger) *Finance {
	return &Finance{store: store, cache: cache, metrics: metrics, logger: logger}
}

// invalidate drops every cached projection of the user. Cache keys are
// namespaced "<userID>/...".
func (f *Finance) invalidate(userID string) {
	f.cache.DeletePrefix(userID + "/")
}

// --- Accounts ---

func (f *Finance) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Finance.ListAccounts")
	defer span.End()
	return f.store.ListAccounts(ctx, userID)
}

func (f *Finance) CreateAccount(ctx context.Context, userID string, req *domain.CreateAccountRequest) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Finance.CreateAccount")
	defer span.End()

	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	switch req.Type {
	case domain.AccountChecking, domain.AccountSavings, domain.AccountCash, domain.AccountOther:
	default:
		return nil, &domain.ErrValidation{Field: "type", Message: fmt.Sprintf("unknown account type %q", req.Type)}
	}

	account := &domain.Account{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           req.Name,
		Type:           req.Type,
		InitialBalance: req.InitialBalance,
	}
	created, err := f.store.CreateAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	f.invalidate(userID)
	return created, nil
}

func (f *Finance) DeleteAccount(ctx context.Context, userID, accountID string) error {
	ctx, span := tracer.Start(ctx, "Finance.DeleteAccount")
	defer span.End()

	if err := f.store.DeleteAccount(ctx, userID, accountID); err != nil {
		return err
	}
	f.invalidate(userID)
	return nil
}

// --- Transactions ---

func (f *Finance) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Finance.ListTransactions")
	defer span.End()
	return f.store.ListTransactions(ctx, userID)
}

func (f *Finance) CreateTransaction(ctx context.Context, userID string, req *domain.CreateTransactionRequest) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Finance.CreateTransaction")
	defer span.End()

	if err := validateTransaction(req); err != nil {
		return nil, err
	}

	tx := domain.Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		AccountID:     req.AccountID,
		CardID:        req.CardID,
		CategoryID:    req.CategoryID,
		Type:          req.Type,
		Amount:        req.Amount,
		Date:          req.Date,
		Description:   req.Description,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
	}
	created, err := f.store.CreateTransactions(ctx, []domain.Transaction{tx})
	if err != nil {
		return nil, err
	}
	f.invalidate(userID)
	return &created[0], nil
}

func validateTransaction(req *domain.CreateTransactionRequest) error {
	switch req.Type {
	case domain.TransactionIncome, domain.TransactionExpense, domain.TransactionTransfer:
	default:
		return &domain.ErrValidation{Field: "type", Message: fmt.Sprintf("unknown transaction type %q", req.Type)}
	}
	if !req.Amount.IsPositive() {
		return &domain.ErrValidation{Field: "amount", Message: "amount must be positive"}
	}
	if req.Date.IsZero() {
		return &domain.ErrValidation{Field: "date", Message: "date is required"}
	}
	if req.Type == domain.TransactionTransfer && req.CardID == "" {
		if req.FromAccountID == "" || req.ToAccountID == "" {
			return &domain.ErrValidation{Field: "from_account_id", Message: "transfers require from_account_id and to_account_id"}
		}
	}
	return nil
}

// CreateCardPurchase records a card purchase, expanding installments into one
// EXPENSE row per month. The amount splits evenly to the cent; any remainder
// lands on the last installment so the rows always sum to the purchase total.
func (f *Finance) CreateCardPurchase(ctx context.Context, userID, cardID string, req *domain.CardPurchaseRequest) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Finance.CreateCardPurchase")
	defer span.End()

	if !req.Amount.IsPositive() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "amount must be positive"}
	}
	installments := req.Installments
	if installments <= 0 {
		installments = 1
	}
	if installments > 48 {
		return nil, &domain.ErrValidation{Field: "installments", Message: "installments must be at most 48"}
	}

	// Card must exist and belong to the user.
	if _, err := f.store.GetCard(ctx, userID, cardID); err != nil {
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		return nil, &domain.ErrValidation{Field: "date", Message: "date is required"}
	}

	n := decimal.NewFromInt(int64(installments))
	base := req.Amount.Div(n).RoundDown(2)
	last := req.Amount.Sub(base.Mul(decimal.NewFromInt(int64(installments - 1))))

	purchaseID := uuid.NewString()
	rows := make([]domain.Transaction, 0, installments)
	for i := 0; i < installments; i++ {
		amount := base
		if i == installments-1 {
			amount = last
		}
		description := req.Description
		if installments > 1 {
			description = fmt.Sprintf("%s (%d/%d)", req.Description, i+1, installments)
		}
		rows = append(rows, domain.Transaction{
			ID:                uuid.NewString(),
			UserID:            userID,
			CardID:            cardID,
			CategoryID:        req.CategoryID,
			Type:              domain.TransactionExpense,
			Amount:            amount,
			Date:              date.AddMonths(i),
			Description:       description,
			InstallmentNumber: i + 1,
			TotalInstallments: installments,
			PurchaseID:        purchaseID,
		})
	}

	created, err := f.store.CreateTransactions(ctx, rows)
	if err != nil {
		return nil, err
	}
	f.invalidate(userID)
	f.logger.Info("card purchase recorded",
		zap.String("card_id", cardID),
		zap.Int("installments", installments),
	)
	return created, nil
}

func (f *Finance) UpdateTransaction(ctx context.Context, userID, transactionID string, req *domain.UpdateTransactionRequest) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Finance.UpdateTransaction")
	defer span.End()

	updates := map[string]any{}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, &domain.ErrValidation{Field: "amount", Message: "amount must be positive"}
		}
		updates["amount"] = *req.Amount
	}
	if req.Date != nil {
		updates["date"] = req.Date.Format("2006-01-02")
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if len(updates) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "no fields to update"}
	}

	updated, err := f.store.UpdateTransaction(ctx, userID, transactionID, updates)
	if err != nil {
		return nil, err
	}
	f.invalidate(userID)
	return updated, nil
}

func (f *Finance) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	ctx, span := tracer.Start(ctx, "Finance.DeleteTransaction")
	defer span.End()

	if err := f.store.DeleteTransaction(ctx, userID, transactionID); err != nil {
		return err
	}
	f.invalidate(userID)
	return nil
}

// --- Recurring items ---

func (f *Finance) ListRecurrings(ctx context.Context, userID string) ([]domain.RecurringItem, error) {
	ctx, span := tracer.Start(ctx, "Finance.ListRecurrings")
	defer span.End()
	return f.store.ListRecurrings(ctx, userID)
}

func (f *Finance) CreateRecurring(ctx context.Context, userID string, req *domain.CreateRecurringRequest) (*domain.RecurringItem, error) {
	ctx, span := tracer.Start(ctx, "Finance.CreateRecurring")
	defer span.End()

	switch req.Frequency {
	case domain.FrequencyWeekly, domain.FrequencyMonthly, domain.FrequencyYearly:
	default:
		return nil, &domain.ErrValidation{Field: "frequency", Message: fmt.Sprintf("unknown frequency %q", req.Frequency)}
	}
	if req.Type != domain.TransactionIncome && req.Type != domain.TransactionExpense {
		return nil, &domain.ErrValidation{Field: "type", Message: "recurring items must be INCOME or EXPENSE"}
	}
	if !req.Amount.IsPositive() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "amount must be positive"}
	}
	if req.StartDate.IsZero() {
		return nil, &domain.ErrValidation{Field: "start_date", Message: "start_date is required"}
	}
	if req.EndDate != nil && !req.EndDate.After(req.StartDate.Time) {
		return nil, &domain.ErrValidation{Field: "end_date", Message: "end_date must be after start_date"}
	}

	item := &domain.RecurringItem{
		ID:          uuid.NewString(),
		UserID:      userID,
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		Amount:      req.Amount,
		Frequency:   req.Frequency,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
	}
	created, err := f.store.CreateRecurring(ctx, item)
	if err != nil {
		return nil, err
	}
	f.invalidate(userID)
	return created, nil
}

func (f *Finance) DeleteRecurring(ctx context.Context, userID, recurringID string) error {
	ctx, span := tracer.Start(ctx, "Finance.DeleteRecurring")
	defer span.End()

	if err := f.store.DeleteRecurring(ctx, userID, recurringID); err != nil {
		return err
	}
	f.invalidate(userID)
	return nil
}

// --- Cards ---

func (f *Finance) ListCards(ctx context.Context, userID string) ([]domain.Card, error) {
	ctx, span := tracer.Start(ctx, "Finance.ListCards")
	defer span.End()
	return f.store.ListCards(ctx, userID)
}

func (f *Finance) CreateCard(ctx context.Context, userID string, req *domain.CreateCardRequest) (*domain.Card, error) {
	ctx, span := tracer.Start(ctx, "Finance.CreateCard")
	defer span.End()

	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if req.ClosingDay < 1 || req.ClosingDay > 31 {
		return nil, &domain.ErrValidation{Field: "closing_day", Message: "closing_day must be between 1 and 31"}
	}
	if req.DueDay < 1 || req.DueDay > 31 {
		return nil, &domain.ErrValidation{Field: "due_day", Message: "due_day must be between 1 and 31"}
	}
	if req.DueDay == req.ClosingDay {
		return nil, &domain.ErrValidation{Field: "due_day", Message: "due_day must differ from closing_day"}
	}

	card := &domain.Card{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        req.Name,
		LimitAmount: req.LimitAmount,
		ClosingDay:  req.ClosingDay,
		DueDay:      req.DueDay,
	}
	created, err := f.store.CreateCard(ctx, card)
	if err != nil {
		return nil, err
	}
	f.invalidate(userID)
	return created, nil
}

func (f *Finance) DeleteCard(ctx context.Context, userID, cardID string) error {
	ctx, span := tracer.Start(ctx, "Finance.DeleteCard")
	defer span.End()

	if err := f.store.DeleteCard(ctx, userID, cardID); err != nil {
		return err
	}
	f.invalidate(userID)
	return nil
}

// --- Budget & categories ---

// GetBudget returns the budget for a "YYYY-MM" month, or nil when the user
// never set one.
func (f *Finance) GetBudget(ctx context.Context, userID, monthYear string) (*domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Finance.GetBudget")
	defer span.End()

	budget, err := f.store.GetBudget(ctx, userID, monthYear)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	return budget, nil
}

func (f *Finance) UpsertBudget(ctx context.Context, userID, monthYear string, req *domain.UpsertBudgetRequest) (*domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Finance.UpsertBudget")
	defer span.End()

	if !req.Amount.IsPositive() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "amount must be positive"}
	}

	budget := &domain.Budget{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    req.Amount,
		MonthYear: monthYear,
	}
	stored, err := f.store.UpsertBudget(ctx, budget)
	if err != nil {
		return nil, err
	}
	f.invalidate(userID)
	return stored, nil
}

func (f *Finance) ListCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Finance.ListCategories")
	defer span.End()
	return f.store.ListCategories(ctx)
}
