package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gfranca/grana-go/internal/domain"
	"github.com/gfranca/grana-go/internal/infra/cache"
	"github.com/gfranca/grana-go/internal/infra/observability"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newFinance(store *mockFinanceStore) (*Finance, *cache.InMemory[any]) {
	c := cache.New[any](5 * time.Minute)
	return NewFinance(store, c, observability.NewMetrics(), zap.NewNop()), c
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestCreateAccount_Validation(t *testing.T) {
	svc, _ := newFinance(&mockFinanceStore{})

	_, err := svc.CreateAccount(context.Background(), "u1", &domain.CreateAccountRequest{Type: domain.AccountChecking})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation for empty name, got %v", err)
	}

	_, err = svc.CreateAccount(context.Background(), "u1", &domain.CreateAccountRequest{Name: "X", Type: "WALLET"})
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation for bad type, got %v", err)
	}
}

func TestCreateAccount_InvalidatesUserCache(t *testing.T) {
	store := &mockFinanceStore{}
	svc, c := newFinance(store)
	c.Set("u1/forecast/12", "stale")
	c.Set("u2/forecast/12", "other user")

	_, err := svc.CreateAccount(context.Background(), "u1", &domain.CreateAccountRequest{
		Name: "Nubank", Type: domain.AccountChecking, InitialBalance: dec(100),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.Get("u1/forecast/12"); ok {
		t.Error("expected u1 cache to be invalidated")
	}
	if _, ok := c.Get("u2/forecast/12"); !ok {
		t.Error("expected u2 cache to survive")
	}
}

func TestCreateTransaction_TransferRequiresEndpoints(t *testing.T) {
	svc, _ := newFinance(&mockFinanceStore{})

	_, err := svc.CreateTransaction(context.Background(), "u1", &domain.CreateTransactionRequest{
		Type:   domain.TransactionTransfer,
		Amount: dec(50),
		Date:   domain.NewDate(2026, time.March, 1),
	})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateCardPurchase_SplitsInstallmentsExactly(t *testing.T) {
	var created []domain.Transaction
	store := &mockFinanceStore{
		createTxFn: func(_ context.Context, txs []domain.Transaction) ([]domain.Transaction, error) {
			created = txs
			return txs, nil
		},
	}
	svc, _ := newFinance(store)

	_, err := svc.CreateCardPurchase(context.Background(), "u1", "card-1", &domain.CardPurchaseRequest{
		Amount:       dec(100),
		Date:         domain.NewDate(2026, time.January, 10),
		Description:  "Notebook",
		Installments: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 installments, got %d", len(created))
	}

	// 100/3 floors to 33.33; the last row absorbs the remainder.
	if !created[0].Amount.Equal(dec(33.33)) || !created[1].Amount.Equal(dec(33.33)) {
		t.Errorf("unexpected base installments: %s, %s", created[0].Amount, created[1].Amount)
	}
	if !created[2].Amount.Equal(dec(33.34)) {
		t.Errorf("expected last installment 33.34, got %s", created[2].Amount)
	}

	sum := decimal.Zero
	for _, tx := range created {
		sum = sum.Add(tx.Amount)
	}
	if !sum.Equal(dec(100)) {
		t.Errorf("installments must sum to the purchase total, got %s", sum)
	}

	for i, tx := range created {
		wantDate := domain.NewDate(2026, time.January, 10).AddMonths(i)
		if !tx.Date.Equal(wantDate.Time) {
			t.Errorf("installment %d: expected date %s, got %s", i+1, wantDate, tx.Date)
		}
		if tx.PurchaseID != created[0].PurchaseID {
			t.Error("all installments must share a purchase_id")
		}
		if tx.InstallmentNumber != i+1 || tx.TotalInstallments != 3 {
			t.Errorf("installment %d: bad numbering %d/%d", i+1, tx.InstallmentNumber, tx.TotalInstallments)
		}
		wantDesc := fmt.Sprintf("Notebook (%d/3)", i+1)
		if tx.Description != wantDesc {
			t.Errorf("installment %d: expected description %q, got %q", i+1, wantDesc, tx.Description)
		}
		if tx.Type != domain.TransactionExpense {
			t.Errorf("installment %d: expected EXPENSE, got %s", i+1, tx.Type)
		}
	}
}

func TestCreateCardPurchase_SingleInstallmentKeepsDescription(t *testing.T) {
	var created []domain.Transaction
	store := &mockFinanceStore{
		createTxFn: func(_ context.Context, txs []domain.Transaction) ([]domain.Transaction, error) {
			created = txs
			return txs, nil
		},
	}
	svc, _ := newFinance(store)

	_, err := svc.CreateCardPurchase(context.Background(), "u1", "card-1", &domain.CardPurchaseRequest{
		Amount:      dec(59.9),
		Date:        domain.NewDate(2026, time.January, 10),
		Description: "Streaming",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 row, got %d", len(created))
	}
	if created[0].Description != "Streaming" {
		t.Errorf("single installment must keep the plain description, got %q", created[0].Description)
	}
	if !created[0].Amount.Equal(dec(59.9)) {
		t.Errorf("expected full amount, got %s", created[0].Amount)
	}
}

func TestCreateCardPurchase_UnknownCard(t *testing.T) {
	store := &mockFinanceStore{
		getCardFn: func(_ context.Context, _, cardID string) (*domain.Card, error) {
			return nil, &domain.ErrNotFound{Resource: "card", ID: cardID}
		},
	}
	svc, _ := newFinance(store)

	_, err := svc.CreateCardPurchase(context.Background(), "u1", "nope", &domain.CardPurchaseRequest{
		Amount: dec(10),
		Date:   domain.NewDate(2026, time.January, 10),
	})
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTransaction_BuildsPartialPatch(t *testing.T) {
	var gotUpdates map[string]any
	store := &mockFinanceStore{
		updateTxFn: func(_ context.Context, _, id string, updates map[string]any) (*domain.Transaction, error) {
			gotUpdates = updates
			return &domain.Transaction{ID: id}, nil
		},
	}
	svc, _ := newFinance(store)

	amount := dec(42.5)
	_, err := svc.UpdateTransaction(context.Background(), "u1", "tx-1", &domain.UpdateTransactionRequest{
		Amount: &amount,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotUpdates) != 1 {
		t.Fatalf("expected a single-column patch, got %v", gotUpdates)
	}
	if _, ok := gotUpdates["amount"]; !ok {
		t.Errorf("expected amount in patch, got %v", gotUpdates)
	}
}

func TestUpdateTransaction_EmptyPatchRejected(t *testing.T) {
	svc, _ := newFinance(&mockFinanceStore{})

	_, err := svc.UpdateTransaction(context.Background(), "u1", "tx-1", &domain.UpdateTransactionRequest{})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateRecurring_EndBeforeStartRejected(t *testing.T) {
	svc, _ := newFinance(&mockFinanceStore{})

	end := domain.NewDate(2026, time.January, 1)
	_, err := svc.CreateRecurring(context.Background(), "u1", &domain.CreateRecurringRequest{
		Type:      domain.TransactionExpense,
		Amount:    dec(100),
		Frequency: domain.FrequencyMonthly,
		StartDate: domain.NewDate(2026, time.June, 1),
		EndDate:   &end,
	})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateCard_DayValidation(t *testing.T) {
	svc, _ := newFinance(&mockFinanceStore{})

	cases := []domain.CreateCardRequest{
		{Name: "C", LimitAmount: dec(1000), ClosingDay: 0, DueDay: 10},
		{Name: "C", LimitAmount: dec(1000), ClosingDay: 5, DueDay: 32},
		{Name: "C", LimitAmount: dec(1000), ClosingDay: 10, DueDay: 10},
	}
	for i, req := range cases {
		_, err := svc.CreateCard(context.Background(), "u1", &req)
		var validation *domain.ErrValidation
		if !errors.As(err, &validation) {
			t.Errorf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestGetBudget_NotFoundMeansNil(t *testing.T) {
	svc, _ := newFinance(&mockFinanceStore{})

	budget, err := svc.GetBudget(context.Background(), "u1", "2026-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if budget != nil {
		t.Errorf("expected nil budget, got %+v", budget)
	}
}
