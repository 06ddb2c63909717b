package supabase

import (
	"context"
	"fmt"

	"github.com/gfranca/grana-go/internal/domain"
)

// ListTransactions returns the user's full transaction history, newest first.
func (s *Store) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Store.ListTransactions")
	defer span.End()

	path := fmt.Sprintf("transactions?user_id=eq.%s&order=date.desc", userID)
	body, err := s.client.doGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return decodeRows[domain.Transaction](body, "transactions")
}

// ListTransactionsBetween returns transactions with from <= date < to.
func (s *Store) ListTransactionsBetween(ctx context.Context, userID string, from, to domain.Date) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Store.ListTransactionsBetween")
	defer span.End()

	path := fmt.Sprintf("transactions?user_id=eq.%s&date=gte.%s&date=lt.%s&order=date.asc",
		userID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	body, err := s.client.doGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return decodeRows[domain.Transaction](body, "transactions")
}

// CreateTransactions inserts one or more transactions in a single request.
// Installment purchases arrive pre-expanded as a batch.
func (s *Store) CreateTransactions(ctx context.Context, transactions []domain.Transaction) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateTransactions")
	defer span.End()

	if len(transactions) == 0 {
		return []domain.Transaction{}, nil
	}
	body, err := s.client.doPost(ctx, "transactions", transactions)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	rows, err := decodeRows[domain.Transaction](body, "transactions")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: fmt.Errorf("insert returned no rows")}
	}
	return rows, nil
}

// UpdateTransaction patches the given columns and returns the updated row.
func (s *Store) UpdateTransaction(ctx context.Context, userID, transactionID string, updates map[string]any) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Store.UpdateTransaction")
	defer span.End()

	path := fmt.Sprintf("transactions?id=eq.%s&user_id=eq.%s", transactionID, userID)
	body, err := s.client.doPatch(ctx, path, updates)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	rows, err := decodeRows[domain.Transaction](body, "transactions")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: transactionID}
	}
	return &rows[0], nil
}

// DeleteTransaction removes a single transaction.
func (s *Store) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteTransaction")
	defer span.End()

	path := fmt.Sprintf("transactions?id=eq.%s&user_id=eq.%s", transactionID, userID)
	if err := s.client.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}
