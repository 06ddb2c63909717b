package supabase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gfranca/grana-go/internal/domain"
)

// GetBudget fetches the budget for a "YYYY-MM" month, or ErrNotFound if the
// user never set one for that month.
func (s *Store) GetBudget(ctx context.Context, userID, monthYear string) (*domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Store.GetBudget")
	defer span.End()

	path := fmt.Sprintf("budgets?user_id=eq.%s&month_year=eq.%s", userID, monthYear)
	body, err := s.client.doGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	rows, err := decodeRows[domain.Budget](body, "budgets")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "budget", ID: monthYear}
	}
	return &rows[0], nil
}

// UpsertBudget inserts or replaces the month's budget. PostgREST resolves the
// (user_id, month_year) conflict server-side.
func (s *Store) UpsertBudget(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Store.UpsertBudget")
	defer span.End()

	path := "budgets?on_conflict=user_id,month_year"
	body, err := s.client.doResilient(ctx, http.MethodPost, path, budget,
		"return=representation,resolution=merge-duplicates")
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	rows, err := decodeRows[domain.Budget](body, "budgets")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: fmt.Errorf("upsert returned no row")}
	}
	return &rows[0], nil
}

// ListCategories returns the shared category catalog.
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Store.ListCategories")
	defer span.End()

	body, err := s.client.doGet(ctx, "categories?order=name.asc")
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return decodeRows[domain.Category](body, "categories")
}
