package supabase

import (
	"context"
	"fmt"

	"github.com/gfranca/grana-go/internal/domain"
)

// ListRecurrings returns all recurring items for the user.
func (s *Store) ListRecurrings(ctx context.Context, userID string) ([]domain.RecurringItem, error) {
	ctx, span := tracer.Start(ctx, "Store.ListRecurrings")
	defer span.End()

	path := fmt.Sprintf("recurrings?user_id=eq.%s&order=start_date.asc", userID)
	body, err := s.client.doGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return decodeRows[domain.RecurringItem](body, "recurrings")
}

// ListActiveRecurrings returns, across all users, the items alive on asOf:
// started on or before it and not ended before it. Used by the daily
// materializer.
func (s *Store) ListActiveRecurrings(ctx context.Context, asOf domain.Date) ([]domain.RecurringItem, error) {
	ctx, span := tracer.Start(ctx, "Store.ListActiveRecurrings")
	defer span.End()

	day := asOf.Format("2006-01-02")
	path := fmt.Sprintf("recurrings?start_date=lte.%s&or=(end_date.is.null,end_date.gte.%s)", day, day)
	body, err := s.client.doGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return decodeRows[domain.RecurringItem](body, "recurrings")
}

// CreateRecurring inserts a recurring item and returns the stored row.
func (s *Store) CreateRecurring(ctx context.Context, item *domain.RecurringItem) (*domain.RecurringItem, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateRecurring")
	defer span.End()

	body, err := s.client.doPost(ctx, "recurrings", item)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	rows, err := decodeRows[domain.RecurringItem](body, "recurrings")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: fmt.Errorf("insert returned no row")}
	}
	return &rows[0], nil
}

// DeleteRecurring removes a recurring item.
func (s *Store) DeleteRecurring(ctx context.Context, userID, recurringID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteRecurring")
	defer span.End()

	path := fmt.Sprintf("recurrings?id=eq.%s&user_id=eq.%s", recurringID, userID)
	if err := s.client.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}

// UpdateRecurringLastRun marks the item as materialized on ranOn.
func (s *Store) UpdateRecurringLastRun(ctx context.Context, recurringID string, ranOn domain.Date) error {
	ctx, span := tracer.Start(ctx, "Store.UpdateRecurringLastRun")
	defer span.End()

	path := fmt.Sprintf("recurrings?id=eq.%s", recurringID)
	updates := map[string]any{"last_run_date": ranOn.Format("2006-01-02")}
	if _, err := s.client.doPatch(ctx, path, updates); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}
