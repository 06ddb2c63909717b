package supabase

import (
	"context"
	"fmt"

	"github.com/gfranca/grana-go/internal/domain"
)

// ListAccounts returns all accounts owned by the user.
func (s *Store) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Store.ListAccounts")
	defer span.End()

	path := fmt.Sprintf("accounts?user_id=eq.%s&order=created_at.asc", userID)
	body, err := s.client.doGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return decodeRows[domain.Account](body, "accounts")
}

// CreateAccount inserts an account and returns the stored row.
func (s *Store) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateAccount")
	defer span.End()

	body, err := s.client.doPost(ctx, "accounts", account)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	rows, err := decodeRows[domain.Account](body, "accounts")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: fmt.Errorf("insert returned no row")}
	}
	return &rows[0], nil
}

// DeleteAccount removes the account. The user_id filter keeps one user from
// deleting another's row.
func (s *Store) DeleteAccount(ctx context.Context, userID, accountID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteAccount")
	defer span.End()

	path := fmt.Sprintf("accounts?id=eq.%s&user_id=eq.%s", accountID, userID)
	if err := s.client.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}
