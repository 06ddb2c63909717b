package supabase

import (
	"context"
	"fmt"
	"strings"

	"github.com/gfranca/grana-go/internal/domain"
)

// GetUserByEmail fetches a user by (lowercased) email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Store.GetUserByEmail")
	defer span.End()

	path := fmt.Sprintf("users?email=eq.%s", strings.ToLower(email))
	body, err := s.client.doGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	rows, err := decodeRows[domain.User](body, "users")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "user", ID: email}
	}
	return &rows[0], nil
}

// GetUserByID fetches a user by ID.
func (s *Store) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Store.GetUserByID")
	defer span.End()

	path := fmt.Sprintf("users?id=eq.%s", userID)
	body, err := s.client.doGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	rows, err := decodeRows[domain.User](body, "users")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}
	return &rows[0], nil
}

// CreateUser inserts a user row. The unique index on email surfaces
// duplicates as a 409 from PostgREST.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateUser")
	defer span.End()

	body, err := s.client.doPost(ctx, "users", user)
	if err != nil {
		if strings.Contains(err.Error(), "409") || strings.Contains(err.Error(), "duplicate") {
			return nil, &domain.ErrConflict{Message: "email already registered"}
		}
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	rows, err := decodeRows[domain.User](body, "users")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: fmt.Errorf("insert returned no row")}
	}
	return &rows[0], nil
}

// StoreRefreshToken persists a hashed refresh token.
func (s *Store) StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	ctx, span := tracer.Start(ctx, "Store.StoreRefreshToken")
	defer span.End()

	if _, err := s.client.doPost(ctx, "refresh_tokens", token); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}

// GetRefreshToken looks up a refresh token by its hash.
func (s *Store) GetRefreshToken(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	ctx, span := tracer.Start(ctx, "Store.GetRefreshToken")
	defer span.End()

	path := fmt.Sprintf("refresh_tokens?token_hash=eq.%s", tokenHash)
	body, err := s.client.doGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	rows, err := decodeRows[domain.RefreshToken](body, "refresh_tokens")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "refresh_token", ID: tokenHash}
	}
	return &rows[0], nil
}

// RevokeRefreshToken deletes a single refresh token.
func (s *Store) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	ctx, span := tracer.Start(ctx, "Store.RevokeRefreshToken")
	defer span.End()

	path := fmt.Sprintf("refresh_tokens?token_hash=eq.%s", tokenHash)
	if err := s.client.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}

// RevokeAllRefreshTokens deletes every refresh token of a user (logout-all).
func (s *Store) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "Store.RevokeAllRefreshTokens")
	defer span.End()

	path := fmt.Sprintf("refresh_tokens?user_id=eq.%s", userID)
	if err := s.client.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}
