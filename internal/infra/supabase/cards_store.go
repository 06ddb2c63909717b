package supabase

import (
	"context"
	"fmt"

	"github.com/gfranca/grana-go/internal/domain"
)

// ListCards returns the user's credit cards.
func (s *Store) ListCards(ctx context.Context, userID string) ([]domain.Card, error) {
	ctx, span := tracer.Start(ctx, "Store.ListCards")
	defer span.End()

	path := fmt.Sprintf("cards?user_id=eq.%s&order=name.asc", userID)
	body, err := s.client.doGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return decodeRows[domain.Card](body, "cards")
}

// GetCard fetches a single card by ID.
func (s *Store) GetCard(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	ctx, span := tracer.Start(ctx, "Store.GetCard")
	defer span.End()

	path := fmt.Sprintf("cards?id=eq.%s&user_id=eq.%s", cardID, userID)
	body, err := s.client.doGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	rows, err := decodeRows[domain.Card](body, "cards")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "card", ID: cardID}
	}
	return &rows[0], nil
}

// CreateCard inserts a card and returns the stored row.
func (s *Store) CreateCard(ctx context.Context, card *domain.Card) (*domain.Card, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateCard")
	defer span.End()

	body, err := s.client.doPost(ctx, "cards", card)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	rows, err := decodeRows[domain.Card](body, "cards")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: fmt.Errorf("insert returned no row")}
	}
	return &rows[0], nil
}

// DeleteCard removes the card.
func (s *Store) DeleteCard(ctx context.Context, userID, cardID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteCard")
	defer span.End()

	path := fmt.Sprintf("cards?id=eq.%s&user_id=eq.%s", cardID, userID)
	if err := s.client.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}
