// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/gfranca/grana-go/internal/domain"
)

// FinanceStore defines all data operations for the tracker's entities.
// Implemented by the Supabase adapter (or any other persistence layer).
type FinanceStore interface {
	// Accounts
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	DeleteAccount(ctx context.Context, userID, accountID string) error

	// Transactions
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
	ListTransactionsBetween(ctx context.Context, userID string, from, to domain.Date) ([]domain.Transaction, error)
	CreateTransactions(ctx context.Context, transactions []domain.Transaction) ([]domain.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, updates map[string]any) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error

	// Recurring items
	ListRecurrings(ctx context.Context, userID string) ([]domain.RecurringItem, error)
	ListActiveRecurrings(ctx context.Context, asOf domain.Date) ([]domain.RecurringItem, error)
	CreateRecurring(ctx context.Context, item *domain.RecurringItem) (*domain.RecurringItem, error)
	DeleteRecurring(ctx context.Context, userID, recurringID string) error
	UpdateRecurringLastRun(ctx context.Context, recurringID string, ranOn domain.Date) error

	// Cards
	ListCards(ctx context.Context, userID string) ([]domain.Card, error)
	GetCard(ctx context.Context, userID, cardID string) (*domain.Card, error)
	CreateCard(ctx context.Context, card *domain.Card) (*domain.Card, error)
	DeleteCard(ctx context.Context, userID, cardID string) error

	// Budgets
	GetBudget(ctx context.Context, userID, monthYear string) (*domain.Budget, error)
	UpsertBudget(ctx context.Context, budget *domain.Budget) (*domain.Budget, error)

	// Categories
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// AuthStore handles user credentials and refresh tokens.
type AuthStore interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID string) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	DeletePrefix(prefix string)
}
