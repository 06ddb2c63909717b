package service

import (
	"context"

	"github.com/gfranca/grana-go/internal/domain"
)

// mockFinanceStore is a hand-rolled FinanceStore. Set only the function
// fields a test needs; the rest return zero values.
type mockFinanceStore struct {
	listAccountsFn    func(ctx context.Context, userID string) ([]domain.Account, error)
	createAccountFn   func(ctx context.Context, account *domain.Account) (*domain.Account, error)
	listTxFn          func(ctx context.Context, userID string) ([]domain.Transaction, error)
	listTxBetweenFn   func(ctx context.Context, userID string, from, to domain.Date) ([]domain.Transaction, error)
	createTxFn        func(ctx context.Context, txs []domain.Transaction) ([]domain.Transaction, error)
	updateTxFn        func(ctx context.Context, userID, id string, updates map[string]any) (*domain.Transaction, error)
	listRecurringsFn  func(ctx context.Context, userID string) ([]domain.RecurringItem, error)
	listActiveFn      func(ctx context.Context, asOf domain.Date) ([]domain.RecurringItem, error)
	updateLastRunFn   func(ctx context.Context, recurringID string, ranOn domain.Date) error
	getCardFn         func(ctx context.Context, userID, cardID string) (*domain.Card, error)
	getBudgetFn       func(ctx context.Context, userID, monthYear string) (*domain.Budget, error)
	upsertBudgetFn    func(ctx context.Context, budget *domain.Budget) (*domain.Budget, error)
	deleteAccountErr  error
	deleteTxErr       error
	deleteRecurErr    error
	deleteCardErr     error
	listCategoriesRes []domain.Category
}

func (m *mockFinanceStore) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	if m.listAccountsFn != nil {
		return m.listAccountsFn(ctx, userID)
	}
	return []domain.Account{}, nil
}

func (m *mockFinanceStore) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(ctx, account)
	}
	return account, nil
}

func (m *mockFinanceStore) DeleteAccount(context.Context, string, string) error {
	return m.deleteAccountErr
}

func (m *mockFinanceStore) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	if m.listTxFn != nil {
		return m.listTxFn(ctx, userID)
	}
	return []domain.Transaction{}, nil
}

func (m *mockFinanceStore) ListTransactionsBetween(ctx context.Context, userID string, from, to domain.Date) ([]domain.Transaction, error) {
	if m.listTxBetweenFn != nil {
		return m.listTxBetweenFn(ctx, userID, from, to)
	}
	return []domain.Transaction{}, nil
}

func (m *mockFinanceStore) CreateTransactions(ctx context.Context, txs []domain.Transaction) ([]domain.Transaction, error) {
	if m.createTxFn != nil {
		return m.createTxFn(ctx, txs)
	}
	return txs, nil
}

func (m *mockFinanceStore) UpdateTransaction(ctx context.Context, userID, id string, updates map[string]any) (*domain.Transaction, error) {
	if m.updateTxFn != nil {
		return m.updateTxFn(ctx, userID, id, updates)
	}
	return &domain.Transaction{ID: id}, nil
}

func (m *mockFinanceStore) DeleteTransaction(context.Context, string, string) error {
	return m.deleteTxErr
}

func (m *mockFinanceStore) ListRecurrings(ctx context.Context, userID string) ([]domain.RecurringItem, error) {
	if m.listRecurringsFn != nil {
		return m.listRecurringsFn(ctx, userID)
	}
	return []domain.RecurringItem{}, nil
}

func (m *mockFinanceStore) ListActiveRecurrings(ctx context.Context, asOf domain.Date) ([]domain.RecurringItem, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, asOf)
	}
	return []domain.RecurringItem{}, nil
}

func (m *mockFinanceStore) CreateRecurring(ctx context.Context, item *domain.RecurringItem) (*domain.RecurringItem, error) {
	return item, nil
}

func (m *mockFinanceStore) DeleteRecurring(context.Context, string, string) error {
	return m.deleteRecurErr
}

func (m *mockFinanceStore) UpdateRecurringLastRun(ctx context.Context, recurringID string, ranOn domain.Date) error {
	if m.updateLastRunFn != nil {
		return m.updateLastRunFn(ctx, recurringID, ranOn)
	}
	return nil
}

func (m *mockFinanceStore) ListCards(context.Context, string) ([]domain.Card, error) {
	return []domain.Card{}, nil
}

func (m *mockFinanceStore) GetCard(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	if m.getCardFn != nil {
		return m.getCardFn(ctx, userID, cardID)
	}
	return &domain.Card{ID: cardID, UserID: userID}, nil
}

func (m *mockFinanceStore) CreateCard(ctx context.Context, card *domain.Card) (*domain.Card, error) {
	return card, nil
}

func (m *mockFinanceStore) DeleteCard(context.Context, string, string) error {
	return m.deleteCardErr
}

func (m *mockFinanceStore) GetBudget(ctx context.Context, userID, monthYear string) (*domain.Budget, error) {
	if m.getBudgetFn != nil {
		return m.getBudgetFn(ctx, userID, monthYear)
	}
	return nil, &domain.ErrNotFound{Resource: "budget", ID: monthYear}
}

func (m *mockFinanceStore) UpsertBudget(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	if m.upsertBudgetFn != nil {
		return m.upsertBudgetFn(ctx, budget)
	}
	return budget, nil
}

func (m *mockFinanceStore) ListCategories(context.Context) ([]domain.Category, error) {
	return m.listCategoriesRes, nil
}

// mockAuthStore keeps users and refresh tokens in maps.
type mockAuthStore struct {
	users  map[string]*domain.User // keyed by email
	tokens map[string]*domain.RefreshToken
}

func newMockAuthStore() *mockAuthStore {
	return &mockAuthStore{
		users:  map[string]*domain.User{},
		tokens: map[string]*domain.RefreshToken{},
	}
}

func (m *mockAuthStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, &domain.ErrNotFound{Resource: "user", ID: email}
}

func (m *mockAuthStore) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
}

func (m *mockAuthStore) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := m.users[user.Email]; ok {
		return nil, &domain.ErrConflict{Message: "email already registered"}
	}
	m.users[user.Email] = user
	return user, nil
}

func (m *mockAuthStore) StoreRefreshToken(_ context.Context, token *domain.RefreshToken) error {
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *mockAuthStore) GetRefreshToken(_ context.Context, tokenHash string) (*domain.RefreshToken, error) {
	if t, ok := m.tokens[tokenHash]; ok {
		return t, nil
	}
	return nil, &domain.ErrNotFound{Resource: "refresh_token", ID: tokenHash}
}

func (m *mockAuthStore) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	delete(m.tokens, tokenHash)
	return nil
}

func (m *mockAuthStore) RevokeAllRefreshTokens(_ context.Context, userID string) error {
	for hash, t := range m.tokens {
		if t.UserID == userID {
			delete(m.tokens, hash)
		}
	}
	return nil
}
