package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gfranca/grana-go/internal/domain"
	"github.com/gfranca/grana-go/internal/infra/observability"
	"github.com/gfranca/grana-go/internal/infra/resilience"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func newTestStore(t *testing.T, handler http.Handler) (*Store, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cb := resilience.NewCircuitBreaker("test")
	cfg := resilience.Config{MaxRetries: 0, InitialBackoff: time.Millisecond}
	client := NewClient(&http.Client{Timeout: 2 * time.Second}, server.URL, "anon-key", "service-key", cb, cfg, observability.NewMetrics(), zap.NewNop())
	return NewStore(client), server
}

func TestStore_ListAccounts(t *testing.T) {
	var gotPath, gotAPIKey, gotAuth string
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"acc-1","user_id":"u1","name":"Nubank","type":"CHECKING","initial_balance":"1500.50"}]`))
	}))

	accounts, err := store.ListAccounts(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	if accounts[0].Name != "Nubank" {
		t.Errorf("expected name 'Nubank', got %q", accounts[0].Name)
	}
	if !accounts[0].InitialBalance.Equal(decimalFromString(t, "1500.50")) {
		t.Errorf("unexpected balance: %s", accounts[0].InitialBalance)
	}
	if gotPath != "/rest/v1/accounts?user_id=eq.u1&order=created_at.asc" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotAPIKey != "anon-key" {
		t.Errorf("expected apikey header, got %q", gotAPIKey)
	}
	if gotAuth != "Bearer service-key" {
		t.Errorf("expected service-role bearer, got %q", gotAuth)
	}
}

func TestStore_ListTransactionsBetween(t *testing.T) {
	var gotPath string
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		w.Write([]byte(`[]`))
	}))

	from := domain.NewDate(2026, time.March, 1)
	to := domain.NewDate(2026, time.April, 1)
	txs, err := store.ListTransactionsBetween(context.Background(), "u1", from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("expected empty result, got %d", len(txs))
	}
	want := "/rest/v1/transactions?user_id=eq.u1&date=gte.2026-03-01&date=lt.2026-04-01&order=date.asc"
	if gotPath != want {
		t.Errorf("path mismatch:\n got %s\nwant %s", gotPath, want)
	}
}

func TestStore_UpsertBudget_SendsMergePrefer(t *testing.T) {
	var gotPrefer, gotPath string
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrefer = r.Header.Get("Prefer")
		gotPath = r.URL.String()
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"b1","user_id":"u1","amount":"3000","month_year":"2026-03"}]`))
	}))

	budget := &domain.Budget{UserID: "u1", Amount: decimalFromString(t, "3000"), MonthYear: "2026-03"}
	stored, err := store.UpsertBudget(context.Background(), budget)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.ID != "b1" {
		t.Errorf("expected stored row back, got %+v", stored)
	}
	if gotPrefer != "return=representation,resolution=merge-duplicates" {
		t.Errorf("unexpected Prefer header: %q", gotPrefer)
	}
	if gotPath != "/rest/v1/budgets?on_conflict=user_id,month_year" {
		t.Errorf("unexpected path: %s", gotPath)
	}
}

func TestStore_GetCard_NotFound(t *testing.T) {
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	_, err := store.GetCard(context.Background(), "u1", "missing")
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if notFound.Resource != "card" {
		t.Errorf("expected resource 'card', got %q", notFound.Resource)
	}
}

func TestStore_ServerErrorWrapped(t *testing.T) {
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	}))

	_, err := store.ListCards(context.Background(), "u1")
	var external *domain.ErrExternalService
	if !errors.As(err, &external) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
	if external.Service != "supabase" {
		t.Errorf("expected service 'supabase', got %q", external.Service)
	}
}

func TestStore_CreateUser_Conflict(t *testing.T) {
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"duplicate key value violates unique constraint"}`))
	}))

	_, err := store.CreateUser(context.Background(), &domain.User{Email: "a@b.com"})
	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
