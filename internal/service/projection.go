package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gfranca/grana-go/internal/domain"
	"github.com/gfranca/grana-go/internal/infra/observability"
	"github.com/gfranca/grana-go/internal/port"
	"github.com/gfranca/grana-go/internal/projection"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Projection serves the derived read models: forecast, invoices, smart
// budget and the dashboard summary. Results are cached per user until the
// next mutation invalidates them.
type Projection struct {
	store   port.FinanceStore
	cache   port.Cache[any]
	metrics *observability.Metrics
	logger  *zap.Logger

	// defaultMonths is the horizon used when a request does not name one.
	defaultMonths int

	// now is injectable for tests.
	now func() domain.Date
}

// NewProjection creates the projection service. defaultMonths <= 0 falls
// back to the package default horizon.
func NewProjection(store port.FinanceStore, cache port.Cache[any], metrics *observability.Metrics, logger *zap.Logger, defaultMonths int) *Projection {
	if defaultMonths <= 0 {
		defaultMonths = projection.DefaultMonths
	}
	return &Projection{
		store:         store,
		cache:         cache,
		metrics:       metrics,
		logger:        logger,
		defaultMonths: defaultMonths,
		now:           func() domain.Date { return domain.DateOf(time.Now()) },
	}
}

// snapshot is everything the forecast needs, loaded in one parallel pass.
type snapshot struct {
	accounts     []domain.Account
	recurrings   []domain.RecurringItem
	transactions []domain.Transaction
}

func (p *Projection) loadSnapshot(ctx context.Context, userID string) (*snapshot, error) {
	var snap snapshot
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		accounts, err := p.store.ListAccounts(gCtx, userID)
		if err != nil {
			return fmt.Errorf("load accounts: %w", err)
		}
		snap.accounts = accounts
		return nil
	})
	g.Go(func() error {
		recurrings, err := p.store.ListRecurrings(gCtx, userID)
		if err != nil {
			return fmt.Errorf("load recurrings: %w", err)
		}
		snap.recurrings = recurrings
		return nil
	})
	g.Go(func() error {
		transactions, err := p.store.ListTransactions(gCtx, userID)
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		snap.transactions = transactions
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Forecast projects the user's balance for the coming months. Plain
// forecasts (no simulated items) are cached; simulations are always computed
// fresh and never stored.
func (p *Projection) Forecast(ctx context.Context, userID string, req *domain.ForecastRequest) ([]domain.MonthlyForecast, error) {
	ctx, span := tracer.Start(ctx, "Projection.Forecast")
	defer span.End()

	start := time.Now()
	defer func() {
		p.metrics.RecordRequestDuration("forecast", time.Since(start))
	}()

	months := req.Months
	if months <= 0 {
		months = p.defaultMonths
	}
	plain := len(req.Simulated) == 0

	cacheKey := fmt.Sprintf("%s/forecast/%d", userID, months)
	if plain {
		if cached, ok := p.cache.Get(cacheKey); ok {
			if forecast, ok := cached.([]domain.MonthlyForecast); ok {
				p.metrics.IncrCacheHit("forecast")
				return forecast, nil
			}
		}
		p.metrics.IncrCacheMiss("forecast")
	}

	snap, err := p.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	forecast := projection.Forecast(snap.accounts, snap.recurrings, snap.transactions, req.Simulated, months, p.now())
	p.metrics.IncrProjectionRun("forecast")

	if plain {
		p.cache.Set(cacheKey, forecast)
	}
	return forecast, nil
}

// CardInvoices derives the invoice cycle of one card.
func (p *Projection) CardInvoices(ctx context.Context, userID, cardID string, months int) ([]domain.Invoice, error) {
	ctx, span := tracer.Start(ctx, "Projection.CardInvoices")
	defer span.End()

	if months <= 0 {
		months = p.defaultMonths
	}

	cacheKey := fmt.Sprintf("%s/invoices/%s/%d", userID, cardID, months)
	if cached, ok := p.cache.Get(cacheKey); ok {
		if invoices, ok := cached.([]domain.Invoice); ok {
			p.metrics.IncrCacheHit("invoices")
			return invoices, nil
		}
	}
	p.metrics.IncrCacheMiss("invoices")

	var (
		card *domain.Card
		txs  []domain.Transaction
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := p.store.GetCard(gCtx, userID, cardID)
		if err != nil {
			return err
		}
		card = c
		return nil
	})
	g.Go(func() error {
		t, err := p.store.ListTransactions(gCtx, userID)
		if err != nil {
			return err
		}
		txs = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	invoices := projection.Invoices(*card, txs, months, p.now())
	p.metrics.IncrProjectionRun("invoices")
	p.cache.Set(cacheKey, invoices)
	return invoices, nil
}

// SmartBudget computes the adaptive daily spending limit for the current
// month. Returns nil when the user has no budget set.
func (p *Projection) SmartBudget(ctx context.Context, userID string) (*domain.SmartBudgetResult, error) {
	ctx, span := tracer.Start(ctx, "Projection.SmartBudget")
	defer span.End()

	today := p.now()
	budget, err := p.store.GetBudget(ctx, userID, today.MonthKey())
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}

	monthStart := today.MonthStart()
	nextMonth := monthStart.AddMonths(1)
	txs, err := p.store.ListTransactionsBetween(ctx, userID, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}

	totalExpenses, expensesToday := monthExpenses(txs, today)

	result := projection.SmartBudget(budget.Amount, totalExpenses, expensesToday, today)
	p.metrics.IncrProjectionRun("smart_budget")
	return &result, nil
}

// Dashboard aggregates the landing-page summary in one call.
func (p *Projection) Dashboard(ctx context.Context, userID string) (*domain.DashboardSummary, error) {
	ctx, span := tracer.Start(ctx, "Projection.Dashboard")
	defer span.End()

	start := time.Now()
	defer func() {
		p.metrics.RecordRequestDuration("dashboard", time.Since(start))
	}()

	cacheKey := userID + "/dashboard"
	if cached, ok := p.cache.Get(cacheKey); ok {
		if summary, ok := cached.(*domain.DashboardSummary); ok {
			p.metrics.IncrCacheHit("dashboard")
			return summary, nil
		}
	}
	p.metrics.IncrCacheMiss("dashboard")

	today := p.now()

	var (
		snap   *snapshot
		budget *domain.Budget
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := p.loadSnapshot(gCtx, userID)
		if err != nil {
			return err
		}
		snap = s
		return nil
	})
	g.Go(func() error {
		b, err := p.store.GetBudget(gCtx, userID, today.MonthKey())
		if err != nil {
			var notFound *domain.ErrNotFound
			if errors.As(err, &notFound) {
				return nil
			}
			return err
		}
		budget = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := buildDashboard(snap, budget, today)
	p.metrics.IncrProjectionRun("dashboard")
	p.cache.Set(cacheKey, summary)
	return summary, nil
}

// buildDashboard folds the snapshot into the landing-page numbers. The total
// balance is the sum of account initial balances plus every settled income
// and expense up to today.
func buildDashboard(snap *snapshot, budget *domain.Budget, today domain.Date) *domain.DashboardSummary {
	total := decimal.Zero
	for _, acc := range snap.accounts {
		total = total.Add(acc.InitialBalance)
	}

	monthStart := today.MonthStart()
	nextMonth := monthStart.AddMonths(1)

	monthlyIncome := decimal.Zero
	monthlyExpense := decimal.Zero
	expensesToday := decimal.Zero

	for _, tx := range snap.transactions {
		if !tx.Date.After(today.Time) {
			switch tx.Type {
			case domain.TransactionIncome:
				total = total.Add(tx.Amount)
			case domain.TransactionExpense:
				total = total.Sub(tx.Amount)
			}
		}

		inMonth := !tx.Date.Before(monthStart.Time) && tx.Date.Before(nextMonth.Time)
		if inMonth {
			switch tx.Type {
			case domain.TransactionIncome:
				monthlyIncome = monthlyIncome.Add(tx.Amount)
			case domain.TransactionExpense:
				monthlyExpense = monthlyExpense.Add(tx.Amount)
			}
		}
		if tx.Type == domain.TransactionExpense && tx.Date.Equal(today.Time) {
			expensesToday = expensesToday.Add(tx.Amount)
		}
	}

	recent := snap.transactions
	if len(recent) > 5 {
		recent = recent[:5]
	}

	summary := &domain.DashboardSummary{
		TotalBalance:       total,
		MonthlyIncome:      monthlyIncome,
		MonthlyExpense:     monthlyExpense,
		ExpensesToday:      expensesToday,
		RecentTransactions: recent,
	}
	if budget != nil {
		sb := projection.SmartBudget(budget.Amount, monthlyExpense, expensesToday, today)
		summary.SmartBudget = &sb
	}
	return summary
}

// monthExpenses sums the month's EXPENSE rows and, separately, the ones
// dated exactly today.
func monthExpenses(txs []domain.Transaction, today domain.Date) (total, todayOnly decimal.Decimal) {
	total = decimal.Zero
	todayOnly = decimal.Zero
	for _, tx := range txs {
		if tx.Type != domain.TransactionExpense {
			continue
		}
		total = total.Add(tx.Amount)
		if tx.Date.Equal(today.Time) {
			todayOnly = todayOnly.Add(tx.Amount)
		}
	}
	return total, todayOnly
}
