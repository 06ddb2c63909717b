package service

import (
	"context"
	"time"

	"github.com/gfranca/grana-go/internal/domain"
	"github.com/gfranca/grana-go/internal/infra/observability"
	"github.com/gfranca/grana-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var recurringTracer = otel.Tracer("service/recurring")

// RecurringProcessor materializes due recurring items into real transactions.
// It runs on a cron schedule (daily by default) and is idempotent within a
// day: an item whose last_run_date is already today is skipped.
type RecurringProcessor struct {
	store   port.FinanceStore
	cache   port.Cache[any]
	metrics *observability.Metrics
	logger  *zap.Logger

	// now is injectable for tests.
	now func() domain.Date
}

// NewRecurringProcessor creates the processor.
func NewRecurringProcessor(store port.FinanceStore, cache port.Cache[any], metrics *observability.Metrics, logger *zap.Logger) *RecurringProcessor {
	return &RecurringProcessor{
		store:   store,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		now:     func() domain.Date { return domain.DateOf(time.Now()) },
	}
}

// Run materializes everything due today across all users. Item failures are
// logged and skipped so one bad row cannot stall the whole batch.
func (r *RecurringProcessor) Run(ctx context.Context) error {
	ctx, span := recurringTracer.Start(ctx, "RecurringProcessor.Run")
	defer span.End()

	today := r.now()
	items, err := r.store.ListActiveRecurrings(ctx, today)
	if err != nil {
		return err
	}

	processed := 0
	touched := map[string]struct{}{}
	for _, item := range items {
		if !dueOn(item, today) {
			continue
		}
		if item.LastRunDate != nil && !item.LastRunDate.Before(today.Time) {
			continue // already materialized today
		}

		tx := domain.Transaction{
			ID:          uuid.NewString(),
			UserID:      item.UserID,
			AccountID:   item.AccountID,
			CategoryID:  item.CategoryID,
			Type:        item.Type,
			Amount:      item.Amount,
			Date:        today,
			Description: item.Description,
		}
		if _, err := r.store.CreateTransactions(ctx, []domain.Transaction{tx}); err != nil {
			r.logger.Error("recurring: materialization failed",
				zap.String("recurring_id", item.ID),
				zap.Error(err),
			)
			continue
		}
		if err := r.store.UpdateRecurringLastRun(ctx, item.ID, today); err != nil {
			r.logger.Error("recurring: last_run_date update failed",
				zap.String("recurring_id", item.ID),
				zap.Error(err),
			)
		}
		processed++
		touched[item.UserID] = struct{}{}
	}

	for userID := range touched {
		r.cache.DeletePrefix(userID + "/")
	}

	if processed > 0 {
		r.metrics.AddRecurringProcessed(processed)
		r.logger.Info("recurring: batch done",
			zap.Int("processed", processed),
			zap.Int("candidates", len(items)),
		)
	}
	return nil
}

// dueOn reports whether the item fires on the given day. MONTHLY fires on the
// start date's day of month (clamped to short months), YEARLY additionally
// requires the anniversary month, WEEKLY fires every 7 days from the start.
func dueOn(item domain.RecurringItem, day domain.Date) bool {
	if day.Before(item.StartDate.Time) {
		return false
	}
	if item.EndDate != nil && day.After(item.EndDate.Time) {
		return false
	}

	switch item.Frequency {
	case domain.FrequencyWeekly:
		days := int(day.Sub(item.StartDate.Time).Hours() / 24)
		return days%7 == 0

	case domain.FrequencyYearly:
		if day.Month() != item.StartDate.Month() {
			return false
		}
		return day.Day() == clampDay(item.StartDate.Day(), day)

	default: // MONTHLY
		return day.Day() == clampDay(item.StartDate.Day(), day)
	}
}

// clampDay clamps a nominal day of month to the given month's length, so a
// "31st of every month" item fires on Feb 28.
func clampDay(nominal int, in domain.Date) int {
	if max := in.DaysInMonth(); nominal > max {
		return max
	}
	return nominal
}
