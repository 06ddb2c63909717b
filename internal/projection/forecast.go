// Package projection is the computation core of the tracker: multi-month
// balance forecasting, credit-card invoice allocation and the adaptive
// daily budget. Every function here is total and side-effect free — it
// takes an already-loaded snapshot and derives read-only results, recomputed
// from scratch on each call. No function talks to the store.
package projection

import (
	"github.com/gfranca/grana-go/internal/domain"

	"github.com/shopspring/decimal"
)

// DefaultMonths is the projection horizon used when callers pass 0.
const DefaultMonths = 12

// cardRiskThreshold flags months where card spending exceeds 40% of income.
var cardRiskThreshold = decimal.NewFromFloat(0.4)

// Forecast projects the combined balance of all accounts month by month for
// the next months calendar months, starting at today's month. Simulated
// items are overlaid transiently: the ones carrying a frequency behave as
// hypothetical recurring items, the rest as hypothetical one-off
// transactions.
//
// The result is a strict chain: each month's starting balance equals the
// previous month's ending balance, and month 0 starts at the sum of all
// account initial balances. Nil accounts or recurrings mean the snapshot is
// still loading and yield nil.
func Forecast(
	accounts []domain.Account,
	recurrings []domain.RecurringItem,
	transactions []domain.Transaction,
	simulated []domain.SimulatedItem,
	months int,
	today domain.Date,
) []domain.MonthlyForecast {
	if accounts == nil || recurrings == nil {
		return nil
	}
	if months <= 0 {
		months = DefaultMonths
	}

	running := decimal.Zero
	for _, acc := range accounts {
		running = running.Add(acc.InitialBalance)
	}

	recs, oneOffs := overlay(recurrings, transactions, simulated, today)

	forecast := make([]domain.MonthlyForecast, 0, months)
	for i := 0; i < months; i++ {
		monthStart := today.MonthStart().AddMonths(i)
		nextMonth := monthStart.AddMonths(1)

		income := decimal.Zero
		expense := decimal.Zero
		cardExpense := decimal.Zero

		for _, rec := range recs {
			n := occurrencesInMonth(rec, monthStart, nextMonth)
			if n == 0 {
				continue
			}
			contribution := rec.Amount.Mul(decimal.NewFromInt(int64(n)))
			if rec.Type == domain.TransactionIncome {
				income = income.Add(contribution)
			} else {
				expense = expense.Add(contribution)
			}
		}

		for _, tx := range oneOffs {
			if tx.Date.Before(monthStart.Time) || !tx.Date.Before(nextMonth.Time) {
				continue
			}
			switch tx.Type {
			case domain.TransactionIncome:
				income = income.Add(tx.Amount)
			case domain.TransactionExpense:
				expense = expense.Add(tx.Amount)
				if tx.CardID != "" {
					cardExpense = cardExpense.Add(tx.Amount)
				}
			}
		}

		ending := running.Add(income).Sub(expense)
		forecast = append(forecast, domain.MonthlyForecast{
			Month:           monthStart.MonthKey(),
			Label:           monthStart.Format("Jan 2006"),
			StartingBalance: running,
			Income:          income,
			Expense:         expense,
			EndingBalance:   ending,
			IsNegative:      ending.IsNegative(),
			CardRisk:        income.IsPositive() && cardExpense.Div(income).GreaterThan(cardRiskThreshold),
		})
		running = ending
	}

	return forecast
}

// overlay merges the simulated items into the real data: frequency-bearing
// items join the recurring set, the rest join the one-off transactions. The
// real slices are never mutated.
func overlay(
	recurrings []domain.RecurringItem,
	transactions []domain.Transaction,
	simulated []domain.SimulatedItem,
	today domain.Date,
) ([]domain.RecurringItem, []domain.Transaction) {
	if len(simulated) == 0 {
		return recurrings, transactions
	}

	recs := make([]domain.RecurringItem, 0, len(recurrings)+len(simulated))
	recs = append(recs, recurrings...)
	oneOffs := make([]domain.Transaction, 0, len(transactions)+len(simulated))
	oneOffs = append(oneOffs, transactions...)

	for _, sim := range simulated {
		if sim.Frequency != "" {
			start := today.MonthStart()
			if sim.StartDate != nil {
				start = *sim.StartDate
			}
			recs = append(recs, domain.RecurringItem{
				Type:        sim.Type,
				Amount:      sim.Amount,
				Frequency:   sim.Frequency,
				StartDate:   start,
				EndDate:     sim.EndDate,
				Description: sim.Description,
			})
			continue
		}

		date := today
		if sim.Date != nil {
			date = *sim.Date
		}
		oneOffs = append(oneOffs, domain.Transaction{
			Type:        sim.Type,
			Amount:      sim.Amount,
			CardID:      sim.CardID,
			Date:        date,
			Description: sim.Description,
		})
	}

	return recs, oneOffs
}

// occurrencesInMonth counts how many times a recurring item fires inside
// [monthStart, nextMonth). An item is active in a month when it starts on or
// before the month's end and either never ends or ends after the month's
// start; within an active month the declared frequency decides the count:
// MONTHLY fires once, YEARLY only in the start date's anniversary month, and
// WEEKLY every 7 days counted from the start date.
func occurrencesInMonth(rec domain.RecurringItem, monthStart, nextMonth domain.Date) int {
	startMonth := rec.StartDate.MonthStart()
	if !startMonth.Before(nextMonth.Time) {
		return 0
	}
	if rec.EndDate != nil && !rec.EndDate.After(monthStart.Time) {
		return 0
	}

	switch rec.Frequency {
	case domain.FrequencyYearly:
		if rec.StartDate.Month() == monthStart.Month() {
			return 1
		}
		return 0

	case domain.FrequencyWeekly:
		first := rec.StartDate
		if first.Before(monthStart.Time) {
			days := int(monthStart.Sub(first.Time).Hours() / 24)
			first = first.AddDays(((days + 6) / 7) * 7)
		}
		n := 0
		for d := first; d.Before(nextMonth.Time); d = d.AddDays(7) {
			if rec.EndDate != nil && d.After(rec.EndDate.Time) {
				break
			}
			n++
		}
		return n

	default: // MONTHLY
		return 1
	}
}
