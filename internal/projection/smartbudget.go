package projection

import (
	"github.com/gfranca/grana-go/internal/domain"

	"github.com/shopspring/decimal"
)

// savingRatio: spending less than half of today's allowance counts as saving.
var savingRatio = decimal.NewFromFloat(0.5)

var hundred = decimal.NewFromInt(100)

// SmartBudget derives the adaptive daily spending allowance for the
// dashboard widget. The budget remaining after all days before today is
// redistributed evenly over the remaining days of the month, today
// included, so underspending raises future allowances and overspending
// shrinks them.
//
// Callers guarantee a budget exists for the month; progress percentages are
// unclamped.
func SmartBudget(monthlyBudget, totalMonthlyExpenses, expensesToday decimal.Decimal, ref domain.Date) domain.SmartBudgetResult {
	daysInMonth := ref.DaysInMonth()
	currentDay := ref.Day()
	daysRemaining := daysInMonth - currentDay + 1

	monthProgress := float64(currentDay) / float64(daysInMonth) * 100

	expensesPriorToToday := totalMonthlyExpenses.Sub(expensesToday)
	remainingBudget := monthlyBudget.Sub(expensesPriorToToday)

	if !remainingBudget.IsPositive() {
		return domain.SmartBudgetResult{
			DailyLimit:        decimal.Zero,
			SpentToday:        expensesToday,
			RemainingForToday: expensesToday.Neg(),
			Status:            domain.BudgetExceeded,
			Message:           "Você já excedeu seu orçamento mensal. Evite novos gastos.",
			MonthProgress:     monthProgress,
			BudgetProgress:    100,
		}
	}

	dailyLimit := remainingBudget.Div(decimal.NewFromInt(int64(daysRemaining)))
	remainingForToday := dailyLimit.Sub(expensesToday)

	status := domain.BudgetSafe
	message := "Você está dentro da meta."
	switch {
	case remainingForToday.IsNegative():
		status = domain.BudgetWarning
		message = "Você gastou mais do que o recomendado para hoje. O limite dos próximos dias será reduzido."
	case remainingForToday.GreaterThan(dailyLimit.Mul(savingRatio)):
		status = domain.BudgetSaving
		message = "Ótimo! Você está economizando hoje. Isso aumentará seu limite futuro."
	}

	budgetProgress := float64(0)
	if monthlyBudget.IsPositive() {
		budgetProgress, _ = totalMonthlyExpenses.Div(monthlyBudget).Mul(hundred).Float64()
	}

	return domain.SmartBudgetResult{
		DailyLimit:        dailyLimit,
		SpentToday:        expensesToday,
		RemainingForToday: remainingForToday,
		Status:            status,
		Message:           message,
		MonthProgress:     monthProgress,
		BudgetProgress:    budgetProgress,
	}
}
