package projection_test

import (
	"testing"
	"time"

	"github.com/gfranca/grana-go/internal/domain"
	"github.com/gfranca/grana-go/internal/projection"
)

func TestSmartBudget_Exceeded(t *testing.T) {
	ref := domain.NewDate(2026, time.April, 10)

	result := projection.SmartBudget(dec(1000), dec(1200), dec(0), ref)

	if result.Status != domain.BudgetExceeded {
		t.Errorf("expected EXCEEDED, got %s", result.Status)
	}
	if !result.DailyLimit.IsZero() {
		t.Errorf("expected zero daily limit, got %s", result.DailyLimit)
	}
	if !result.RemainingForToday.IsZero() {
		t.Errorf("expected zero remaining for today, got %s", result.RemainingForToday)
	}
	if result.BudgetProgress != 100 {
		t.Errorf("expected budget progress 100, got %v", result.BudgetProgress)
	}
}

func TestSmartBudget_StatusBoundaries(t *testing.T) {
	// April 1st: 30 days in the month, all of them remaining.
	ref := domain.NewDate(2026, time.April, 1)

	cases := []struct {
		name          string
		total         float64
		today         float64
		wantLimit     float64
		wantRemaining float64
		wantStatus    domain.BudgetStatus
	}{
		{"nothing spent", 0, 0, 100, 100, domain.BudgetSaving},
		{"exactly the allowance", 100, 100, 100, 0, domain.BudgetSafe},
		{"overspent today", 150, 150, 100, -50, domain.BudgetWarning},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := projection.SmartBudget(dec(3000), dec(tc.total), dec(tc.today), ref)

			if !result.DailyLimit.Equal(dec(tc.wantLimit)) {
				t.Errorf("expected daily limit %v, got %s", tc.wantLimit, result.DailyLimit)
			}
			if !result.RemainingForToday.Equal(dec(tc.wantRemaining)) {
				t.Errorf("expected remaining %v, got %s", tc.wantRemaining, result.RemainingForToday)
			}
			if result.Status != tc.wantStatus {
				t.Errorf("expected status %s, got %s", tc.wantStatus, result.Status)
			}
		})
	}
}

func TestSmartBudget_RedistributesOverRemainingDays(t *testing.T) {
	// April 16th: 15 days remain including today. 600 spent before today
	// leaves 2400 over 15 days.
	ref := domain.NewDate(2026, time.April, 16)

	result := projection.SmartBudget(dec(3000), dec(650), dec(50), ref)

	if !result.DailyLimit.Equal(dec(160)) {
		t.Errorf("expected daily limit 160, got %s", result.DailyLimit)
	}
	if !result.RemainingForToday.Equal(dec(110)) {
		t.Errorf("expected remaining 110, got %s", result.RemainingForToday)
	}
	if result.Status != domain.BudgetSaving {
		t.Errorf("expected SAVING (110 > 80), got %s", result.Status)
	}
}

func TestSmartBudget_Progress(t *testing.T) {
	// April 15th of a 30-day month: halfway through.
	ref := domain.NewDate(2026, time.April, 15)

	result := projection.SmartBudget(dec(1000), dec(1100), dec(200), ref)

	if result.MonthProgress != 50 {
		t.Errorf("expected month progress 50, got %v", result.MonthProgress)
	}
	// Spent 110% of the budget but 900 of it before today, so the month is
	// not exceeded yet; progress is unclamped.
	if result.Status == domain.BudgetExceeded {
		t.Error("did not expect EXCEEDED")
	}
	if result.BudgetProgress != 110 {
		t.Errorf("expected budget progress 110, got %v", result.BudgetProgress)
	}
}

func TestSmartBudget_ExceededNegativeRemaining(t *testing.T) {
	ref := domain.NewDate(2026, time.April, 10)

	result := projection.SmartBudget(dec(1000), dec(1200), dec(75), ref)

	if result.Status != domain.BudgetExceeded {
		t.Fatalf("expected EXCEEDED, got %s", result.Status)
	}
	if !result.RemainingForToday.Equal(dec(-75)) {
		t.Errorf("expected remaining -75, got %s", result.RemainingForToday)
	}
	if !result.SpentToday.Equal(dec(75)) {
		t.Errorf("expected spent today 75, got %s", result.SpentToday)
	}
}
