package handler

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gfranca/grana-go/internal/domain"
	"github.com/gfranca/grana-go/internal/service"

	"go.uber.org/zap"
)

var monthYearPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// monthYearParam reads the optional ?month query parameter ("YYYY-MM"),
// defaulting to the current month.
func monthYearParam(r *http.Request) (string, error) {
	v := r.URL.Query().Get("month")
	if v == "" {
		return domain.DateOf(time.Now()).MonthKey(), nil
	}
	if !monthYearPattern.MatchString(v) {
		return "", &domain.ErrValidation{Field: "month", Message: "month must be YYYY-MM"}
	}
	return v, nil
}

func getBudgetHandler(finance *service.Finance, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		monthYear, err := monthYearParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		budget, err := finance.GetBudget(r.Context(), UserIDFromContext(r.Context()), monthYear)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if budget == nil {
			writeJSON(w, http.StatusOK, map[string]any{"budget": nil})
			return
		}
		writeJSON(w, http.StatusOK, budget)
	}
}

func upsertBudgetHandler(finance *service.Finance, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		monthYear, err := monthYearParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		var req domain.UpsertBudgetRequest
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		budget, err := finance.UpsertBudget(r.Context(), UserIDFromContext(r.Context()), monthYear, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, budget)
	}
}

func listCategoriesHandler(finance *service.Finance, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := finance.ListCategories(r.Context())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, categories)
	}
}
