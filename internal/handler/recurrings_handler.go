package handler

import (
	"net/http"

	"github.com/gfranca/grana-go/internal/domain"
	"github.com/gfranca/grana-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func listRecurringsHandler(finance *service.Finance, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := finance.ListRecurrings(r.Context(), UserIDFromContext(r.Context()))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func createRecurringHandler(finance *service.Finance, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.CreateRecurringRequest
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		item, err := finance.CreateRecurring(r.Context(), UserIDFromContext(r.Context()), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

func deleteRecurringHandler(finance *service.Finance, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recurringID := chi.URLParam(r, "recurringId")
		if err := finance.DeleteRecurring(r.Context(), UserIDFromContext(r.Context()), recurringID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
