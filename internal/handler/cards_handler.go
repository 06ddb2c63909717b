package handler

import (
	"net/http"

	"github.com/gfranca/grana-go/internal/domain"
	"github.com/gfranca/grana-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func listCardsHandler(finance *service.Finance, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cards, err := finance.ListCards(r.Context(), UserIDFromContext(r.Context()))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, cards)
	}
}

func createCardHandler(finance *service.Finance, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.CreateCardRequest
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		card, err := finance.CreateCard(r.Context(), UserIDFromContext(r.Context()), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, card)
	}
}

func deleteCardHandler(finance *service.Finance, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cardID := chi.URLParam(r, "cardId")
		if err := finance.DeleteCard(r.Context(), UserIDFromContext(r.Context()), cardID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// cardInvoicesHandler returns the derived invoice cycle of a card. Invoices
// are computed from transactions, never stored.
func cardInvoicesHandler(projection *service.Projection, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cardID := chi.URLParam(r, "cardId")
		invoices, err := projection.CardInvoices(r.Context(), UserIDFromContext(r.Context()), cardID, monthsParam(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, invoices)
	}
}

func cardPurchaseHandler(finance *service.Finance, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.CardPurchaseRequest
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		cardID := chi.URLParam(r, "cardId")
		rows, err := finance.CreateCardPurchase(r.Context(), UserIDFromContext(r.Context()), cardID, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, rows)
	}
}
