// Package handler exposes the HTTP API: auth, entity CRUD and the derived
// projections (forecast, invoices, smart budget, dashboard).
package handler

import (
	"net/http"

	"github.com/gfranca/grana-go/internal/infra/observability"
	"github.com/gfranca/grana-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter creates the HTTP router with all routes and middleware. Every
// /v1 route except /v1/auth and /v1/categories requires a Bearer token.
func NewRouter(
	finance *service.Finance,
	projection *service.Projection,
	auth *service.Auth,
	metrics *observability.Metrics,
	logger *zap.Logger,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", registerHandler(auth, logger))
			r.Post("/login", loginHandler(auth, logger))
			r.Post("/refresh", refreshHandler(auth, logger))
		})
		r.Get("/metrics/cache", cacheStatsHandler(metrics))

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(auth, logger))

			r.Post("/auth/logout", logoutHandler(auth, logger))

			r.Get("/categories", listCategoriesHandler(finance, logger))

			r.Get("/accounts", listAccountsHandler(finance, logger))
			r.Post("/accounts", createAccountHandler(finance, logger))
			r.Delete("/accounts/{accountId}", deleteAccountHandler(finance, logger))

			r.Get("/transactions", listTransactionsHandler(finance, logger))
			r.Post("/transactions", createTransactionHandler(finance, logger))
			r.Patch("/transactions/{transactionId}", updateTransactionHandler(finance, logger))
			r.Delete("/transactions/{transactionId}", deleteTransactionHandler(finance, logger))

			r.Get("/recurrings", listRecurringsHandler(finance, logger))
			r.Post("/recurrings", createRecurringHandler(finance, logger))
			r.Delete("/recurrings/{recurringId}", deleteRecurringHandler(finance, logger))

			r.Get("/cards", listCardsHandler(finance, logger))
			r.Post("/cards", createCardHandler(finance, logger))
			r.Delete("/cards/{cardId}", deleteCardHandler(finance, logger))
			r.Get("/cards/{cardId}/invoices", cardInvoicesHandler(projection, logger))
			r.Post("/cards/{cardId}/purchases", cardPurchaseHandler(finance, logger))

			r.Get("/budgets", getBudgetHandler(finance, logger))
			r.Put("/budgets", upsertBudgetHandler(finance, logger))

			r.Get("/forecast", forecastHandler(projection, logger))
			r.Post("/forecast", forecastSimulateHandler(projection, logger))
			r.Get("/dashboard", dashboardHandler(projection, logger))
		})
	})

	return r
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
