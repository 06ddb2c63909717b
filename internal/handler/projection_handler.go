package handler

import (
	"net/http"

	"github.com/gfranca/grana-go/internal/domain"
	"github.com/gfranca/grana-go/internal/infra/observability"
	"github.com/gfranca/grana-go/internal/service"

	"go.uber.org/zap"
)

// forecastHandler returns the plain balance projection for the coming
// months (?months=N, default 12).
func forecastHandler(projection *service.Projection, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := domain.ForecastRequest{Months: monthsParam(r)}
		forecast, err := projection.Forecast(r.Context(), UserIDFromContext(r.Context()), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, forecast)
	}
}

// forecastSimulateHandler overlays hypothetical items ("what if I buy this?")
// on the projection without persisting anything.
func forecastSimulateHandler(projection *service.Projection, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.ForecastRequest
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		forecast, err := projection.Forecast(r.Context(), UserIDFromContext(r.Context()), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, forecast)
	}
}

func dashboardHandler(projection *service.Projection, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := projection.Dashboard(r.Context(), UserIDFromContext(r.Context()))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// cacheStatsHandler exposes projection cache hit rates for ops dashboards.
func cacheStatsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]float64{
			"forecast":  metrics.CacheHitRate("forecast"),
			"invoices":  metrics.CacheHitRate("invoices"),
			"dashboard": metrics.CacheHitRate("dashboard"),
		})
	}
}
