// Package supabase provides the PostgREST client for the hosted Supabase
// backend that owns all rows (accounts, transactions, recurrings, cards,
// budgets, categories, users). It implements port.FinanceStore and
// port.AuthStore.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gfranca/grana-go/internal/domain"
	"github.com/gfranca/grana-go/internal/infra/observability"
	"github.com/gfranca/grana-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("supabase")

// Client wraps HTTP calls to Supabase PostgREST.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	serviceRoleKey string
	cb             *gobreaker.CircuitBreaker
	cfg            resilience.Config
	metrics        *observability.Metrics
	logger         *zap.Logger
}

// NewClient creates a Supabase client.
func NewClient(httpClient *http.Client, baseURL, apiKey, serviceRoleKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         apiKey,
		serviceRoleKey: serviceRoleKey,
		cb:             cb,
		cfg:            cfg,
		metrics:        metrics,
		logger:         logger,
	}
}

// tableOf extracts the table name from a PostgREST path for metric labels.
func tableOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}

// do executes one authenticated request against PostgREST. prefer sets the
// Prefer header; an empty value means "return=representation".
func (c *Client) do(ctx context.Context, method, path string, payload any, prefer string) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, path)

	var bodyReader io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", path, err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.serviceRoleKey))
	req.Header.Set("Content-Type", "application/json")
	if prefer == "" {
		prefer = "return=representation"
	}
	req.Header.Set("Prefer", prefer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return nil, nil // no data
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("supabase: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, fmt.Errorf("supabase %s %s returned %d: %s", method, path, resp.StatusCode, string(body))
	}

	c.logger.Debug("supabase: request OK",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	return body, nil
}

// doResilient wraps do with the circuit breaker and retry policy.
func (c *Client) doResilient(ctx context.Context, method, path string, payload any, prefer string) ([]byte, error) {
	var body []byte
	err := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
		res, err := c.cb.Execute(func() (any, error) {
			return c.do(ctx, method, path, payload, prefer)
		})
		if err != nil {
			return err
		}
		if res != nil {
			body, _ = res.([]byte)
		}
		return nil
	})
	if err != nil {
		c.metrics.IncrStoreError(tableOf(path))
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &domain.ErrCircuitOpen{Service: "supabase"}
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &domain.ErrTimeout{Operation: fmt.Sprintf("%s %s", method, path)}
		}
		return nil, err
	}
	return body, nil
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	return c.doResilient(ctx, http.MethodGet, path, nil, "")
}

func (c *Client) doPost(ctx context.Context, path string, payload any) ([]byte, error) {
	return c.doResilient(ctx, http.MethodPost, path, payload, "")
}

func (c *Client) doPatch(ctx context.Context, path string, payload any) ([]byte, error) {
	return c.doResilient(ctx, http.MethodPatch, path, payload, "")
}

func (c *Client) doDelete(ctx context.Context, path string) error {
	_, err := c.doResilient(ctx, http.MethodDelete, path, nil, "return=minimal")
	return err
}

// decodeRows unmarshals a PostgREST array response. A nil body (204/404)
// decodes to an empty slice.
func decodeRows[T any](body []byte, table string) ([]T, error) {
	if len(body) == 0 {
		return []T{}, nil
	}
	var rows []T
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", table, err)
	}
	return rows, nil
}
