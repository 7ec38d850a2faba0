package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	apperrors "github.com/sweeparr/sweeparr/pkg/errors"
)

const defaultTimeout = 45 * time.Second

// Config holds connection settings for one catalog service.
type Config struct {
	Name    string
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// client is the shared HTTP layer for both catalog services. Every call is
// bounded by the configured timeout and routed through a circuit breaker so
// a dead downstream cannot hold request handlers.
type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	name       string
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func newClient(cfg Config) *client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[WARN] Catalog %s circuit breaker %s -> %s", name, from, to)
		},
		IsSuccessful: func(err error) bool {
			// 4xx means the service is up; only transport errors and 5xx
			// trip the breaker.
			var se *statusError
			return err == nil || errors.As(err, &se)
		},
	}

	return &client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		name:       cfg.Name,
		breaker:    gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// do issues one request through the breaker. Transport errors and 5xx
// responses count as breaker failures; 4xx responses do not (the service is
// up, the request just failed).
func (c *client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	fullURL := c.baseURL + "/api/v3" + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	data, err := c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("encoding request body: %w", err)
			}
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("X-Api-Key", c.apiKey)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, apperrors.CatalogUnavailable(c.name, err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, apperrors.CatalogUnavailable(c.name, err)
		}

		if resp.StatusCode >= 500 {
			return nil, apperrors.CatalogRequestFailed(c.name, resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			// Repeating a delete against an already-gone entity is success,
			// not an error.
			if method == http.MethodDelete && (resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone) {
				log.Printf("[DEBUG] Catalog %s: %s %s already gone (%d)", c.name, method, path, resp.StatusCode)
				return respBody, nil
			}
			return nil, &statusError{apperrors.CatalogRequestFailed(c.name, resp.StatusCode)}
		}

		return respBody, nil
	})
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return se.err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return apperrors.CatalogUnavailable(c.name, err)
		}
		return err
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return apperrors.Wrapf(err, apperrors.ErrCodeCatalogRequestFailed,
				"decoding %s response from catalog '%s'", path, c.name)
		}
	}
	return nil
}

// statusError wraps a 4xx result so it reaches the caller without counting
// as a breaker failure.
type statusError struct {
	err *apperrors.AppError
}

func (e *statusError) Error() string { return e.err.Error() }

func (e *statusError) Unwrap() error { return e.err }

func (c *client) get(ctx context.Context, path string, query url.Values, result any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, result)
}

func (c *client) put(ctx context.Context, path string, body any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, nil)
}

func (c *client) delete(ctx context.Context, path string, query url.Values) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, nil)
}
