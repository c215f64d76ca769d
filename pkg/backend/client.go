// Package backend talks to the storefront backend that owns customers,
// storefront sites and payment records.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/superbox-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/sony/gobreaker/v2"
)

const (
	responseBodyReadLimit int64 = 1 << 20
	errorBodyReadLimit    int64 = 1024
	idempotencyHeader           = "Idempotency-Key"
)

var errBaseURLRequired = errors.New("backend base url is required")

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

// Client wraps the backend REST surface behind a circuit breaker.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds a backend client from configuration.
func NewClient(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    newBreaker(cfg),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

func newBreaker(cfg config.BackendConfig) *gobreaker.CircuitBreaker[[]byte] {
	minRequests := cfg.BreakerMinRequests
	ratio := cfg.BreakerFailureRatio
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "storefront-backend",
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		// 4xx answers count as successes.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var statusErr *StatusError
			return errors.As(err, &statusErr) && statusErr.StatusCode < http.StatusInternalServerError
		},
	})
}

// BreakerState exposes the breaker state for readiness reporting.
func (c *Client) BreakerState() string {
	if c == nil || c.breaker == nil {
		return ""
	}
	return c.breaker.State().String()
}

type request struct {
	method         string
	path           string
	body           any
	idempotencyKey string
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "backend client not configured")
	}

	var payload []byte
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal backend request")
		}
		payload = encoded
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, req, payload)
	})
	if err != nil {
		return c.classify(req, err)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s %s response", req.method, req.path))
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, req request, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, reader)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.idempotencyKey != "" {
		httpReq.Header.Set(idempotencyHeader, req.idempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	return io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
}

func (c *Client) classify(req request, err error) error {
	label := fmt.Sprintf("%s %s", req.method, req.path)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storefront backend unavailable").WithDetails(map[string]any{"retry": true})
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusNotFound:
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, label+" not found")
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, label+" rejected")
		case http.StatusConflict:
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, label+" conflict")
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, label+" failed")
}

func escape(segment string) string {
	return url.PathEscape(strings.TrimSpace(segment))
}
