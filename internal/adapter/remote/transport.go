// Package remote is the HTTP transport shared by the catalog and library clients.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/mmcdole/arcade/internal/domain"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultMaxRetries     = 3
	defaultBaseRetryDelay = 500 * time.Millisecond
	userAgent             = "Arcade/1.0"

	// RequestIDHeader carries a per-request correlation id
	RequestIDHeader = "X-Request-ID"
)

// Options configures a Transport
type Options struct {
	Name    string // Breaker and log name, e.g. "catalog"
	BaseURL string
	Timeout time.Duration

	// RequestsPerSecond <= 0 disables client-side rate limiting
	RequestsPerSecond float64
	Burst             int

	MaxRetries     int           // Retries on 5xx, default 3
	BaseRetryDelay time.Duration // Backoff base, doubled per attempt

	// FailureThreshold consecutive failures open the breaker, default 5
	FailureThreshold uint32
	OpenTimeout      time.Duration // Time the breaker stays open, default 30s

	HTTPClient *http.Client
}

// Transport performs JSON requests with rate limiting, retries on 5xx,
// a circuit breaker and error normalization into domain.Error.
type Transport struct {
	name           string
	baseURL        string
	httpClient     *http.Client
	limiter        *rate.Limiter
	breaker        *gobreaker.CircuitBreaker[[]byte]
	maxRetries     int
	baseRetryDelay time.Duration
	logger         *slog.Logger

	// Headers applied to every request (auth, api keys)
	header http.Header
	query  url.Values
}

// New creates a Transport
func New(opts Options, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	} else if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.BaseRetryDelay <= 0 {
		opts.BaseRetryDelay = defaultBaseRetryDelay
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := max(opts.Burst, 1)

	t := &Transport{
		name:           opts.Name,
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		httpClient:     httpClient,
		limiter:        rate.NewLimiter(limit, burst),
		maxRetries:     opts.MaxRetries,
		baseRetryDelay: opts.BaseRetryDelay,
		logger:         logger.With("remote", opts.Name),
		header:         http.Header{},
		query:          url.Values{},
	}

	threshold := opts.FailureThreshold
	t.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			t.logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
		// Only an unreachable or failing remote counts against the breaker
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var e *domain.Error
			if errors.As(err, &e) && e.Kind != domain.KindNetwork {
				return e.Status < 500
			}
			return false
		},
	})

	return t
}

// SetHeader sets a header sent on every request
// BaseURL returns the base URL with any trailing slash removed
func (t *Transport) BaseURL() string { return t.baseURL }

func (t *Transport) SetHeader(key, value string) {
	t.header.Set(key, value)
}

// SetQueryParam sets a query parameter sent on every request
func (t *Transport) SetQueryParam(key, value string) {
	t.query.Set(key, value)
}

// Get performs a GET and decodes the JSON response into out
func (t *Transport) Get(ctx context.Context, path string, query url.Values, out any) error {
	return t.DoJSON(ctx, http.MethodGet, path, query, nil, out)
}

// DoJSON encodes in (when non-nil), performs the request and decodes into
// out (when non-nil).
func (t *Transport) DoJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	op := t.name + " " + method + " " + path

	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("%s: failed to encode body: %w", op, err)
		}
	}

	body, err := t.Do(ctx, method, path, query, payload)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		t.logger.Error("JSON parse error", "error", err, "op", op, "bodyLen", len(body))
		return &domain.Error{Kind: domain.KindRemote, Op: op, Message: "malformed response", Err: err}
	}
	return nil
}

// Do performs a request through the limiter and breaker and returns the raw body
func (t *Transport) Do(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	op := t.name + " " + method + " " + path

	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := t.breaker.Execute(func() ([]byte, error) {
		return t.doWithRetry(ctx, method, path, query, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		t.logger.Warn("request refused by open circuit", "op", op)
		return nil, &domain.Error{Kind: domain.KindNetwork, Op: op, Err: domain.ErrCircuitOpen}
	}
	return body, err
}

func (t *Transport) buildURL(path string, query url.Values) string {
	merged := url.Values{}
	for k, v := range t.query {
		merged[k] = v
	}
	for k, v := range query {
		merged[k] = v
	}

	reqURL := t.baseURL + path
	if len(merged) > 0 {
		reqURL += "?" + merged.Encode()
	}
	return reqURL
}

// redact strips shared query params (api keys) from logged URLs
func (t *Transport) redact(path string, query url.Values) string {
	if len(query) == 0 {
		return t.baseURL + path
	}
	return t.baseURL + path + "?" + query.Encode()
}

// retryable reports whether a failed request may be resent. POST creates
// resources, so a 5xx after the server committed must not be replayed.
func retryable(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPatch, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func (t *Transport) doWithRetry(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	op := t.name + " " + method + " " + path
	reqURL := t.buildURL(path, query)
	logURL := t.redact(path, query)

	maxRetries := t.maxRetries
	if !retryable(method) {
		maxRetries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Check context before each attempt
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// Wait before retry (exponential backoff)
		if attempt > 0 {
			delay := t.baseRetryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			t.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "url", logURL)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		requestID := uuid.NewString()
		for k, v := range t.header {
			req.Header[k] = v
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set(RequestIDHeader, requestID)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		t.logger.Debug("remote request", "method", method, "url", logURL, "attempt", attempt, "requestID", requestID)

		resp, err := t.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			t.logger.Error("remote request failed", "error", err, "op", op, "requestID", requestID)
			return nil, &domain.Error{Kind: domain.KindNetwork, Op: op, Err: err}
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, &domain.Error{Kind: domain.KindNetwork, Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
		}

		// Retry on 5xx server errors
		if resp.StatusCode >= 500 && resp.StatusCode < 600 {
			lastErr = remoteError(op, resp.StatusCode, body)
			t.logger.Warn("remote server error, will retry",
				"status", resp.StatusCode,
				"body", truncate(body),
				"attempt", attempt,
				"maxRetries", maxRetries,
				"url", logURL,
				"requestID", requestID,
			)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			err := remoteError(op, resp.StatusCode, body)
			t.logger.Error("remote request error", "status", resp.StatusCode, "body", truncate(body), "requestID", requestID)
			return nil, err
		}

		return body, nil
	}

	t.logger.Error("remote request failed after retries", "error", lastErr, "url", logURL)
	return nil, lastErr
}

// errorBody covers the error shapes both remotes use
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// remoteError builds a RemoteError preferring the server-provided message
func remoteError(op string, status int, body []byte) *domain.Error {
	e := &domain.Error{Kind: domain.KindRemote, Op: op, Status: status}

	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		for _, msg := range []string{eb.Error, eb.Message, eb.Detail} {
			if msg = strings.TrimSpace(msg); msg != "" {
				e.Message = msg
				break
			}
		}
	}
	if e.Message == "" {
		e.Err = fmt.Errorf("unexpected status code: %d", status)
	}
	return e
}

func truncate(body []byte) string {
	const limit = 512
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
