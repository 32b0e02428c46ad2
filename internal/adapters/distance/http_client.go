package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/metrics"
	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

const (
	distancePath       = "/getPortDistance"
	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = 500 * time.Millisecond
)

// HTTPOptions tunes the HTTP distance client. Zero values fall back to
// defaults, except MaxRetries where only a negative value does.
type HTTPOptions struct {
	Timeout        time.Duration
	RequestsPerSec int
	Burst          int
	MaxRetries     int
	BackoffBase    time.Duration
	MaxFailures    int
	ResetTimeout   time.Duration
}

// HTTPClient calls a distance service over JSON/HTTP with rate limiting,
// exponential backoff retries and a circuit breaker
type HTTPClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breaker     *CircuitBreaker
	baseURL     string
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
}

// NewHTTPClient creates a distance client for baseURL.
// If clock is nil, uses RealClock.
func NewHTTPClient(baseURL string, opts HTTPOptions, clock shared.Clock) *HTTPClient {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = opts.RequestsPerSec
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = defaultBackoffBase
	}
	if opts.MaxFailures <= 0 {
		opts.MaxFailures = 5
	}
	if opts.ResetTimeout <= 0 {
		opts.ResetTimeout = time.Minute
	}

	return &HTTPClient{
		httpClient:  &http.Client{Timeout: opts.Timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.Burst),
		breaker:     NewCircuitBreaker(opts.MaxFailures, opts.ResetTimeout, clock),
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxRetries:  opts.MaxRetries,
		backoffBase: opts.BackoffBase,
		clock:       clock,
	}
}

// Breaker exposes the client's circuit breaker
func (c *HTTPClient) Breaker() *CircuitBreaker {
	return c.breaker
}

// GetPortDistance posts the batch to /getPortDistance. Every failure,
// including an open circuit, wraps routing.ErrDistanceUnavailable.
func (c *HTTPClient) GetPortDistance(ctx context.Context, pairs []routing.PortPairRequest) ([]routing.DistanceResult, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	start := time.Now()
	var results []routing.DistanceResult
	err := c.breaker.Call(func() error {
		return c.post(ctx, distancePath, pairs, &results)
	})
	metrics.RecordDistanceRequest("http", len(pairs), time.Since(start).Seconds(), err)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", routing.ErrDistanceUnavailable, err)
	}
	return results, nil
}

// post sends body as JSON and decodes the response into result, retrying
// network errors, 429 and 5xx responses with exponential backoff and jitter
func (c *HTTPClient) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		retryAfter, err := c.do(ctx, path, payload, result)
		if err == nil {
			return nil
		}
		if _, ok := err.(*retryableError); !ok {
			return err
		}
		lastErr = err

		if attempt >= c.maxRetries {
			break
		}

		delay := addJitter(c.backoffBase * time.Duration(1<<attempt))
		if retryAfter > 0 {
			delay = retryAfter
		}
		if err := c.clock.SleepContext(ctx, delay); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// do performs one attempt. The returned duration is the server's Retry-After.
func (c *HTTPClient) do(ctx context.Context, path string, payload []byte, result interface{}) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("context cancelled: %w", ctx.Err())
		}
		return 0, &retryableError{message: fmt.Sprintf("network error: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, &retryableError{message: fmt.Sprintf("failed to read response: %v", err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		var retryAfter time.Duration
		if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			retryAfter = time.Duration(seconds) * time.Second
		}
		return retryAfter, &retryableError{message: "rate limited (429)"}
	case resp.StatusCode >= 500:
		return 0, &retryableError{message: fmt.Sprintf("server error (%d): %s", resp.StatusCode, truncate(respBody))}
	case resp.StatusCode >= 400:
		return 0, &RejectedError{StatusCode: resp.StatusCode, Body: truncate(respBody)}
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return 0, fmt.Errorf("failed to decode distance response: %w", err)
	}
	return 0, nil
}

// RejectedError is a 4xx answer. The service is up but refused the batch, so
// it is neither retried nor counted by the circuit breaker.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("distance request rejected (%d): %s", e.StatusCode, e.Body)
}

type retryableError struct {
	message string
}

func (e *retryableError) Error() string {
	return e.message
}

func addJitter(d time.Duration) time.Duration {
	jitter := 0.5 + rand.Float64() // 0.5 to 1.5
	return time.Duration(float64(d) * jitter)
}

func truncate(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
