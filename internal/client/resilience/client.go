package resilience

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

var (
	// ErrCircuitOpen is returned without touching the network while the
	// breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// Config holds settings for a resilient provider client.
type Config struct {
	// Name identifies the client for breaker naming and health reporting.
	Name string

	// Timeout bounds each individual HTTP attempt.
	// Default: 10 seconds
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the first try.
	// Default: 3
	MaxRetries uint64

	// InitialInterval is the starting backoff between retries.
	// Default: 100ms
	InitialInterval time.Duration

	// MaxInterval caps the backoff between retries.
	// Default: 5 seconds
	MaxInterval time.Duration

	// Breaker overrides the circuit breaker settings. Nil means
	// DefaultBreakerConfig(Name).
	Breaker *BreakerConfig
}

// DefaultConfig returns the settings used for provider clients unless a
// caller needs something tighter.
func DefaultConfig(name string) Config {
	bc := DefaultBreakerConfig(name)
	return Config{
		Name:            name,
		Timeout:         10 * time.Second,
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Breaker:         &bc,
	}
}

// Client executes HTTP requests through a circuit breaker, retrying
// transient failures with exponential backoff.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     Config
}

// NewClient builds a resilient client, filling in defaults for any
// zero-valued settings.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}

	bc := DefaultBreakerConfig(cfg.Name)
	if cfg.Breaker != nil {
		bc = *cfg.Breaker
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    NewBreaker[*http.Response](bc), //nolint:bodyclose // type param, not a response
		config:     cfg,
	}
}

// Do executes the request with breaker protection and retries. Network
// failures and 5xx responses are retried; an open breaker fails fast with
// ErrCircuitOpen. The caller owns the response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.DoWithContext(req.Context(), req)
}

// DoWithContext is Do with an explicit context governing retries.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0 // retries are bounded by MaxRetries, not wall time

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var lastResp *http.Response

	attempt := func() error {
		// 5xx responses are surfaced as errors so they count against
		// the breaker and trigger a retry.
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			if r.StatusCode >= 500 {
				return r, &UpstreamError{StatusCode: r.StatusCode}
			}
			return r, nil
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				lastResp = resp
			}
			return err
		}

		lastResp = resp
		return nil
	}

	if err := backoff.Retry(attempt, policy); err != nil {
		// A 5xx that exhausted retries still hands the response back so
		// callers can inspect the status.
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}
	return lastResp, nil
}

// UpstreamError represents a 5xx response from a provider.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return "upstream error: " + http.StatusText(e.StatusCode)
}

// BreakerState reports the current circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// BreakerCounts reports the current circuit breaker counters.
func (c *Client) BreakerCounts() gobreaker.Counts {
	return c.breaker.Counts()
}
