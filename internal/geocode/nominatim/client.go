// Package nominatim provides a geocoding client for the OpenStreetMap
// Nominatim API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wanderlist/wanderlist/internal/client/resilience"
	"github.com/wanderlist/wanderlist/internal/geocode"
	"github.com/wanderlist/wanderlist/pkg/geo"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "nominatim"

	// DefaultBaseURL is the public Nominatim endpoint.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// DefaultUserAgent is sent when the caller does not configure one.
	// Nominatim's usage policy requires an identifying User-Agent.
	DefaultUserAgent = "wanderlist/1.0"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultCacheTTL bounds how long geocoding results are reused.
	// Nominatim's usage policy asks clients to cache.
	DefaultCacheTTL = 10 * time.Minute
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestMetrics records provider request outcomes and cache activity.
type RequestMetrics interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
	RecordCacheHit(provider, operation string)
	RecordCacheMiss(provider, operation string)
}

// ClientConfig holds configuration for the Nominatim client.
type ClientConfig struct {
	// BaseURL overrides the API endpoint (optional).
	BaseURL string

	// UserAgent identifies this deployment to Nominatim (optional).
	UserAgent string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, a resilient client with defaults is used.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry tracks provider health (optional).
	Registry *resilience.Registry

	// Metrics records request durations and cache activity (optional).
	Metrics RequestMetrics

	// CacheTTL overrides how long results are cached (optional,
	// defaults to DefaultCacheTTL).
	CacheTTL time.Duration

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Nominatim geocoding client. Successful lookups are cached
// for CacheTTL keyed by query or coordinate.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient HTTPDoer
	registry   *resilience.Registry
	metrics    RequestMetrics
	cacheTTL   time.Duration
	logger     zerolog.Logger

	mu           sync.Mutex
	forwardCache map[string]forwardEntry
	reverseCache map[string]reverseEntry
}

type forwardEntry struct {
	place   geocode.Place
	expires time.Time
}

type reverseEntry struct {
	name    string
	expires time.Time
}

// NewClient creates a new Nominatim client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultConfig(ProviderName)
		clientCfg.Timeout = timeout
		resilient := resilience.NewClient(clientCfg)
		if cfg.Registry != nil {
			cfg.Registry.Register(ProviderName, resilient)
		}
		httpClient = resilient
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = DefaultCacheTTL
	}

	return &Client{
		baseURL:      baseURL,
		userAgent:    userAgent,
		httpClient:   httpClient,
		registry:     cfg.Registry,
		metrics:      cfg.Metrics,
		cacheTTL:     cacheTTL,
		logger:       cfg.Logger,
		forwardCache: make(map[string]forwardEntry),
		reverseCache: make(map[string]reverseEntry),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Forward geocodes a free-text query to the best matching place.
func (c *Client) Forward(ctx context.Context, query string) (*geocode.Place, error) {
	if place, ok := c.cachedForward(query); ok {
		c.recordCacheHit("forward")
		return place, nil
	}
	c.recordCacheMiss("forward")

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")

	c.logger.Debug().Str("query", query).Msg("forward geocoding")

	var results []nominatimPlace
	if err := c.get(ctx, "forward", "/search", q, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, geocode.ErrNoResult
	}

	place, err := results[0].toPlace()
	if err != nil {
		return nil, fmt.Errorf("parsing geocoding result: %w", err)
	}
	c.storeForward(query, *place)
	return place, nil
}

// Reverse resolves a coordinate to its display name.
func (c *Client) Reverse(ctx context.Context, coord geo.Coordinate) (string, error) {
	if err := geo.Validate(coord); err != nil {
		return "", err
	}

	lat := strconv.FormatFloat(coord.Lat, 'f', 6, 64)
	lon := strconv.FormatFloat(coord.Lon, 'f', 6, 64)
	key := lat + "," + lon

	if name, ok := c.cachedReverse(key); ok {
		c.recordCacheHit("reverse")
		return name, nil
	}
	c.recordCacheMiss("reverse")

	q := url.Values{}
	q.Set("lat", lat)
	q.Set("lon", lon)
	q.Set("format", "jsonv2")

	var result nominatimPlace
	if err := c.get(ctx, "reverse", "/reverse", q, &result); err != nil {
		return "", err
	}
	if result.DisplayName == "" {
		return "", geocode.ErrNoResult
	}
	c.storeReverse(key, result.DisplayName)
	return result.DisplayName, nil
}

func (c *Client) cachedForward(query string) (*geocode.Place, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.forwardCache[query]
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	place := entry.place
	return &place, true
}

func (c *Client) storeForward(query string, place geocode.Place) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pruneLocked()
	c.forwardCache[query] = forwardEntry{place: place, expires: time.Now().Add(c.cacheTTL)}
}

func (c *Client) cachedReverse(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.reverseCache[key]
	if !ok || time.Now().After(entry.expires) {
		return "", false
	}
	return entry.name, true
}

func (c *Client) storeReverse(key, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pruneLocked()
	c.reverseCache[key] = reverseEntry{name: name, expires: time.Now().Add(c.cacheTTL)}
}

func (c *Client) pruneLocked() {
	now := time.Now()
	for k, e := range c.forwardCache {
		if now.After(e.expires) {
			delete(c.forwardCache, k)
		}
	}
	for k, e := range c.reverseCache {
		if now.After(e.expires) {
			delete(c.reverseCache, k)
		}
	}
}

func (c *Client) recordCacheHit(op string) {
	if c.metrics != nil {
		c.metrics.RecordCacheHit(ProviderName, op)
	}
}

func (c *Client) recordCacheMiss(op string) {
	if c.metrics != nil {
		c.metrics.RecordCacheMiss(ProviderName, op)
	}
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	start := time.Now()
	err := c.fetch(ctx, path, query, out)
	if c.metrics != nil {
		c.metrics.RecordRequest(ProviderName, op, time.Since(start), err)
	}
	return err
}

func (c *Client) fetch(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure(err)
		return fmt.Errorf("%w: %s", geocode.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusTooManyRequests:
		c.recordFailure(geocode.ErrRateLimited)
		return geocode.ErrRateLimited
	case resp.StatusCode >= 500:
		c.recordFailure(geocode.ErrProviderUnavailable)
		return fmt.Errorf("%w: status %d", geocode.ErrProviderUnavailable, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d", geocode.ErrProviderUnavailable, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if c.registry != nil {
		c.registry.RecordSuccess(ProviderName)
	}
	return nil
}

func (c *Client) recordFailure(err error) {
	if c.registry != nil {
		c.registry.RecordFailure(ProviderName, err)
	}
}

// nominatimPlace is the subset of the Nominatim response we use.
// Nominatim serializes lat/lon as strings.
type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func (p *nominatimPlace) toPlace() (*geocode.Place, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q", p.Lat)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q", p.Lon)
	}
	return &geocode.Place{
		Name:       p.DisplayName,
		Coordinate: geo.Coordinate{Lat: lat, Lon: lon},
	}, nil
}
