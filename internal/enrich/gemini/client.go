// Package gemini implements content enrichment with the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/wanderlist/wanderlist/internal/enrich"
	"github.com/wanderlist/wanderlist/internal/item"
)

const (
	// ProviderName identifies this enrichment provider.
	ProviderName = "gemini"

	// DefaultModel is the Gemini model used unless overridden.
	DefaultModel = "gemini-2.0-flash"

	// DefaultTemperature keeps suggestions factual rather than creative.
	DefaultTemperature = float32(0.3)

	// maxSuggestedStops caps how many stops a single generation may return.
	maxSuggestedStops = 12
)

// Config holds configuration for the Gemini enrichment client.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model overrides the default model name.
	Model string

	// Temperature overrides the default sampling temperature.
	Temperature *float32

	// MaxRetries bounds retry attempts for transient API failures.
	// Default: 3
	MaxRetries uint64

	// Metrics records request durations per operation (optional).
	Metrics RequestMetrics

	// Logger for client operations.
	Logger zerolog.Logger
}

// RequestMetrics records provider request outcomes.
type RequestMetrics interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
}

// Client generates travel content through the Gemini API.
type Client struct {
	client      *genai.Client
	model       string
	temperature float32
	maxRetries  uint64
	metrics     RequestMetrics
	logger      zerolog.Logger
}

// NewClient creates a Gemini enrichment client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	temperature := DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	return &Client{
		client:      genaiClient,
		model:       model,
		temperature: temperature,
		maxRetries:  maxRetries,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}, nil
}

// stopPayload is the JSON shape we instruct the model to produce per stop.
type stopPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsImportant bool   `json:"isImportant"`
}

// LookupStop fills in details for a named stop near the given location.
func (c *Client) LookupStop(ctx context.Context, name, location string) (*item.Stop, error) {
	prompt := fmt.Sprintf(`You are a travel guide. Describe the place %q near %q for a traveler's itinerary.

Respond with ONLY a JSON object in this exact format:
{"name": "canonical place name", "description": "one or two factual sentences", "isImportant": true}

Set isImportant to true only for must-see landmarks. If you do not know the place, respond with exactly: {"name": ""}`, name, location)

	text, err := c.generate(ctx, "lookup_stop", prompt)
	if err != nil {
		return nil, err
	}

	var payload stopPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", enrich.ErrNoResult, err)
	}
	if strings.TrimSpace(payload.Name) == "" {
		return nil, enrich.ErrNoResult
	}

	return &item.Stop{
		Name:        strings.TrimSpace(payload.Name),
		Description: strings.TrimSpace(payload.Description),
		IsImportant: payload.IsImportant,
	}, nil
}

// GenerateItinerary proposes an ordered list of stops for a destination.
func (c *Client) GenerateItinerary(ctx context.Context, locationName string) ([]item.Stop, error) {
	prompt := fmt.Sprintf(`You are a travel guide. Suggest 5 to 8 sights a visitor to %q should see, ordered as a sensible walking day.

Respond with ONLY a JSON array in this exact format:
[{"name": "place name", "description": "one factual sentence", "isImportant": true}]

If you do not know the destination, respond with exactly: []`, locationName)

	return c.generateStops(ctx, "generate_itinerary", prompt)
}

// GenerateRoadTripStops proposes waypoints between a start and a destination.
func (c *Client) GenerateRoadTripStops(ctx context.Context, start, destination string) ([]item.Stop, error) {
	prompt := fmt.Sprintf(`You are a road trip planner. Suggest 4 to 7 worthwhile stops on a drive from %q to %q, ordered along the route.

Respond with ONLY a JSON array in this exact format:
[{"name": "place name", "description": "one factual sentence", "isImportant": false}]

If you cannot plan this route, respond with exactly: []`, start, destination)

	return c.generateStops(ctx, "road_trip_stops", prompt)
}

// OptimizeOrder reorders stop names into an efficient visiting order. Names
// the model invents or drops are filtered out; the caller reconciles the
// result against its own list.
func (c *Client) OptimizeOrder(ctx context.Context, location string, names []string) ([]string, error) {
	if len(names) < 2 {
		return append([]string(nil), names...), nil
	}

	encoded, err := json.Marshal(names)
	if err != nil {
		return nil, fmt.Errorf("encoding stop names: %w", err)
	}

	prompt := fmt.Sprintf(`You are a travel route optimizer. Reorder these stops near %q to minimize travel between consecutive stops: %s

Respond with ONLY a JSON array of the same stop names in the new order. Do not add, rename, or remove stops.`, location, encoded)

	text, err := c.generate(ctx, "optimize_order", prompt)
	if err != nil {
		return nil, err
	}

	var ordered []string
	if err := json.Unmarshal([]byte(text), &ordered); err != nil {
		return nil, fmt.Errorf("%w: %s", enrich.ErrNoResult, err)
	}

	// Keep only known names, once each, in the model's order.
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	out := make([]string, 0, len(names))
	for _, n := range ordered {
		if known[n] {
			out = append(out, n)
			known[n] = false
		}
	}
	return out, nil
}

// DraftItem turns free text into a draft bucket-list item.
func (c *Client) DraftItem(ctx context.Context, text string) (*enrich.Draft, error) {
	prompt := fmt.Sprintf(`You are helping a user add an entry to their travel bucket list. Turn this note into a structured entry: %q

Respond with ONLY a JSON object in this exact format:
{"title": "short title", "description": "one or two sentences", "locationName": "place name or null", "category": "one of Adventure, Culture, Food, Nature, Other", "interests": ["up to 3 single-word tags"]}`, text)

	raw, err := c.generate(ctx, "draft_item", prompt)
	if err != nil {
		return nil, err
	}

	var draft enrich.Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("%w: %s", enrich.ErrInvalidDraft, err)
	}
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return nil, enrich.ErrInvalidDraft
	}
	if len(draft.Interests) > 3 {
		draft.Interests = draft.Interests[:3]
	}
	return &draft, nil
}

func (c *Client) generateStops(ctx context.Context, op, prompt string) ([]item.Stop, error) {
	text, err := c.generate(ctx, op, prompt)
	if err != nil {
		return nil, err
	}

	var payloads []stopPayload
	if err := json.Unmarshal([]byte(text), &payloads); err != nil {
		return nil, fmt.Errorf("%w: %s", enrich.ErrNoResult, err)
	}
	if len(payloads) > maxSuggestedStops {
		payloads = payloads[:maxSuggestedStops]
	}

	stops := make([]item.Stop, 0, len(payloads))
	for _, p := range payloads {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		stops = append(stops, item.Stop{
			Name:        name,
			Description: strings.TrimSpace(p.Description),
			IsImportant: p.IsImportant,
		})
	}
	if len(stops) == 0 {
		return nil, enrich.ErrNoResult
	}
	return stops, nil
}

// generate calls the model with retries and returns the cleaned text body.
// The operation name labels the request metrics.
func (c *Client) generate(ctx context.Context, op, prompt string) (string, error) {
	start := time.Now()
	text, err := c.generateContent(ctx, prompt)
	if c.metrics != nil {
		c.metrics.RecordRequest(ProviderName, op, time.Since(start), err)
	}
	return text, err
}

func (c *Client) generateContent(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx)

	var resp *genai.GenerateContentResponse
	err := backoff.Retry(func() error {
		var apiErr error
		resp, apiErr = c.client.Models.GenerateContent(ctx, c.model, contents, config)
		return apiErr
	}, policy)
	if err != nil {
		c.logger.Warn().Err(err).Str("model", c.model).Msg("gemini request failed")
		return "", fmt.Errorf("%w: %s", enrich.ErrUnavailable, err)
	}

	text := resp.Text()
	if text == "" {
		return "", enrich.ErrNoResult
	}
	return stripFences(text), nil
}

var fencePattern = regexp.MustCompile("(?s)^\\s*```(?:json|JSON)?\\s*\\n?(.*?)\\n?\\s*```\\s*$")

// stripFences strips a surrounding markdown code fence, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fencePattern.FindStringSubmatch(s); len(m) > 1 {
		s = m[1]
	}
	return strings.TrimSpace(s)
}
