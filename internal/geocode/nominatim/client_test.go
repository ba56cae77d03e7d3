package nominatim_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlist/wanderlist/internal/geocode"
	"github.com/wanderlist/wanderlist/internal/geocode/nominatim"
	"github.com/wanderlist/wanderlist/pkg/geo"
)

func TestClient_Forward(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Kyoto", r.URL.Query().Get("q"))
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"display_name":"Kyoto, Kyoto Prefecture, Japan","lat":"35.0116","lon":"135.7681"}]`))
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	place, err := client.Forward(context.Background(), "Kyoto")
	require.NoError(t, err)

	assert.Equal(t, "Kyoto, Kyoto Prefecture, Japan", place.Name)
	assert.InDelta(t, 35.0116, place.Coordinate.Lat, 1e-9)
	assert.InDelta(t, 135.7681, place.Coordinate.Lon, 1e-9)
}

func TestClient_Forward_NoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Forward(context.Background(), "xyzzy nowhere")
	assert.ErrorIs(t, err, geocode.ErrNoResult)
}

func TestClient_Reverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "35.011600", r.URL.Query().Get("lat"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name":"Kyoto, Japan","lat":"35.0116","lon":"135.7681"}`))
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	name, err := client.Reverse(context.Background(), geo.Coordinate{Lat: 35.0116, Lon: 135.7681})
	require.NoError(t, err)
	assert.Equal(t, "Kyoto, Japan", name)
}

func TestClient_Reverse_InvalidCoordinate(t *testing.T) {
	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    "http://unused.invalid",
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Reverse(context.Background(), geo.Coordinate{Lat: 91, Lon: 0})
	assert.Error(t, err)
}

// recordingMetrics counts metric recordings per operation.
type recordingMetrics struct {
	requests []string
	hits     []string
	misses   []string
}

func (m *recordingMetrics) RecordRequest(provider, operation string, _ time.Duration, _ error) {
	m.requests = append(m.requests, provider+"/"+operation)
}

func (m *recordingMetrics) RecordCacheHit(provider, operation string) {
	m.hits = append(m.hits, provider+"/"+operation)
}

func (m *recordingMetrics) RecordCacheMiss(provider, operation string) {
	m.misses = append(m.misses, provider+"/"+operation)
}

func TestClient_Forward_CachesResult(t *testing.T) {
	var requestCount int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requestCount++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"display_name":"Kyoto, Japan","lat":"35.0116","lon":"135.7681"}]`))
	}))
	defer server.Close()

	metrics := &recordingMetrics{}
	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
		Metrics:    metrics,
	})

	first, err := client.Forward(context.Background(), "Kyoto")
	require.NoError(t, err)

	second, err := client.Forward(context.Background(), "Kyoto")
	require.NoError(t, err)

	assert.Equal(t, 1, requestCount, "second lookup should be served from cache")
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, []string{"nominatim/forward"}, metrics.requests)
	assert.Equal(t, []string{"nominatim/forward"}, metrics.misses)
	assert.Equal(t, []string{"nominatim/forward"}, metrics.hits)
}

func TestClient_Reverse_CachesResult(t *testing.T) {
	var requestCount int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requestCount++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name":"Kyoto, Japan","lat":"35.0116","lon":"135.7681"}`))
	}))
	defer server.Close()

	metrics := &recordingMetrics{}
	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
		Metrics:    metrics,
	})

	coord := geo.Coordinate{Lat: 35.0116, Lon: 135.7681}

	_, err := client.Reverse(context.Background(), coord)
	require.NoError(t, err)

	name, err := client.Reverse(context.Background(), coord)
	require.NoError(t, err)

	assert.Equal(t, 1, requestCount, "second lookup should be served from cache")
	assert.Equal(t, "Kyoto, Japan", name)
	assert.Equal(t, []string{"nominatim/reverse"}, metrics.misses)
	assert.Equal(t, []string{"nominatim/reverse"}, metrics.hits)
}

func TestClient_Forward_DoesNotCacheFailures(t *testing.T) {
	var requestCount int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requestCount++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	metrics := &recordingMetrics{}
	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
		Metrics:    metrics,
	})

	_, err := client.Forward(context.Background(), "xyzzy nowhere")
	assert.ErrorIs(t, err, geocode.ErrNoResult)

	_, err = client.Forward(context.Background(), "xyzzy nowhere")
	assert.ErrorIs(t, err, geocode.ErrNoResult)

	assert.Equal(t, 2, requestCount)
	assert.Empty(t, metrics.hits)
}

func TestClient_RecordsRequestErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	metrics := &recordingMetrics{}
	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
		Metrics:    metrics,
	})

	_, err := client.Forward(context.Background(), "anywhere")
	assert.ErrorIs(t, err, geocode.ErrProviderUnavailable)
	assert.Equal(t, []string{"nominatim/forward"}, metrics.requests)
}

func TestClient_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Forward(context.Background(), "anywhere")
	assert.ErrorIs(t, err, geocode.ErrRateLimited)
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Forward(context.Background(), "anywhere")
	assert.ErrorIs(t, err, geocode.ErrProviderUnavailable)
}
