package resilience

import (
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Health is a point-in-time view of one provider's circuit state.
type Health struct {
	Name          string
	CircuitState  gobreaker.State
	Counts        gobreaker.Counts
	LastSuccessAt *time.Time
	LastFailureAt *time.Time
	LastError     string
}

// Healthy reports whether the provider circuit is closed.
func (h *Health) Healthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// Degraded reports whether the circuit is half-open and probing.
func (h *Health) Degraded() bool {
	return h.CircuitState == gobreaker.StateHalfOpen
}

// Registry tracks provider clients so operational endpoints can report
// on external dependencies.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*trackedClient
}

type trackedClient struct {
	client        *Client
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*trackedClient)}
}

// Register adds a client under the given provider name.
func (r *Registry) Register(name string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = &trackedClient{client: client}
}

// RecordSuccess notes a successful call to the named provider.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[name]; ok {
		now := time.Now()
		c.lastSuccessAt = &now
	}
}

// RecordFailure notes a failed call to the named provider.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[name]; ok {
		now := time.Now()
		c.lastFailureAt = &now
		if err != nil {
			c.lastError = err.Error()
		}
	}
}

// Lookup returns the health of one provider, or nil if unknown.
func (r *Registry) Lookup(name string) *Health {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[name]
	if !ok {
		return nil
	}
	return c.health(name)
}

// All returns the health of every registered provider.
func (r *Registry) All() []*Health {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Health, 0, len(r.clients))
	for name, c := range r.clients {
		out = append(out, c.health(name))
	}
	return out
}

func (c *trackedClient) health(name string) *Health {
	return &Health{
		Name:          name,
		CircuitState:  c.client.BreakerState(),
		Counts:        c.client.BreakerCounts(),
		LastSuccessAt: c.lastSuccessAt,
		LastFailureAt: c.lastFailureAt,
		LastError:     c.lastError,
	}
}
