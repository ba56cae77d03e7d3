// Package radar implements the proximity radar: a toggleable session that
// evaluates a live location stream against unvisited geocoded items and
// fires each target's notification at most once per session.
package radar

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wanderlist/wanderlist/pkg/geo"
)

// Location provider errors.
var (
	// ErrPermissionDenied indicates the platform refused location or
	// notification permission. Fatal to the radar session.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrProviderClosed indicates the provider can no longer accept
	// subscriptions.
	ErrProviderClosed = errors.New("location provider closed")
)

// ErrorCode classifies location acquisition errors.
type ErrorCode string

const (
	// CodePermissionDenied is fatal: the session must stop.
	CodePermissionDenied ErrorCode = "permission-denied"
	// CodePositionUnavailable is transient: the subscription recovers on
	// its own.
	CodePositionUnavailable ErrorCode = "position-unavailable"
	// CodeTimeout is transient.
	CodeTimeout ErrorCode = "timeout"
)

// Fatal reports whether the error code ends the radar session.
func (c ErrorCode) Fatal() bool {
	return c == CodePermissionDenied
}

// Sample is a single location fix from the stream.
type Sample struct {
	Coordinate geo.Coordinate
	At         time.Time
}

// SubscribeOptions tunes the platform location stream.
type SubscribeOptions struct {
	HighAccuracy bool
	// MaxAge is the oldest acceptable cached fix.
	MaxAge time.Duration
	// Timeout bounds each acquisition attempt.
	Timeout time.Duration
}

// DefaultSubscribeOptions mirrors the values the client app requests.
func DefaultSubscribeOptions() SubscribeOptions {
	return SubscribeOptions{
		HighAccuracy: true,
		MaxAge:       10 * time.Second,
		Timeout:      20 * time.Second,
	}
}

// Subscription is a handle to an active location stream.
type Subscription interface {
	// Cancel stops the stream. No callbacks fire after Cancel returns.
	Cancel()
}

// Provider yields a continuous stream of location samples. The platform
// determines the cadence; there is no fixed period.
type Provider interface {
	Subscribe(opts SubscribeOptions, onSample func(Sample), onError func(ErrorCode)) (Subscription, error)
}

// PermissionGate models the platform notification-permission prompt that
// guards the OFF-to-ON transition.
type PermissionGate interface {
	// RequestNotificationPermission returns ErrPermissionDenied when the
	// user refuses.
	RequestNotificationPermission(ctx context.Context) error
}

// GrantAllPermissions is a PermissionGate that always grants. Used when
// the upstream device has already established permission.
type GrantAllPermissions struct{}

// RequestNotificationPermission always succeeds.
func (GrantAllPermissions) RequestNotificationPermission(context.Context) error { return nil }

// PushProvider is a Provider fed by an external source pushing samples in,
// such as a device streaming fixes over a WebSocket. It supports a single
// subscriber at a time.
type PushProvider struct {
	mu       sync.Mutex
	onSample func(Sample)
	onError  func(ErrorCode)
	closed   bool
}

// NewPushProvider creates a push-based location provider.
func NewPushProvider() *PushProvider {
	return &PushProvider{}
}

// Subscribe registers the subscriber callbacks.
func (p *PushProvider) Subscribe(_ SubscribeOptions, onSample func(Sample), onError func(ErrorCode)) (Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrProviderClosed
	}

	p.onSample = onSample
	p.onError = onError
	return &pushSubscription{provider: p}, nil
}

// Push delivers a location sample to the current subscriber, if any.
func (p *PushProvider) Push(s Sample) {
	p.mu.Lock()
	onSample := p.onSample
	p.mu.Unlock()

	if onSample != nil {
		onSample(s)
	}
}

// PushError delivers an acquisition error to the current subscriber.
func (p *PushProvider) PushError(code ErrorCode) {
	p.mu.Lock()
	onError := p.onError
	p.mu.Unlock()

	if onError != nil {
		onError(code)
	}
}

// Close drops the subscriber and refuses future subscriptions.
func (p *PushProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.onSample = nil
	p.onError = nil
}

type pushSubscription struct {
	provider *PushProvider
}

func (s *pushSubscription) Cancel() {
	p := s.provider
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onSample = nil
	p.onError = nil
}
