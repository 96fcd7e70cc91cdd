// Package geo provides the one-shot geolocation lookup used by the capture
// pipeline: a position source wrapped with a timeout, a freshness cache, and
// typed error translation.
package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coastwatch/hazard-report-service/internal/domain"
	"github.com/coastwatch/hazard-report-service/internal/observability"
)

// Typed geolocation failures. The provider never substitutes defaults
// itself; fallback is the capture orchestrator's responsibility.
var (
	ErrUnsupported      = errors.New("geolocation: no position source configured")
	ErrPermissionDenied = errors.New("geolocation: permission denied")
	ErrTimeout          = errors.New("geolocation: position fix timed out")
	ErrUnavailable      = errors.New("geolocation: position unavailable")
)

// PositionSource produces a single fresh position fix from the underlying
// platform or bridge device.
type PositionSource interface {
	Position(ctx context.Context, highAccuracy bool) (domain.Coordinates, error)
}

// Options configures the provider's freshness policy.
type Options struct {
	// Timeout bounds a single fix attempt. Default 10s.
	Timeout time.Duration
	// MaxAge is how long a cached fix stays fresh. Default 5m.
	MaxAge time.Duration
	// HighAccuracy requests a high-accuracy fix from the source.
	HighAccuracy bool
}

// Provider wraps a PositionSource with the freshness policy: a fix no older
// than MaxAge is served from cache; otherwise a new fix is forced under
// Timeout.
type Provider struct {
	source  PositionSource
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics

	mu        sync.Mutex
	lastFix   domain.Coordinates
	lastFixAt time.Time
	hasFix    bool
}

// NewProvider creates a Provider. A nil source models a host without
// location capability: every lookup fails with ErrUnsupported.
func NewProvider(source PositionSource, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Provider {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 5 * time.Minute
	}
	return &Provider{source: source, opts: opts, logger: logger, metrics: metrics}
}

// Current returns the most recent fix satisfying the freshness policy,
// forcing a new one when the cache is stale or empty.
func (p *Provider) Current(ctx context.Context) (domain.Coordinates, error) {
	if p.source == nil {
		p.metrics.GeoRequests.WithLabelValues("error").Inc()
		return domain.Coordinates{}, ErrUnsupported
	}

	p.mu.Lock()
	if p.hasFix && domain.Since(p.lastFixAt) <= p.opts.MaxAge {
		fix := p.lastFix
		p.mu.Unlock()
		p.metrics.GeoRequests.WithLabelValues("cached").Inc()
		return fix, nil
	}
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	coords, err := p.source.Position(ctx, p.opts.HighAccuracy)
	if err != nil {
		p.metrics.GeoRequests.WithLabelValues("error").Inc()
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.Coordinates{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return domain.Coordinates{}, err
	}

	p.mu.Lock()
	p.lastFix = coords
	p.lastFixAt = domain.Now()
	p.hasFix = true
	p.mu.Unlock()

	p.metrics.GeoRequests.WithLabelValues("success").Inc()
	p.logger.Debug("position fix acquired", "lat", coords.Latitude, "lng", coords.Longitude)
	return coords, nil
}
