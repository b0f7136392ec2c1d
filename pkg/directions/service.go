package directions

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/NERVsystems/routemcp/pkg/metrics"
)

const cacheName = "directions"

// Service validates requests, serves repeated lookups from an expiring
// LRU cache and records the triage status of every lookup. It never retries.
type Service struct {
	provider Provider
	cache    *expirable.LRU[string, Route]
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCache enables caching of up to size routes for ttl. A size of zero
// disables the cache.
func WithCache(size int, ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if size <= 0 {
			s.cache = nil
			return
		}
		s.cache = expirable.NewLRU[string, Route](size, nil, ttl)
	}
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// NewService wraps provider. Caching is off unless WithCache is given.
func NewService(provider Provider, opts ...ServiceOption) *Service {
	s := &Service{
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("provider", provider.Name())
	return s
}

// Provider returns the wrapped provider.
func (s *Service) Provider() Provider {
	return s.provider
}

func cacheKey(provider string, req Request) string {
	return strings.Join([]string{
		provider,
		string(req.Mode),
		strings.ToLower(req.Origin),
		strings.ToLower(req.Destination),
	}, "|")
}

// Directions resolves req to a route. The returned error can be triaged
// with Classify. Callers must treat the returned route's slices as
// read-only; they may be shared with the cache.
func (s *Service) Directions(ctx context.Context, req Request) (*Route, error) {
	logger := s.logger.With("request_id", uuid.NewString())

	req, err := req.Normalize()
	if err != nil {
		metrics.DirectionsRequests.WithLabelValues(s.provider.Name(), string(StatusInvalidRequest)).Inc()
		logger.Debug("rejected directions request", "error", err)
		return nil, err
	}

	key := cacheKey(s.provider.Name(), req)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			metrics.CacheHits.WithLabelValues(cacheName).Inc()
			metrics.DirectionsRequests.WithLabelValues(s.provider.Name(), string(StatusFound)).Inc()
			logger.Debug("directions served from cache", "origin", req.Origin, "destination", req.Destination)
			return &cached, nil
		}
		metrics.CacheMisses.WithLabelValues(cacheName).Inc()
	}

	start := time.Now()
	route, err := s.provider.Directions(ctx, req)
	metrics.DirectionsDuration.WithLabelValues(s.provider.Name()).Observe(time.Since(start).Seconds())

	status := Classify(err)
	metrics.DirectionsRequests.WithLabelValues(s.provider.Name(), string(status)).Inc()

	if err != nil {
		logger.Warn("directions lookup failed",
			"origin", req.Origin,
			"destination", req.Destination,
			"mode", req.Mode,
			"status", status,
			"error", err)
		return nil, err
	}

	logger.Info("directions found",
		"origin", req.Origin,
		"destination", req.Destination,
		"mode", req.Mode,
		"points", len(route.Points),
		"distance", route.Distance,
		"duration", route.Duration,
		"elapsed", time.Since(start))

	if s.cache != nil {
		s.cache.Add(key, *route)
	}
	return route, nil
}
