package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/farmwise-backend/internal/weather"
)

// WeatherService returns current conditions, falling back to
// weather.Default() when no provider is configured or the provider fails.
// Weather lookups never fail a request except for invalid coordinates.
type WeatherService struct {
	// Provider is nil when no API key is configured.
	Provider weather.Provider
	// Cache is optional.
	Cache    weather.Cache
	CacheTTL time.Duration
}

// NewWeatherService constructs a WeatherService. Both provider and cache may
// be nil.
func NewWeatherService(p weather.Provider, c weather.Cache, ttl time.Duration) *WeatherService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &WeatherService{Provider: p, Cache: c, CacheTTL: ttl}
}

// Current returns the reading for (lat, lon).
func (s *WeatherService) Current(ctx context.Context, lat, lon float64) (weather.Reading, error) {
	ctx, span := otel.Tracer("services/WeatherService").Start(ctx, "Current")
	defer span.End()

	if err := weather.ValidateCoordinates(lat, lon); err != nil {
		return weather.Reading{}, ErrInvalidCoordinates
	}

	if s.Provider == nil {
		weatherFallbacks.WithLabelValues(fallbackNoProvider).Inc()
		span.SetAttributes(attribute.String("weather.source", weather.SourceDefault))
		return weather.Default(), nil
	}

	key := weather.CacheKey(lat, lon)
	if s.Cache != nil {
		r, hit, err := s.Cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("weather cache get")
		} else if hit {
			r.Source = weather.SourceCache
			span.SetAttributes(attribute.String("weather.source", r.Source))
			return r, nil
		}
	}

	r, err := s.Provider.Current(ctx, lat, lon)
	if err != nil {
		log.Warn().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("weather provider failed, serving defaults")
		weatherFallbacks.WithLabelValues(fallbackUpstreamError).Inc()
		span.RecordError(err)
		span.SetAttributes(attribute.String("weather.source", weather.SourceDefault))
		return weather.Default(), nil
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, r, s.CacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("weather cache set")
		}
	}
	span.SetAttributes(attribute.String("weather.source", r.Source))
	return r, nil
}
