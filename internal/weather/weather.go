// Package weather fetches current conditions for a coordinate pair from
// OpenWeatherMap and optionally caches them in Redis.
//
// Fallback to mock readings is a service concern; see services.WeatherService.
package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Reading sources.
const (
	SourceLive    = "openweathermap"
	SourceCache   = "cache"
	SourceDefault = "default"
)

// Reading is the subset of current conditions the advisory form uses.
// Rainfall is the last hour's precipitation in mm, 0 when none was reported.
type Reading struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
	Source      string  `json:"source,omitempty"`
}

// Default is served when no provider is configured or the upstream fails.
func Default() Reading {
	return Reading{Temperature: 28, Humidity: 65, Rainfall: 450, Source: SourceDefault}
}

// Provider returns current conditions at a coordinate.
type Provider interface {
	Current(ctx context.Context, lat, lon float64) (Reading, error)
}

// ErrInvalidCoordinates is returned for NaN/Inf or out-of-range coordinates.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// ValidateCoordinates checks lat ∈ [-90, 90] and lon ∈ [-180, 180].
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return ErrInvalidCoordinates
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: lat=%g lon=%g", ErrInvalidCoordinates, lat, lon)
	}
	return nil
}

// CacheKey buckets coordinates to two decimals (about 1 km).
func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("weather:%.2f:%.2f", lat, lon)
}
