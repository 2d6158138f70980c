package weather

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWeatherClient_MapsFields(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{"lat": q.Get("lat"), "lon": q.Get("lon"), "appid": q.Get("appid"), "units": q.Get("units")}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"main":{"temp":31.4,"humidity":58},"rain":{"1h":2.5}}`))
	}))
	defer srv.Close()

	c := NewOpenWeatherClient("secret", srv.URL, time.Second)
	r, err := c.Current(context.Background(), 18.52, 73.85)
	require.NoError(t, err)

	assert.Equal(t, Reading{Temperature: 31.4, Humidity: 58, Rainfall: 2.5, Source: SourceLive}, r)
	assert.Equal(t, map[string]string{"lat": "18.52", "lon": "73.85", "appid": "secret", "units": "metric"}, gotQuery)
}

func TestOpenWeatherClient_NoRainIsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"main":{"temp":20,"humidity":40}}`))
	}))
	defer srv.Close()

	r, err := NewOpenWeatherClient("k", srv.URL, 0).Current(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.Rainfall)
}

func TestOpenWeatherClient_Errors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"cod":401,"message":"Invalid API key"}`, http.StatusUnauthorized)
		},
		"garbage": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		},
		"missing main": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"cod":"404"}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			_, err := NewOpenWeatherClient("k", srv.URL, time.Second).Current(context.Background(), 1, 2)
			assert.Error(t, err)
		})
	}
}

func TestOpenWeatherClient_HonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewOpenWeatherClient("k", srv.URL, 5*time.Second).Current(ctx, 1, 2)
	assert.Error(t, err)
}

func TestNewOpenWeatherClient_Defaults(t *testing.T) {
	c := NewOpenWeatherClient("k", "", 0)
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, 5*time.Second, c.HTTP.Timeout)
}

func TestDefaultReading(t *testing.T) {
	assert.Equal(t, Reading{Temperature: 28, Humidity: 65, Rainfall: 450, Source: SourceDefault}, Default())
}

func TestValidateCoordinates(t *testing.T) {
	assert.NoError(t, ValidateCoordinates(0, 0))
	assert.NoError(t, ValidateCoordinates(-90, 180))
	assert.True(t, errors.Is(ValidateCoordinates(91, 0), ErrInvalidCoordinates))
	assert.True(t, errors.Is(ValidateCoordinates(0, -181), ErrInvalidCoordinates))
	assert.True(t, errors.Is(ValidateCoordinates(math.NaN(), 0), ErrInvalidCoordinates))
	assert.True(t, errors.Is(ValidateCoordinates(0, math.Inf(1)), ErrInvalidCoordinates))
}

func TestCacheKey_RoundsToTwoDecimals(t *testing.T) {
	assert.Equal(t, "weather:18.52:73.86", CacheKey(18.5204, 73.8567))
	assert.Equal(t, CacheKey(18.5201, 73.8561), CacheKey(18.5249, 73.8559))
}

func TestNewRedisCache_EmptyAddrDisabled(t *testing.T) {
	c, err := NewRedisCache(context.Background(), "", "", 0)
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewRedisCache_UnreachableFails(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	c, err := NewRedisCache(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestRedisCache_ErrorsSurfaceWhenServerDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	c := NewRedisCacheFromClient(rdb)
	defer c.Close()

	_, hit, err := c.Get(context.Background(), "weather:1.00:2.00")
	assert.Error(t, err)
	assert.False(t, hit)
	assert.Error(t, c.Set(context.Background(), "weather:1.00:2.00", Default(), time.Minute))
}
