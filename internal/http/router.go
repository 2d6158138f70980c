// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/farmwise-backend/internal/config"
	"github.com/tbourn/farmwise-backend/internal/http/handlers"
	"github.com/tbourn/farmwise-backend/internal/http/middleware"
	"github.com/tbourn/farmwise-backend/internal/repo"
	"github.com/tbourn/farmwise-backend/internal/services"
	"github.com/tbourn/farmwise-backend/internal/weather"
)

// MaxBodyBytes caps every request body.
const MaxBodyBytes = 1 << 20

// Deps are the collaborators RegisterRoutes builds services from.
type Deps struct {
	Store repo.Store
	// Weather is nil when no API key is configured; readings then fall back
	// to weather.Default().
	Weather weather.Provider
	// WeatherCache is optional.
	WeatherCache weather.Cache
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with phone/email scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip (metrics endpoint excluded)
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per client IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{middleware.HeaderFarmerID},
	}))
	r.Use(middleware.Recovery())
	r.Use(middleware.BodyLimit(MaxBodyBytes))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	st := deps.Store
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, scope, kind, key string, now time.Time) (bool, error) {
			rec, err := st.GetIdempotency(ctx, scope, kind, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	useCORS(r, cfg.CORS)

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	predictions := services.NewPredictionService(st)
	if cfg.IdempotencyTTL > 0 {
		predictions.IdempotencyTTL = cfg.IdempotencyTTL
	}
	h := handlers.New(
		services.NewFarmerService(st),
		predictions,
		services.NewSoilService(st),
		services.NewWeatherService(deps.Weather, deps.WeatherCache, cfg.Weather.CacheTTL),
	)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.POST("/farmers/login", h.Login)
		api.GET("/farmers/:id", h.GetFarmer)
		api.GET("/farmers/:id/predictions", h.ListPredictions)

		api.GET("/soil/:district", h.GetSoil)
		api.GET("/weather", h.GetWeather)

		api.POST("/predict/crop", h.PredictCrop)
		api.POST("/predict/yield", h.PredictYield)

		api.GET("/catalog/languages", h.ListLanguages)
		api.GET("/catalog/states", h.ListStates)
		api.GET("/catalog/states/:state/districts", h.ListDistricts)
		api.GET("/catalog/crops", h.ListCrops)
	}
}

// useCORS allows every origin when none are configured; otherwise only the
// allowlist is echoed back.
func useCORS(r *gin.Engine, cc config.CORSConfig) {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderFarmerID, middleware.HeaderIdempotencyKey},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag", "Idempotency-Replayed"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(cc.AllowedOrigins) == 0 {
		// ACAO: * even without an Origin header, so plain curl and health
		// probes see the same posture as browsers.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		base.AllowAllOrigins = true
		r.Use(cors.New(base))
		return
	}

	allowed := make(map[string]struct{}, len(cc.AllowedOrigins))
	for _, o := range cc.AllowedOrigins {
		allowed[o] = struct{}{}
	}
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
		}
		c.Next()
	})
	base.AllowOrigins = cc.AllowedOrigins
	r.Use(cors.New(base))
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
