package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/farmwise-backend/internal/config"
	httpapi "github.com/tbourn/farmwise-backend/internal/http"
	"github.com/tbourn/farmwise-backend/internal/observability"
	"github.com/tbourn/farmwise-backend/internal/sysutil"
	"github.com/tbourn/farmwise-backend/internal/weather"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *options, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server until SIGINT or SIGTERM, then drain in-flight
requests for up to 10s.

Configuration is read from .env, the optional --config YAML file and the
environment:

` + config.Usage(),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, version, nil)
		},
	}
}

// runServe blocks until ctx is done or the listener fails. When ready is
// non-nil it receives the bound address once the server accepts connections.
func runServe(ctx context.Context, opts *options, version string, ready chan<- net.Addr) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	sysutil.SetupLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	deps := httpapi.Deps{Store: st}
	if key := cfg.Weather.APIKey(); key != "" {
		deps.Weather = weather.NewOpenWeatherClient(key, cfg.Weather.BaseURL, cfg.Weather.Timeout)
	} else {
		log.Warn().Msg("no weather API key configured, serving default readings")
	}
	if cfg.Redis.Addr != "" {
		cache, err := weather.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, weather cache disabled")
		} else {
			deps.WeatherCache = cache
			defer cache.Close()
		}
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	log.Info().
		Str("addr", ln.Addr().String()).
		Str("store", cfg.Store.Driver).
		Str("version", version).
		Msg("farmwise listening")
	if ready != nil {
		ready <- ln.Addr()
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
