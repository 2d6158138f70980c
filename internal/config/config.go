// Package config provides application configuration loaded from an optional
// .env file, an optional YAML file and environment variables, with defaults
// and validation. It centralizes server timeouts, logging, storage, rate
// limiting, weather and observability settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// CORSConfig defines Cross-Origin Resource Sharing settings. No origins
// means allow all.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool          `yaml:"enable_hsts"  env:"ENABLE_HSTS"  env-default:"false"`
	HSTSMaxAge time.Duration `yaml:"hsts_max_age" env:"HSTS_MAX_AGE" env-default:"4320h"`
}

// StoreConfig selects and locates the record store.
type StoreConfig struct {
	Driver  string `yaml:"driver"   env:"STORE_DRIVER" env-default:"file"`
	DataDir string `yaml:"data_dir" env:"DATA_DIR"     env-default:"server/data"`
	DBPath  string `yaml:"db_path"  env:"DB_PATH"      env-default:"farmwise.db"`
}

// WeatherConfig configures the OpenWeatherMap client and its cache.
type WeatherConfig struct {
	// OpenWeatherAPIKey wins over WeatherAPIKey when both are set.
	OpenWeatherAPIKey string        `yaml:"openweather_api_key" env:"OPENWEATHER_API_KEY"`
	WeatherAPIKey     string        `yaml:"api_key"             env:"WEATHER_API_KEY"`
	BaseURL           string        `yaml:"base_url"            env:"WEATHER_BASE_URL"  env-default:"https://api.openweathermap.org/data/2.5/weather"`
	Timeout           time.Duration `yaml:"timeout"             env:"WEATHER_TIMEOUT"   env-default:"5s"`
	CacheTTL          time.Duration `yaml:"cache_ttl"           env:"WEATHER_CACHE_TTL" env-default:"10m"`
}

// APIKey returns the configured provider key, or "" when weather runs on
// default values.
func (w WeatherConfig) APIKey() string {
	if k := strings.TrimSpace(w.OpenWeatherAPIKey); k != "" {
		return k
	}
	return strings.TrimSpace(w.WeatherAPIKey)
}

// RedisConfig configures the optional weather cache. Empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB" env-default:"0"`
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    `yaml:"enabled"      env:"OTEL_ENABLED"                env-default:"false"`
	Endpoint    string  `yaml:"endpoint"     env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4317"`
	Insecure    bool    `yaml:"insecure"     env:"OTEL_EXPORTER_OTLP_INSECURE" env-default:"true"`
	ServiceName string  `yaml:"service_name" env:"OTEL_SERVICE_NAME"           env-default:"farmwise-backend"`
	SampleRatio float64 `yaml:"sample_ratio" env:"OTEL_TRACES_SAMPLER_ARG"     env-default:"1.0"`
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        `yaml:"port"                env:"PORT"                env-default:"8080"`
	ReadTimeout       time.Duration `yaml:"read_timeout"        env:"READ_TIMEOUT"        env-default:"15s"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"READ_HEADER_TIMEOUT" env-default:"10s"`
	WriteTimeout      time.Duration `yaml:"write_timeout"       env:"WRITE_TIMEOUT"       env-default:"20s"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"        env:"IDLE_TIMEOUT"        env-default:"60s"`
	MaxHeaderBytes    int           `yaml:"max_header_bytes"    env:"MAX_HEADER_BYTES"    env-default:"1048576"`
	GinMode           string        `yaml:"gin_mode"            env:"GIN_MODE"            env-default:"release"`

	// Logging / Docs
	LogLevel       string `yaml:"log_level"       env:"LOG_LEVEL"       env-default:"info"`
	LogPretty      bool   `yaml:"log_pretty"      env:"LOG_PRETTY"      env-default:"false"`
	SwaggerEnabled bool   `yaml:"swagger_enabled" env:"SWAGGER_ENABLED" env-default:"false"`
	APIBasePath    string `yaml:"api_base_path"   env:"API_BASE_PATH"   env-default:"/api"`

	Store StoreConfig `yaml:"store"`

	// Rate limiting
	RateRPS   float64 `yaml:"rate_rps"   env:"RATE_RPS"   env-default:"5"`
	RateBurst int     `yaml:"rate_burst" env:"RATE_BURST" env-default:"10"`

	// Web protection
	CORS     CORSConfig     `yaml:"cors"`
	Security SecurityConfig `yaml:"security"`

	// IdempotencyTTL bounds how long an Idempotency-Key replays its result.
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl" env:"IDEMPOTENCY_TTL" env-default:"24h"`

	Weather WeatherConfig `yaml:"weather"`
	Redis   RedisConfig   `yaml:"redis"`
	OTEL    OTELConfig    `yaml:"otel"`
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads .env (when present, without overriding the environment), then
// the YAML file at path (when path is non-empty) overlaid by environment
// variables, then normalizes and validates the result.
func Load(path string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	normalize(&cfg)
	return cfg, validate(cfg)
}

// Usage returns the environment variable reference for --help output.
func Usage() string {
	var cfg Config
	desc, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return desc
}

func loadDotEnv(name string) error {
	if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(name); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}

func normalize(cfg *Config) {
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	cfg.GinMode = strings.ToLower(strings.TrimSpace(cfg.GinMode))
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	cfg.APIBasePath = normalizeBasePath(cfg.APIBasePath)
	cfg.CORS.AllowedOrigins = compact(cfg.CORS.AllowedOrigins)
}

func validate(cfg Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.Store.Driver {
	case DriverFile:
		if strings.TrimSpace(cfg.Store.DataDir) == "" {
			return errors.New("DATA_DIR must not be empty")
		}
	case DriverSQLite:
		if strings.TrimSpace(cfg.Store.DBPath) == "" {
			return errors.New("DB_PATH must not be empty")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of: %s, %s", DriverFile, DriverSQLite)
	}
	if cfg.RateRPS < 0 {
		return errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.Weather.Timeout <= 0 {
		return errors.New("WEATHER_TIMEOUT must be > 0")
	}
	if cfg.Weather.CacheTTL <= 0 {
		return errors.New("WEATHER_CACHE_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return nil
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizeBasePath ensures a leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
