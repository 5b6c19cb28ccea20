// Package config loads service configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config is the full service configuration.
type Config struct {
	App         AppConfig
	Store       StoreConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Geocoder    GeocoderConfig
	Recommender RecommenderConfig
	Telemetry   TelemetryConfig
}

// AppConfig holds HTTP server settings.
type AppConfig struct {
	Port        int
	Environment string
	Version     string
	LogLevel    string
	RequireTLS  bool
}

// StoreConfig selects the coordinate store backend.
type StoreConfig struct {
	Backend   string
	Namespace string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// GeocoderConfig configures the reverse geocoding provider.
type GeocoderConfig struct {
	APIKey         string
	BaseURL        string
	Timeout        time.Duration
	RequestsPerSec float64
	CacheTTL       time.Duration
}

// RecommenderConfig configures the recommendation backend.
type RecommenderConfig struct {
	BaseURL string

	// Timeout bounds one submission. Zero waits until the client gives up.
	Timeout          time.Duration
	GeminiWeight     float64
	SimilarityWeight float64
	DistanceWeight   float64
	DensityWeight    float64

	// ClearPlacesOnSubmit removes the collected places once the backend
	// accepts a request.
	ClearPlacesOnSubmit bool
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	SampleRate   float64
}

// Load reads configuration using defaults, an optional .env file in the
// working directory, and environment variables, in increasing precedence.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("VERSION", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REQUIRE_TLS", false)

	v.SetDefault("STORE_BACKEND", StoreMemory)
	v.SetDefault("STORE_NAMESPACE", "default")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "tripvibe")
	v.SetDefault("DB_PASSWORD", "localdev")
	v.SetDefault("DB_NAME", "tripvibe")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("GEOCODER_API_KEY", "")
	v.SetDefault("GEOCODER_BASE_URL", "https://maps.googleapis.com/maps/api/geocode")
	v.SetDefault("GEOCODER_TIMEOUT", "5s")
	v.SetDefault("GEOCODER_RPS", 10.0)
	v.SetDefault("GEOCODER_CACHE_TTL", "24h")

	v.SetDefault("RECOMMENDER_BASE_URL", "http://localhost:5000")
	v.SetDefault("RECOMMENDER_TIMEOUT", "60s")
	v.SetDefault("RECOMMENDER_WEIGHT_GEMINI", 0.5)
	v.SetDefault("RECOMMENDER_WEIGHT_SIMILARITY", 0.2)
	v.SetDefault("RECOMMENDER_WEIGHT_DISTANCE", 0.2)
	v.SetDefault("RECOMMENDER_WEIGHT_DENSITY", 0.1)
	v.SetDefault("RECOMMENDER_CLEAR_PLACES", true)

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_SAMPLE_RATE", 1.0)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Port:        v.GetInt("PORT"),
			Environment: v.GetString("ENVIRONMENT"),
			Version:     v.GetString("VERSION"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			RequireTLS:  v.GetBool("REQUIRE_TLS"),
		},
		Store: StoreConfig{
			Backend:   strings.ToLower(v.GetString("STORE_BACKEND")),
			Namespace: v.GetString("STORE_NAMESPACE"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSL_MODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Geocoder: GeocoderConfig{
			APIKey:         v.GetString("GEOCODER_API_KEY"),
			BaseURL:        v.GetString("GEOCODER_BASE_URL"),
			Timeout:        v.GetDuration("GEOCODER_TIMEOUT"),
			RequestsPerSec: v.GetFloat64("GEOCODER_RPS"),
			CacheTTL:       v.GetDuration("GEOCODER_CACHE_TTL"),
		},
		Recommender: RecommenderConfig{
			BaseURL:          v.GetString("RECOMMENDER_BASE_URL"),
			Timeout:          v.GetDuration("RECOMMENDER_TIMEOUT"),
			GeminiWeight:     v.GetFloat64("RECOMMENDER_WEIGHT_GEMINI"),
			SimilarityWeight: v.GetFloat64("RECOMMENDER_WEIGHT_SIMILARITY"),
			DistanceWeight:   v.GetFloat64("RECOMMENDER_WEIGHT_DISTANCE"),
			DensityWeight:    v.GetFloat64("RECOMMENDER_WEIGHT_DENSITY"),

			ClearPlacesOnSubmit: v.GetBool("RECOMMENDER_CLEAR_PLACES"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      v.GetBool("OTEL_ENABLED"),
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			SampleRate:   v.GetFloat64("OTEL_SAMPLE_RATE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that defaults cannot guarantee.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory, StorePostgres, StoreRedis:
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.App.Port)
	}
	if c.Recommender.BaseURL == "" {
		return errors.New("config: RECOMMENDER_BASE_URL is required")
	}
	if c.Recommender.Timeout < 0 {
		return fmt.Errorf("config: negative RECOMMENDER_TIMEOUT %s", c.Recommender.Timeout)
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}
