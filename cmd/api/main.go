// Package main provides the entrypoint for the TripVibe API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tripvibe/tripvibe/internal/api"
	"github.com/tripvibe/tripvibe/internal/api/middleware"
	"github.com/tripvibe/tripvibe/internal/config"
	"github.com/tripvibe/tripvibe/internal/database"
	"github.com/tripvibe/tripvibe/internal/geocode"
	"github.com/tripvibe/tripvibe/internal/geocode/google"
	"github.com/tripvibe/tripvibe/internal/profile"
	"github.com/tripvibe/tripvibe/internal/provider/resilience"
	"github.com/tripvibe/tripvibe/internal/recommend"
	"github.com/tripvibe/tripvibe/internal/recommend/backend"
	"github.com/tripvibe/tripvibe/internal/store"
	"github.com/tripvibe/tripvibe/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tripvibe-api"

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if Version == "dev" && cfg.App.Version != "" {
		Version = cfg.App.Version
	}

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()
	if level, err := zerolog.ParseLevel(cfg.App.LogLevel); err == nil {
		log = log.Level(level)
	}

	log.Info().
		Str("build_time", BuildTime).
		Str("environment", cfg.App.Environment).
		Msg("starting TripVibe API")

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.App.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	backing, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("failed to open store")
	}
	defer closeStore()

	registry := resilience.NewRegistry()
	profileStore := store.NewProfileStore(backing)

	var geocoder geocode.Provider
	if cfg.Geocoder.APIKey != "" {
		httpClient := resilience.DefaultClientConfig(google.ProviderName)
		httpClient.Timeout = cfg.Geocoder.Timeout
		httpClient.Registry = registry
		geocoder = google.NewClient(google.ClientConfig{
			APIKey:            cfg.Geocoder.APIKey,
			BaseURL:           cfg.Geocoder.BaseURL,
			RequestsPerSecond: cfg.Geocoder.RequestsPerSec,
			HTTPClient:        resilience.NewClient(httpClient),
			Logger:            log,
		})
	} else {
		log.Warn().Msg("GEOCODER_API_KEY not set - every city resolves to " + geocode.UnknownCity)
	}
	resolver := geocode.NewResolver(geocode.ResolverConfig{
		Provider: geocoder,
		Logger:   log,
		CacheTTL: cfg.Geocoder.CacheTTL,
	})

	weights := recommend.Weights{
		Gemini:     cfg.Recommender.GeminiWeight,
		Similarity: cfg.Recommender.SimilarityWeight,
		Distance:   cfg.Recommender.DistanceWeight,
		Density:    cfg.Recommender.DensityWeight,
	}
	if err := weights.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid recommender weights")
	}

	assembler := profile.NewAssembler(profile.AssemblerConfig{
		Store:  profileStore,
		Logger: log,
	})

	var clearer recommend.PlacesClearer
	if cfg.Recommender.ClearPlacesOnSubmit {
		clearer = profileStore
	}
	recommender := recommend.NewService(recommend.ServiceConfig{
		Assembler: assembler,
		Fetcher: backend.NewClient(backend.ClientConfig{
			BaseURL:  cfg.Recommender.BaseURL,
			Timeout:  cfg.Recommender.Timeout,
			Registry: registry,
			Logger:   log,
		}),
		Weights: weights,
		Clearer: clearer,
		Logger:  log,
	})
	log.Info().
		Str("recommender", cfg.Recommender.BaseURL).
		Dur("timeout", cfg.Recommender.Timeout).
		Bool("clear_places_on_submit", cfg.Recommender.ClearPlacesOnSubmit).
		Msg("recommendation service initialized")

	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		RequireTLS:  cfg.App.RequireTLS,
		StoreName:   cfg.Store.Backend,
		Store:       profileStore,
		Resolver:    resolver,
		Assembler:   assembler,
		Recommender: recommender,
		Registry:    registry,
	})

	// The write timeout covers a full recommendation round trip; an
	// unbounded recommender leaves it unbounded too.
	var writeTimeout time.Duration
	if cfg.Recommender.Timeout > 0 {
		writeTimeout = cfg.Recommender.Timeout + 15*time.Second
	}
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// openStore connects the configured coordinate store backend and returns a
// function that releases it.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info().
			Str("host", cfg.Database.Host).
			Int("port", cfg.Database.Port).
			Str("database", cfg.Database.Name).
			Msg("database connected")
		return store.NewPostgresStore(pool, cfg.Store.Namespace), pool.Close, nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
		return store.NewRedisStore(client, cfg.Store.Namespace), func() { _ = client.Close() }, nil

	default:
		log.Warn().Msg("using in-memory store - profile data is lost on restart")
		return store.NewInMemoryStore(), func() {}, nil
	}
}
