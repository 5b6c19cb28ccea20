// Package api provides the HTTP API for TripVibe.
package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tripvibe/tripvibe/internal/api/handler"
	"github.com/tripvibe/tripvibe/internal/api/middleware"
	"github.com/tripvibe/tripvibe/internal/picker"
	"github.com/tripvibe/tripvibe/internal/profile"
	"github.com/tripvibe/tripvibe/internal/provider/resilience"
	"github.com/tripvibe/tripvibe/internal/store"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	RequireTLS  bool

	StoreName   string
	Store       *store.ProfileStore
	Resolver    picker.CityResolver
	Assembler   *profile.Assembler
	Recommender handler.Recommender
	Registry    *resilience.Registry

	// Now overrides the clock used for place ids.
	Now func() time.Time
}

// NewRouter creates a chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "tripvibe-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))
	r.Use(middleware.ContentTypeJSON)

	cities := picker.NewCitySaver(picker.CitySaverConfig{
		Resolver: cfg.Resolver,
		Store:    cfg.Store,
		Logger:   cfg.Logger,
	})

	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		StoreName: cfg.StoreName,
		Store:     cfg.Store,
		Registry:  cfg.Registry,
	})
	profileHandler := handler.NewProfileHandler(cfg.Store, cities, cfg.Assembler, cfg.Logger)
	placesHandler := handler.NewPlacesHandler(cfg.Store, cfg.Logger, cfg.Now)
	geocodeHandler := handler.NewGeocodeHandler(cfg.Resolver)
	pickerHandler := handler.NewPickerHandler(cities, cfg.Logger)
	recommendationsHandler := handler.NewRecommendationsHandler(cfg.Recommender, cfg.Logger)

	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)
	geocodeRateLimit := middleware.RateLimitByIP(middleware.GeocodeRateLimit)
	recommendRateLimit := middleware.RateLimitByIP(middleware.RecommendRateLimit)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequireJSON)

		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		r.Route("/profile", func(r chi.Router) {
			r.With(standardRateLimit).Get("/", profileHandler.GetProfile)
			r.With(standardRateLimit).Delete("/", profileHandler.ResetProfile)
			r.With(standardRateLimit).Get("/payload", profileHandler.GetPayload)
			r.With(geocodeRateLimit).Put("/cities/{role}", profileHandler.PutCity)
		})

		r.Route("/places", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", placesHandler.ListPlaces)
			r.Post("/", placesHandler.AddPlace)
			r.Get("/draft", placesHandler.GetDraft)
			r.Put("/draft", placesHandler.PutDraft)
			r.Post("/draft/category", placesHandler.CycleDraftCategory)
			r.Delete("/draft", placesHandler.DeleteDraft)
			r.Delete("/{placeId}", placesHandler.DeletePlace)
		})

		r.Route("/picker", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", pickerHandler.GetPicker)
			r.Post("/actions", pickerHandler.ApplyAction)
			r.Post("/confirm", pickerHandler.ConfirmPicker)
		})

		r.With(geocodeRateLimit).Get("/geocode/reverse", geocodeHandler.ReverseGeocode)
		r.With(recommendRateLimit).Post("/recommendations", recommendationsHandler.CreateRecommendations)
		r.With(standardRateLimit).Get("/recommendations", recommendationsHandler.GetRecommendations)
	})

	return r
}
