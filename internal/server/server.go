package server

import (
	"fmt"
	"net/http"
	"time"

	"region-latency-demo/internal/config"
	"region-latency-demo/internal/database"
	"region-latency-demo/internal/metrics"
	custommiddleware "region-latency-demo/internal/middleware"
	"region-latency-demo/internal/service"
	"region-latency-demo/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Dependencies are the components the HTTP layer is wired onto
type Dependencies struct {
	Analytics service.AnalyticsService
	Seeder    transport.SeedRunner
	Stores    []*database.Store
	// Redis enables rate limiting of the seeding routes when set
	Redis *redis.Client
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Server {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.MetricsMiddleware)
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.IsDevelopment()))

	s := &Server{
		config: cfg,
		logger: logger,
		deps:   deps,
	}

	router.Get("/health", s.health)
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	transport.NewRegionHandler(logger).RegisterRoutes(router)
	transport.NewAnalyticsHandler(deps.Analytics, logger).RegisterRoutes(router)
	transport.NewSeedHandler(deps.Seeder, logger).RegisterRoutes(router, s.seedGuards()...)

	s.Server = &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:     otelhttp.NewHandler(router, "region-latency-demo"),
		IdleTimeout: time.Minute,
		ReadTimeout: 10 * time.Second,
		// Seeding a region with the default settings takes minutes
		WriteTimeout: 15 * time.Minute,
	}

	return s
}

func (s *Server) seedGuards() []func(http.Handler) http.Handler {
	var guards []func(http.Handler) http.Handler

	if s.config.Auth.JWTSecret != "" {
		guards = append(guards,
			custommiddleware.AuthMiddleware(s.config.Auth.JWTSecret, s.logger),
			custommiddleware.RequireAdmin(s.logger),
		)
	} else {
		s.logger.Warn("JWT_SECRET is not set, seeding routes are unauthenticated")
	}

	if s.deps.Redis != nil {
		guards = append(guards, custommiddleware.RateLimitMiddleware(s.deps.Redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: s.config.Redis.RateLimit,
			Window:            time.Duration(s.config.Redis.RateLimitSecs) * time.Second,
			KeyPrefix:         "rate_limit:seed",
		}, s.logger))
	}

	return guards
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	regions := make([]map[string]string, 0, len(s.deps.Stores))
	status := "ok"
	for _, store := range s.deps.Stores {
		h := store.Health(r.Context())
		if h["status"] != "up" {
			status = "degraded"
		}
		regions = append(regions, h)
	}
	if len(regions) == 0 {
		status = "degraded"
	}

	custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"regions": regions,
	})
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	for _, store := range s.deps.Stores {
		if err := store.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.String("region", store.Region), zap.Error(err))
		}
	}

	if s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
