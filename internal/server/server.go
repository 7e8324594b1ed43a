package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ecomarket/internal/cart"
	"ecomarket/internal/config"
	"ecomarket/internal/database"
	"ecomarket/internal/events"
	custommiddleware "ecomarket/internal/middleware"
	"ecomarket/internal/repository"
	"ecomarket/internal/service"
	"ecomarket/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies are the external clients the API runs on. They are built by
// the caller and owned by the Server once passed in.
type Dependencies struct {
	DB database.Service
	// Redis backs carts, the catalog cache and rate limiting. When nil, carts
	// live in process memory and caching and rate limiting are off.
	Redis *redis.Client
	// Images is nil when object storage is not configured.
	Images    *repository.ImageRepository
	Publisher events.Publisher
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Server {
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}

	s := &Server{
		config: cfg,
		logger: logger,
		deps:   deps,
	}

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      s.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	cfg, logger, deps := s.config, s.logger, s.deps
	db := deps.DB.DB()

	router := chi.NewRouter()
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	router.Get("/health", s.health)

	// Repositories
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	messageRepo := repository.NewContactMessageRepository(db)

	var (
		cartStorage cart.Storage = cart.NewMemoryStorage()
		catalogCache service.CatalogCache
		invalidator  service.CatalogInvalidator
		contactLimit func(http.Handler) http.Handler
	)
	if deps.Redis != nil {
		cartStorage = repository.NewRedisCartStorage(deps.Redis, cfg.Cart.TTL)
		cache := repository.NewRedisCatalogCache(deps.Redis, cfg.Catalog.CacheTTL, logger)
		catalogCache, invalidator = cache, cache
		contactLimit = custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.ContactRequests,
			Window:            cfg.RateLimit.ContactWindow,
			KeyPrefix:         "rate:contact",
		}, logger)
	} else {
		logger.Warn("Redis not available, carts are kept in memory and catalog caching is off")
	}

	var images service.ImageStore
	if deps.Images != nil {
		images = deps.Images
	}

	// Services
	catalogService := service.NewCatalogService(productRepo, categoryRepo, catalogCache, logger)
	cartService := service.NewCartService(cartStorage, logger)
	contactService := service.NewContactService(messageRepo, invalidator, deps.Publisher, logger)
	productService := service.NewProductService(productRepo, images, cfg.Minio.MaxUploadB, invalidator, deps.Publisher, logger)
	categoryService := service.NewCategoryService(categoryRepo, invalidator, deps.Publisher, logger)
	summaryService := service.NewSummaryService(productRepo, categoryRepo, messageRepo)

	// Handlers
	transport.NewCatalogHandler(catalogService, logger).RegisterRoutes(router)
	transport.NewContactHandler(contactService, contactLimit, logger).RegisterRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(custommiddleware.CartSessionMiddleware(custommiddleware.CartSessionConfig{
			Secure: cfg.Cart.CookieSecure,
			MaxAge: cfg.Cart.TTL,
		}, logger))
		transport.NewCartHandler(cartService, logger).RegisterRoutes(r)
	})

	transport.NewAdminProductHandler(productService, cfg.Minio.MaxUploadB, logger).RegisterRoutes(router)
	transport.NewAdminCategoryHandler(categoryService, logger).RegisterRoutes(router)
	transport.NewAdminMessageHandler(contactService, summaryService, logger).RegisterRoutes(router)

	return router
}

// health reports database and redis status; 503 when the database is down.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"database": s.deps.DB.Health()}
	code := http.StatusOK
	if s.deps.DB.Health()["status"] != "up" {
		code = http.StatusServiceUnavailable
	}

	if s.deps.Redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := s.deps.Redis.Ping(ctx).Err(); err != nil {
			status["redis"] = map[string]string{"status": "down", "error": err.Error()}
		} else {
			status["redis"] = map[string]string{"status": "up"}
		}
	} else {
		status["redis"] = map[string]string{"status": "disabled"}
	}

	custommiddleware.RespondWithJSON(w, code, status)
}

// Close releases every dependency. It is safe to call after Shutdown.
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if err := s.deps.Publisher.Close(); err != nil {
		s.logger.Error("Failed to close event publisher", zap.Error(err))
	}

	if s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.deps.DB != nil {
		if err := s.deps.DB.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
