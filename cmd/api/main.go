package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zivgin/canonical-product-builder/internal/cache"
	"github.com/zivgin/canonical-product-builder/internal/config"
	"github.com/zivgin/canonical-product-builder/internal/database"
	"github.com/zivgin/canonical-product-builder/internal/handler"
	"github.com/zivgin/canonical-product-builder/internal/middleware"
	"github.com/zivgin/canonical-product-builder/internal/repository"
	"github.com/zivgin/canonical-product-builder/internal/service"
	"github.com/zivgin/canonical-product-builder/internal/worker"
)

// main is the application entrypoint for the canonical product builder API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting canonical product builder")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 4. Initialize repositories
	listingRepo := repository.NewListingRepository(db)
	chainRepo := repository.NewChainRepository(db)
	canonicalRepo := repository.NewCanonicalRepository(db)

	// 5. Initialize services
	registryCache := cache.NewRegistryCache(redisClient, cfg.Session.RegistryTTL)
	registrySvc := service.NewRegistryService(chainRepo, registryCache)
	searchSvc := service.NewSearchService(listingRepo)
	builderSvc := service.NewBuilderService(canonicalRepo)
	sessionMgr := service.NewSessionManager(registrySvc, searchSvc, builderSvc)

	// 6. Initialize handlers
	handlers := &Handlers{
		Health:    handler.NewHealthHandler(db),
		Catalog:   handler.NewCatalogHandler(listingRepo, chainRepo),
		Session:   handler.NewSessionHandler(sessionMgr),
		Canonical: handler.NewCanonicalHandler(sessionMgr),
	}

	// 7. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers)

	// 8. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 9. Start workers
	go worker.NewRegistryWarmWorker(registrySvc, cfg.Worker.RegistryWarmInterval).Start(ctx)
	go worker.NewSessionReapWorker(sessionMgr, cfg.Session.TTL, cfg.Worker.SessionReapInterval).Start(ctx)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Cancel context to stop workers
	cancel()

	// 13. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health    *handler.HealthHandler
	Catalog   *handler.CatalogHandler
	Session   *handler.SessionHandler
	Canonical *handler.CanonicalHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	catalog := router.Group("/v1/catalog")
	{
		catalog.GET("/categories", handlers.Catalog.GetCategories)
		catalog.GET("/sub-categories", handlers.Catalog.GetSubCategories)
		catalog.GET("/chains", handlers.Catalog.GetChains)
	}

	sessions := router.Group("/v1/sessions")
	{
		sessions.POST("", handlers.Session.CreateSession)
		sessions.GET("/:id", handlers.Session.GetSession)
		sessions.DELETE("/:id", handlers.Session.DeleteSession)

		sessions.POST("/:id/search", handlers.Session.Search)
		sessions.POST("/:id/assign", handlers.Session.Assign)
		sessions.POST("/:id/unassign", handlers.Session.Unassign)
		sessions.POST("/:id/auto-assign", handlers.Session.AutoAssign)
		sessions.POST("/:id/reset", handlers.Session.Reset)

		sessions.POST("/:id/preview", handlers.Canonical.Preview)
		sessions.POST("/:id/save", handlers.Canonical.Save)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
