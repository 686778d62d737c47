package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/imranmdl/tile-granite-management-sub002/internal/application/service"
	"github.com/imranmdl/tile-granite-management-sub002/internal/config"
	"github.com/imranmdl/tile-granite-management-sub002/internal/infrastructure/database"
	"github.com/imranmdl/tile-granite-management-sub002/internal/infrastructure/repository"
	"github.com/imranmdl/tile-granite-management-sub002/internal/presentation/http/handler"
	"github.com/imranmdl/tile-granite-management-sub002/internal/presentation/http/middleware"
	"github.com/imranmdl/tile-granite-management-sub002/internal/presentation/http/routes"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/logger"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/utils"
)

const (
	shutdownTimeout     = 15 * time.Second
	idempotencySweepInt = 10 * time.Minute
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Setup(cfg.Log.Level, cfg.Log.Pretty)

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Apply migrations before gorm starts using the schema
	if err := database.MigrateDSN(ctx, cfg.Database.DSN()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}
	defer func() { _ = sqlDB.Close() }()

	if err := database.NewSchemaInspector(db, cfg.Schema.ExpectedVersion).Verify(ctx); err != nil {
		log.Fatal().Err(err).Msg("database schema does not match")
	}

	// Initialize repositories
	repos := repository.NewRepositories(db)
	uow := repository.NewUnitOfWork(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	settingsService := service.NewSettingsService(cfg.Engine, repos.Settings)
	inventoryService := service.NewInventoryService(uow, repos, settingsService)
	costingService := service.NewCostingService(repos, settingsService)
	commissionService := service.NewCommissionService(uow, repos, settingsService)
	resolver := service.NewSalesUserResolver(uow, repos)
	reportService := service.NewReportService(repos, settingsService)

	if cfg.Engine.BackfillOnStart {
		if _, err := resolver.BackfillSalesUsers(ctx); err != nil {
			log.Error().Err(err).Msg("sales user backfill failed")
		}
	}

	go middleware.SweepIdempotencyKeys(ctx, idempotencyRepo, idempotencySweepInt)

	// Initialize handlers
	handlers := &routes.Handlers{
		Health:     handler.NewHealthHandler(cfg.App.Name, sqlDB),
		Inventory:  handler.NewInventoryHandler(inventoryService),
		Costing:    handler.NewCostingHandler(costingService),
		Commission: handler.NewCommissionHandler(commissionService, resolver),
		Report:     handler.NewReportHandler(reportService),
		Settings:   handler.NewSettingsHandler(settingsService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiryHours),
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Stop:            ctx.Done(),
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("app", cfg.App.Name).Str("env", cfg.App.Env).Str("port", port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
