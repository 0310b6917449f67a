package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/stutiagarwal3007/esahayak-2025/internal/api/http"
	"github.com/stutiagarwal3007/esahayak-2025/internal/api/http/handlers"
	"github.com/stutiagarwal3007/esahayak-2025/internal/auth"
	"github.com/stutiagarwal3007/esahayak-2025/internal/config"
	"github.com/stutiagarwal3007/esahayak-2025/internal/events"
	"github.com/stutiagarwal3007/esahayak-2025/internal/observability"
	"github.com/stutiagarwal3007/esahayak-2025/internal/persistence"
	"github.com/stutiagarwal3007/esahayak-2025/internal/repository"
	"github.com/stutiagarwal3007/esahayak-2025/internal/service"
	"github.com/stutiagarwal3007/esahayak-2025/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	leadRepo := repository.NewLeadRepository(pool)
	historyRepo := repository.NewLeadHistoryRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	historyCache := service.NewHistoryCache(redis.ClientHandle())

	authService := service.NewAuthService(*cfg, userRepo)
	leadService := service.NewLeadService(service.LeadDependencies{
		LeadRepo:    leadRepo,
		HistoryRepo: historyRepo,
		Cache:       historyCache,
		Dispatcher:  dispatcher,
	})
	importService := service.NewImportService(cfg.Import, service.ImportDependencies{
		LeadRepo:    leadRepo,
		HistoryRepo: historyRepo,
		Cache:       historyCache,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	usersHandler := handlers.NewUsersHandler(authService)
	leadsHandler := handlers.NewLeadsHandler(leadService)
	importExportHandler := handlers.NewImportExportHandler(importService, leadService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Users:          usersHandler,
		Leads:          leadsHandler,
		ImportExport:   importExportHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
