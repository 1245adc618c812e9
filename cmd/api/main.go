package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/visage-campus/visage-backend/internal/api/http"
	"github.com/visage-campus/visage-backend/internal/api/http/handlers"
	"github.com/visage-campus/visage-backend/internal/auth"
	"github.com/visage-campus/visage-backend/internal/cache"
	"github.com/visage-campus/visage-backend/internal/config"
	"github.com/visage-campus/visage-backend/internal/events"
	"github.com/visage-campus/visage-backend/internal/observability"
	"github.com/visage-campus/visage-backend/internal/persistence"
	"github.com/visage-campus/visage-backend/internal/repository"
	"github.com/visage-campus/visage-backend/internal/service"
	"github.com/visage-campus/visage-backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.IsProduction())
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Auth.JWTSecret == config.DevJWTSecret {
		logger.Warn("using the development JWT secret; set JWT_SECRET before deploying")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.SQL(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	db := pg.SQL()
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)

	dispatcher := events.NewInMemoryDispatcher(logger)
	profileCache := cache.NewProfileCache(redis.Client, cfg.Redis.ProfileCacheTTL, logger)
	worker.Start(dispatcher, service.NewAuditService(dispatcher, logger), profileCache)

	authService, err := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Cache:      profileCache,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	userService := service.NewUserService(*cfg, service.UserDependencies{
		UserRepo:   userRepo,
		RoleRepo:   roleRepo,
		Dispatcher: dispatcher,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.ClaimManager())

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.IsProduction(),
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
