package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apphttp "github.com/spec-kit/club-admin/internal/api/http"
	"github.com/spec-kit/club-admin/internal/api/http/handlers"
	"github.com/spec-kit/club-admin/internal/auth"
	"github.com/spec-kit/club-admin/internal/config"
	"github.com/spec-kit/club-admin/internal/events"
	"github.com/spec-kit/club-admin/internal/observability"
	"github.com/spec-kit/club-admin/internal/persistence"
	"github.com/spec-kit/club-admin/internal/repository"
	"github.com/spec-kit/club-admin/internal/service"
	"github.com/spec-kit/club-admin/internal/session"
	"github.com/spec-kit/club-admin/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	metrics := observability.NewMetrics()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(rootCtx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(rootCtx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	rd := persistence.NewRedis(persistence.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rd.Close()

	var staffRepo repository.StaffRepository
	var activityRepo repository.ActivityRepository
	if pool := pg.PoolHandle(); pool != nil {
		staffRepo = repository.NewStaffRepository(pool)
		activityRepo = repository.NewActivityRepository(pool)
	} else {
		staffRepo = repository.NewMemoryStaffRepository()
		activityRepo = repository.NewMemoryActivityRepository()
	}

	// when Redis is unreachable sessions fall back to memory; readiness then
	// reports redis as skipped rather than failing on a dependency not in use
	var sessionStore session.Store
	var healthRedis *persistence.Redis
	if rd.Ping(rootCtx) == nil {
		logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
		sessionStore = session.NewRedisStore(rd.Client)
		healthRedis = rd
	} else {
		logger.Warn("redis unavailable; using in-memory session store")
		sessionStore = session.NewMemoryStore()
	}

	sessions := session.NewManager(sessionStore, staffRepo, cfg.Auth.SessionTTL(), cfg.Auth.SlidingExpiry, metrics)

	dispatcher := events.NewInMemoryDispatcher(logger)
	recorder := worker.NewActivityRecorder(activityRepo, logger)
	recorder.RegisterHandlers(dispatcher)

	worker.StartSessionSweeper(rootCtx, sessions, cfg.Auth.SweepInterval(), logger)

	if err := service.EnsureSeedAdmin(rootCtx, staffRepo, cfg.Seed, cfg.Auth, logger); err != nil {
		logger.Fatal("seed admin failed", zap.Error(err))
	}

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		StaffRepo:  staffRepo,
		Sessions:   sessions,
		Dispatcher: dispatcher,
		Delivery:   service.NewNoopResetDelivery(),
		Logger:     logger,
		Metrics:    metrics,
	})
	staffService := service.NewStaffService(cfg.Auth, service.StaffDependencies{
		StaffRepo:    staffRepo,
		ActivityRepo: activityRepo,
		Sessions:     sessions,
		Dispatcher:   dispatcher,
		Logger:       logger,
		Metrics:      metrics,
	})

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})

	apphttp.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	apphttp.RegisterRoutes(app, apphttp.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, healthRedis),
		Auth:           handlers.NewAuthHandler(authService),
		Staff:          handlers.NewStaffHandler(staffService),
		Activity:       handlers.NewActivityHandler(staffService),
		AuthMiddleware: auth.NewMiddleware(authService),
	})

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-rootCtx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
