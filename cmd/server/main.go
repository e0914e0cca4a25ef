package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/database"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/logging"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/router"
	"github.com/iliyamo/room-reservation/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "room-reservation")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("schema migration failed", zap.Error(err))
		}
	}

	roomRepo := repository.NewRoomRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	var events service.EventPublisher
	if cfg.EventsEnabled {
		pub := queue.NewPublisher(cfg.RabbitMQURL, logger)
		defer pub.Close()
		events = pub

		consumer := queue.NewAuditConsumer(cfg.RabbitMQURL, cfg.AuditLogPath, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("audit consumer stopped", zap.Error(err))
			}
		}()
	}

	checks := []handler.HealthCheck{{Name: "mysql", Check: roomRepo.Ping}}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
		checks = append(checks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	} else {
		logger.Warn("redis unavailable, response cache and rate limiter disabled")
	}

	e := router.New(router.Deps{
		Rooms:     service.NewRoomService(roomRepo, logger),
		Bookings:  service.NewBookingService(bookingRepo, events, logger),
		Log:       logger,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		JWTSecret: cfg.JWTSecret,
		Checks:    checks,
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
