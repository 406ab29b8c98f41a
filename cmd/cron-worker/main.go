package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dealerdesk/dealerdesk-backend/internal/cron"
	"github.com/dealerdesk/dealerdesk-backend/internal/reservations"
	"github.com/dealerdesk/dealerdesk-backend/internal/vehicles"
	"github.com/dealerdesk/dealerdesk-backend/pkg/config"
	"github.com/dealerdesk/dealerdesk-backend/pkg/db"
	"github.com/dealerdesk/dealerdesk-backend/pkg/instance"
	"github.com/dealerdesk/dealerdesk-backend/pkg/logger"
	"github.com/dealerdesk/dealerdesk-backend/pkg/metrics"
	"github.com/dealerdesk/dealerdesk-backend/pkg/migrate"
	"github.com/dealerdesk/dealerdesk-backend/pkg/outbox"
	"github.com/dealerdesk/dealerdesk-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, redisClient.CronLockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	vehicleRepo := vehicles.NewRepository(dbClient.DB())
	reservationRepo := reservations.NewRepository(dbClient.DB())
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	vehicleService, err := vehicles.NewService(vehicleRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create vehicles service", err)
		os.Exit(1)
	}
	reservationService, err := reservations.NewService(reservationRepo, dbClient, outboxService, vehicleService)
	if err != nil {
		logg.Error(context.Background(), "failed to create reservations service", err)
		os.Exit(1)
	}

	expirationJob, err := cron.NewReservationExpirationJob(cron.ReservationExpirationJobParams{
		Logger:       logg,
		Reservations: reservationService,
		BatchSize:    cfg.Sweeper.BatchSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reservation expiration job", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry()
	registry.Register(expirationJob)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: time.Duration(cfg.Sweeper.IntervalMS) * time.Millisecond,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"instance":    instance.GetID(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
