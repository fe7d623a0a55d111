package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Ebtehal15/turkey-items-v2/internal/catalog"
	"github.com/Ebtehal15/turkey-items-v2/internal/cron"
	"github.com/Ebtehal15/turkey-items-v2/internal/media"
	"github.com/Ebtehal15/turkey-items-v2/internal/pricehistory"
	"github.com/Ebtehal15/turkey-items-v2/internal/settings"
	"github.com/Ebtehal15/turkey-items-v2/internal/syncengine"
	"github.com/Ebtehal15/turkey-items-v2/pkg/config"
	"github.com/Ebtehal15/turkey-items-v2/pkg/db"
	"github.com/Ebtehal15/turkey-items-v2/pkg/logger"
	"github.com/Ebtehal15/turkey-items-v2/pkg/metrics"
	"github.com/Ebtehal15/turkey-items-v2/pkg/migrate"
	redisclient "github.com/Ebtehal15/turkey-items-v2/pkg/redis"
)

const lockName = "sync-worker"

func main() {
	logg := logger.New(logger.Options{ServiceName: "sync-worker"})

	once := flag.Bool("once", false, "run a single sync cycle and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "sync-worker",
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

	if err := migrate.AutoRun(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run boot migrations", err)
		os.Exit(1)
	}

	redisClient, err := redisclient.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	historyRepo := pricehistory.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	cleaner := media.NewCleaner(cfg.Media.Root, logg)

	catalogService, err := catalog.NewService(catalogRepo, historyRepo, dbClient, cleaner, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	syncEngine, err := syncengine.NewEngine(catalogService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync engine", err)
		os.Exit(1)
	}

	syncMetrics := metrics.NewSyncMetrics(prometheus.DefaultRegisterer)

	job, err := cron.NewAutoSyncJob(settingsService, syncengine.NewCSVSource(0), syncEngine, syncMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auto-sync job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(lockKey(cfg.App.Env)), cfg.Sync.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync lock", err)
		os.Exit(1)
	}

	runner, err := cron.NewRunner(cron.RunnerParams{
		Logger:   logg,
		Jobs:     []cron.Job{job},
		Lock:     lock,
		Metrics:  syncMetrics,
		Interval: cfg.Sync.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sync runner", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})

	if *once {
		logg.Info(ctx, "running single sync cycle")
		if err := runner.RunOnce(ctx); err != nil {
			logg.Error(ctx, "sync cycle failed", err)
			os.Exit(1)
		}
		return
	}

	logg.Info(ctx, "starting sync worker")
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "sync worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "sync worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("%s:%s", lockName, env)
}
