package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/adapters/event"
	"github.com/khoahotran/portfolio-cms/adapters/media_storage"
	"github.com/khoahotran/portfolio-cms/adapters/persistence"
	"github.com/khoahotran/portfolio-cms/internal/application/service"
	backupUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/backup"
	portfolioUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/portfolio"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
	"github.com/khoahotran/portfolio-cms/pkg/tracing"
)

const backupGroupID = "portfolio-backup"

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.App.LogLevel).With(zap.String("instance_id", cfg.App.InstanceID))
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Starting Portfolio CMS Worker...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "portfolio-worker")
	if err != nil {
		appLogger.Fatal("Cannot init tracing", err)
	}

	// Database
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	// Blob store
	blobStore, err := media_storage.NewBlobStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize blob store", err)
	}

	// Repositories
	aggregator := portfolioUC.NewAggregator(
		persistence.NewPostgresProfileRepo(dbPool, appLogger),
		persistence.NewPostgresExperienceRepo(dbPool, appLogger),
		persistence.NewPostgresProjectRepo(dbPool, appLogger),
		persistence.NewPostgresSkillRepo(dbPool, appLogger),
		appLogger,
	)

	// Worker Use Case
	backup := backupUC.NewBackupUseCase(aggregator, blobStore, cfg.Storage.BackupBucket, appLogger)

	runBackup := func(ctx context.Context, reason string) error {
		out, err := backup.Execute(ctx)
		if err != nil {
			return err
		}
		appLogger.Info("Backup finished",
			zap.String("reason", reason),
			zap.Bool("skipped", out.Skipped),
			zap.String("url", out.URL),
			zap.String("change_token", out.ChangeToken),
		)
		return nil
	}

	if err := runBackup(ctx, "startup"); err != nil {
		appLogger.Error("Startup backup failed", err)
	}

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("Worker needs Kafka brokers to receive content events", nil)
	}

	// Kafka Consumer
	consumer, err := event.NewContentEventConsumer(cfg, backupGroupID,
		func(ctx context.Context, evt service.ContentEvent) error {
			return runBackup(ctx, evt.Resource)
		}, appLogger.Named("events"))
	if err != nil {
		appLogger.Fatal("Cannot init Kafka consumer", err)
	}

	if err := consumer.Run(ctx); err != nil {
		appLogger.Error("Content event consumer stopped", err)
	}

	appLogger.Info("Shutting down worker...")
	if err := consumer.Close(); err != nil {
		appLogger.Error("Failed to close Kafka consumer", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tracing.Shutdown(shutdownCtx, tp, appLogger)
}
