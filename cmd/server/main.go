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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/adapters/event"
	httpAdapter "github.com/khoahotran/portfolio-cms/adapters/http"
	"github.com/khoahotran/portfolio-cms/adapters/media_storage"
	"github.com/khoahotran/portfolio-cms/adapters/persistence"
	"github.com/khoahotran/portfolio-cms/adapters/scanner"
	"github.com/khoahotran/portfolio-cms/internal/application/service"
	authUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/auth"
	experienceUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/experience"
	portfolioUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/portfolio"
	profileUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/profile"
	projectUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/project"
	skillUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/skill"
	uploadUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/upload"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/pkg/auth"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
	"github.com/khoahotran/portfolio-cms/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.App.LogLevel).With(zap.String("instance_id", cfg.App.InstanceID))
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Starting Portfolio CMS API Server...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "portfolio-api")
	if err != nil {
		appLogger.Fatal("Cannot init tracing", err)
	}

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Redis", err)
	}
	defer redisClient.Close()

	blobStore, err := media_storage.NewBlobStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize blob store", err)
	}

	var virusScanner service.Scanner
	if cfg.Clamd.Addr != "" {
		virusScanner = scanner.NewClamdScanner(cfg.Clamd.Addr, appLogger)
	}

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)
	experienceRepo := persistence.NewPostgresExperienceRepo(dbPool, appLogger)
	projectRepo := persistence.NewPostgresProjectRepo(dbPool, appLogger)
	skillRepo := persistence.NewPostgresSkillRepo(dbPool, appLogger)
	sessionStore := persistence.NewRedisSessionStore(redisClient)
	loginLimiter := persistence.NewRedisAttemptLimiter(redisClient, cfg.Auth.LoginAttemptsPerHour, time.Hour)

	// Snapshot and freshness
	aggregator := portfolioUC.NewAggregator(profileRepo, experienceRepo, projectRepo, skillRepo, appLogger)
	aggregator.Load(ctx)

	freshness := portfolioUC.NewFreshnessController(aggregator, appLogger.Named("freshness"),
		portfolioUC.WithInterval(cfg.Sync.RefreshInterval),
	)
	freshness.Start(ctx)

	// Events
	var publisher service.EventPublisher = event.NoopPublisher{}
	var kafkaClient *event.KafkaProducerClient
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err = event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot init Kafka", err)
		}
		publisher = kafkaClient
	} else {
		appLogger.Warn("Kafka brokers not configured, content events stay local")
	}
	notifier := portfolioUC.NewNotifier(aggregator, publisher, cfg.App.InstanceID, appLogger)

	var consumer *event.ContentEventConsumer
	if len(cfg.Kafka.Brokers) > 0 {
		consumer, err = event.NewContentEventConsumer(cfg, "portfolio-refresh-"+cfg.App.InstanceID,
			func(ctx context.Context, evt service.ContentEvent) error {
				notifier.HandleContentEvent(ctx, evt)
				return nil
			}, appLogger.Named("events"))
		if err != nil {
			appLogger.Fatal("Cannot init Kafka consumer", err)
		}
		go func() {
			if err := consumer.Run(ctx); err != nil {
				appLogger.Error("Content event consumer stopped", err)
			}
		}()
	}

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// Use Cases
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, notifier)
	uploadUseCase := uploadUC.NewUploadAssetUseCase(
		uploadUC.NewStrategy(blobStore, appLogger),
		uploadUC.NewGate(virusScanner),
		profileRepo,
		notifier,
		cfg.Storage.AssetBucket,
		appLogger,
	)

	// HTTP Handlers
	handlers := httpAdapter.Handlers{
		Portfolio: httpAdapter.NewPortfolioHandler(
			aggregator,
			freshness,
			portfolioUC.NewFeedUseCase(aggregator, cfg.App.PublicURL, appLogger),
			appLogger,
		),
		Auth: httpAdapter.NewAuthHandler(
			authUC.NewLoginUseCase(userRepo, jwtSvc, loginLimiter, appLogger),
			authUC.NewLogoutUseCase(sessionStore),
			authUC.NewCurrentUserUseCase(userRepo),
		),
		Profile: httpAdapter.NewProfileHandler(profileUseCase, appLogger),
		Experience: httpAdapter.NewExperienceHandler(
			experienceUC.NewListExperiencesUseCase(experienceRepo),
			experienceUC.NewSaveExperienceUseCase(experienceRepo, notifier),
			experienceUC.NewDeleteExperienceUseCase(experienceRepo, notifier),
		),
		Project: httpAdapter.NewProjectHandler(
			projectUC.NewListProjectsUseCase(projectRepo),
			projectUC.NewSaveProjectUseCase(projectRepo, notifier),
			projectUC.NewDeleteProjectUseCase(projectRepo, notifier),
		),
		Skill: httpAdapter.NewSkillHandler(
			skillUC.NewListSkillsUseCase(skillRepo),
			skillUC.NewReplaceSkillsUseCase(skillRepo, notifier),
		),
		Upload: httpAdapter.NewUploadHandler(uploadUseCase, appLogger),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		JWT:            jwtSvc,
		Sessions:       sessionStore,
		Logger:         appLogger,
		Metrics:        true,
		TrustedProxies: cfg.App.TrustedProxies,
	}, handlers)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Cannot run server", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shut down", err)
	}
	freshness.Stop()
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			appLogger.Error("Failed to close Kafka consumer", err)
		}
	}
	if kafkaClient != nil {
		kafkaClient.Close()
	}
	tracing.Shutdown(shutdownCtx, tp, appLogger)
}
