package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartbeam/photo-service/config"
	kafkactrl "github.com/heartbeam/photo-service/internal/controller/kafka"
	"github.com/heartbeam/photo-service/internal/controller/restapi"
	"github.com/heartbeam/photo-service/internal/controller/worker/outbox"
	"github.com/heartbeam/photo-service/internal/infrastructure/auth"
	"github.com/heartbeam/photo-service/internal/infrastructure/entitlement"
	infrakafka "github.com/heartbeam/photo-service/internal/infrastructure/kafka"
	"github.com/heartbeam/photo-service/internal/infrastructure/moderation"
	"github.com/heartbeam/photo-service/internal/infrastructure/processor"
	"github.com/heartbeam/photo-service/internal/repo/migrations"
	"github.com/heartbeam/photo-service/internal/repo/persistent"
	"github.com/heartbeam/photo-service/internal/usecase/photo"
	"github.com/heartbeam/photo-service/pkg/httpserver"
	"github.com/heartbeam/photo-service/pkg/kafka/consumer"
	"github.com/heartbeam/photo-service/pkg/kafka/producer"
	"github.com/heartbeam/photo-service/pkg/logger"
	"github.com/heartbeam/photo-service/pkg/postgres"
	"github.com/heartbeam/photo-service/pkg/s3client"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Migrations
	err := migrations.Run(ctx, cfg.PG.URL)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - migrations.Run: %w", err))
	}

	// Repository

	// s3
	s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3.CfgLoadTimeout)
	defer s3Cancel()
	s3c, err := s3client.New(s3Ctx, cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - s3client.New: %w", err))
	}

	// postgres
	pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pg.Close()

	// Use-Case
	photoUseCase := photo.New(
		persistent.NewPhotoObjectRepo(s3c, cfg.S3.Bucket, cfg.S3.PublicBaseURL),
		persistent.NewPhotoMetadataRepo(pg),
		persistent.NewProfileRepo(pg),
		persistent.NewOutboxReviewRepo(pg),
		pg,
		processor.New(cfg.Photo.MinDimension, cfg.Photo.MaxDimension, cfg.Photo.OutputMaxSide, cfg.Photo.ThumbnailSize),
		moderation.New(cfg.Moderation.URL, cfg.Moderation.Token, moderation.Timeout(cfg.Moderation.Timeout)),
		entitlement.New(cfg.Entitlement.URL, cfg.Entitlement.Token, entitlement.Timeout(cfg.Entitlement.Timeout)),
		photo.Limits{
			MaxOutputBytes: cfg.Photo.MaxOutputBytes,
			FreeLimit:      cfg.Photo.FreeLimit,
			PremiumLimit:   cfg.Photo.PremiumLimit,
		},
		l,
	)

	// Kafka Producer
	kafkaProducer, err := producer.New(ctx, cfg.Kafka.Brokers)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - producer.New: %w", err))
	}

	// Outbox Relay Worker
	outboxRelayWorker := outbox.New(
		photoUseCase,
		infrakafka.NewEventProducer(kafkaProducer, cfg.Kafka.ReviewTopic),
		l,
		cfg.OutboxRelay.PollInterval,
		cfg.OutboxRelay.CleanupInterval,
		cfg.OutboxRelay.MarkFailedInterval,
		cfg.OutboxRelay.ProcessBatchTimeout,
		cfg.OutboxRelay.BatchSize,
		cfg.OutboxRelay.MaxRetries,
	)

	// Kafka Consumer
	kafkaConsumer, err := consumer.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.VerdictTopic)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - consumer.New: %w", err))
	}

	// Kafka as Controller
	kafkaController := kafkactrl.New(
		photoUseCase,
		infrakafka.NewEventConsumer(kafkaConsumer),
		l,
		cfg.ReviewConsumer.CommitTimeout,
		cfg.ReviewConsumer.ProcessTimeout,
		cfg.ReviewConsumer.Workers,
	)

	// HTTP Server
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)
	httpServer := httpserver.New(l, httpserver.Port(cfg.HTTP.Port), httpserver.Prefork(cfg.HTTP.UsePreforkMode))
	restapi.NewRouter(httpServer.App, cfg, photoUseCase, tokens, l)

	// Start Components
	err = outboxRelayWorker.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - outboxRelayWorker.Start: %w", err))
	}
	err = kafkaController.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - kafkaController.Start: %w", err))
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	orlShutdownCtx, orlShutdownCancel := context.WithTimeout(ctx, cfg.OutboxRelay.ShutdownTimeout)
	defer orlShutdownCancel()
	err = outboxRelayWorker.Shutdown(orlShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - outboxRelayWorker.Shutdown: %w", err))
	}

	kcShutdownCtx, kcShutdownCancel := context.WithTimeout(ctx, cfg.ReviewConsumer.ShutdownTimeout)
	defer kcShutdownCancel()
	err = kafkaController.Shutdown(kcShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - kafkaController.Shutdown: %w", err))
	}
}
