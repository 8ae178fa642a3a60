package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	_ "github.com/mentorlink/mentorlink-api/api/swagger"
	"github.com/mentorlink/mentorlink-api/internal/handler"
	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	"github.com/mentorlink/mentorlink-api/internal/service"
	"github.com/mentorlink/mentorlink-api/internal/stream"
	"github.com/mentorlink/mentorlink-api/pkg/backoff"
	"github.com/mentorlink/mentorlink-api/pkg/cache"
	"github.com/mentorlink/mentorlink-api/pkg/config"
	"github.com/mentorlink/mentorlink-api/pkg/database"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/storage"
)

// @title MentorLink API
// @version 1.0.0
// @description Mentorship matching service: request lifecycle, mentor directory, and live views
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logr.Sugar().Fatalw("failed to run migrations", "error", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	hub := stream.NewHub()
	listener, err := stream.NewListener(
		database.DSN(cfg.Database),
		[]string{stream.TopicMentorshipRequests, stream.TopicUsers},
		hub,
		logr,
	)
	if err != nil {
		logr.Sugar().Fatalw("failed to start change listener", "error", err)
	}
	go listener.Run(ctx)

	retry := backoff.Policy{
		MaxAttempts: cfg.Streams.RetryAttempts,
		BaseDelay:   cfg.Streams.RetryBase,
		MaxDelay:    cfg.Streams.RetryCap,
	}
	streams := repository.NewStreams(hub, cfg.Streams.PollInterval, retry, logr)

	requestRepo := repository.NewMentorshipRequestRepository(db, streams)
	mentorRepo := repository.NewMentorRepository(db, streams)
	userRepo := repository.NewUserRepository(db, streams)
	notificationRepo := repository.NewNotificationRepository(redisClient, cfg.Notifications.Retention)

	validate := validator.New()
	identity := middleware.Identity{}
	metricsSvc := service.NewMetricsService()

	calSvc := service.NewCalService(cfg.Cal.BaseURL)

	var notificationSvc *service.NotificationService
	var notifier service.TransitionNotifier = service.NopNotifier{}
	if cfg.Notifications.Enabled {
		notificationSvc = service.NewNotificationService(notificationRepo, cfg.Notifications.Workers, cfg.Notifications.Buffer, logr)
		notificationSvc.Start(ctx)
		defer notificationSvc.Stop()
		notifier = notificationSvc
	}

	requestSvc := service.NewMentorshipRequestService(
		requestRepo,
		userRepo,
		calSvc,
		notifier,
		identity,
		validate,
		logr,
		cfg.Pagination.RequestPageSize,
		cfg.Pagination.MaxPageSize,
	)
	mentorSvc := service.NewMentorService(mentorRepo, identity, logr, cfg.Pagination.DirectoryPageSize, cfg.Pagination.MaxPageSize)
	userSvc := service.NewUserService(userRepo, identity, validate, logr)

	deps := handler.RouterDeps{
		Config:   cfg,
		Logger:   logr,
		Metrics:  metricsSvc,
		Requests: handler.NewMentorshipRequestHandler(requestSvc, metricsSvc),
		Mentors:  handler.NewMentorHandler(mentorSvc, metricsSvc),
		Users:    handler.NewUserHandler(userSvc, metricsSvc),
		Readiness: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			if err := redisClient.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			return nil
		},
	}
	if notificationSvc != nil {
		deps.Notifications = handler.NewNotificationHandler(notificationSvc)
	}
	if cfg.Exports.Enabled {
		exportSvc := service.NewExportService(requestRepo, identity, logr, nil, nil)
		if archive, err := storage.NewArchive(cfg.Exports.Dir); err != nil {
			logr.Sugar().Warnw("export archive unavailable", "error", err)
		} else {
			exportSvc.EnableArchive(archive, storage.NewSigner(cfg.JWT.Secret, cfg.Exports.TokenTTL))
		}
		deps.Export = handler.NewExportHandler(exportSvc)
	}

	router := handler.NewRouter(deps)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
