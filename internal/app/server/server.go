package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"trainhub/internal/domain/assessment"
	"trainhub/internal/domain/attempt"
	"trainhub/internal/domain/audit"
	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/capability"
	"trainhub/internal/domain/directory"
	"trainhub/internal/domain/evaluation"
	"trainhub/internal/domain/feedback"
	"trainhub/internal/domain/material"
	"trainhub/internal/domain/notifications"
	"trainhub/internal/domain/reports"
	"trainhub/internal/domain/schedule"
	"trainhub/internal/domain/scoring"
	"trainhub/internal/domain/suggestion"
	"trainhub/internal/domain/topic"
	"trainhub/internal/domain/training"
	"trainhub/internal/platform/config"
	"trainhub/internal/platform/crypto"
	"trainhub/internal/platform/db"
	"trainhub/internal/platform/email"
	"trainhub/internal/platform/jobs"
	"trainhub/internal/platform/metrics"
	assessmenthandler "trainhub/internal/transport/http/handlers/assessments"
	audithandler "trainhub/internal/transport/http/handlers/audit"
	authhandler "trainhub/internal/transport/http/handlers/auth"
	capabilityhandler "trainhub/internal/transport/http/handlers/capabilities"
	directoryhandler "trainhub/internal/transport/http/handlers/directory"
	evaluationhandler "trainhub/internal/transport/http/handlers/evaluations"
	materialhandler "trainhub/internal/transport/http/handlers/materials"
	notificationshandler "trainhub/internal/transport/http/handlers/notifications"
	reportshandler "trainhub/internal/transport/http/handlers/reports"
	schedulehandler "trainhub/internal/transport/http/handlers/schedules"
	scorehandler "trainhub/internal/transport/http/handlers/scores"
	suggestionhandler "trainhub/internal/transport/http/handlers/suggestions"
	systemhandler "trainhub/internal/transport/http/handlers/system"
	topichandler "trainhub/internal/transport/http/handlers/topics"
	traininghandler "trainhub/internal/transport/http/handlers/trainings"
	"trainhub/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Jobs    *jobs.Service
	Metrics *metrics.Collector
}

// New connects to the database, prepares it when configured to and wires every route.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	app, err := build(cfg, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return app, nil
}

func build(cfg config.Config, pool *pgxpool.Pool) (*App, error) {
	sealer, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, err
	}

	var collector *metrics.Collector
	var recorder middleware.StatusRecorder
	var snapshots systemhandler.Metrics
	if cfg.MetricsEnabled {
		collector = metrics.New()
		recorder = collector
		snapshots = collector
	}

	perms := auth.StaticPermissions{}
	authService := auth.NewService(auth.NewStore(pool), sealer, cfg.JWTSecret, cfg.TokenTTL)
	auditService := audit.New(audit.NewStore(pool))
	notifyService := notifications.New(notifications.NewStore(pool), email.New(cfg), notifications.Settings{
		EmailEnabled: cfg.EmailEnabled,
		From:         cfg.EmailFrom,
	})

	directoryService := directory.NewService(directory.NewStore(pool))
	capabilityService := capability.NewService(capability.NewStore(pool))
	assessmentService := assessment.NewService(assessment.NewStore(pool), directoryService, capabilityService)
	suggestionService := suggestion.NewService(suggestion.NewStore(pool), capabilityService, assessmentService)
	scoringService := scoring.NewService(scoring.NewStore(pool))
	topicService := topic.NewService(topic.NewStore(pool))
	trainingService := training.NewService(training.NewStore(pool), directoryService, scoringService)
	attemptService := attempt.NewService(attempt.NewStore(pool), trainingService)
	scheduleService := schedule.NewService(schedule.NewStore(pool), trainingService, directoryService, schedule.Options{
		Location:                   cfg.Location(),
		DefaultFeedbackWindowHours: cfg.FeedbackWindowHours,
	})
	feedbackService := feedback.NewService(feedback.NewStore(pool), scheduleService, directoryService)
	materialService := material.NewService(material.NewStore(pool), scheduleService, assessmentService)
	evaluationService := evaluation.NewService(evaluation.NewStore(pool), scheduleService, directoryService, capabilityService)
	reportsService := reports.NewService(reports.NewStore(pool))
	jobService := jobs.New(pool, cfg, scheduleService, notifyService, collector)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.Logger(recorder))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authService, perms, auditService)
		authHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			authHandler.RegisterRoutes(r)
			audithandler.NewHandler(auditService, perms).RegisterRoutes(r)
			notificationshandler.NewHandler(notifyService).RegisterRoutes(r)
			directoryhandler.NewHandler(directoryService, perms, auditService).RegisterRoutes(r)
			capabilityhandler.NewHandler(capabilityService, perms, auditService).RegisterRoutes(r)
			assessmenthandler.NewHandler(assessmentService, perms, auditService).RegisterRoutes(r)
			suggestionhandler.NewHandler(suggestionService, perms, auditService).RegisterRoutes(r)
			topichandler.NewHandler(topicService, perms, auditService, notifyService, authService).RegisterRoutes(r)
			traininghandler.NewHandler(trainingService, attemptService, middleware.NewIdempotencyStore(pool), perms, auditService, notifyService).RegisterRoutes(r)
			scorehandler.NewHandler(scoringService, perms, auditService).RegisterRoutes(r)
			schedulehandler.NewHandler(scheduleService, feedbackService, perms, auditService, notifyService, jobService).RegisterRoutes(r)
			materialhandler.NewHandler(materialService, perms, auditService).RegisterRoutes(r)
			evaluationhandler.NewHandler(evaluationService, perms, auditService).RegisterRoutes(r)
			reportshandler.NewHandler(reportsService, perms).RegisterRoutes(r)
			systemhandler.NewHandler(jobService, snapshots, perms, auditService).RegisterRoutes(r)
		})
	})

	return &App{
		Config:  cfg,
		DB:      pool,
		Router:  router,
		Jobs:    jobService,
		Metrics: collector,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	a.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("training server listening", "addr", a.Config.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
