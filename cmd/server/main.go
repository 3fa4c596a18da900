package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rushboard/challenge-api/internal/config"
	"github.com/rushboard/challenge-api/internal/content"
	"github.com/rushboard/challenge-api/internal/database"
	"github.com/rushboard/challenge-api/internal/handlers"
	"github.com/rushboard/challenge-api/internal/logger"
	"github.com/rushboard/challenge-api/internal/middleware"
	"github.com/rushboard/challenge-api/internal/queue"
	"github.com/rushboard/challenge-api/internal/ratelimit"
	"github.com/rushboard/challenge-api/internal/services/auth"
	"github.com/rushboard/challenge-api/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewProductionLogger(cfg.ServerDebugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_server",
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Bool("rate_limit_disabled", cfg.RateLimitDisabled),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "challenge-api", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Connect to database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	// Redis is optional: it backs the stats cache and the extended health check.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("invalid_redis_url", zap.Error(err))
		}
		redisClient = redis.NewClient(opt)
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		zapLogger.Info("connected_to_redis")
	}

	// RabbitMQ is optional: without it, moderation review notifications are
	// skipped and moderators rely on the pending lists.
	var jobQueue queue.JobQueue
	if cfg.RabbitMQURL != "" {
		jobQueue, err = connectQueue(cfg.RabbitMQURL, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries", zap.Error(err))
		}
		defer func() {
			if err := jobQueue.Close(); err != nil {
				zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
			}
		}()
		zapLogger.Info("connected_to_rabbitmq")
	}

	// Initialize repositories
	challengeRepo := database.NewChallengeRepository(db)
	creatorRepo := database.NewCreatorRepository(db)
	tournamentRepo := database.NewTournamentRepository(db)
	customCodeRepo := database.NewCustomCodeRepository(db)
	submissionRepo := database.NewSubmissionRepository(db)
	ideaRepo := database.NewIdeaRepository(db)
	faqRepo := database.NewFAQRepository(db)
	statsRepo := database.NewStatsRepository(db)

	// Shared slug resolver
	resolver := content.NewResolver(zapLogger)

	// Fixed-window limiter for the public write endpoints
	limiter := ratelimit.New(
		map[string]ratelimit.Rule{
			"submission": {Limit: cfg.SubmissionLimit, Window: cfg.RateLimitWindow},
			"idea":       {Limit: cfg.IdeaLimit, Window: cfg.RateLimitWindow},
		},
		ratelimit.Disabled(cfg.RateLimitDisabled),
		ratelimit.WithSweepInterval(cfg.RateLimitSweep),
		ratelimit.WithLogger(zapLogger),
	)
	if cfg.RateLimitDisabled {
		zapLogger.Warn("rate_limiting_disabled")
	}

	// Initialize handlers
	challengeHandler := handlers.NewChallengeHandler(challengeRepo, resolver)
	creatorHandler := handlers.NewCreatorHandler(creatorRepo, resolver)
	tournamentHandler := handlers.NewTournamentHandler(tournamentRepo, resolver)
	customCodeHandler := handlers.NewCustomCodeHandler(customCodeRepo, resolver)
	submissionHandler := handlers.NewSubmissionHandler(submissionRepo, challengeRepo, jobQueue, zapLogger)
	ideaHandler := handlers.NewIdeaHandler(ideaRepo, jobQueue, zapLogger)
	faqHandler := handlers.NewFAQHandler(faqRepo)
	statsHandler := handlers.NewStatsHandler(statsRepo, redisClient, zapLogger)
	healthChecker := handlers.NewHealthChecker(db, redisClient, jobQueue)

	// Setup router
	r := mux.NewRouter()

	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware("challenge-api"))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORSFromEnv(cfg.FrontendURL))

	globalLimit, err := middleware.GlobalRateLimit(cfg.GlobalRate)
	if err != nil {
		zapLogger.Fatal("invalid_global_rate", zap.String("rate", cfg.GlobalRate), zap.Error(err))
	}

	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Audit(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Health and spec endpoints sit outside the /api prefix and the global
	// limiter.
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")

	openAPIPath := filepath.Join("api", "openapi", "openapi.yaml")
	handlers.NewOpenAPIHandler(openAPIPath).RegisterRoutes(r)

	// Public API routes
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(globalLimit)
	apiRouter.Use(middleware.RateLimit(limiter, zapLogger))

	challengeHandler.RegisterRoutes(apiRouter.PathPrefix("/challenges").Subrouter())
	creatorHandler.RegisterRoutes(apiRouter.PathPrefix("/creators").Subrouter())
	tournamentHandler.RegisterRoutes(apiRouter.PathPrefix("/tournaments").Subrouter())
	customCodeHandler.RegisterRoutes(apiRouter.PathPrefix("/custom-codes").Subrouter())
	submissionHandler.RegisterRoutes(apiRouter.PathPrefix("/submissions").Subrouter())
	ideaHandler.RegisterRoutes(apiRouter.PathPrefix("/ideas").Subrouter())
	faqHandler.RegisterRoutes(apiRouter.PathPrefix("/faqs").Subrouter())
	statsHandler.RegisterRoutes(apiRouter.PathPrefix("/stats-overview").Subrouter())

	// Moderation routes require a bearer token with the moderation scope.
	// They are only mounted when an issuer is configured.
	if cfg.AuthIssuer != "" && cfg.AuthJWKSURL != "" {
		verifier := auth.NewVerifier(auth.NewJWKSManager(), cfg.AuthIssuer, cfg.AuthJWKSURL)
		modRouter := r.PathPrefix("/api/moderation").Subrouter()
		modRouter.Use(middleware.RequireModerator(verifier, zapLogger))

		challengeHandler.RegisterModerationRoutes(modRouter.PathPrefix("/challenges").Subrouter())
		creatorHandler.RegisterModerationRoutes(modRouter.PathPrefix("/creators").Subrouter())
		tournamentHandler.RegisterModerationRoutes(modRouter.PathPrefix("/tournaments").Subrouter())
		customCodeHandler.RegisterModerationRoutes(modRouter.PathPrefix("/custom-codes").Subrouter())
		submissionHandler.RegisterModerationRoutes(modRouter.PathPrefix("/submissions").Subrouter())
		ideaHandler.RegisterModerationRoutes(modRouter.PathPrefix("/ideas").Subrouter())
		faqHandler.RegisterModerationRoutes(modRouter.PathPrefix("/faqs").Subrouter())
	} else {
		zapLogger.Warn("moderation_routes_disabled_no_auth_issuer")
	}

	// Catch-all OPTIONS handler for preflight requests; CORS headers are set
	// by the middleware.
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Background sweep for the fixed-window limiter
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	go limiter.Start(sweepCtx)

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	sweepCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// connectQueue dials RabbitMQ with exponential backoff to ride out broker
// startup delays.
func connectQueue(url string, zapLogger *zap.Logger) (queue.JobQueue, error) {
	const maxRetries = 10
	const initialDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		jobQueue, err := queue.NewRabbitMQQueue(url)
		if err == nil {
			return jobQueue, nil
		}
		lastErr = err

		delay := initialDelay * time.Duration(1<<uint(attempt))
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
		zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("rabbitmq connection failed after %d attempts: %w", maxRetries, lastErr)
}
