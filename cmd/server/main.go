package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"curumim-backend/internal/adapters/primary/http/handlers"
	"curumim-backend/internal/adapters/primary/http/middleware"
	"curumim-backend/internal/adapters/secondary/memory"
	"curumim-backend/internal/adapters/secondary/postgres"
	"curumim-backend/internal/adapters/secondary/r2"
	"curumim-backend/internal/adapters/secondary/twilio"
	"curumim-backend/internal/config"
	output "curumim-backend/internal/core/ports/output"
	"curumim-backend/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)
	if !cfg.Server.PortFromEnv {
		log.WithField("port", cfg.Server.Port).Warn("PORT not provided by the platform, using default")
	}

	ctx := context.Background()

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports - Repositories)
	var (
		convRepo    output.ConversationRepository
		contribRepo output.ContributionRepository
	)
	switch cfg.StateStore {
	case config.StateStorePostgres:
		pool := openPool(ctx, &cfg.Database)
		defer pool.Close()

		convRepo = postgres.NewConversationRepository(pool)
		contribRepo = postgres.NewContributionRepository(pool)
	default:
		log.Warn("using in-memory state store: conversations are lost on restart")
		convRepo, contribRepo = memory.NewRepositories()
	}

	// Twilio media (Optional - based on credentials)
	mediaFetcher := twilio.NewMediaFetcher(&cfg.Twilio)
	if mediaFetcher.Available() {
		log.Info("twilio media client initialized")
	} else {
		log.Warn("twilio credentials incomplete: audio download disabled")
	}

	// R2 audio storage (Optional - based on credentials)
	audioStore, err := r2.NewAudioStore(ctx, &cfg.R2)
	if err != nil {
		log.Fatalf("init r2 store: %v", err)
	}
	if audioStore.Available() {
		log.WithField("bucket", cfg.R2.Bucket).Info("connected to cloudflare r2 for audio storage")
	} else {
		log.Warn("r2 credentials incomplete: audio upload disabled")
	}

	// Core Services (Application Layer)
	convSvc := services.NewConversationService(convRepo, mediaFetcher, audioStore)
	contribSvc := services.NewContributionService(contribRepo)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(convSvc, contribSvc)

	// Setup router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	webhookMiddleware := []gin.HandlerFunc{}
	if cfg.Twilio.ValidateSignature {
		if cfg.Twilio.AuthToken == "" {
			log.Fatal("TWILIO_VALIDATE_SIGNATURE requires TWILIO_AUTH_TOKEN")
		}
		webhookMiddleware = append(webhookMiddleware, middleware.TwilioSignature(cfg.Twilio.AuthToken, cfg.Twilio.PublicBaseURL))
		log.Info("twilio signature validation enabled")
	}
	webhookMiddleware = append(webhookMiddleware, middleware.WorkerSlots(cfg.Server.Workers))

	h.RegisterWebhook(router, webhookMiddleware...)
	h.RegisterRoutes(router.Group("/api/v1"))

	// Health check with store ping
	pinger, _ := convRepo.(output.Pinger)
	router.GET("/healthz", handlers.Health(pinger))

	// Start server
	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.WithField("workers", cfg.Server.Workers).Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func openPool(ctx context.Context, cfg *config.DatabaseConfig) *pgxpool.Pool {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("%v", err)
	}
	log.Info("database connection established")

	return pool
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
