package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"killtest/internal/cache"
	"killtest/internal/config"
	"killtest/internal/metrics"
	"killtest/internal/repository"
	"killtest/internal/service"
	"killtest/internal/transport/rest"
	"killtest/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return serve(cfg)
		},
	}
}

func serve(cfg *config.Config) error {
	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)
	ctx := context.Background()

	logger.Info("AI config",
		slog.String("model", cfg.AI.Model),
		slog.String("base_url", cfg.AI.BaseURL),
		slog.Bool("api_key", cfg.AI.IsEnabled()))
	if !cfg.AI.IsEnabled() {
		logger.Warn("OPENAI_API_KEY not set, /v1/analyze answers with the offline rules")
	}

	m := metrics.New()

	// MongoDB is optional; without it results live only in the session store
	var results repository.ResultRepo
	if cfg.Mongo.URI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer mongoClient.Disconnect(context.Background())

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = mongoClient.Ping(pingCtx, nil)
		cancel()
		if err != nil {
			return fmt.Errorf("ping mongo: %w", err)
		}

		db := mongoClient.Database(cfg.Mongo.Database)
		if err := repository.EnsureIndexes(ctx, db); err != nil {
			logger.Warn("failed to ensure indexes", slog.String("error", err.Error()))
		}
		results = repository.NewResultRepo(db)
		logger.Info("connected to MongoDB", slog.String("database", cfg.Mongo.Database))
	} else {
		logger.Warn("MONGO_URI not set, result archive disabled")
	}

	// Redis is optional; without it sessions are process local
	var sessions cache.Store[service.Session]
	var tally cache.VerdictTally
	if cfg.Redis.URI != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		sessions = cache.NewRedisStore[service.Session](rdb, "session", cfg.Redis.TTL)
		tally = cache.NewVerdictTally(rdb)
		logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr()))
	} else {
		sessions = cache.NewMemoryStore[service.Session](cfg.Redis.TTL)
		tally = cache.NewMemoryTally()
		logger.Warn("REDIS_URI not set, sessions kept in memory")
	}

	wsHub := ws.NewHub(logger)
	defer wsHub.Close()

	authSvc := service.NewAuthService(cfg.Auth.Secret, cfg.Auth.TTL)
	analyzer := service.NewAnalyzerService(&cfg.AI, m, logger)

	// Sessions enrich through a remote analyze endpoint when one is
	// configured, otherwise through the in-process analyzer
	var enricher service.Enricher = analyzer
	if cfg.Enrichment.URL != "" {
		enricher = service.NewEnrichmentClient(cfg.Enrichment.URL, cfg.Enrichment.Timeout(), logger)
		logger.Info("remote enrichment", slog.String("url", cfg.Enrichment.URL))
	}

	assessment := service.NewAssessmentService(sessions, results, enricher, authSvc, m, logger)
	assessment.SetEnrichmentTimeout(cfg.Enrichment.Timeout())
	assessment.SetBroadcaster(wsHub)
	assessment.SetTally(tally)

	router := rest.NewRouter(&rest.Container{
		AuthService:       authSvc,
		AssessmentService: assessment,
		AnalyzerService:   analyzer,
		Results:           results,
		Tally:             tally,
		Metrics:           m,
		WSHub:             wsHub,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		Logger:            logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", srv.Addr), slog.String("version", Version))
		logger.Info("endpoints",
			slog.String("questions", "GET /v1/questions"),
			slog.String("analyze", "POST /v1/analyze"),
			slog.String("sessions", "POST /v1/sessions, /v1/sessions/{id}/..."),
			slog.String("import", "POST /v1/import/validate, GET /v1/import/template"),
			slog.String("results", "GET /v1/results, /v1/results/stats, /v1/results/{id}"),
			slog.String("ws", "WS /v1/ws/sessions/{id}"),
			slog.String("ops", "GET /health, /metrics"))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	// Let in-flight enrichments land so their results are archived
	done := make(chan struct{})
	go func() {
		assessment.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("enrichments still running at shutdown")
	}

	logger.Info("server exited")
	return nil
}
