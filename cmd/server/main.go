package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/chainmind/order-lifecycle/internal/adapter/email"
	"github.com/chainmind/order-lifecycle/internal/adapter/forecast"
	"github.com/chainmind/order-lifecycle/internal/adapter/handler"
	"github.com/chainmind/order-lifecycle/internal/adapter/storage"
	"github.com/chainmind/order-lifecycle/internal/config"
	"github.com/chainmind/order-lifecycle/internal/core/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Error("failed to open mysql", "error", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to ping mysql", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to mysql")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect redis", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to redis")

	// Adapters
	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb, cfg.DedupTTL)

	emailClient := email.NewClient(email.Options{
		APIKey:  cfg.EmailAPIKey,
		From:    cfg.EmailFrom,
		BaseURL: cfg.EmailBaseURL,
		Logger:  logger,
	})
	if !emailClient.Configured() {
		logger.Warn("email gateway running in log-only mode")
	}

	forecastClient := forecast.NewClient(cfg.ForecastURL, 0)
	if err := forecastClient.Health(ctx); err != nil {
		logger.Warn("forecast service not reachable", "error", err)
	}

	// Orchestrator
	orchestrator := service.NewOrchestrator(service.Deps{
		Notifications: mysqlAdapter,
		Push:          redisAdapter,
		Email:         emailClient,
		History:       mysqlAdapter,
		Retrain:       forecastClient,
		Resolver:      mysqlAdapter,
		Dedup:         redisAdapter,
		Pipeline:      service.NewPipeline(cfg.EffectTimeout, logger),
		Supervisor:    service.NewSupervisor(logger),
		Logger:        logger,
	})

	// HTTP server
	httpHandler := handler.NewHTTPHandler(orchestrator, mysqlAdapter)
	mux := http.NewServeMux()
	mux.HandleFunc("/health", httpHandler.HealthCheck)
	mux.HandleFunc("/internal/transitions", httpHandler.Transition)
	mux.HandleFunc("/internal/notifications/unread", httpHandler.UnreadCount)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	logger.Info("HTTP server stopped")

	// Drain detached retrain tasks before closing connections.
	orchestrator.Close()
	logger.Info("background tasks drained")

	rdb.Close()
	db.Close()
	logger.Info("connections closed")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
