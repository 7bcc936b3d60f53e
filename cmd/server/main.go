package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/api"
	"github.com/pehenava/storefront/internal/config"
	"github.com/pehenava/storefront/internal/email"
	"github.com/pehenava/storefront/internal/messaging/kafka"
	"github.com/pehenava/storefront/internal/repository/postgres"
	"github.com/pehenava/storefront/internal/repository/redisstore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	// Connect to Postgres
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redisstore.NewClient(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Wire repositories: Postgres for durable entities, Redis for
	// client-side list snapshots.
	repos := postgres.NewRepositories(db, logger)
	repos.Cart = redisstore.NewCartStore(redisClient, logger)
	repos.Wishlist = redisstore.NewWishlistStore(redisClient, logger)
	repos.Compare = redisstore.NewCompareStore(redisClient, logger)

	// Event publisher for notification broadcast
	publisher := kafka.NewPublisher(cfg.Kafka.Brokers, logger)
	defer publisher.Close()

	// Outbound email
	sender := email.NewClient(cfg.Email, logger)

	router := api.NewRouter(cfg, repos, publisher, sender, logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}
