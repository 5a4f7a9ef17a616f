package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/simonkvalheim/bankist/internal/config"
	"github.com/simonkvalheim/bankist/internal/logger"
	"github.com/simonkvalheim/bankist/internal/queue"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	// Create context that cancels on shutdown signal
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Test Redis connection
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	log.Info().Str("addr", cfg.RedisURL).Msg("Connected to Redis")

	worker := queue.NewWorker(redisClient, queue.LogMovement)

	// Handle shutdown signals
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutdown signal received, stopping worker...")
		cancel()
		worker.Stop()
	}()

	// Catch up on the backlog before blocking on new movements
	if n, err := worker.Drain(ctx); err != nil {
		log.Error().Err(err).Int("handled", n).Msg("Failed to drain queue backlog")
	} else if n > 0 {
		log.Info().Int("handled", n).Msg("Drained queue backlog")
	}

	log.Info().Msg("Starting movement worker...")
	worker.Start(ctx)

	log.Info().Msg("Worker stopped")
}
