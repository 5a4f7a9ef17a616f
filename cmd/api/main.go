package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/simonkvalheim/bankist/internal/auth"
	"github.com/simonkvalheim/bankist/internal/bootstrap"
	"github.com/simonkvalheim/bankist/internal/config"
	"github.com/simonkvalheim/bankist/internal/handler"
	"github.com/simonkvalheim/bankist/internal/logger"
	"github.com/simonkvalheim/bankist/internal/metrics"
	"github.com/simonkvalheim/bankist/internal/middleware"
	"github.com/simonkvalheim/bankist/internal/queue"
	"github.com/simonkvalheim/bankist/internal/render"
	"github.com/simonkvalheim/bankist/internal/repository"
	"github.com/simonkvalheim/bankist/internal/session"
)

func main() {
	// Load configuration from .env and environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	// Initialize auth service
	authConfig := auth.DefaultConfig(cfg.JWTSecret)
	authConfig.TokenExpiry = cfg.TokenExpiry
	authConfig.PINCost = cfg.PINHashCost
	authService := auth.NewService(authConfig)

	// Seed the in-memory account store
	accountRepo := repository.NewAccountRepository()
	if err := bootstrap.Initialize(accountRepo, authService); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed accounts")
	}

	recorder := metrics.NewRecorder()
	opts := []session.Option{session.WithObserver(recorder)}

	// Publish movements to Redis if notify mode is enabled
	if cfg.NotifyMode {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()

		// Test Redis connection
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Str("addr", cfg.RedisURL).Msg("Connected to Redis (notify mode enabled)")
		publisher := queue.NewPublisher(redisClient)
		if err := recorder.TrackQueue(publisher.QueueLength); err != nil {
			log.Fatal().Err(err).Msg("Failed to register queue gauge")
		}
		opts = append(opts, session.WithNotifier(publisher))
	} else {
		log.Info().Msg("Movement notifications disabled (set NOTIFY_MODE=true to publish to Redis)")
	}

	controller := session.NewController(accountRepo, render.New(cfg.DisplayTimezone), opts...)
	sessions := session.NewManager(controller, cfg.SessionIdleTimeout)
	if err := recorder.TrackSessions(sessions.Count); err != nil {
		log.Fatal().Err(err).Msg("Failed to register session gauge")
	}
	if err := sessions.Start(cfg.SessionSweepSchedule); err != nil {
		log.Fatal().Err(err).Msg("Failed to start session sweeper")
	}
	defer sessions.Stop()

	router := handler.NewRouter(handler.RouterConfig{
		Sessions: sessions,
		Tokens:   authService,
		Accounts: accountRepo,
		Metrics:  recorder.Handler(),
		CORS:     middleware.CORSConfig{AllowedOrigins: cfg.CORSAllowOrigins},
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Graceful shutdown setup
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server stopped")
}
