package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const defaultJWTSecret = "dev-secret-change-in-production-use-openssl-rand-base64-32"

// Config holds all configuration for the application
type Config struct {
	Port                 string
	LogLevel             string
	LogPretty            bool
	JWTSecret            string        // Secret for signing session tokens
	TokenExpiry          time.Duration // Lifetime of an access token
	SessionIdleTimeout   time.Duration // Sessions idle longer than this are logged out
	SessionSweepSchedule string        // Cron schedule for sweeping idle sessions
	PINHashCost          int
	DisplayTimezone      *time.Location // Location for movement and header dates
	CORSAllowOrigins     []string
	NotifyMode           bool // If true, publish appended movements to Redis
	RedisURL             string
	RedisPassword        string
}

// Load reads configuration from a .env file (if present) and the environment
func Load() (Config, error) {
	// Missing .env is fine; real environment variables always win
	_ = godotenv.Load()

	tokenExpiry, err := getDuration("TOKEN_EXPIRY", 30*time.Minute)
	if err != nil {
		return Config{}, err
	}

	idle, err := getDuration("SESSION_IDLE_TIMEOUT", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}

	cost, err := getInt("PIN_HASH_COST", bcrypt.DefaultCost)
	if err != nil {
		return Config{}, err
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("PIN_HASH_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	loc, err := time.LoadLocation(getEnv("DISPLAY_TIMEZONE", "UTC"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		// Default for local development - CHANGE IN PRODUCTION!
		jwtSecret = defaultJWTSecret
		log.Warn().Msg("Using default JWT_SECRET for development. Set JWT_SECRET environment variable in production!")
	}

	return Config{
		Port:                 getEnv("PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogPretty:            getEnv("LOG_PRETTY", "true") == "true",
		JWTSecret:            jwtSecret,
		TokenExpiry:          tokenExpiry,
		SessionIdleTimeout:   idle,
		SessionSweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "@every 1m"),
		PINHashCost:          cost,
		DisplayTimezone:      loc,
		CORSAllowOrigins:     splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
		NotifyMode:           os.Getenv("NOTIFY_MODE") == "true",
		RedisURL:             getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
