package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	DatabaseURL string
	ServerPort  string
	FrontendURL string
	EnableHSTS  bool

	// Optional collaborators. Empty values disable the feature.
	RedisURL             string
	RabbitMQURL          string
	ModerationWebhookURL string

	// Admin auth (JWTs issued by an external identity provider).
	AuthIssuer  string
	AuthJWKSURL string

	// Rate limiting for public write endpoints.
	RateLimitDisabled bool
	SubmissionLimit   int
	IdeaLimit         int
	RateLimitWindow   time.Duration
	RateLimitSweep    time.Duration
	GlobalRate        string

	ServerDebugMode bool
	OTELEnabled     bool
	OTELEndpoint    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:3000"),
		EnableHSTS:           getEnvBool("ENABLE_HSTS", false),
		RedisURL:             getEnv("REDIS_URL", ""),
		RabbitMQURL:          getEnv("RABBITMQ_URL", ""),
		ModerationWebhookURL: getEnv("MODERATION_WEBHOOK_URL", ""),
		AuthIssuer:           getEnv("AUTH_ISSUER", ""),
		AuthJWKSURL:          getEnv("AUTH_JWKS_URL", ""),
		RateLimitDisabled:    getEnvBool("RATE_LIMIT_DISABLED", false),
		SubmissionLimit:      getEnvInt("SUBMISSION_RATE_LIMIT", 5),
		IdeaLimit:            getEnvInt("IDEA_RATE_LIMIT", 10),
		RateLimitWindow:      getEnvDuration("RATE_LIMIT_WINDOW", time.Hour),
		RateLimitSweep:       getEnvDuration("RATE_LIMIT_SWEEP_INTERVAL", 10*time.Minute),
		GlobalRate:           getEnv("GLOBAL_RATE_LIMIT", "300-M"),
		ServerDebugMode:      getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:          getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:         getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.SubmissionLimit <= 0 || cfg.IdeaLimit <= 0 {
		return nil, fmt.Errorf("rate limits must be positive (got submission=%d idea=%d)", cfg.SubmissionLimit, cfg.IdeaLimit)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
