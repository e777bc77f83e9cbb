package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	UpstreamBaseURL string
	DBConnString    string
	RedisAddr       string
	SessionTTL      time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string

	// Checkout timing knobs. Defaults match the production flow; tests and
	// local setups shrink them via environment overrides.
	PollInterval    time.Duration
	PollBackoff     time.Duration
	PollAttempts    int
	PaymentDeadline time.Duration
	SuccessDisplay  time.Duration
	FailureDisplay  time.Duration
	CancelDisplay   time.Duration
}

// FromEnv builds Config with defaults, overridden by environment variables.
// A .env file in the working directory is loaded first when present.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":9090"),
		UpstreamBaseURL: envOrDefault("BACKEND_BASE_URL", "http://localhost:8080"),
		DBConnString:    envOrDefault("DB_DSN", ""),
		RedisAddr:       envOrDefault("REDIS_ADDR", ""),
		SessionTTL:      envDuration("SESSION_TTL_SECONDS", 8*time.Hour),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		AllowedOrigins:  envList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),

		PollInterval:    envDuration("PAYMENT_POLL_INTERVAL_SECONDS", 10*time.Second),
		PollBackoff:     envDuration("PAYMENT_POLL_BACKOFF_SECONDS", 2*time.Second),
		PollAttempts:    envInt("PAYMENT_POLL_ATTEMPTS", 3),
		PaymentDeadline: envDuration("PAYMENT_DEADLINE_SECONDS", 5*time.Minute),
		SuccessDisplay:  envDuration("CHECKOUT_SUCCESS_DISPLAY_SECONDS", 3*time.Second),
		FailureDisplay:  envDuration("CHECKOUT_FAILURE_DISPLAY_SECONDS", 5*time.Second),
		CancelDisplay:   envDuration("CHECKOUT_CANCEL_DISPLAY_SECONDS", 2*time.Second),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
