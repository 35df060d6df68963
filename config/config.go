package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Gateway settings are environment-driven; godotenv.Load in each cmd fills
// the environment from .env during development.

// BackendBaseURL returns the upstream fund-management API base URL.
func BackendBaseURL() string {
	base := strings.TrimSpace(os.Getenv("BACKEND_BASE_URL"))
	if base == "" {
		base = "http://localhost:8080/api/v1"
	}
	return strings.TrimRight(base, "/")
}

// BackendFileBaseURL returns the base URL used to absolutize stored file
// paths ("/files/managed/:id/download" links in exports).
func BackendFileBaseURL() string {
	base := strings.TrimSpace(os.Getenv("BACKEND_FILE_BASE_URL"))
	if base == "" {
		base = BackendBaseURL()
	}
	return strings.TrimRight(base, "/")
}

// BackendAPIToken returns the service token used by CLI runs that have no
// caller token to pass through.
func BackendAPIToken() string {
	return strings.TrimSpace(os.Getenv("BACKEND_API_TOKEN"))
}

// BackendTimeout returns the per-request timeout for upstream calls.
func BackendTimeout() time.Duration {
	return durationEnv("BACKEND_TIMEOUT_SECONDS", 30*time.Second)
}

// AggregatePageSize returns the page size used while draining the listing
// endpoint.
func AggregatePageSize() int {
	return intEnv("AGGREGATE_PAGE_SIZE", 1000)
}

// AggregateMaxRows returns the safety cap on aggregated rows; the fetch
// aborts with an error once the cap is exceeded.
func AggregateMaxRows() int {
	return intEnv("AGGREGATE_MAX_ROWS", 10000)
}

// MaxEventAmount returns the hard ceiling for a single ledger event amount.
func MaxEventAmount() float64 {
	raw := strings.TrimSpace(os.Getenv("MAX_EVENT_AMOUNT"))
	if raw == "" {
		return 100_000_000
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || parsed <= 0 {
		return 100_000_000
	}
	return parsed
}

// JWTSecret returns the shared secret for validating upstream-issued tokens.
func JWTSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// ServerPort returns the gateway listen port.
func ServerPort() string {
	port := strings.TrimSpace(os.Getenv("SERVER_PORT"))
	if port == "" {
		port = "8090"
	}
	return port
}

// LogsTokenHash returns the bcrypt hash guarding the /logs route.
func LogsTokenHash() string {
	return strings.TrimSpace(os.Getenv("LOGS_TOKEN_HASH"))
}

func intEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
