package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// History backend identifiers accepted by HISTORY_BACKEND.
const (
	HistoryBackendFile     = "file"
	HistoryBackendMemory   = "memory"
	HistoryBackendRedis    = "redis"
	HistoryBackendSQLite   = "sqlite"
	HistoryBackendPostgres = "postgres"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	CORSAllowedOrigins []string
	StoragePath        string

	HistoryBackend    string
	HistoryKey        string
	HistoryMaxEntries int
	RedisURL          string
	SQLitePath        string
	DatabaseURL       string

	HFAPIKey  string
	HFBaseURL string
	HFModel   string

	RunwayAPIKey  string
	RunwayBaseURL string
	RunwayModel   string

	ReplicateAPIToken string
	ReplicateBaseURL  string
	ReplicateVersion  string

	JobPollInterval    time.Duration
	JobPollMaxAttempts int
	JobPollTimeout     time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// Vendor credentials are optional here; each provider reports a missing key at call time.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 960)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		StoragePath:        getEnv("STORAGE_PATH", "./storage"),

		HistoryBackend:    strings.ToLower(getEnv("HISTORY_BACKEND", HistoryBackendFile)),
		HistoryKey:        getEnv("HISTORY_KEY", "imageHistory"),
		HistoryMaxEntries: getEnvInt("HISTORY_MAX_ENTRIES", 100),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SQLitePath:        getEnv("SQLITE_PATH", "./storage/history.db"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),

		HFAPIKey:  strings.TrimSpace(os.Getenv("HF_API_KEY")),
		HFBaseURL: getEnv("HF_BASE_URL", "https://api-inference.huggingface.co"),
		HFModel:   getEnv("HF_MODEL", "stabilityai/stable-diffusion-3.5-large"),

		RunwayAPIKey:  strings.TrimSpace(os.Getenv("RUNWAY_API_KEY")),
		RunwayBaseURL: getEnv("RUNWAY_BASE_URL", "https://api.dev.runwayml.com"),
		RunwayModel:   getEnv("RUNWAY_MODEL", "gen3a_turbo"),

		ReplicateAPIToken: strings.TrimSpace(os.Getenv("REPLICATE_API_TOKEN")),
		ReplicateBaseURL:  getEnv("REPLICATE_BASE_URL", "https://api.replicate.com/v1"),
		ReplicateVersion:  getEnv("REPLICATE_VERSION", "lucataco/animate-diff:beecf59c4aee8d81bf04f0381033dfa10dc16e845b4ae00d281e2fa377e48a9f"),

		JobPollInterval:    time.Second * time.Duration(getEnvInt("JOB_POLL_INTERVAL_SECONDS", 10)),
		JobPollMaxAttempts: getEnvInt("JOB_POLL_MAX_ATTEMPTS", 90),
		JobPollTimeout:     time.Second * time.Duration(getEnvInt("JOB_POLL_TIMEOUT_SECONDS", 900)),
	}

	switch cfg.HistoryBackend {
	case HistoryBackendFile, HistoryBackendMemory, HistoryBackendRedis, HistoryBackendSQLite:
	case HistoryBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres history backend")
		}
	default:
		return nil, fmt.Errorf("unsupported HISTORY_BACKEND %q", cfg.HistoryBackend)
	}

	if cfg.HistoryMaxEntries < 0 {
		return nil, fmt.Errorf("HISTORY_MAX_ENTRIES must not be negative")
	}
	if cfg.JobPollInterval <= 0 {
		return nil, fmt.Errorf("JOB_POLL_INTERVAL_SECONDS must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
