package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL          string
	JWTSecret            string
	Port                 string
	TokenTTL             time.Duration
	OperatorEmail        string
	OperatorPasswordHash string
	RateLimitRuns        RateLimitConfig

	GoogleAPIKey         string
	GoogleSearchEngineID string

	OutputDir     string
	SnapshotDir   string
	DefaultRegion string
	Proxies       []string

	SearchWorkers     int
	ScrapeWorkers     int
	SearchDelay       time.Duration
	ScrapeDelay       time.Duration
	RequestTimeout    time.Duration
	RequestsPerSecond float64
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		JWTSecret:            getEnv("JWT_SECRET", "dev-secret"),
		Port:                 getEnv("PORT", "8080"),
		TokenTTL:             parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		OperatorEmail:        getEnv("OPERATOR_EMAIL", "operator@localhost"),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),

		GoogleAPIKey:         os.Getenv("GOOGLE_API_KEY"),
		GoogleSearchEngineID: os.Getenv("GOOGLE_SEARCH_ENGINE_ID"),

		OutputDir:     getEnv("OUTPUT_DIR", "output"),
		SnapshotDir:   getEnv("SNAPSHOT_DIR", "output"),
		DefaultRegion: getEnv("DEFAULT_REGION", "US"),
		Proxies:       splitList(os.Getenv("PROXIES")),

		SearchWorkers:     parseInt(getEnv("SEARCH_WORKERS", "3"), 3),
		ScrapeWorkers:     parseInt(getEnv("SCRAPE_WORKERS", "5"), 5),
		SearchDelay:       parseDuration(getEnv("SEARCH_DELAY", "1s"), time.Second),
		ScrapeDelay:       parseDuration(getEnv("SCRAPE_DELAY", "500ms"), 500*time.Millisecond),
		RequestTimeout:    parseDuration(getEnv("REQUEST_TIMEOUT", "15s"), 15*time.Second),
		RequestsPerSecond: parseFloat(getEnv("REQUESTS_PER_SECOND", "2"), 2),
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_RUNS", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RUNS value: %w", err)
	}
	cfg.RateLimitRuns = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(input string, fallback int) int {
	n, err := strconv.Atoi(input)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseFloat(input string, fallback float64) float64 {
	f, err := strconv.ParseFloat(input, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func splitList(input string) []string {
	if input == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
