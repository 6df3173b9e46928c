package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string
	AppEnv             string
	BaseURL            string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	JWTSecret          string
	FrontendURL        string
	AllowedEmails      []string // empty = anyone with a Google account may sign in
	CatalogFile        string   // optional YAML overriding the built-in themes and link types

	LogLevel        string // "debug" | "info" | "warn" | "error"
	PrettyLog       bool   // true => zap dev (color), false => zap prod (JSON)
	ShutdownTimeout time.Duration

	// Redis page cache; RedisAddr empty disables it
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	RedisConnectTimeout time.Duration
	PageCacheTTL        time.Duration

	// Public tracking endpoints
	RateLimitBurst  int
	RateLimitPerMin int
	TrustProxy      bool // resolve client IP from proxy headers
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", "file:folio.sqlite"),
		AppEnv:             getEnv("APP_ENV", "local"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
		JWTSecret:          getEnv("JWT_SECRET", "secret"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173/dashboard"),
		AllowedEmails:      splitAndTrim(getEnv("ALLOWED_EMAILS", "")),
		CatalogFile:        getEnv("CATALOG_FILE", ""),

		LogLevel:        getEnv("LOG_LEVEL", "info"),
		PrettyLog:       getEnvBool("PRETTY_LOG", true),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),

		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		RedisConnectTimeout: getEnvDuration("REDIS_CONNECT_TIMEOUT", 10*time.Second),
		PageCacheTTL:        getEnvDuration("PAGE_CACHE_TTL", 10*time.Minute),

		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 20),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MIN", 60),
		TrustProxy:      getEnvBool("TRUST_PROXY", false),
	}
}

// IsProduction reports whether cookies should be marked Secure
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.Trim(strings.TrimSpace(part), `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
