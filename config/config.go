// ABOUTME: Configuration loader for the EcoFinds web frontend
// ABOUTME: Loads settings from environment variables with defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port               string
	TemplatesDir       string   // page template directory (default: web/templates)
	CORSAllowedOrigins []string // allowed CORS origins (empty = block all cross-origin)
	CookieSecure       bool     // Set Secure flag on session cookies (default: true)

	// EcoFinds REST backend
	APIBaseURL string // e.g. http://localhost:8000/api
	APITimeout int    // seconds, per-request client timeout (default 10)

	// Sessions and caching
	SessionTTL int    // seconds a web session lives without activity (default 86400)
	CacheTTL   int    // seconds, for category/product snapshots (default 300)
	RedisURL   string // optional, switches session storage to Redis

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitAuth    int  // Requests per minute for login/register (default: 5)
	RateLimitWrite   int  // Requests per minute for listing mutations (default: 10)
	RateLimitDefault int  // Requests per minute for all other endpoints (default: 100)
}

// RedisConfigured returns true if a Redis session store should be used
func (c *Config) RedisConfigured() bool {
	return c.RedisURL != ""
}

func Load() (*Config, error) {
	// Local development convenience; a missing .env is not an error
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		TemplatesDir:       getEnv("TEMPLATES_DIR", "web/templates"),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),
		CookieSecure:       getEnvBool("COOKIE_SECURE", true),

		APIBaseURL: ensureScheme(getEnv("API_BASE_URL", "http://localhost:8000/api")),
		APITimeout: getEnvInt("API_TIMEOUT", 10),

		SessionTTL: getEnvInt("SESSION_TTL", 86400),
		CacheTTL:   getEnvInt("CACHE_TTL", 300),
		RedisURL:   os.Getenv("REDIS_URL"),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitAuth:    getEnvInt("RATE_LIMIT_AUTH", 5),
		RateLimitWrite:   getEnvInt("RATE_LIMIT_WRITE", 10),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 100),
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}
	if cfg.APITimeout < 1 || cfg.APITimeout > 300 {
		return nil, fmt.Errorf("API_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.APITimeout)
	}
	if cfg.SessionTTL < 60 {
		return nil, fmt.Errorf("SESSION_TTL must be at least 60 seconds, got %d", cfg.SessionTTL)
	}

	// Validate rate limit values
	for _, rl := range []struct {
		name  string
		value int
	}{
		{"RATE_LIMIT_AUTH", cfg.RateLimitAuth},
		{"RATE_LIMIT_WRITE", cfg.RateLimitWrite},
		{"RATE_LIMIT_DEFAULT", cfg.RateLimitDefault},
	} {
		if rl.value < 1 || rl.value > 10000 {
			return nil, fmt.Errorf("%s must be between 1 and 10000, got %d", rl.name, rl.value)
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
