// ABOUTME: Configuration loader for the catalog integration backend
// ABOUTME: Loads settings from environment variables (and optional .env) with defaults

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
	CatalogCacheTTL    int      // seconds, for catalog responses (default 60)
	CORSAllowedOrigins []string // allowed CORS origins (empty = allow any, dev mode)

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitDefault int  // Requests per minute per client IP (default: 120)

	// Back-office (fasteners, sensors, spare wheels; bearer-authenticated)
	BackOfficeURL      string
	BackOfficeLogin    string
	BackOfficePassword string
	FastenersFeedID    int // numeric feed id (default: 2)
	SensorsFeedID      int // numeric feed id (default: 3)
	SpareWheelsFeedID  int // numeric feed id (default: 5)

	// Independent tire catalog (static access token, no login)
	TireCatalogURL   string
	TireCatalogToken string

	// Asset host used to build image URLs from bare asset ids
	AssetBaseURL string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CatalogCacheTTL:    getEnvInt("CATALOG_CACHE_TTL", 60),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 120),

		BackOfficeURL:      ensureScheme(os.Getenv("BACKOFFICE_URL")),
		BackOfficeLogin:    os.Getenv("BACKOFFICE_LOGIN"),
		BackOfficePassword: os.Getenv("BACKOFFICE_PASSWORD"),
		FastenersFeedID:    getEnvInt("FASTENERS_FEED_ID", 2),
		SensorsFeedID:      getEnvInt("SENSORS_FEED_ID", 3),
		SpareWheelsFeedID:  getEnvInt("SPARE_WHEELS_FEED_ID", 5),

		TireCatalogURL:   ensureScheme(os.Getenv("TIRE_CATALOG_URL")),
		TireCatalogToken: os.Getenv("TIRE_CATALOG_TOKEN"),

		AssetBaseURL: ensureScheme(getEnv("ASSET_BASE_URL", "https://cdn.shinshop.ru")),
	}

	// Validate required fields
	if cfg.BackOfficeURL == "" {
		return nil, fmt.Errorf("BACKOFFICE_URL is required")
	}
	if cfg.BackOfficeLogin == "" {
		return nil, fmt.Errorf("BACKOFFICE_LOGIN is required")
	}
	if cfg.BackOfficePassword == "" {
		return nil, fmt.Errorf("BACKOFFICE_PASSWORD is required")
	}
	if cfg.TireCatalogURL == "" {
		return nil, fmt.Errorf("TIRE_CATALOG_URL is required")
	}

	if cfg.RateLimitDefault < 1 || cfg.RateLimitDefault > 10000 {
		return nil, fmt.Errorf("RATE_LIMIT_DEFAULT must be between 1 and 10000, got %d", cfg.RateLimitDefault)
	}
	if cfg.CatalogCacheTTL < 0 {
		return nil, fmt.Errorf("CATALOG_CACHE_TTL must not be negative, got %d", cfg.CatalogCacheTTL)
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

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
