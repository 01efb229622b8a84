package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
// Note: history is the only state; without DATABASE_URL the service is stateless
type Config struct {
	// Environment
	Environment string
	Port        string

	// Observability
	SentryDSN string // Sentry DSN for error tracking

	// Generation history (optional)
	// - "": disabled
	// - "postgres://..." or "postgresql://...": Postgres
	// - "sqlite://path" or "file:...": SQLite
	DatabaseURL string

	// Generation defaults and limits
	DefaultComplexity int     // Used when a request omits complexity
	MaxMeasures       int     // Largest progression, rhythm or preview a request may ask for
	PreviewTempo      float64 // BPM for MIDI previews without a tempo

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from magda-cloud
	AuthMode string
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DefaultComplexity: getEnvInt("DEFAULT_COMPLEXITY", 5),
		MaxMeasures:       getEnvInt("MAX_MEASURES", 64),
		PreviewTempo:      getEnvFloat("PREVIEW_TEMPO", 100),
		AuthMode:          getEnv("AUTH_MODE", "none"), // Default to no auth for self-hosted
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to the default for unset, malformed or non-positive values
func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// IsGatewayMode returns true if running behind the Express gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}

// IsProduction reports whether CloudWatch metrics should be sent
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
