package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Upstream UpstreamConfig
	Session  SessionConfig
	Digest   DigestConfig
}

// UpstreamConfig holds the Meal MS API gateway configuration
type UpstreamConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// SessionConfig holds portal session token configuration
type SessionConfig struct {
	Secret     string
	TTLMinutes int
}

// DigestConfig holds the morning provisioning digest configuration
type DigestConfig struct {
	Enabled bool
	Spec    string // cron spec, minute-hour form
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Upstream: loadUpstreamConfig(appMode),
		Session:  loadSessionConfig(appMode),
		Digest:   loadDigestConfig(),
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadUpstreamConfig loads gateway config based on mode
func loadUpstreamConfig(mode string) UpstreamConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	timeout, _ := strconv.Atoi(getEnv("UPSTREAM_TIMEOUT_SECONDS", "10"))

	return UpstreamConfig{
		BaseURL:        strings.TrimRight(getEnv(prefix+"UPSTREAM_BASE_URL", "http://localhost:5000"), "/"),
		TimeoutSeconds: timeout,
	}
}

// loadSessionConfig loads session token config based on mode
func loadSessionConfig(mode string) SessionConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	ttl, _ := strconv.Atoi(getEnv("SESSION_TTL_MINUTES", "480"))

	return SessionConfig{
		Secret:     getEnv(prefix+"SESSION_SECRET", "default_secret"),
		TTLMinutes: ttl,
	}
}

// loadDigestConfig loads the provisioning digest config
func loadDigestConfig() DigestConfig {
	enabled, _ := strconv.ParseBool(getEnv("DIGEST_ENABLED", "true"))

	return DigestConfig{
		Enabled: enabled,
		Spec:    getEnv("DIGEST_CRON", "30 6 * * *"),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		// Default production origin (manager web portal)
		return "https://portal.mealms.lk"
	}
	return origins
}
