package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cast"

	"medequip-admin/internal/logger"
)

// DefaultAPIURL is the local development backend.
const DefaultAPIURL = "http://localhost:3001/api"

type Config struct {
	// Backend REST API
	APIURL     string
	APITimeout time.Duration

	// Dashboard server
	ServerPort     string
	JWTSecret      string
	AllowedOrigins string
	SessionTTL     time.Duration
	CookieSecure   bool

	// Display
	Currency string

	// CLI session token location
	TokenFile string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from the environment. Call godotenv.Load first
// if a .env file should be honoured.
func Load() (*Config, error) {
	apiTimeout, err := cast.ToDurationE(getEnv("API_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_TIMEOUT: %w", err)
	}
	sessionTTL, err := cast.ToDurationE(getEnv("SESSION_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cookieSecure, err := cast.ToBoolE(getEnv("COOKIE_SECURE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
	}

	config := &Config{
		APIURL:         getEnv("API_URL", DefaultAPIURL),
		APITimeout:     apiTimeout,
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
		SessionTTL:     sessionTTL,
		CookieSecure:   cookieSecure,
		Currency:       getEnv("CURRENCY", "INR"),
		TokenFile:      getEnv("TOKEN_FILE", defaultTokenFile()),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:  getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:      getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("API_URL must not be empty")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// ValidateServer checks the settings only the dashboard server needs.
func (c *Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".medadmin-token"
	}
	return filepath.Join(dir, "medadmin", "token")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
