package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Provider names accepted in AUTH_PROVIDER
const (
	ProviderLocal  = "local"
	ProviderRemote = "remote"
)

// DefaultJWTSecret is used when JWT_SECRET is unset. Production refuses it.
const DefaultJWTSecret = "default-secret-change-in-production"

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Log      LogConfig
	Forms    FormsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string `validate:"required,numeric"`
	OpsPort      string `validate:"required,numeric,nefield=Port"`
	Env          string `validate:"oneof=development production test"`
	SecureCookie bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// AuthConfig selects and configures the authentication provider
type AuthConfig struct {
	Provider   string        `validate:"oneof=local remote"`
	RemoteURL  string        `validate:"omitempty,url"`
	JWTSecret  string        `validate:"required,min=16"`
	TokenTTL   time.Duration `validate:"gt=0"`
	SessionTTL time.Duration `validate:"gt=0"`
	Timeout    time.Duration `validate:"gt=0"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

// FormsConfig bounds the open form sessions kept in memory
type FormsConfig struct {
	IdleTTL time.Duration `validate:"gt=0"`
	MaxOpen int           `validate:"gt=0"`
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			OpsPort:      getEnv("OPS_PORT", "8081"),
			Env:          getEnv("GO_ENV", "development"),
			SecureCookie: getBool("SECURE_COOKIE", false),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			Provider:   getEnv("AUTH_PROVIDER", ProviderLocal),
			RemoteURL:  getEnv("AUTH_REMOTE_URL", ""),
			JWTSecret:  getEnv("JWT_SECRET", DefaultJWTSecret),
			TokenTTL:   getDuration("TOKEN_TTL", 24*time.Hour),
			SessionTTL: getDuration("SESSION_TTL", 24*time.Hour),
			Timeout:    getDuration("AUTH_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Forms: FormsConfig{
			IdleTTL: getDuration("FORM_IDLE_TTL", 30*time.Minute),
			MaxOpen: getInt("FORM_MAX_OPEN", 10000),
		},
	}
}

// Validate checks field constraints and the provider-specific requirements
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.IsProduction() && c.Auth.JWTSecret == DefaultJWTSecret {
		return fmt.Errorf("invalid configuration: JWT_SECRET must be set in production")
	}

	switch c.Auth.Provider {
	case ProviderLocal:
		if c.Database.URL == "" {
			return fmt.Errorf("invalid configuration: DATABASE_URL is required for the %s provider", ProviderLocal)
		}
	case ProviderRemote:
		if c.Auth.RemoteURL == "" {
			return fmt.Errorf("invalid configuration: AUTH_REMOTE_URL is required for the %s provider", ProviderRemote)
		}
	}

	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
