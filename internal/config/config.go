package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Session  SessionConfig
	Auth     AuthConfig
}

// DatabaseConfig holds listing/account store configuration
type DatabaseConfig struct {
	Driver       string // "sqlite3" or "postgres"
	Path         string // sqlite database file
	DSN          string // full connection string, overrides assembled Postgres DSN
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	SSLMode      string
	ListingTable string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// SessionConfig holds per-login session configuration
type SessionConfig struct {
	CookieName string
	TTLMinutes int
}

// AuthConfig holds credential hashing configuration
type AuthConfig struct {
	BcryptCost int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "sqlite3"),
			Path:         getEnv("DB_PATH", "DB/room.db"),
			DSN:          getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:         getEnv("PG_HOST", "localhost"),
			Port:         getEnvAsInt("PG_PORT", 5432),
			User:         getEnv("PG_USER", "postgres"),
			Password:     getEnv("PG_PASSWORD", ""),
			Database:     getEnv("PG_DATABASE", "rentalmap"),
			SSLMode:      getEnv("PG_SSLMODE", "disable"),
			ListingTable: getEnv("DB_LISTING_TABLE", "listings"),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "rentalmap_session"),
			TTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 60),
		},
		Auth: AuthConfig{
			BcryptCost: getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
	}

	if cfg.Database.Driver != "sqlite3" && cfg.Database.Driver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want sqlite3 or postgres)", cfg.Database.Driver)
	}

	return cfg, nil
}

// GetDSN returns the connection string for the configured driver
func (c *Config) GetDSN() string {
	if c.Database.Driver == "sqlite3" {
		return c.Database.Path + "?_journal_mode=WAL&_foreign_keys=on"
	}

	// 优先使用完整的 DSN
	if c.Database.DSN != "" {
		return c.Database.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}
