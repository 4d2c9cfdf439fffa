package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string
	CORSOrigins string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth
	JWTSecret        string
	JWTIssuer        string
	JWTExpiry        time.Duration
	JWTRefreshExpiry time.Duration

	// Redis
	RedisURL string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// DigitalOcean Spaces (optional file offload)
	SpacesKey      string
	SpacesSecret   string
	SpacesRegion   string
	SpacesBucket   string
	SpacesEndpoint string
}

// Load reads configuration from environment variables, loading .env if present
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "ai_tutor"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTIssuer:        getEnv("JWT_ISSUER", "ai-tutor-api"),
		JWTExpiry:        getDurationEnv("JWT_EXPIRY_MINUTES", 60) * time.Minute,
		JWTRefreshExpiry: getDurationEnv("JWT_REFRESH_EXPIRY_HOURS", 168) * time.Hour,

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		SpacesKey:      getEnv("DO_SPACES_KEY", ""),
		SpacesSecret:   getEnv("DO_SPACES_SECRET", ""),
		SpacesRegion:   getEnv("DO_SPACES_REGION", "blr1"),
		SpacesBucket:   getEnv("DO_SPACES_BUCKET", ""),
		SpacesEndpoint: getEnv("DO_SPACES_ENDPOINT", ""),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// DatabaseDSN builds the postgres connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SpacesConfigured reports whether DigitalOcean Spaces credentials are set
func (c *Config) SpacesConfigured() bool {
	return c.SpacesKey != "" && c.SpacesSecret != "" && c.SpacesBucket != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return time.Duration(parsed)
		}
	}
	return time.Duration(fallback)
}
