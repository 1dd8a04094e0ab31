package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Client Configuration (b3uf CLI)
	Client ClientConfig

	// Storage Configuration (where the session is persisted)
	Storage StorageConfig

	// Server Configuration (reference auth API)
	Server ServerConfig

	// Database Configuration
	Database DatabaseConfig

	// Logging Configuration
	Logging LoggingConfig
}

// ClientConfig holds the REST API client configuration
type ClientConfig struct {
	APIURL      string
	HTTPTimeout time.Duration
}

// StorageConfig selects the durable session storage backend
type StorageConfig struct {
	Backend string // keyring, file, sqlite, memory
	Path    string // file or sqlite path, empty = default under ~/.config/b3uf
}

// ServerConfig holds reference API configuration
type ServerConfig struct {
	ListenAddr  string
	JWTSecret   string
	CORSOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	timeout := 30 * time.Second
	if raw := os.Getenv("B3UF_HTTP_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid B3UF_HTTP_TIMEOUT %q: %w", raw, err)
		}
		timeout = parsed
	}

	backend := strings.ToLower(getEnv("B3UF_STORAGE", "keyring"))
	switch backend {
	case "keyring", "file", "sqlite", "memory":
	default:
		return nil, fmt.Errorf("invalid B3UF_STORAGE %q, must be one of: keyring, file, sqlite, memory", backend)
	}

	origins := splitList(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	if len(origins) == 0 {
		return nil, fmt.Errorf("invalid CORS_ORIGINS %q, must list at least one origin", os.Getenv("CORS_ORIGINS"))
	}

	return &Config{
		Client: ClientConfig{
			APIURL:      strings.TrimRight(getEnv("B3UF_API_URL", "http://localhost:8080"), "/"),
			HTTPTimeout: timeout,
		},
		Storage: StorageConfig{
			Backend: backend,
			Path:    os.Getenv("B3UF_STORAGE_PATH"),
		},
		Server: ServerConfig{
			ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
			JWTSecret:   os.Getenv("JWT_SECRET"),
			CORSOrigins: origins,
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", "b3uf.sqlite"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
