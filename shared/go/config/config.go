package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Security configuration
	Security SecurityConfig

	// Catalog store configuration
	Store StoreConfig

	// Object storage configuration
	Blob BlobConfig

	// CORS configuration
	CORS CORSConfig

	// Logging configuration
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int
	Host string
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SecurityConfig holds security-related settings
type SecurityConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// StoreConfig selects where the catalog snapshot is persisted.
type StoreConfig struct {
	Backend     string // file, postgres, sqlite
	Path        string // file or sqlite database path
	DatabaseURL string // postgres
	Table       string
}

// BlobConfig holds object storage settings for media links.
type BlobConfig struct {
	Endpoint        string
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	URLExpiration   time.Duration
	RateLimit       float64
	PublicBaseURL   string
}

// Enabled reports whether presigned media links can be produced.
func (b BlobConfig) Enabled() bool {
	return b.Bucket != ""
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// Load reads configuration from environment variables. Variables already set
// in the environment take precedence over the optional env files.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", file, err)
		}
	}

	cfg := &Config{}

	if err := cfg.loadServer(); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}

	if err := cfg.loadSecurity(); err != nil {
		return nil, fmt.Errorf("load security config: %w", err)
	}

	cfg.loadStore()

	if err := cfg.loadBlob(); err != nil {
		return nil, fmt.Errorf("load blob config: %w", err)
	}

	cfg.loadCORS()

	cfg.loadLogging()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadServer() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	c.Server.Port = port
	c.Server.Host = getEnvOrDefault("HOST", "0.0.0.0")
	return nil
}

func (c *Config) loadSecurity() error {
	c.Security.JWTSecret = os.Getenv("JWT_SECRET")

	ttl, err := getSecondsOrDefault("TOKEN_EXP_SECONDS", 3600)
	if err != nil {
		return err
	}
	c.Security.TokenTTL = ttl
	return nil
}

func (c *Config) loadStore() {
	c.Store.Backend = strings.ToLower(getEnvOrDefault("STORE_BACKEND", BackendFile))
	c.Store.Path = getEnvOrDefault("STORE_PATH", "./database.json")
	c.Store.DatabaseURL = os.Getenv("DATABASE_URL")
	c.Store.Table = getEnvOrDefault("STORE_TABLE", "catalog_snapshots")
}

func (c *Config) loadBlob() error {
	c.Blob.Endpoint = strings.TrimRight(os.Getenv("AWS_ENDPOINT_URL"), "/")
	c.Blob.Bucket = os.Getenv("BUCKET_NAME")
	c.Blob.Region = getEnvOrDefault("AWS_REGION", "us-east-1")
	c.Blob.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	c.Blob.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

	expiration, err := getSecondsOrDefault("URL_EXPIRATION", 3600)
	if err != nil {
		return err
	}
	c.Blob.URLExpiration = expiration

	if raw := os.Getenv("BLOB_RATE_LIMIT"); raw != "" {
		limit, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid BLOB_RATE_LIMIT: %w", err)
		}
		c.Blob.RateLimit = limit
	}

	c.Blob.PublicBaseURL = os.Getenv("PUBLIC_MEDIA_BASE_URL")
	if c.Blob.PublicBaseURL == "" && c.Blob.Endpoint != "" && c.Blob.Bucket != "" {
		c.Blob.PublicBaseURL = c.Blob.Endpoint + "/" + c.Blob.Bucket + "/"
	}
	return nil
}

func (c *Config) loadCORS() {
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		// Default for local development
		c.CORS.AllowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}
		return
	}

	var origins []string
	for _, origin := range strings.Split(originsEnv, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.CORS.AllowedOrigins = origins
}

func (c *Config) loadLogging() {
	c.Logging.Level = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info"))
	c.Logging.Format = strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json"))
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var errors []string

	// Validate security configuration
	if c.Security.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is required")
	} else if len(c.Security.JWTSecret) < 16 {
		errors = append(errors, "JWT_SECRET must be at least 16 characters")
	}
	if c.Security.TokenTTL <= 0 {
		errors = append(errors, "TOKEN_EXP_SECONDS must be positive")
	}

	// Validate server configuration
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "PORT must be between 1 and 65535")
	}

	// Validate store configuration
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
		if c.Store.Path == "" {
			errors = append(errors, "STORE_PATH is required for the "+c.Store.Backend+" backend")
		}
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required for the postgres backend")
		}
	default:
		errors = append(errors, "STORE_BACKEND must be one of: file, postgres, sqlite")
	}
	if c.Store.Backend != BackendFile && c.Store.Table == "" {
		errors = append(errors, "STORE_TABLE is required")
	}

	// Validate object storage configuration
	if c.Blob.URLExpiration <= 0 {
		errors = append(errors, "URL_EXPIRATION must be positive")
	}
	if c.Blob.RateLimit < 0 {
		errors = append(errors, "BLOB_RATE_LIMIT must not be negative")
	}
	if c.Blob.Bucket != "" && (c.Blob.AccessKeyID == "" || c.Blob.SecretAccessKey == "") {
		errors = append(errors, "AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are required when BUCKET_NAME is set")
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		errors = append(errors, "LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		errors = append(errors, "LOG_FORMAT must be one of: json, text")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getSecondsOrDefault(key string, defaultSeconds int) (time.Duration, error) {
	seconds := defaultSeconds
	if raw := os.Getenv(key); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		seconds = v
	}
	return time.Duration(seconds) * time.Second, nil
}
