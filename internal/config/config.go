// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	Spotify SpotifyConfig
	Vision  VisionConfig
	Storage StorageConfig
	Ledger  LedgerConfig
	Cache   CacheConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           int
	AllowedOrigins []string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// SpotifyConfig holds catalog API settings
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Market       string
	Concurrency  int
}

// VisionConfig selects and configures the poster reading model
type VisionConfig struct {
	Provider     string // gemini, ollama
	GoogleAPIKey string
	GeminiModel  string
	OllamaHost   string
	OllamaModel  string
}

// StorageConfig selects the session store
type StorageConfig struct {
	Driver      string // sqlite, postgres
	SQLitePath  string
	DatabaseURL string
}

// LedgerConfig selects the playlist ledger and its worker pool
type LedgerConfig struct {
	Driver                string // sheets, sqlite, postgres
	SheetID               string
	SheetRange            string
	ServiceAccountKeyPath string
	GeoBaseURL            string
	Workers               int
	QueueSize             int
	Timeout               time.Duration
}

// CacheConfig holds the poster cache location
type CacheConfig struct {
	Dir string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	if err := cfg.loadServer(); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}
	cfg.loadLogging()
	if err := cfg.loadSpotify(); err != nil {
		return nil, fmt.Errorf("load spotify config: %w", err)
	}
	cfg.loadVision()
	cfg.loadStorage()
	if err := cfg.loadLedger(); err != nil {
		return nil, fmt.Errorf("load ledger config: %w", err)
	}
	cfg.Cache.Dir = getEnvOrDefault("CACHE_DIR", "cache")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadServer() error {
	port, err := getIntOrDefault("PORT", 5001)
	if err != nil {
		return err
	}
	c.Server.Port = port
	c.Server.AllowedOrigins = parseCommaSeparatedList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	return nil
}

func (c *Config) loadLogging() {
	c.Logging.Level = getEnvOrDefault("LOG_LEVEL", "info")
	c.Logging.Format = getEnvOrDefault("LOG_FORMAT", "json")
}

func (c *Config) loadSpotify() error {
	c.Spotify.ClientID = os.Getenv("SPOTIFY_CLIENT_ID")
	c.Spotify.ClientSecret = os.Getenv("SPOTIFY_CLIENT_SECRET")
	c.Spotify.RedirectURI = getEnvOrDefault("SPOTIFY_REDIRECT_URI", "http://127.0.0.1:5001/spotify_auth")
	c.Spotify.Market = getEnvOrDefault("SPOTIFY_MARKET", "US")

	concurrency, err := getIntOrDefault("CATALOG_CONCURRENCY", 4)
	if err != nil {
		return err
	}
	c.Spotify.Concurrency = concurrency
	return nil
}

func (c *Config) loadVision() {
	c.Vision.Provider = strings.ToLower(getEnvOrDefault("VISION_PROVIDER", "gemini"))
	c.Vision.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	c.Vision.GeminiModel = getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash")
	c.Vision.OllamaHost = os.Getenv("OLLAMA_HOST")
	c.Vision.OllamaModel = getEnvOrDefault("OLLAMA_MODEL", "llava:13b")
}

func (c *Config) loadStorage() {
	c.Storage.Driver = strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", "sqlite"))
	c.Storage.SQLitePath = getEnvOrDefault("SQLITE_PATH", "lineup.db")
	c.Storage.DatabaseURL = os.Getenv("DATABASE_URL")
}

func (c *Config) loadLedger() error {
	c.Ledger.Driver = strings.ToLower(getEnvOrDefault("LEDGER_DRIVER", "sheets"))
	c.Ledger.SheetID = os.Getenv("GOOGLE_SHEET_ID")
	c.Ledger.SheetRange = getEnvOrDefault("GOOGLE_SHEET_RANGE", "Sheet1!A1")
	c.Ledger.ServiceAccountKeyPath = os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON_PATH")
	c.Ledger.GeoBaseURL = getEnvOrDefault("GEO_BASE_URL", "http://ip-api.com")

	workers, err := getIntOrDefault("LEDGER_WORKERS", 2)
	if err != nil {
		return err
	}
	c.Ledger.Workers = workers

	queue, err := getIntOrDefault("LEDGER_QUEUE", 100)
	if err != nil {
		return err
	}
	c.Ledger.QueueSize = queue

	timeout, err := time.ParseDuration(getEnvOrDefault("LEDGER_TIMEOUT", "15s"))
	if err != nil {
		return fmt.Errorf("invalid LEDGER_TIMEOUT: %w", err)
	}
	c.Ledger.Timeout = timeout
	return nil
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var errors []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "PORT must be between 1 and 65535")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		errors = append(errors, "LOG_LEVEL must be one of: debug, info, warn, error")
	}
	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		errors = append(errors, "LOG_FORMAT must be one of: json, text")
	}

	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		errors = append(errors, "SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required")
	}
	if c.Spotify.Concurrency < 1 {
		errors = append(errors, "CATALOG_CONCURRENCY must be at least 1")
	}

	switch c.Vision.Provider {
	case "gemini":
		if c.Vision.GoogleAPIKey == "" {
			errors = append(errors, "GOOGLE_API_KEY is required when VISION_PROVIDER=gemini")
		}
	case "ollama":
	default:
		errors = append(errors, "VISION_PROVIDER must be one of: gemini, ollama")
	}

	switch c.Storage.Driver {
	case "sqlite":
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	default:
		errors = append(errors, "STORAGE_DRIVER must be one of: sqlite, postgres")
	}

	switch c.Ledger.Driver {
	case "sheets":
		if c.Ledger.SheetID == "" || c.Ledger.ServiceAccountKeyPath == "" {
			errors = append(errors, "GOOGLE_SHEET_ID and GOOGLE_SERVICE_ACCOUNT_JSON_PATH are required when LEDGER_DRIVER=sheets")
		}
	case "sqlite":
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when LEDGER_DRIVER=postgres")
		}
	default:
		errors = append(errors, "LEDGER_DRIVER must be one of: sheets, sqlite, postgres")
	}
	if c.Ledger.Workers < 1 || c.Ledger.QueueSize < 1 {
		errors = append(errors, "LEDGER_WORKERS and LEDGER_QUEUE must be at least 1")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseCommaSeparatedList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
