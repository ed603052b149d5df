package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Env      string
	LogLevel string

	// Measurement database gateway.
	XAIRBaseURL  string
	XAIRUser     string
	XAIRPassword string

	// Meteorological provider.
	MeteoBaseURL string
	MeteoAPIKey  string

	HTTPTimeout    time.Duration
	HTTPMaxRetries int // 0 surfaces the first failure

	// Location is the civil time zone used for bins and date ranges.
	Location *time.Location

	FiguresDir string
	// ArchivePath is the sqlite archive; empty disables it.
	ArchivePath string

	// In-memory cache retention.
	CacheMaxEntries int           // 0 = unlimited
	CacheMaxAge     time.Duration // 0 = unlimited

	// HistoryStart is the first year of historical charts when a typology
	// does not define its own.
	HistoryStart int

	JobsFile string
	Port     string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{
		Env:          getenvDefault("APP_ENV", "development"),
		LogLevel:     getenvDefault("LOG_LEVEL", "info"),
		XAIRBaseURL:  getenvDefault("XAIR_BASE_URL", "http://localhost:8081/xair"),
		XAIRUser:     os.Getenv("XAIR_USER"),
		XAIRPassword: os.Getenv("XAIR_PASSWORD"),
		MeteoBaseURL: getenvDefault("METEO_BASE_URL", "http://localhost:8082/meteo"),
		MeteoAPIKey:  os.Getenv("METEO_API_KEY"),
		FiguresDir:   getenvDefault("FIGURES_DIR", "../Figures"),
		ArchivePath:  os.Getenv("ARCHIVE_PATH"),
		JobsFile:     getenvDefault("JOBS_FILE", "jobs.yaml"),
		Port:         getenvDefault("PORT", "8080"),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPMaxRetries, err = getenvInt("HTTP_MAX_RETRIES", 0); err != nil {
		return nil, err
	}
	if cfg.CacheMaxEntries, err = getenvInt("CACHE_MAX_ENTRIES", 64); err != nil {
		return nil, err
	}
	if cfg.CacheMaxAge, err = getenvDuration("CACHE_MAX_AGE", time.Hour); err != nil {
		return nil, err
	}
	if cfg.HistoryStart, err = getenvInt("HISTORY_START", 1999); err != nil {
		return nil, err
	}

	tz := getenvDefault("TIMEZONE", "Europe/Paris")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	if cfg.HTTPMaxRetries < 0 {
		return nil, fmt.Errorf("invalid HTTP_MAX_RETRIES: must not be negative")
	}
	return cfg, nil
}

// IsProduction reports whether the app runs with production defaults
// (JSON logs).
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
