// README: Config loader with env defaults for HTTP, stores, elevation provider, and coverage geometry.
package config

import (
	"fmt"
	"os"
	"strconv"
)

type ElevationConfig struct {
	Provider       string // "open-elevation" or "google"
	GoogleAPIKey   string
	OpenElevURL    string
	BatchSize      int
	MaxConcurrent  int
	RequestsPerSec float64
	MaxRetries     int
	CacheTTLHours  int
}

type CoverageConfig struct {
	NumRadials int
	MaxRangeKm float64
	IntervalKm float64
	KFactor    float64
}

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		DSN string // empty disables the durable elevation cache tier
	}
	Redis struct {
		Addr string // empty disables the hot elevation cache tier
	}
	Elevation ElevationConfig
	Coverage  CoverageConfig
	Firebase  struct {
		ProjectID       string // empty disables auth
		CredentialsFile string
	}
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("SKYLINE_HTTP_ADDR", ":8080")
	cfg.DB.DSN = envOrDefault("SKYLINE_DB_DSN", "")
	cfg.Redis.Addr = envOrDefault("SKYLINE_REDIS_ADDR", "")

	cfg.Elevation.Provider = envOrDefault("SKYLINE_ELEVATION_PROVIDER", "open-elevation")
	cfg.Elevation.GoogleAPIKey = envOrDefault("SKYLINE_GOOGLE_API_KEY", "")
	cfg.Elevation.OpenElevURL = envOrDefault("SKYLINE_OPEN_ELEVATION_URL", "")
	cfg.Elevation.BatchSize = envOrDefaultInt("SKYLINE_ELEVATION_BATCH_SIZE", 100)
	cfg.Elevation.MaxConcurrent = envOrDefaultInt("SKYLINE_ELEVATION_MAX_CONCURRENT", 4)
	cfg.Elevation.RequestsPerSec = envOrDefaultFloat("SKYLINE_ELEVATION_RPS", 4.0)
	cfg.Elevation.MaxRetries = envOrDefaultInt("SKYLINE_ELEVATION_MAX_RETRIES", 3)
	cfg.Elevation.CacheTTLHours = envOrDefaultInt("SKYLINE_ELEVATION_CACHE_TTL_HOURS", 30*24)

	cfg.Coverage.NumRadials = envOrDefaultInt("SKYLINE_COVERAGE_RADIALS", 120)
	cfg.Coverage.MaxRangeKm = envOrDefaultFloat("SKYLINE_COVERAGE_MAX_RANGE_KM", 300.0)
	cfg.Coverage.IntervalKm = envOrDefaultFloat("SKYLINE_COVERAGE_INTERVAL_KM", 1.0)
	cfg.Coverage.KFactor = envOrDefaultFloat("SKYLINE_COVERAGE_K_FACTOR", 4.0/3.0)

	cfg.Firebase.ProjectID = envOrDefault("SKYLINE_FIREBASE_PROJECT_ID", "")
	cfg.Firebase.CredentialsFile = envOrDefault("SKYLINE_FIREBASE_CREDENTIALS_FILE", "")

	// Bearings are i*(360/numRadials), so the radial count must divide 360;
	// catching it here fails startup instead of every computation.
	if cfg.Coverage.NumRadials <= 0 || 360%cfg.Coverage.NumRadials != 0 {
		return Config{}, fmt.Errorf("SKYLINE_COVERAGE_RADIALS must evenly divide 360, got %d", cfg.Coverage.NumRadials)
	}
	if cfg.Coverage.MaxRangeKm <= 0 || cfg.Coverage.IntervalKm <= 0 {
		return Config{}, fmt.Errorf("coverage range and interval must be positive, got %v km / %v km",
			cfg.Coverage.MaxRangeKm, cfg.Coverage.IntervalKm)
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}
