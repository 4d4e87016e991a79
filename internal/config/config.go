// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the server and CLI read at start-up.
type Config struct {
	Port string

	MapsProvider string
	ORSAPIKey    string
	AzureMapsKey string
	MapsTimeout  time.Duration

	OfficeLat float64
	OfficeLon float64

	DBPath      string
	DatabaseURL string
	RedisURL    string
	CacheTTL    time.Duration

	ParcelSeedPath    string
	ParcelMatchMeters float64

	ScheduleURL string
	Debounce    time.Duration
	SessionTTL  time.Duration
}

// MapsKey returns the API key for the selected maps provider.
func (c Config) MapsKey() string {
	if c.MapsProvider == "azure" {
		return c.AzureMapsKey
	}
	return c.ORSAPIKey
}

// LoadDotEnv loads .env when present. A missing file is not an error.
func LoadDotEnv(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

// Load builds a Config from the environment, applying defaults for unset keys.
func Load() (Config, error) {
	var err error
	cfg := Config{
		Port:           Get("PORT", "8080"),
		MapsProvider:   strings.ToLower(Get("MAPS_PROVIDER", "ors")),
		ORSAPIKey:      strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		AzureMapsKey:   strings.TrimSpace(os.Getenv("AZURE_MAPS_KEY")),
		DBPath:         Get("DB_PATH", "data/app.db"),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:       strings.TrimSpace(os.Getenv("REDIS_URL")),
		ParcelSeedPath: Get("PARCEL_SEED_PATH", "data/seeds/parcels.json"),
		ScheduleURL:    Get("SCHEDULE_URL", "https://schedule.example.com/book"),
	}

	if cfg.MapsTimeout, err = Duration("MAPS_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.OfficeLat, err = Float("OFFICE_LAT", 29.8150); err != nil {
		return Config{}, err
	}
	if cfg.OfficeLon, err = Float("OFFICE_LON", -95.5150); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = Duration("CACHE_TTL", 30*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ParcelMatchMeters, err = Float("PARCEL_MATCH_METERS", 60); err != nil {
		return Config{}, err
	}
	if cfg.Debounce, err = Duration("DEBOUNCE", 400*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = Duration("SESSION_TTL", 2*time.Hour); err != nil {
		return Config{}, err
	}

	switch cfg.MapsProvider {
	case "ors", "azure":
	default:
		return Config{}, fmt.Errorf("config: MAPS_PROVIDER %q: want ors or azure", cfg.MapsProvider)
	}

	return cfg, nil
}

// Get returns the value of key, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func Duration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: %s: negative duration %s", key, v)
	}
	return d, nil
}

func Float(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}
