package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// DatasetPath points at the historical readings CSV.
	DatasetPath string

	OpenWeatherAPIKey string
	GeocoderAPIKey    string

	// MonitorCities are evaluated on the schedule. Empty = every city
	// in the dataset.
	MonitorCities []string

	// MonitorInterval controls how often live readings are evaluated.
	MonitorInterval time.Duration

	// Analysis defaults.
	BaselineWindow int
	SigmaThreshold float64

	// In-memory assessment retention.
	AssessmentMaxHistory int           // max number of records per city (0 = unlimited)
	AssessmentMaxAge     time.Duration // max age of records (0 = unlimited)

	HTTPTimeout time.Duration
	Port        string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.DatasetPath = os.Getenv("DATASET_PATH")
	if cfg.DatasetPath == "" {
		return nil, fmt.Errorf("DATASET_PATH is required")
	}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	if raw := os.Getenv("MONITOR_CITIES"); raw != "" {
		for _, city := range strings.Split(raw, ",") {
			if city = strings.TrimSpace(city); city != "" {
				cfg.MonitorCities = append(cfg.MonitorCities, city)
			}
		}
	}

	// Monitor interval: default 15 minutes.
	intervalStr := getenvDefault("MONITOR_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid MONITOR_INTERVAL: %w", err)
	}
	cfg.MonitorInterval = interval

	cfg.BaselineWindow = getenvInt("BASELINE_WINDOW", 30)
	if cfg.BaselineWindow < 1 {
		return nil, fmt.Errorf("BASELINE_WINDOW must be >= 1")
	}

	cfg.SigmaThreshold = getenvFloat("SIGMA_THRESHOLD", 2.0)
	if cfg.SigmaThreshold < 0 {
		return nil, fmt.Errorf("SIGMA_THRESHOLD must be >= 0")
	}

	// Assessment retention.
	cfg.AssessmentMaxHistory = getenvInt("ASSESSMENT_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals

	maxAgeStr := getenvDefault("ASSESSMENT_MAX_AGE", "24h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ASSESSMENT_MAX_AGE: %w", err)
	}
	cfg.AssessmentMaxAge = maxAge

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
