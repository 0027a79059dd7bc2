package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process-wide configuration, built once at startup and
// threaded through each component. Components never read the environment
// themselves.
type Config struct {
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	OpenWeatherAPIKey string

	// City identifier as sent to the provider, e.g. "San Jose,CR".
	City string

	// SnapshotPath is the fixed path of the intermediate JSON snapshot.
	SnapshotPath string

	// FetchInterval controls how often the scheduler runs the pipeline.
	FetchInterval time.Duration

	// HTTPTimeout bounds outbound provider calls.
	HTTPTimeout time.Duration

	Port     string
	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment with sensible defaults.
// MONGO_URI and OPENWEATHER_API_KEY are required; everything else defaults.
func Load() (*Config, error) {
	// A .env file is optional; real deployments inject the environment.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.MongoURI = os.Getenv("MONGO_URI")
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("required environment variable MONGO_URI is not set")
	}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("required environment variable OPENWEATHER_API_KEY is not set")
	}

	cfg.MongoDatabase = getenvDefault("MONGO_DB_NAME", "clima_data")
	cfg.MongoCollection = getenvDefault("MONGO_COLLECTION_NAME", "clima_data")
	cfg.City = getenvDefault("CITY", "San Jose,CR")
	cfg.SnapshotPath = getenvDefault("SNAPSHOT_PATH", "clima_data.json")

	intervalStr := getenvDefault("FETCH_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogJSON = getenvBool("LOG_JSON", false)

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
