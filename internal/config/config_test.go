package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("CITY", "")
	t.Setenv("FETCH_INTERVAL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.City != "San Jose,CR" {
		t.Errorf("city default: got %q", cfg.City)
	}
	if cfg.MongoDatabase != "clima_data" || cfg.MongoCollection != "clima_data" {
		t.Errorf("mongo defaults: got db=%q coll=%q", cfg.MongoDatabase, cfg.MongoCollection)
	}
	if cfg.SnapshotPath != "clima_data.json" {
		t.Errorf("snapshot path default: got %q", cfg.SnapshotPath)
	}
	if cfg.FetchInterval != 15*time.Minute {
		t.Errorf("fetch interval default: got %v", cfg.FetchInterval)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("http timeout default: got %v", cfg.HTTPTimeout)
	}
}

func TestLoadRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("OPENWEATHER_API_KEY", "test-key")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing MONGO_URI")
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("OPENWEATHER_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing OPENWEATHER_API_KEY")
	}
}

func TestLoadRejectsInvalidInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("FETCH_INTERVAL", "often")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparsable FETCH_INTERVAL")
	}
}

func TestLoadReadsOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CITY", "Cartago,CR")
	t.Setenv("MONGO_DB_NAME", "weather")
	t.Setenv("MONGO_COLLECTION_NAME", "observations")
	t.Setenv("FETCH_INTERVAL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.City != "Cartago,CR" {
		t.Errorf("city: got %q", cfg.City)
	}
	if cfg.MongoDatabase != "weather" || cfg.MongoCollection != "observations" {
		t.Errorf("mongo overrides: got db=%q coll=%q", cfg.MongoDatabase, cfg.MongoCollection)
	}
	if cfg.FetchInterval != time.Hour {
		t.Errorf("fetch interval: got %v", cfg.FetchInterval)
	}
}
