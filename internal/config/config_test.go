package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JOURNEY_FILE", "journey.yaml")
	t.Setenv("FRAME_INTERVAL_MS", "")
	t.Setenv("SPEED_MULTIPLIER", "")
	t.Setenv("LABEL_READ_MS", "")
	t.Setenv("CAMERA_SETTLE_MS", "")
	t.Setenv("NATS_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FrameInterval != 33*time.Millisecond {
		t.Errorf("FrameInterval = %v", cfg.FrameInterval)
	}
	if cfg.SpeedMultiplier != 1.0 {
		t.Errorf("SpeedMultiplier = %v", cfg.SpeedMultiplier)
	}
	if cfg.NATSURL != "nats://127.0.0.1:4222" {
		t.Errorf("NATSURL = %q", cfg.NATSURL)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL should be empty when using a journey file, got %q", cfg.DatabaseURL)
	}
}

func TestLoadRequiresJourneySource(t *testing.T) {
	t.Setenv("JOURNEY_FILE", "")
	t.Setenv("JOURNEY_ID", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error without JOURNEY_FILE or JOURNEY_ID")
	}
}

func TestLoadStoreJourneyNeedsDSN(t *testing.T) {
	t.Setenv("JOURNEY_FILE", "")
	t.Setenv("JOURNEY_ID", "europe-2025")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PG_DSN", "")
	t.Setenv("PGDATABASE", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error when JOURNEY_ID is set without database config")
	}

	t.Setenv("DATABASE_URL", "postgres://app@db:5432/journeys?sslmode=disable")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseURL != "postgres://app@db:5432/journeys?sslmode=disable" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("JOURNEY_FILE", "journey.yaml")
	t.Setenv("FRAME_INTERVAL_MS", "zero")
	if _, err := Load(); err == nil {
		t.Error("bad FRAME_INTERVAL_MS accepted")
	}
	t.Setenv("FRAME_INTERVAL_MS", "16")
	t.Setenv("SPEED_MULTIPLIER", "-2")
	if _, err := Load(); err == nil {
		t.Error("negative SPEED_MULTIPLIER accepted")
	}
}
