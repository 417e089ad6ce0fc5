package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.Env != "development" || !cfg.IsDev() || cfg.IsProduction() {
		t.Errorf("Env = %q, IsDev = %v, IsProduction = %v", cfg.Env, cfg.IsDev(), cfg.IsProduction())
	}
	if cfg.SnapshotDriver != "fs" {
		t.Errorf("SnapshotDriver = %q, want fs", cfg.SnapshotDriver)
	}
	if cfg.CheckupWindowMonths != 6 {
		t.Errorf("CheckupWindowMonths = %d, want 6", cfg.CheckupWindowMonths)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SNAPSHOT_DRIVER", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Errorf("Env = %q, want production", cfg.Env)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.SnapshotDriver != "memory" {
		t.Errorf("SnapshotDriver = %q, want memory", cfg.SnapshotDriver)
	}
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("SNAPSHOT_DRIVER", "postgres")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error when the postgres driver has no database URL")
	}

	t.Setenv("SNAPSHOT_DATABASE_URL", "postgres://localhost/shrs")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SnapshotDatabaseURL == "" {
		t.Error("SnapshotDatabaseURL not picked up from env")
	}
}

func TestLoad_RejectsZeroCheckupWindow(t *testing.T) {
	t.Setenv("CHECKUP_WINDOW_MONTHS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a zero checkup window")
	}
}

func TestCheckupWindow(t *testing.T) {
	cfg := &Config{CheckupWindowMonths: 2}
	if got := cfg.CheckupWindow(); got != 2*30*24*time.Hour {
		t.Errorf("CheckupWindow = %v", got)
	}
}
