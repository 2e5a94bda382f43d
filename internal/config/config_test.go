package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Compose.Project != "stackmate" {
		t.Errorf("compose project = %s", cfg.Compose.Project)
	}
	if cfg.Bootstrap.GracePeriod != 30*time.Second {
		t.Errorf("grace period = %v", cfg.Bootstrap.GracePeriod)
	}
	if cfg.Stores.DialTimeout != 5*time.Second {
		t.Errorf("dial timeout = %v", cfg.Stores.DialTimeout)
	}
	if cfg.Stores.Redis.Addr != "localhost:6379" {
		t.Errorf("redis addr = %s", cfg.Stores.Redis.Addr)
	}
	if cfg.Stores.API.BaseURL != "http://localhost:8080" {
		t.Errorf("api base url = %s", cfg.Stores.API.BaseURL)
	}
	if cfg.Fixtures.Dir != "deploy/api-content" {
		t.Errorf("fixtures dir = %s", cfg.Fixtures.Dir)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stackmate.yaml")

	yaml := `
compose:
  project: sandbox
stores:
  redis:
    addr: "redis.internal:6380"
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Compose.Project != "sandbox" {
		t.Errorf("compose project = %s, want sandbox", cfg.Compose.Project)
	}
	if cfg.Stores.Redis.Addr != "redis.internal:6380" {
		t.Errorf("redis addr = %s", cfg.Stores.Redis.Addr)
	}
	// Незатронутые значения остаются по умолчанию.
	if cfg.Stores.Mongo.Database != "stackmate" {
		t.Errorf("mongo database = %s", cfg.Stores.Mongo.Database)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/stackmate.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
