package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `server:
  port: 9090
label:
  month_table: skip_i
  template_blocks: 4
  sheet_name: Sheet1
artifact:
  ttl: 5m
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv("LABEL_LOCALE", "en")
	t.Setenv("REDIS_HOST", "redis.internal")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Label.MonthTable != "skip_i" || cfg.Label.TemplateBlocks != 4 || cfg.Label.SheetName != "Sheet1" {
		t.Errorf("Unexpected label config %+v", cfg.Label)
	}
	if cfg.Artifact.TTL != 5*time.Minute {
		t.Errorf("Expected 5m ttl, got %v", cfg.Artifact.TTL)
	}
	if cfg.Label.Locale != "en" {
		t.Errorf("Expected env override locale=en, got %q", cfg.Label.Locale)
	}
	if cfg.Redis.Host != "redis.internal" {
		t.Errorf("Expected env override redis host, got %q", cfg.Redis.Host)
	}
	// defaults fill what the file leaves out
	if cfg.Label.Timezone != "Asia/Seoul" || cfg.Label.MaxBatch != 10 || cfg.Label.FontSize != 18 {
		t.Errorf("Unexpected defaults %+v", cfg.Label)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Server.MaxUploadSize != 5<<20 {
		t.Errorf("Unexpected server defaults %+v", cfg.Server)
	}
	if cfg.Label.MonthTable != "sequential" || cfg.Label.TemplateBlocks != 10 {
		t.Errorf("Unexpected label defaults %+v", cfg.Label)
	}
	if cfg.Log.Output != "stdout" {
		t.Errorf("Expected stdout logging by default, got %q", cfg.Log.Output)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for explicit missing config file")
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("LABEL_TEST_VALUE", "set")
	if v := GetEnvOrDefault("LABEL_TEST_VALUE", "fallback"); v != "set" {
		t.Errorf("Expected set, got %s", v)
	}
	if v := GetEnvOrDefault("LABEL_TEST_UNSET", "fallback"); v != "fallback" {
		t.Errorf("Expected fallback, got %s", v)
	}
}
