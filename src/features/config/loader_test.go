package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	manager, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file not written: %v", err)
	}

	cfg := manager.Get()
	if cfg.Watch.IntervalMs != 1000 {
		t.Errorf("interval_ms = %d, want 1000", cfg.Watch.IntervalMs)
	}
	if cfg.Server.Port != 8421 {
		t.Errorf("port = %d, want 8421", cfg.Server.Port)
	}
}

func TestLoadExistingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
watch:
  interval_ms: 250
  max_file_size: 1048576
  diff_context: 5
server:
  port: 9000
database:
  path: ./test.db
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	manager, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := manager.Get()
	if cfg.Watch.IntervalMs != 250 {
		t.Errorf("interval_ms = %d, want 250", cfg.Watch.IntervalMs)
	}
	if cfg.Watch.DiffContext != 5 {
		t.Errorf("diff_context = %d, want 5", cfg.Watch.DiffContext)
	}
}

func TestLoadRejectsInvalidInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
watch:
  interval_ms: 5
  max_file_size: 1048576
server:
  port: 9000
database:
  path: ./test.db
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for sub-100ms interval")
	}
}

func TestGetYAMLRedactsToken(t *testing.T) {
	manager := NewManager(&Config{
		Telegram: Telegram{Token: "very-secret"},
	})

	out := manager.GetYAML()
	if strings.Contains(out, "very-secret") {
		t.Error("telegram token leaked into config dump")
	}
	if !strings.Contains(out, "<redacted>") {
		t.Error("redaction marker missing from config dump")
	}
}
