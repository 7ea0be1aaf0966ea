package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Backend != BackendStub {
		t.Errorf("expected stub backend, got %s", cfg.Backend)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("expected 5m TTL, got %v", cfg.Cache.TTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_PROVIDER_KEY", "sk-test-123")

	content := `
provider:
  url: https://data.example.com
  api_key: ${TEST_PROVIDER_KEY}
  timeout: 5s
cache:
  enabled: true
  ttl: 30s
backend: local
local:
  url: http://localhost:11434
  model: llama3
log_level: debug
`
	dir := t.TempDir()
	path := filepath.Join(dir, "stocksage.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Provider.URL != "https://data.example.com" {
		t.Errorf("unexpected provider url: %s", cfg.Provider.URL)
	}
	if cfg.Provider.APIKey != "sk-test-123" {
		t.Errorf("env var not expanded: got %s", cfg.Provider.APIKey)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Errorf("expected 30s TTL, got %v", cfg.Cache.TTL)
	}
	if cfg.Backend != BackendLocal {
		t.Errorf("expected local backend, got %s", cfg.Backend)
	}
	// Unset fields keep their defaults.
	if cfg.Cloud.Model != "gemini-1.5-flash" {
		t.Errorf("expected default cloud model, got %s", cfg.Cloud.Model)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/stocksage.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadOrDefaultMissing(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != BackendStub {
		t.Errorf("expected defaults, got backend %s", cfg.Backend)
	}
}

func TestValidateRejectsBadURL(t *testing.T) {
	cfg := Default()
	cfg.Provider.URL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for malformed provider url")
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := Default()
	cfg.Backend = "mainframe"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown backend")
	}
}
