package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend selector values.
const (
	BackendLocal = "local"
	BackendCloud = "cloud"
	BackendStub  = "stub"
)

// Config holds all stocksage configuration.
type Config struct {
	DBPath   string         `yaml:"db_path"`
	Provider ProviderConfig `yaml:"provider"`
	Cache    CacheConfig    `yaml:"cache"`
	Backend  string         `yaml:"backend"`
	Local    LocalConfig    `yaml:"local"`
	Cloud    CloudConfig    `yaml:"cloud"`
	LogLevel string         `yaml:"log_level"`
}

// ProviderConfig defines the upstream market-data endpoint.
type ProviderConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// CacheConfig controls the live-context cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// LocalConfig defines the local (Ollama) completion backend.
type LocalConfig struct {
	URL     string        `yaml:"url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// CloudConfig defines the cloud (Gemini) completion backend.
type CloudConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		DBPath: "stocksage.db",
		Provider: ProviderConfig{
			URL:     "https://lobehub.com/mcp/girishkumardv-live-nse-bse-mcp",
			Timeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		Backend: BackendStub,
		Local: LocalConfig{
			URL:     "http://localhost:11434",
			Model:   "llama3",
			Timeout: 2 * time.Minute,
		},
		Cloud: CloudConfig{
			Model:   "gemini-1.5-flash",
			Timeout: 2 * time.Minute,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML config file, expands environment variables, and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to defaults when the file
// does not exist, so the CLI works out of the box.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Validate rejects configurations that cannot produce a working client.
// These are the only fatal errors in the system; everything downstream
// degrades instead of failing.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Provider.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid provider url %q", c.Provider.URL)
	}

	switch c.Backend {
	case BackendLocal, BackendCloud, BackendStub:
	default:
		return fmt.Errorf("unsupported backend %q (choose local, cloud, or stub)", c.Backend)
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %v", c.Cache.TTL)
	}
	return nil
}
