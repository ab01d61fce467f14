package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TFMV/codereview/analysis"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for codereview.
type Config struct {
	// Rule thresholds
	Thresholds ThresholdConfig `koanf:"thresholds"`

	// Complexity model
	Scorer ScorerConfig `koanf:"scorer"`

	// Report cache
	Cache CacheConfig `koanf:"cache"`

	// Report history store
	Store StoreConfig `koanf:"store"`

	// HTTP front end
	Server ServerConfig `koanf:"server"`

	// Logging
	Log LogConfig `koanf:"log"`
}

// ThresholdConfig defines rule thresholds. Every value must be positive;
// the complexity suggestion fires when the score exceeds Complexity.
type ThresholdConfig struct {
	Complexity        float64 `koanf:"complexity"`
	MaxLineLength     int     `koanf:"max_line_length"`
	MaxFunctionLength int     `koanf:"max_function_length"`
	MaxNestedDepth    int     `koanf:"max_nested_depth"`
}

// ScorerConfig selects the complexity scorer. With an empty URL the fixed
// Default score is used.
type ScorerConfig struct {
	URL      string  `koanf:"url"`
	Timeout  int     `koanf:"timeout"` // seconds
	MaxChars int     `koanf:"max_chars"`
	Default  float64 `koanf:"default"`
}

// CacheConfig controls report caching.
type CacheConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Size       int    `koanf:"size"`
	Persistent bool   `koanf:"persistent"`
	Dir        string `koanf:"dir"`
	TTL        int    `koanf:"ttl"` // TTL in hours
}

// StoreConfig controls the SurrealDB report store.
type StoreConfig struct {
	Enabled   bool   `koanf:"enabled"`
	URL       string `koanf:"url"`
	Namespace string `koanf:"namespace"`
	Database  string `koanf:"database"`
	Username  string `koanf:"username"`
	Password  string `koanf:"password"`
}

// ServerConfig controls the HTTP front end.
type ServerConfig struct {
	Addr       string   `koanf:"addr"`
	Debug      bool     `koanf:"debug"`
	Extensions []string `koanf:"extensions"`
	MaxUpload  int64    `koanf:"max_upload"` // bytes
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error
	JSON  bool   `koanf:"json"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	th := analysis.DefaultThresholds()
	return &Config{
		Thresholds: ThresholdConfig{
			Complexity:        th.ComplexityThreshold,
			MaxLineLength:     th.MaxLineLength,
			MaxFunctionLength: th.MaxFunctionLength,
			MaxNestedDepth:    th.MaxNestedDepth,
		},
		Scorer: ScorerConfig{
			Timeout: 30,
			Default: 0.5,
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    1000,
			Dir:     ".codereview/cache",
			TTL:     24,
		},
		Store: StoreConfig{
			URL:       "ws://localhost:8000/rpc",
			Namespace: "codereview",
			Database:  "codereview",
			Username:  "root",
			Password:  "root",
		},
		Server: ServerConfig{
			Addr:       ":8000",
			Extensions: []string{".py"},
			MaxUpload:  10 << 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a file, layered over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from the standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"codereview.toml",
		"codereview.yaml",
		"codereview.yml",
		"codereview.json",
		".codereview.toml",
		".codereview.yaml",
		".codereview.yml",
		".codereview.json",
	}

	for _, dir := range []string{".", ".codereview"} {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				if cfg, err := Load(path); err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Thresholds.Complexity <= 0 || c.Thresholds.Complexity > 1 {
		return fmt.Errorf("thresholds.complexity must be within (0,1], got %v", c.Thresholds.Complexity)
	}
	for name, v := range map[string]int{
		"thresholds.max_line_length":     c.Thresholds.MaxLineLength,
		"thresholds.max_function_length": c.Thresholds.MaxFunctionLength,
		"thresholds.max_nested_depth":    c.Thresholds.MaxNestedDepth,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if c.Scorer.Default < 0 || c.Scorer.Default > 1 {
		return fmt.Errorf("scorer.default must be within [0,1], got %v", c.Scorer.Default)
	}
	if c.Cache.Enabled && c.Cache.Persistent && c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir is required for a persistent cache")
	}
	if c.Store.Enabled && c.Store.URL == "" {
		return fmt.Errorf("store.url is required when the store is enabled")
	}
	return nil
}

// AnalysisThresholds converts the threshold section for the engine.
func (c *Config) AnalysisThresholds() analysis.Thresholds {
	return analysis.Thresholds{
		ComplexityThreshold: c.Thresholds.Complexity,
		MaxLineLength:       c.Thresholds.MaxLineLength,
		MaxFunctionLength:   c.Thresholds.MaxFunctionLength,
		MaxNestedDepth:      c.Thresholds.MaxNestedDepth,
	}
}

// ScorerTimeout returns the scorer deadline.
func (c *Config) ScorerTimeout() time.Duration {
	return time.Duration(c.Scorer.Timeout) * time.Second
}

// CacheTTL returns the persistent cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Hour
}
