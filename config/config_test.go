package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/TFMV/codereview/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, 0.7, cfg.Thresholds.Complexity)
	assert.Equal(t, 80, cfg.Thresholds.MaxLineLength)
	assert.Equal(t, 50, cfg.Thresholds.MaxFunctionLength)
	assert.Equal(t, 3, cfg.Thresholds.MaxNestedDepth)

	assert.Empty(t, cfg.Scorer.URL)
	assert.Equal(t, 30*time.Second, cfg.ScorerTimeout())
	assert.True(t, cfg.Cache.Enabled)
	assert.False(t, cfg.Cache.Persistent)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL())
	assert.False(t, cfg.Store.Enabled)
	assert.Equal(t, []string{".py"}, cfg.Server.Extensions)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, analysis.DefaultThresholds(), cfg.AnalysisThresholds())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "codereview.toml",
			content: `
[thresholds]
max_function_length = 20

[scorer]
url = "http://localhost:9000/score"

[log]
level = "debug"
`,
		},
		{
			name: "yaml",
			file: "codereview.yaml",
			content: `
thresholds:
  max_function_length: 20
scorer:
  url: http://localhost:9000/score
log:
  level: debug
`,
		},
		{
			name:    "json",
			file:    "codereview.json",
			content: `{"thresholds": {"max_function_length": 20}, "scorer": {"url": "http://localhost:9000/score"}, "log": {"level": "debug"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, 20, cfg.Thresholds.MaxFunctionLength)
			assert.Equal(t, "http://localhost:9000/score", cfg.Scorer.URL)
			assert.Equal(t, "debug", cfg.Log.Level)

			// untouched keys keep their defaults
			assert.Equal(t, 3, cfg.Thresholds.MaxNestedDepth)
			assert.Equal(t, ":8000", cfg.Server.Addr)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("thresholds = [["), 0644))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte("[thresholds]\ncomplexity = 1.5\n"), 0644))
	_, err = Load(invalid)
	assert.ErrorContains(t, err, "thresholds.complexity")

	zero := filepath.Join(dir, "zero.toml")
	require.NoError(t, os.WriteFile(zero, []byte("[thresholds]\ncomplexity = 0.0\n"), 0644))
	_, err = Load(zero)
	assert.ErrorContains(t, err, "thresholds.complexity")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, ok: true},
		{name: "zero complexity", mutate: func(c *Config) { c.Thresholds.Complexity = 0 }},
		{name: "complexity of one", mutate: func(c *Config) { c.Thresholds.Complexity = 1 }, ok: true},
		{name: "zero function length", mutate: func(c *Config) { c.Thresholds.MaxFunctionLength = 0 }},
		{name: "negative nested depth", mutate: func(c *Config) { c.Thresholds.MaxNestedDepth = -1 }},
		{name: "zero line length", mutate: func(c *Config) { c.Thresholds.MaxLineLength = 0 }},
		{name: "default score out of range", mutate: func(c *Config) { c.Scorer.Default = -0.1 }},
		{name: "persistent cache without dir", mutate: func(c *Config) {
			c.Cache.Persistent = true
			c.Cache.Dir = ""
		}},
		{name: "disabled persistent cache without dir", mutate: func(c *Config) {
			c.Cache.Enabled = false
			c.Cache.Persistent = true
			c.Cache.Dir = ""
		}, ok: true},
		{name: "store without url", mutate: func(c *Config) {
			c.Store.Enabled = true
			c.Store.URL = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg := LoadOrDefault()
	assert.Equal(t, DefaultConfig(), cfg)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".codereview"), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, ".codereview", "codereview.toml"),
		[]byte("[server]\naddr = \":9090\"\n"),
		0644,
	))

	cfg = LoadOrDefault()
	assert.Equal(t, ":9090", cfg.Server.Addr)
}
