package codereview_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TFMV/codereview"
	"github.com/TFMV/codereview/cache"
	"github.com/TFMV/codereview/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `class Greeter:
    def greet(self, name):
        """Say hello."""
        return "hello " + name

def helper(x):
    if x:
        return x
`

func TestNew_Defaults(t *testing.T) {
	app, err := codereview.New(nil, nil)
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &cache.LRU{}, app.Analyzer.Cache)
	assert.Nil(t, app.Analyzer.DB)
	require.NoError(t, app.Initialize(context.Background()))

	report, err := app.Analyzer.AnalyzeSource(context.Background(), sample)
	require.NoError(t, err)
	assert.Equal(t, 0.5, report.ComplexityScore)
	assert.Equal(t, 2, report.Metrics.FunctionCount)
	require.Len(t, report.Practices, 1)
	assert.Equal(t, "helper", report.Practices[0].Name)
}

func TestNew_RemoteScorer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"score": 0.95}`))
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Scorer.URL = srv.URL
	cfg.Cache.Enabled = false

	app, err := codereview.New(cfg, nil)
	require.NoError(t, err)
	defer app.Close()
	assert.Nil(t, app.Analyzer.Cache)

	report, err := app.Analyzer.AnalyzeSource(context.Background(), sample)
	require.NoError(t, err)
	assert.Equal(t, 0.95, report.ComplexityScore)
	assert.Equal(t, "Code is too complex, consider breaking it down into smaller functions", report.Suggestions[0])
}

func TestNew_PersistentCache(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cache.Persistent = true
	cfg.Cache.Dir = t.TempDir()

	app, err := codereview.New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &cache.Badger{}, app.Analyzer.Cache)

	_, err = app.Analyzer.AnalyzeSource(context.Background(), sample)
	require.NoError(t, err)
	key := app.Analyzer.CacheKey(sample)
	require.NoError(t, app.Close())

	reopened, err := cache.OpenBadger(cache.BadgerConfig{Dir: cfg.Cache.Dir})
	require.NoError(t, err)
	defer reopened.Close()

	_, ok := reopened.Get(key)
	assert.True(t, ok)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Thresholds.Complexity = 2

	_, err := codereview.New(cfg, nil)
	assert.Error(t, err)
}

func TestNew_CustomExtensions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Extensions = []string{".pyi"}

	app, err := codereview.New(cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	assert.True(t, app.Analyzer.IsSourceFile("stub.pyi"))
	assert.False(t, app.Analyzer.IsSourceFile("main.py"))
	assert.NotNil(t, app.Server(":0", false).Handler())
}
