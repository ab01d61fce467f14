package cache_test

import (
	"testing"

	"github.com/TFMV/codereview/cache"
	"github.com/TFMV/codereview/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() types.AnalysisReport {
	report := types.NewAnalysisReport()
	report.ComplexityScore = 0.25
	report.LineCount = 3
	report.Metrics = types.Metrics{TotalLines: 3, BlankLines: 1, FunctionCount: 1}
	report.Practices = append(report.Practices, types.Finding{
		Kind:    types.KindMissingDocumentation,
		Name:    "foo",
		Message: "Function 'foo' is missing documentation",
	})
	report.Suggestions = append(report.Suggestions, "Function 'foo' is missing documentation")
	return *report
}

func TestKey(t *testing.T) {
	a := cache.Key("def foo():\n    pass\n")
	b := cache.Key("def foo():\n    pass\n")
	c := cache.Key("def bar():\n    pass\n")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestLRU(t *testing.T) {
	c := cache.NewLRU(2)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	require.NoError(t, c.Put("a", sampleReport()))
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, sampleReport(), got)

	require.NoError(t, c.Put("b", sampleReport()))
	require.NoError(t, c.Put("c", sampleReport()))
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("a")
	assert.False(t, ok, "oldest entry should be evicted")

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestBadger(t *testing.T) {
	c, err := cache.OpenBadger(cache.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	key := cache.Key("x = 1")
	require.NoError(t, c.Put(key, sampleReport()))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, sampleReport(), got)
}

func TestOpenBadger_RequiresDir(t *testing.T) {
	_, err := cache.OpenBadger(cache.BadgerConfig{})
	assert.Error(t, err)
}

func TestOpenBadger_Persistent(t *testing.T) {
	dir := t.TempDir()

	c, err := cache.OpenBadger(cache.BadgerConfig{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, c.Put("k", sampleReport()))
	require.NoError(t, c.Close())

	reopened, err := cache.OpenBadger(cache.BadgerConfig{Dir: dir})
	require.NoError(t, err)
	defer reopened.Close()

	got, ok := reopened.Get("k")
	require.True(t, ok)
	assert.Equal(t, 3, got.LineCount)
}
