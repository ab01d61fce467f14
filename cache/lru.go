package cache

import (
	"sync"

	"github.com/TFMV/codereview/types"
	"github.com/golang/groupcache/lru"
)

// LRU is an in-process, size-bounded report cache.
type LRU struct {
	cache *lru.Cache
	mu    sync.Mutex // lru.Cache.Get reorders entries, so reads lock too
}

// NewLRU creates an LRU holding at most size reports. A size of zero means no limit.
func NewLRU(size int) *LRU {
	return &LRU{
		cache: lru.New(size),
	}
}

// Get returns the cached report for key, if available.
func (c *LRU) Get(key string) (types.AnalysisReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if val, ok := c.cache.Get(key); ok {
		return val.(types.AnalysisReport), true
	}
	return types.AnalysisReport{}, false
}

// Put adds the report for key into the cache.
func (c *LRU) Put(key string, report types.AnalysisReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(key, report)
	return nil
}

// Len returns the number of cached reports.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

// Clear clears the cache.
func (c *LRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Clear()
}
