package sqlite

import (
	"strings"
	"sync"

	"github.com/tidwall/btree"
)

// pathCache is an ordered in-memory copy of sources.path -> object_id
type pathCache struct {
	mu    sync.RWMutex
	paths *btree.Map[string, int64]
}

// cacheOp is a cache change held back until its transaction commits
type cacheOp struct {
	path   string
	id     int64
	remove bool
}

func newPathCache() *pathCache {
	return &pathCache{paths: btree.NewMap[string, int64](0)}
}

func (c *pathCache) get(path string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.paths.Get(path)
}

func (c *pathCache) set(path string, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths.Set(path, id)
}

func (c *pathCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.paths.Len()
}

// under returns every cached path starting with prefix, in order
func (c *pathCache) under(prefix string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []string
	c.paths.Ascend(prefix, func(path string, _ int64) bool {
		if !strings.HasPrefix(path, prefix) {
			return false
		}
		out = append(out, path)
		return true
	})
	return out
}

func (c *pathCache) apply(ops []cacheOp) {
	if len(ops) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, op := range ops {
		if op.remove {
			c.paths.Delete(op.path)
		} else {
			c.paths.Set(op.path, op.id)
		}
	}
}

func (c *pathCache) reset(entries map[string]int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths.Clear()
	for path, id := range entries {
		c.paths.Set(path, id)
	}
}
