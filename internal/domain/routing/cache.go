package routing

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// DistanceCache memoizes resolved corridors for one estimate session.
//
// Entries are keyed "FROM|TO" on normalized port names. The cache is purely
// derived data: Clear is called whenever the number or order of ports changes.
type DistanceCache struct {
	mu      sync.RWMutex
	entries map[string]DistanceResult
	hits    int
	misses  int
}

// NewDistanceCache creates an empty cache
func NewDistanceCache() *DistanceCache {
	return &DistanceCache{entries: make(map[string]DistanceResult)}
}

// Key builds the normalized cache key of a port pair
func Key(from, to string) string {
	return NormalizePort(from) + "|" + NormalizePort(to)
}

// Put stores result under an explicit key without normalizing it
func (c *DistanceCache) Put(key string, result DistanceResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result
}

// Store saves every result under the normalized key of its own port pair
func (c *DistanceCache) Store(results []DistanceResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range results {
		if strings.TrimSpace(r.FromPort) == "" || strings.TrimSpace(r.ToPort) == "" {
			continue
		}
		c.entries[Key(r.FromPort, r.ToPort)] = r
	}
}

// Resolve looks a pair up by exact key, then by a case-insensitive scan over
// stored keys and result ports, then among the segments of cached corridors.
// Scans run in key order.
func (c *DistanceCache) Resolve(from, to string) (DistanceResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(from, to)
	if r, ok := c.entries[key]; ok {
		c.hits++
		return r, true
	}

	keys := c.sortedKeys()
	for _, storedKey := range keys {
		r := c.entries[storedKey]
		if strings.EqualFold(strings.TrimSpace(storedKey), key) ||
			(SamePort(r.FromPort, from) && SamePort(r.ToPort, to)) {
			c.hits++
			return r, true
		}
	}

	for _, storedKey := range keys {
		for _, seg := range c.entries[storedKey].Segments {
			if SamePort(seg.FromPort, from) && SamePort(seg.ToPort, to) {
				c.hits++
				return DistanceResult{
					FromPort:     seg.FromPort,
					ToPort:       seg.ToPort,
					Distance:     seg.Distance,
					SecaDistance: seg.SecaDistance,
				}, true
			}
		}
	}

	c.misses++
	return DistanceResult{}, false
}

// Lookup returns only an entry stored for the pair itself, never a segment
func (c *DistanceCache) Lookup(from, to string) (DistanceResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if r, ok := c.entries[Key(from, to)]; ok {
		return r, true
	}
	for _, key := range c.sortedKeys() {
		if r := c.entries[key]; SamePort(r.FromPort, from) && SamePort(r.ToPort, to) {
			return r, true
		}
	}
	return DistanceResult{}, false
}

// sortedKeys fixes the scan order so overlapping corridors resolve the same
// way every time. Callers hold the lock.
func (c *DistanceCache) sortedKeys() []string {
	return slices.Sorted(maps.Keys(c.entries))
}

// Clear wipes every entry
func (c *DistanceCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]DistanceResult)
}

func (c *DistanceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counts since creation
func (c *DistanceCache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
