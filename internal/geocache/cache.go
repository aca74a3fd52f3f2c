// Package geocache keeps the persisted cache of resolved location
// coordinates in step with the place configuration: it diffs config against
// the cache, resolves only what is new, and commits all-or-nothing.
package geocache

import (
	"github.com/neophilus/manifester/internal/model"
	"github.com/neophilus/manifester/internal/runerr"
)

// Cache is the in-memory set of resolved entries, keyed by canonicalized
// display name, plus the trip geometries built from them.
type Cache struct {
	entries []model.CacheEntry
	index   map[string]int
	Trips   []model.TripLine
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{index: make(map[string]int)}
}

// FromEntries builds a cache from entries. Two entries sharing a key violate
// the one-key-one-location invariant and yield a CacheParseError.
func FromEntries(entries []model.CacheEntry) (*Cache, error) {
	c := New()
	for _, e := range entries {
		if _, dup := c.index[e.Key()]; dup {
			return nil, runerr.Errorf(runerr.CacheParse, "geocache: %q appears more than once", e.Name)
		}
		c.put(e)
	}
	return c, nil
}

// Len returns the number of resolved entries.
func (c *Cache) Len() int { return len(c.entries) }

// Entries returns the entries in persisted order.
func (c *Cache) Entries() []model.CacheEntry {
	return append([]model.CacheEntry(nil), c.entries...)
}

// Lookup returns the entry stored under a canonical key.
func (c *Cache) Lookup(key string) (model.CacheEntry, bool) {
	i, ok := c.index[key]
	if !ok {
		return model.CacheEntry{}, false
	}
	return c.entries[i], true
}

// Point returns the resolved point for a location ID.
func (c *Cache) Point(locationID string) (model.GeoPoint, bool) {
	e, ok := c.Lookup(locationID)
	return e.Point, ok
}

// Keys returns the set of canonical keys present.
func (c *Cache) Keys() map[string]bool {
	keys := make(map[string]bool, len(c.entries))
	for k := range c.index {
		keys[k] = true
	}
	return keys
}

// Codes returns the set of country codes present.
func (c *Cache) Codes() map[string]bool {
	codes := make(map[string]bool)
	for _, e := range c.entries {
		codes[e.CountryCode] = true
	}
	return codes
}

// Merge inserts new entries, replacing any entry already stored under the
// same key. It returns how many entries were added or replaced.
func (c *Cache) Merge(entries []model.CacheEntry) int {
	for _, e := range entries {
		if i, ok := c.index[e.Key()]; ok {
			c.entries[i] = e
			continue
		}
		c.put(e)
	}
	return len(entries)
}

// Clone returns an independent copy.
func (c *Cache) Clone() *Cache {
	out := New()
	for _, e := range c.entries {
		out.put(e)
	}
	out.Trips = append([]model.TripLine(nil), c.Trips...)
	return out
}

func (c *Cache) put(e model.CacheEntry) {
	if e.Location == "" {
		e.Location = e.Key()
	}
	c.index[e.Key()] = len(c.entries)
	c.entries = append(c.entries, e)
}
