// Package memo implements compute-once-per-owner value caching.
//
// A Cache belongs to exactly one owner object and lives as long as it does.
// Values are computed at most once per key; the only way to invalidate them
// is to construct a fresh owner (or call Reset explicitly). A Cache is
// confined to a single goroutine and is not safe for concurrent use.
package memo

// Cache stores computed values keyed by accessor name.
// The zero value is ready to use.
type Cache struct {
	values map[string]any
}

// Get returns the value for key, computing and storing it on first access.
// Subsequent calls return the stored value without invoking compute, even if
// external state has changed since. If compute fails, nothing is cached and
// the next Get retries. A value placed with Set short-circuits compute.
func Get[T any](c *Cache, key string, compute func() (T, error)) (T, error) {
	if v, ok := c.values[key]; ok {
		return v.(T), nil
	}
	v, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	c.put(key, v)
	return v, nil
}

// Set stores value under key, bypassing computation on later reads.
func (c *Cache) Set(key string, value any) {
	c.put(key, value)
}

// Has reports whether key holds a cached value.
func (c *Cache) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Reset drops every cached value.
func (c *Cache) Reset() {
	c.values = nil
}

func (c *Cache) put(key string, value any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = value
}
