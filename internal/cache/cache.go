// Package cache provides a TTL key-value store that memoizes expensive
// lookup results. A durable backing store is attempted first when one is
// configured; any failure degrades transparently to an in-process map, so no
// cache operation ever surfaces a backend error to its caller.
package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultTTL applies to Set calls that do not pass an explicit TTL.
const DefaultTTL = 6 * time.Hour

// Store is a durable cache backend. Implementations are expected to hide
// expired entries from reads and to remove them on Sweep.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	GetMany(ctx context.Context, keys []string) (map[string][]byte, error)
	Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error
	SetMany(ctx context.Context, entries map[string][]byte, expiresAt time.Time) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
	Sweep(ctx context.Context) (int, error)
}

// Cache fronts an optional durable Store with an in-process fallback.
// Values are opaque JSON payloads namespaced by caller-chosen string keys.
type Cache struct {
	store      Store // nil when no durable backend is configured
	mem        *memoryStore
	defaultTTL time.Duration
	log        *zap.Logger

	// degraded records whether the last durable operation failed. Mode is
	// observability only and never affects read/write correctness.
	degraded atomic.Bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithDefaultTTL overrides the process-wide default entry lifetime.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// WithLogger sets the logger used for degradation events.
func WithLogger(log *zap.Logger) Option {
	return func(c *Cache) {
		c.log = log
	}
}

// New creates a Cache. A nil store means in-process only.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:      store,
		mem:        newMemoryStore(),
		defaultTTL: DefaultTTL,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key, or false when the key is missing
// or expired. The durable store is consulted first, then the fallback.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.store != nil {
		value, ok, err := c.store.Get(ctx, key)
		if err == nil {
			c.markHealthy()
			if ok {
				return value, true
			}
		} else {
			c.markDegraded("get", err)
		}
	}

	value, ok, _ := c.mem.Get(ctx, key)
	return value, ok
}

// GetJSON unmarshals the value stored under key into dest. A malformed
// stored value is treated as a cache miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	value, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(value, dest); err != nil {
		c.log.Warn("cache: discarding malformed entry",
			zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores value under key. A non-positive ttl uses the default. The
// value and deadline are replaced together, so a concurrent reader sees
// either the old entry or the new one, never a mix.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	expiresAt := time.Now().Add(c.ttlOrDefault(ttl))

	if c.store != nil {
		err := c.store.Set(ctx, key, value, expiresAt)
		if err == nil {
			c.markHealthy()
			return
		}
		c.markDegraded("set", err)
	}
	_ = c.mem.Set(ctx, key, value, expiresAt)
}

// SetJSON marshals v and stores it under key. Marshaling errors are the only
// ones reported; storage itself cannot fail.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.Set(ctx, key, payload, ttl)
	return nil
}

// Delete removes key from every layer.
func (c *Cache) Delete(ctx context.Context, key string) {
	if c.store != nil {
		if err := c.store.Delete(ctx, key); err != nil {
			c.markDegraded("delete", err)
		} else {
			c.markHealthy()
		}
	}
	_ = c.mem.Delete(ctx, key)
}

// Exists reports whether key holds an unexpired value.
func (c *Cache) Exists(ctx context.Context, key string) bool {
	_, ok := c.Get(ctx, key)
	return ok
}

// GetMany returns values aligned with keys; missing or expired entries are
// nil at their index.
func (c *Cache) GetMany(ctx context.Context, keys []string) [][]byte {
	found := make(map[string][]byte, len(keys))

	if c.store != nil {
		durable, err := c.store.GetMany(ctx, keys)
		if err == nil {
			c.markHealthy()
			for k, v := range durable {
				found[k] = v
			}
		} else {
			c.markDegraded("mget", err)
		}
	}

	var missing []string
	for _, key := range keys {
		if _, ok := found[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		fallback, _ := c.mem.GetMany(ctx, missing)
		for k, v := range fallback {
			found[k] = v
		}
	}

	out := make([][]byte, len(keys))
	for i, key := range keys {
		out[i] = found[key]
	}
	return out
}

// SetMany stores every entry with a shared TTL.
func (c *Cache) SetMany(ctx context.Context, entries map[string][]byte, ttl time.Duration) {
	if len(entries) == 0 {
		return
	}
	expiresAt := time.Now().Add(c.ttlOrDefault(ttl))

	if c.store != nil {
		err := c.store.SetMany(ctx, entries, expiresAt)
		if err == nil {
			c.markHealthy()
			return
		}
		c.markDegraded("mset", err)
	}
	_ = c.mem.SetMany(ctx, entries, expiresAt)
}

// Clear drops every entry from every layer.
func (c *Cache) Clear(ctx context.Context) {
	if c.store != nil {
		if err := c.store.Clear(ctx); err != nil {
			c.markDegraded("clear", err)
		} else {
			c.markHealthy()
		}
	}
	_ = c.mem.Clear(ctx)
}

// Stats describes the current cache contents and operating mode.
type Stats struct {
	Size     int      `json:"size"`
	Keys     []string `json:"keys"`
	Degraded bool     `json:"degraded"`
}

// Stats returns the union of live keys across layers.
func (c *Cache) Stats(ctx context.Context) Stats {
	seen := make(map[string]struct{})

	if c.store != nil {
		durable, err := c.store.Keys(ctx)
		if err == nil {
			c.markHealthy()
			for _, key := range durable {
				seen[key] = struct{}{}
			}
		} else {
			c.markDegraded("stats", err)
		}
	}

	fallback, _ := c.mem.Keys(ctx)
	for _, key := range fallback {
		seen[key] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	return Stats{Size: len(keys), Keys: keys, Degraded: c.degraded.Load()}
}

// StartSweeper runs the periodic expiry sweep until ctx is canceled. The
// sweep is independent of request handling and never holds the fallback lock
// across a full pass.
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep(ctx)
			}
		}
	}()
}

func (c *Cache) sweep(ctx context.Context) {
	removed, _ := c.mem.Sweep(ctx)
	if c.store != nil {
		durable, err := c.store.Sweep(ctx)
		if err != nil {
			c.markDegraded("sweep", err)
		} else {
			c.markHealthy()
			removed += durable
		}
	}
	if removed > 0 {
		c.log.Debug("cache: swept expired entries", zap.Int("removed", removed))
	}
}

func (c *Cache) ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return c.defaultTTL
	}
	return ttl
}

func (c *Cache) markDegraded(op string, err error) {
	if c.degraded.CompareAndSwap(false, true) {
		c.log.Warn("cache: durable store failing, using in-process fallback",
			zap.String("op", op), zap.Error(err))
	}
}

func (c *Cache) markHealthy() {
	if c.degraded.CompareAndSwap(true, false) {
		c.log.Info("cache: durable store recovered")
	}
}
