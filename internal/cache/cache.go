package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"

	"github.com/utiliscan/digsite-server/internal/lib/geo"
)

// Cache provides thread-safe in-memory caching with TTL, used to memoize
// geocoding, tile and routing lookups so repeated sites in one workbook do not
// repeat upstream calls.
type Cache struct {
	entries map[string]*entry
	mutex   sync.RWMutex
}

type entry struct {
	data      []byte
	createdAt time.Time
	expiresAt time.Time
}

// New creates a new in-memory cache
func New() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
	}
}

// Set stores data in the cache for the given TTL
func (c *Cache) Set(key string, data interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data for cache: %w", err)
	}

	now := time.Now()
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = &entry{
		data:      jsonData,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
	return nil
}

// Get retrieves data from the cache if not stale
func (c *Cache) Get(key string, result interface{}) (bool, error) {
	c.mutex.RLock()
	item, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists || time.Now().After(item.expiresAt) {
		return false, nil
	}

	if err := json.Unmarshal(item.data, result); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	return true, nil
}

// Len returns the number of entries currently held, fresh or stale
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

// CleanupStale removes all stale entries from the cache
func (c *Cache) CleanupStale() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	var removed int

	for key, item := range c.entries {
		if now.After(item.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}

	return removed
}

// StartPeriodicCleanup starts a goroutine that periodically removes stale entries
func (c *Cache) StartPeriodicCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		defer func() {
			// Recover from any panics in the cleanup goroutine
			if r := recover(); r != nil {
				err, _ := errors.ParseStack(debug.Stack())
				skipFrames := 3
				numFrames := 5
				logging.Errorw(ctx, "Cache cleanup: recovered from panic",
					"error", r, "error.stack_trace", err.MinimalStack(skipFrames, numFrames))
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := c.CleanupStale(); removed > 0 {
					logging.Infow(ctx, "Cache cleanup removed stale entries", "removed", removed)
				}
			}
		}
	}()
}

// Key helpers for the upstream lookups this cache memoizes. Coordinates are
// rounded to 5 decimal places (roughly 1 meter) so float jitter does not
// fragment the keyspace.

// PlaceKey keys a reverse-geocode lookup
func PlaceKey(p geo.Point) string {
	return fmt.Sprintf("place:%.5f,%.5f", p.Latitude, p.Longitude)
}

// RoadsKey keys a tilequery roads lookup
func RoadsKey(p geo.Point, radiusMeters float64, limit int) string {
	return fmt.Sprintf("roads:%.5f,%.5f:%.0f:%d", p.Latitude, p.Longitude, radiusMeters, limit)
}

// RouteKey keys a directions lookup between two points
func RouteKey(origin, destination geo.Point) string {
	return fmt.Sprintf("route:%.5f,%.5f:%.5f,%.5f",
		origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude)
}
