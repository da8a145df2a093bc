package banners

import (
	"strings"
	"sync"
	"time"

	"github.com/portaldovale/backend/internal/models"
)

// DefaultCacheDuration applies when the settings row is missing or
// unreadable.
const DefaultCacheDuration = 5 * time.Minute

type cacheEntry struct {
	banners   []models.Banner
	createdAt time.Time
	expiresAt time.Time
}

// Cache is the in-process read-through cache for eligible banner lists,
// keyed by (slot slug, page, device class). Entries live for the
// configured duration and die with the process. Instances are constructed
// per composition root, never shared through package state.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	bypass  bool
	now     func() time.Time
}

// NewCache creates a cache with the given entry duration. bypass disables
// caching entirely: Get always misses, Set is a no-op.
func NewCache(ttl time.Duration, bypass bool) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheDuration
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		bypass:  bypass,
		now:     time.Now,
	}
}

func cacheKey(slot, page string, device models.DeviceClass) string {
	return slot + "|" + page + "|" + string(device)
}

// Get returns the cached banner list if present and unexpired. It never
// blocks and never fetches. Expired entries are evicted on read.
func (c *Cache) Get(slot, page string, device models.DeviceClass) ([]models.Banner, bool) {
	if c.bypass {
		return nil, false
	}
	key := cacheKey(slot, page, device)
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.banners, true
}

// Set stores the banner list, unconditionally overwriting any existing
// entry for that key.
func (c *Cache) Set(slot, page string, device models.DeviceClass, banners []models.Banner) {
	if c.bypass {
		return
	}
	now := c.now()
	c.mu.Lock()
	c.entries[cacheKey(slot, page, device)] = cacheEntry{
		banners:   banners,
		createdAt: now,
		expiresAt: now.Add(c.ttl),
	}
	c.mu.Unlock()
}

// ClearSlot evicts every entry under the slot's namespace, leaving other
// slots intact. Used when an admin republishes a slot.
func (c *Cache) ClearSlot(slot string) {
	prefix := slot + "|"
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// ClearAll evicts everything.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of live entries, counting expired ones not yet
// evicted.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
