package climate

import (
	"sync"
	"time"

	"github.com/couchcryptid/biosim-climate-client/internal/domain"
	"github.com/couchcryptid/biosim-climate-client/internal/observability"
	"github.com/jonboulle/clockwork"
)

// SignatureCache maps generation signatures to the server's weather tokens.
// It is safe for concurrent use. With maxEntries and maxAge both zero it
// never evicts and lives as long as the client.
type SignatureCache struct {
	lru     *lruCache
	metrics *observability.Metrics
}

// NewSignatureCache creates a cache bounded by maxEntries (LRU) and maxAge.
// Zero disables either bound.
func NewSignatureCache(maxEntries int, maxAge time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *SignatureCache {
	c := &SignatureCache{metrics: metrics}
	c.lru = newLRUCache(maxEntries, maxAge, clock, func() { metrics.CacheEvictions.Inc() })
	return c
}

// Lookup returns the token stored for an equal signature.
func (c *SignatureCache) Lookup(sig domain.GenerationSignature) (string, bool) {
	token, ok := c.lru.get(sig.Key())
	if ok {
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
	} else {
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}
	c.metrics.CacheEntries.Set(float64(c.lru.len()))
	return token, ok
}

// Insert stores or replaces the token for a signature.
func (c *SignatureCache) Insert(sig domain.GenerationSignature, token string) {
	c.lru.put(sig.Key(), token)
	c.metrics.CacheEntries.Set(float64(c.lru.len()))
}

// Len is the number of live entries.
func (c *SignatureCache) Len() int {
	return c.lru.len()
}

// lruCache is a thread-safe LRU cache with optional expiry.
type lruCache struct {
	maxEntries int
	maxAge     time.Duration
	clock      clockwork.Clock
	onEvict    func()

	mu      sync.Mutex
	entries map[string]*entry
	head    *entry // most recently used
	tail    *entry // least recently used
}

type entry struct {
	key     string
	value   string
	created time.Time
	prev    *entry
	next    *entry
}

func newLRUCache(maxEntries int, maxAge time.Duration, clock clockwork.Clock, onEvict func()) *lruCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if onEvict == nil {
		onEvict = func() {}
	}
	return &lruCache{
		maxEntries: maxEntries,
		maxAge:     maxAge,
		clock:      clock,
		onEvict:    onEvict,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.expired(e) {
		c.drop(e)
		return "", false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.created = now
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, created: now}
	c.entries[key] = e
	c.addToFront(e)

	if c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		c.drop(c.tail)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) expired(e *entry) bool {
	return c.maxAge > 0 && c.clock.Since(e.created) >= c.maxAge
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) drop(e *entry) {
	if e == nil {
		return
	}
	delete(c.entries, e.key)
	c.remove(e)
	c.onEvict()
}
