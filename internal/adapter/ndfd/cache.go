package ndfd

import (
	"context"
	"sync"
	"time"

	"github.com/couchcryptid/hawaii-firewx/internal/domain"
	"github.com/couchcryptid/hawaii-firewx/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Downloader fetches the GRIB2 files of one element.
type Downloader interface {
	Download(ctx context.Context, element domain.Element) ([][]byte, error)
}

// CachedDownloader wraps a Downloader with an in-memory LRU cache whose
// entries expire after ttl, so several products sharing an element within
// one issuance download it once.
type CachedDownloader struct {
	inner   Downloader
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedDownloader creates a cache decorator around a downloader.
func NewCachedDownloader(inner Downloader, maxEntries int, ttl time.Duration, clk clockwork.Clock, metrics *observability.Metrics) *CachedDownloader {
	return &CachedDownloader{
		inner:   inner,
		cache:   newLRUCache(maxEntries, ttl, clk),
		metrics: metrics,
	}
}

func (c *CachedDownloader) Download(ctx context.Context, element domain.Element) ([][]byte, error) {
	key := string(element)
	if files, ok := c.cache.get(key); ok {
		c.metrics.DownloadCache.WithLabelValues("hit").Inc()
		return files, nil
	}
	c.metrics.DownloadCache.WithLabelValues("miss").Inc()

	files, err := c.inner.Download(ctx, element)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, files)
	return files, nil
}

// lruCache is a thread-safe LRU cache of downloaded files with expiry.
type lruCache struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     [][]byte
	fetchedAt time.Time
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int, ttl time.Duration, clk clockwork.Clock) *lruCache {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &lruCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clk,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([][]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock.Since(e.fetchedAt) >= c.ttl {
		delete(c.entries, key)
		c.remove(e)
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value [][]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.fetchedAt = now
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, fetchedAt: now}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
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

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
