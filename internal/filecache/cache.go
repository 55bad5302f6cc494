// Package filecache provides a bounded in-memory content cache used by the
// lazy scanner to amortize repeated file reads across scan invocations.
//
// Eviction is least-recently-used and enforces two bounds at once: a maximum
// entry count and a maximum total byte size. Ties on access time are broken
// by insertion order, oldest first.
package filecache

import (
	"errors"
	"sync"
)

// ErrContentTooLarge is returned when a single piece of content exceeds the
// cache's byte bound. Such content is rejected up front and never cached;
// callers are expected to record the file as excluded. This is a deliberate
// policy choice over storing an entry that alone busts the bound.
var ErrContentTooLarge = errors.New("content exceeds cache byte limit")

const (
	// DefaultMaxEntries bounds the entry count when not configured.
	DefaultMaxEntries = 100
	// DefaultMaxBytes bounds the total content size when not configured.
	DefaultMaxBytes = 32 << 20 // 32MB
)

// Stats holds monotonically accumulating counters since cache creation.
// Reading stats never affects cache behavior.
type Stats struct {
	Hits           int64
	Misses         int64
	Evictions      int64
	CurrentBytes   int64
	CurrentEntries int
}

// entry is one cached file content keyed by its relative path. lastAccess is
// a logical clock, not wall time, so recency ordering is exact even for
// accesses within the same nanosecond.
type entry struct {
	key        string
	content    string
	sizeBytes  int64
	lastAccess uint64
	insertSeq  uint64
	prev, next *entry
}

// Cache is a thread-safe LRU content cache. A single mutex guards lookup,
// insert and eviction; this is the only shared mutable structure in the
// scanning core.
type Cache struct {
	maxEntries int
	maxBytes   int64

	mu      sync.Mutex
	entries map[string]*entry
	head    *entry // most recently used
	tail    *entry // least recently used
	clock   uint64
	seq     uint64
	bytes   int64
	stats   Stats
}

// New creates a cache with the given bounds. Non-positive bounds fall back
// to the defaults.
func New(maxEntries int, maxBytes int64) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Cache{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		entries:    make(map[string]*entry),
	}
}

// GetOrLoad returns the cached content for key, refreshing its recency, or
// invokes loader and caches the result. When loader fails nothing is cached
// and the error propagates. Content larger than the byte bound is returned
// to the caller wrapped in ErrContentTooLarge without being cached.
func (c *Cache) GetOrLoad(key string, loader func() (string, error)) (string, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.clock++
		e.lastAccess = c.clock
		c.moveToFront(e)
		c.stats.Hits++
		content := e.content
		c.mu.Unlock()
		return content, nil
	}
	c.stats.Misses++
	c.mu.Unlock()

	// Load outside the lock; loaders do file I/O.
	content, err := loader()
	if err != nil {
		return "", err
	}

	size := int64(len(content))
	if size > c.maxBytes {
		return content, ErrContentTooLarge
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have loaded the same key meanwhile; keep the
	// existing entry and refresh it.
	if e, ok := c.entries[key]; ok {
		c.clock++
		e.lastAccess = c.clock
		c.moveToFront(e)
		return e.content, nil
	}

	c.clock++
	c.seq++
	e := &entry{
		key:        key,
		content:    content,
		sizeBytes:  size,
		lastAccess: c.clock,
		insertSeq:  c.seq,
	}
	c.entries[key] = e
	c.addToFront(e)
	c.bytes += size

	// Evict until both bounds hold, never removing the entry just inserted.
	for (len(c.entries) > c.maxEntries || c.bytes > c.maxBytes) && c.tail != e {
		c.evictOldest(e)
	}

	return content, nil
}

// Invalidate removes one entry if present; no-op otherwise.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.remove(e)
	}
}

// Stats returns a snapshot of the accumulated counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.CurrentBytes = c.bytes
	s.CurrentEntries = len(c.entries)
	return s
}

// Clear removes every entry. Counters are preserved.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	c.head, c.tail = nil, nil
	c.bytes = 0
}

// evictOldest removes the least-recently-used entry other than keep.
// The list tail is the LRU candidate; ties on lastAccess cannot occur because
// the logical clock is strictly increasing, but insertSeq documents the
// tie-break should the ordering source ever change.
func (c *Cache) evictOldest(keep *entry) {
	victim := c.tail
	for victim != nil && victim == keep {
		victim = victim.prev
	}
	if victim == nil {
		return
	}
	c.remove(victim)
	c.stats.Evictions++
}

func (c *Cache) remove(e *entry) {
	delete(c.entries, e.key)
	c.bytes -= e.sizeBytes
	c.unlink(e)
}

func (c *Cache) moveToFront(e *entry) {
	if c.head == e {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

func (c *Cache) addToFront(e *entry) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *Cache) unlink(e *entry) {
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
	e.prev, e.next = nil, nil
}
