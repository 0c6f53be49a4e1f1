// ABOUTME: Thread-safe TTL cache for deduplicating Telegram updates.
// ABOUTME: Prevents reprocessing an update ID delivered more than once.

package dedupe

import (
	"container/list"
	"sync"
	"time"
)

type entry struct {
	stamp   time.Time
	element *list.Element
}

// Cache tracks recently seen Telegram update IDs. Entries expire after the
// TTL, and a size cap bounds memory when the bot runs for a long time.
// Insertion order is kept in a doubly-linked list for O(1) eviction.
type Cache struct {
	mu      sync.Mutex
	seen    map[int]*entry
	order   *list.List // update IDs, oldest at front
	ttl     time.Duration
	maxSize int
	done    chan struct{}
	closed  bool
}

// New creates a dedupe cache with the given TTL and maximum size. A
// background goroutine sweeps expired entries once a minute.
func New(ttl time.Duration, maxSize int) *Cache {
	c := &Cache{
		seen:    make(map[int]*entry),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		done:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Seen atomically checks whether the update ID has been processed within the
// TTL and marks it if not. Returns true for duplicates, false for new IDs.
func (c *Cache) Seen(updateID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.seen[updateID]; ok && time.Since(e.stamp) < c.ttl {
		return true
	}
	c.mark(updateID)
	return false
}

// mark records an update ID. Must be called with mu held.
func (c *Cache) mark(updateID int) {
	now := time.Now()

	if e, ok := c.seen[updateID]; ok {
		e.stamp = now
		c.order.MoveToBack(e.element)
		return
	}

	if len(c.seen) >= c.maxSize {
		c.evictOldest()
	}

	elem := c.order.PushBack(updateID)
	c.seen[updateID] = &entry{stamp: now, element: elem}
}

// evictOldest removes the oldest entry. Must be called with mu held.
func (c *Cache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}
	id, _ := front.Value.(int)
	c.order.Remove(front)
	delete(c.seen, id)
}

func (c *Cache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.done:
			return
		}
	}
}

func (c *Cache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, e := range c.seen {
		if now.Sub(e.stamp) > c.ttl {
			c.order.Remove(e.element)
			delete(c.seen, id)
		}
	}
}

// Close stops the background sweep goroutine. Safe to call more than once.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.done)
		c.closed = true
	}
}
