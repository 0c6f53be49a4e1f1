// ABOUTME: Tests for the Telegram update dedupe cache.
// ABOUTME: Validates TTL expiration, size limits, eviction, and concurrency safety.

package dedupe

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_Seen_NewID(t *testing.T) {
	cache := New(5*time.Minute, 100)
	defer cache.Close()

	assert.False(t, cache.Seen(1001))
}

func TestCache_Seen_Duplicate(t *testing.T) {
	cache := New(5*time.Minute, 100)
	defer cache.Close()

	assert.False(t, cache.Seen(1001))
	assert.True(t, cache.Seen(1001))
	assert.True(t, cache.Seen(1001))
}

func TestCache_Seen_Expired(t *testing.T) {
	cache := New(10*time.Millisecond, 100)
	defer cache.Close()

	assert.False(t, cache.Seen(42))

	time.Sleep(20 * time.Millisecond)

	// After the TTL the ID counts as new again.
	assert.False(t, cache.Seen(42))
}

func TestCache_EvictsOldestAtCapacity(t *testing.T) {
	cache := New(5*time.Minute, 3)
	defer cache.Close()

	cache.Seen(1)
	cache.Seen(2)
	cache.Seen(3)

	// Fourth ID evicts the oldest (1).
	cache.Seen(4)

	assert.False(t, cache.Seen(1))
	assert.True(t, cache.Seen(2))
	assert.True(t, cache.Seen(3))
	assert.True(t, cache.Seen(4))
}

func TestCache_DuplicateRefreshesOrder(t *testing.T) {
	cache := New(5*time.Minute, 3)
	defer cache.Close()

	cache.Seen(1)
	cache.Seen(2)
	cache.Seen(3)

	// Touch 1 so it moves to the back of the eviction order.
	cache.Seen(1)

	// Capacity eviction should now drop 2, not 1.
	cache.Seen(4)

	assert.True(t, cache.Seen(1))
	assert.False(t, cache.Seen(2))
}

func TestCache_RemoveExpired(t *testing.T) {
	cache := New(10*time.Millisecond, 100)
	defer cache.Close()

	cache.Seen(7)
	cache.Seen(8)

	time.Sleep(20 * time.Millisecond)
	cache.removeExpired()

	cache.mu.Lock()
	assert.Empty(t, cache.seen)
	assert.Zero(t, cache.order.Len())
	cache.mu.Unlock()
}

func TestCache_ConcurrentSeen(t *testing.T) {
	cache := New(5*time.Minute, 1000)
	defer cache.Close()

	const goroutines = 20
	var dupes sync.Map

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := 0; id < 100; id++ {
				if cache.Seen(id) {
					dupes.Store(id, true)
				}
			}
		}()
	}
	wg.Wait()

	// Every ID was offered 20 times; each subsequent offer is a duplicate.
	for id := 0; id < 100; id++ {
		assert.True(t, cache.Seen(id))
	}
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	cache := New(time.Minute, 10)
	cache.Close()
	cache.Close()
}
