package detect

import (
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/coastwatch/hazard-report-service/internal/domain"
)

// cacheKey hashes the image payload so repeated scoring of the same frame is
// keyed without holding megabytes of base64 in the cache map.
func cacheKey(req Request) string {
	sum := sha256.Sum256([]byte(req.Image))
	if req.Coordinates == nil {
		return fmt.Sprintf("%x", sum)
	}
	return fmt.Sprintf("%x|%.6f,%.6f", sum, req.Coordinates.Latitude, req.Coordinates.Longitude)
}

// verdictCache is a simple thread-safe LRU cache for classification verdicts.
type verdictCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.ClassificationVerdict
	prev  *entry
	next  *entry
}

func newVerdictCache(maxEntries int) *verdictCache {
	return &verdictCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *verdictCache) get(key string) (domain.ClassificationVerdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.ClassificationVerdict{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *verdictCache) put(key string, value domain.ClassificationVerdict) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *verdictCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *verdictCache) addToFront(e *entry) {
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

func (c *verdictCache) remove(e *entry) {
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

func (c *verdictCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
