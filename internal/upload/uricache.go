package upload

import (
	"context"
	"sync"
	"time"

	"github.com/connectedcar/fileupload/pkg/logging"
)

// MaxCacheSize bounds the number of in-flight URI rendezvous entries held at
// once. A put that would exceed it evicts the single oldest entry first.
const MaxCacheSize = 10

// URIPollInterval is the polling period used by WaitFor while a caller awaits
// an asynchronous URI-response delivery.
const URIPollInterval = 2 * time.Second

// uriCacheEntry is a single rendezvous slot: a URI delivered by the Dispatcher
// for fileName, awaiting a single WaitFor/Take by the uploading worker.
type uriCacheEntry struct {
	fileName  string
	uri       string
	createdAt time.Time
}

// URICache is a bounded map from file name to delivered URI. It is the
// rendezvous point between the Dispatcher, which inserts entries as
// ArbitraryToDevice responses arrive, and UploadWorker, which consumes them.
// A URI entry is single-use: Take removes it on a hit.
type URICache struct {
	mu           sync.Mutex
	entries      map[string]*uriCacheEntry
	pollInterval time.Duration
}

// NewURICache returns an empty, ready-to-use URICache.
func NewURICache() *URICache {
	return &URICache{entries: make(map[string]*uriCacheEntry), pollInterval: URIPollInterval}
}

// SetPollInterval overrides the polling period used by WaitFor. Intended for
// tests that need WaitFor to converge faster than the spec's 2s default.
func (c *URICache) SetPollInterval(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pollInterval = d
}

// Put inserts or overwrites the URI for fileName. If the cache would exceed
// MaxCacheSize after insertion, the entry with the smallest createdAt is
// evicted first. Overwriting an existing entry replaces both uri and
// createdAt.
func (c *URICache) Put(fileName, uri, correlationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.entries[fileName]
	if !exists && len(c.entries) >= MaxCacheSize {
		c.evictOldestLocked()
	}

	c.entries[fileName] = &uriCacheEntry{
		fileName:  fileName,
		uri:       uri,
		createdAt: time.Now(),
	}

	logging.Debug().
		Str("correlation_id", correlationID).
		Str("file_name", fileName).
		Int("cache_size", len(c.entries)).
		Msg("uri cache entry stored")
}

// evictOldestLocked removes the entry with the smallest createdAt. Callers
// must hold c.mu. Ties on createdAt are broken by file name: the
// lexicographically smallest name is evicted.
func (c *URICache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true

	for key, entry := range c.entries {
		if first || entry.createdAt.Before(oldestAt) || (entry.createdAt.Equal(oldestAt) && key < oldestKey) {
			oldestKey = key
			oldestAt = entry.createdAt
			first = false
		}
	}

	if !first {
		delete(c.entries, oldestKey)
	}
}

// Take performs an atomic lookup-and-remove: if fileName has a pending entry,
// it is returned and cleared from the cache; otherwise ok is false.
func (c *URICache) Take(fileName string) (uri string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[fileName]
	if !exists {
		return "", false
	}
	delete(c.entries, fileName)
	return entry.uri, true
}

// Size returns the current number of pending entries. Intended for tests and
// metrics only.
func (c *URICache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// WaitFor polls the cache for fileName every URIPollInterval, returning as
// soon as an entry appears. The first poll happens after the initial sleep,
// so minimum latency is one URIPollInterval. It gives up once timeout
// elapses, returning ok=false, or if ctx is cancelled first.
func (c *URICache) WaitFor(ctx context.Context, fileName string, timeout time.Duration) (uri string, ok bool) {
	c.mu.Lock()
	pollInterval := c.pollInterval
	c.mu.Unlock()

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", false
		case now := <-ticker.C:
			if uri, found := c.Take(fileName); found {
				return uri, true
			}
			if !now.Before(deadline) {
				return "", false
			}
		}
	}
}
