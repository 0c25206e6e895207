package listing

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCacheSize bounds the number of page views kept at once.
const DefaultCacheSize = 1000

// SnapshotCache keeps each page view's snapshot for a while so filter
// requests from that page work on the list it rendered. At most size
// snapshots are kept; past that the least recently used one is dropped.
// Expired entries are removed in the background.
type SnapshotCache struct {
	lru *expirable.LRU[string, Snapshot]
}

// NewSnapshotCache creates a cache holding up to size snapshots for ttl each.
// A size below 1 means DefaultCacheSize.
func NewSnapshotCache(ttl time.Duration, size int) *SnapshotCache {
	if size < 1 {
		size = DefaultCacheSize
	}
	return &SnapshotCache{lru: expirable.NewLRU[string, Snapshot](size, nil, ttl)}
}

// Put stores s under a new view id and returns the id.
func (c *SnapshotCache) Put(s Snapshot) string {
	id := uuid.New().String()
	c.lru.Add(id, s)
	return id
}

// Get returns the snapshot stored under id if it has not expired.
func (c *SnapshotCache) Get(id string) (Snapshot, bool) {
	if id == "" {
		return Snapshot{}, false
	}
	return c.lru.Get(id)
}

// Len returns the number of cached snapshots.
func (c *SnapshotCache) Len() int {
	return c.lru.Len()
}
