// Package dedupe tracks already-seen reaction event ids so at-least-once
// redelivery from the poller does not double count reactions.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 50000

// Deduper records seen event ids for at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records it if
	// not. Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets an id so it can be retried. Used when an event was
	// recorded but could not be enqueued (backpressure).
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper keeps ids in a map plus an insertion-ordered ring. In
// bounded mode the oldest id is evicted once maxSize is reached; with
// maxSize <= 0 the map grows without limit.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	oldest  int
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.order = make([]string, 0, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		d.evictOldest()
	}
	d.seen[id] = struct{}{}
	if d.maxSize > 0 {
		d.order = append(d.order, id)
	}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; !exists {
		return
	}
	delete(d.seen, id)
	d.size.Add(-1)
	// The stale entry in the order ring is skipped at eviction time.
}

// evictOldest drops the oldest still-recorded id. Entries already removed by
// Unrecord are skipped. Must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	for d.oldest < len(d.order) {
		id := d.order[d.oldest]
		d.oldest++
		if _, exists := d.seen[id]; exists {
			delete(d.seen, id)
			d.size.Add(-1)
			break
		}
	}
	// Compact once the consumed prefix dominates the ring.
	if d.oldest > len(d.order)/2 {
		d.order = append(d.order[:0], d.order[d.oldest:]...)
		d.oldest = 0
	}
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
