package engine

import (
	"sync"
	"sync/atomic"
)

// Allocator provides the engine's backing memory.
//
// Malloc returns a zeroed slice of exactly size bytes, or nil when the
// allocation fails. Memory from Malloc must be released with Free on the same
// allocator. Free(nil) is a no-op.
type Allocator interface {
	Malloc(size int) []byte
	Free(b []byte)
}

// AllocStats is a snapshot of a TrackingAllocator's counters.
type AllocStats struct {
	Allocations  int   // successful Malloc calls
	Frees        int   // Free calls that released a live allocation
	Live         int   // allocations not yet freed
	LiveBytes    int64 // bytes held by live allocations
	InvalidFrees int   // Free calls for memory that was not live (double or foreign frees)
}

// TrackingAllocator is a heap allocator that records every live allocation.
// It is safe for concurrent use.
type TrackingAllocator struct {
	mu    sync.Mutex
	live  map[*byte]int
	stats AllocStats
}

// NewTrackingAllocator creates an empty TrackingAllocator.
func NewTrackingAllocator() *TrackingAllocator {
	return &TrackingAllocator{live: make(map[*byte]int)}
}

// Malloc allocates size zeroed bytes. Negative sizes fail.
func (a *TrackingAllocator) Malloc(size int) []byte {
	if size < 0 {
		return nil
	}

	// Reserve at least one byte so zero-length allocations still have an identity.
	b := make([]byte, size, max(size, 1))

	a.mu.Lock()
	defer a.mu.Unlock()
	a.live[identity(b)] = size
	a.stats.Allocations++
	a.stats.Live++
	a.stats.LiveBytes += int64(size)
	return b
}

// Free releases b. Releasing memory that is not live is counted in
// InvalidFrees and otherwise ignored.
func (a *TrackingAllocator) Free(b []byte) {
	if cap(b) == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	key := identity(b)
	size, ok := a.live[key]
	if !ok {
		a.stats.InvalidFrees++
		return
	}
	delete(a.live, key)
	a.stats.Frees++
	a.stats.Live--
	a.stats.LiveBytes -= int64(size)
}

// Stats returns a snapshot of the allocator counters.
func (a *TrackingAllocator) Stats() AllocStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

func identity(b []byte) *byte {
	return &b[:1][0]
}

// FailingAllocator wraps an Allocator and starts failing after a fixed number
// of successful allocations. It exists to exercise allocation-failure paths.
type FailingAllocator struct {
	Allocator
	remaining atomic.Int64
}

// NewFailingAllocator returns an allocator that lets succeed allocations
// through to inner and fails every one after that.
func NewFailingAllocator(inner Allocator, succeed int) *FailingAllocator {
	f := &FailingAllocator{Allocator: inner}
	f.remaining.Store(int64(succeed))
	return f
}

// Malloc delegates to the wrapped allocator until the budget is spent.
func (f *FailingAllocator) Malloc(size int) []byte {
	if f.remaining.Add(-1) < 0 {
		return nil
	}
	return f.Allocator.Malloc(size)
}

// Reset grants a new budget of successful allocations.
func (f *FailingAllocator) Reset(succeed int) {
	f.remaining.Store(int64(succeed))
}
