// Package taskqueue implements the two ping-pong split-task buffers and
// the leaf buffer described in spec §3, plus the atomic group-allocation
// primitive from §4.3/§9: a batch of workers computes a local prefix sum
// over its own slot demand, then issues exactly one atomic add against the
// shared cursor to claim a contiguous range for the whole batch.
//
// This is the CPU-goroutine analogue of the warp-local-shuffle-then-one-
// atomic-add idiom the teacher's lock-free rings (ring24, ring32) and
// compactqueue128's arena allocator use for cache-isolated, low-contention
// cursor advancement.
package taskqueue

import (
	"sync/atomic"

	"radixtree/types"
)

// Queue is a preallocated, append-only buffer of split tasks with an
// atomic live-length cursor. Workers never mutate an existing slot; they
// only claim new ones via AllocBatch.
//
//go:notinheap
//go:align 64
type Queue struct {
	tasks []types.SplitTask
	count atomic.Uint32
	_     [7]uint64 // cache line isolation for the cursor
}

// NewQueue allocates a task queue with the given slot capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{tasks: make([]types.SplitTask, capacity)}
}

// Reserve grows the backing buffer to at least capacity slots. Only safe
// to call between levels, while no worker holds a reference into the
// buffer — the Driver owns this call exclusively (spec §4.5 step 1).
func (q *Queue) Reserve(capacity int) {
	if len(q.tasks) >= capacity {
		return
	}
	grown := make([]types.SplitTask, capacity)
	copy(grown, q.tasks[:q.count.Load()])
	q.tasks = grown
}

// Reset zeroes the live-length cursor, readying the queue to be used as
// the output queue for the next level.
func (q *Queue) Reset() { q.count.Store(0) }

// Len returns the current live length.
func (q *Queue) Len() int { return int(q.count.Load()) }

// Cap returns the backing buffer's capacity.
func (q *Queue) Cap() int { return len(q.tasks) }

// Live returns the slice of currently populated tasks. Valid only once all
// writers for the current level have retired (i.e. after the level's
// barrier), matching spec §5's "no task in step t+1 starts before every
// task in step t has retired."
func (q *Queue) Live() []types.SplitTask { return q.tasks[:q.count.Load()] }

// AllocBatch reserves n contiguous slots via a single atomic add and
// returns the base index of the reserved range. ok is false if the
// reservation would overflow the backing buffer — the caller must treat
// that as the capacity-exhaustion fatal condition from spec §7 and must
// not write past len(q.tasks).
//
//go:nosplit
//go:inline
func (q *Queue) AllocBatch(n int) (base int, ok bool) {
	if n == 0 {
		return int(q.count.Load()), true
	}
	b := q.count.Add(uint32(n)) - uint32(n)
	if int(b)+n > len(q.tasks) {
		return int(b), false
	}
	return int(b), true
}

// Set writes task t into slot i. Slot ownership is exclusive by
// construction (§5): only the goroutine that won slot i via AllocBatch
// ever writes to it.
func (q *Queue) Set(i int, t types.SplitTask) { q.tasks[i] = t }

// LeafQueue is the append-only leaf-range buffer with its own atomic
// cursor, allocated the same way as Queue but carrying LeafRange entries.
//
//go:notinheap
//go:align 64
type LeafQueue struct {
	leaves []types.LeafRange
	count  atomic.Uint32
	_      [7]uint64
}

// NewLeafQueue allocates a leaf queue with the given slot capacity.
func NewLeafQueue(capacity int) *LeafQueue {
	return &LeafQueue{leaves: make([]types.LeafRange, capacity)}
}

// Reserve grows the backing buffer to at least capacity slots.
func (q *LeafQueue) Reserve(capacity int) {
	if len(q.leaves) >= capacity {
		return
	}
	grown := make([]types.LeafRange, capacity)
	copy(grown, q.leaves[:q.count.Load()])
	q.leaves = grown
}

// Len returns the current live length, i.e. total leaves produced so far.
func (q *LeafQueue) Len() int { return int(q.count.Load()) }

// Cap returns the backing buffer's capacity.
func (q *LeafQueue) Cap() int { return len(q.leaves) }

// AllocBatch reserves n contiguous leaf slots via a single atomic add.
//
//go:nosplit
//go:inline
func (q *LeafQueue) AllocBatch(n int) (base int, ok bool) {
	if n == 0 {
		return int(q.count.Load()), true
	}
	b := q.count.Add(uint32(n)) - uint32(n)
	if int(b)+n > len(q.leaves) {
		return int(b), false
	}
	return int(b), true
}

// Set writes leaf range r into slot i.
func (q *LeafQueue) Set(i int, r types.LeafRange) { q.leaves[i] = r }

// Live returns the slice of currently populated leaf ranges.
func (q *LeafQueue) Live() []types.LeafRange { return q.leaves[:q.count.Load()] }
