// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lcq

import "golang.org/x/sys/cpu"

// Options configures queue creation and growth policy selection.
type Options struct {
	// Chunk capacity (rounds up to next power of 2)
	capacity int

	// Upper bound on queued elements, 0 for unbounded
	maxCapacity int

	// Double chunk sizes up to maxCapacity instead of linking fixed chunks
	doubling bool
}

// Builder creates queues with fluent configuration.
//
// The builder selects the growth policy from the configured limits:
//
//	q := lcq.Build[Event](lcq.New(1024))                              // unbounded, 1024-slot chunks
//	q := lcq.Build[Event](lcq.New(1024).MaxCapacity(1 << 16))         // bounded, 1024-slot chunks
//	q := lcq.Build[Event](lcq.New(64).MaxCapacity(1 << 16).Doubling()) // bounded, chunks double from 64
type Builder struct {
	opts Options
}

// New creates a queue builder with the given chunk capacity.
//
// Capacity rounds up to the next power of 2.
// For example, capacity=3 results in 4-slot chunks and capacity=1000
// results in 1024-slot chunks.
//
// Panics if capacity < 2.
func New(capacity int) *Builder {
	if capacity < 2 {
		panic("lcq: capacity must be >= 2")
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// MaxCapacity bounds the number of queued elements.
// The bound rounds up to the next power of 2 and must exceed the chunk
// capacity; Build panics otherwise.
func (b *Builder) MaxCapacity(n int) *Builder {
	b.opts.maxCapacity = n
	return b
}

// Doubling grows the queue by allocating chunks twice the size of the
// previous one until MaxCapacity is reached.
//
// Requires MaxCapacity.
func (b *Builder) Doubling() *Builder {
	b.opts.doubling = true
	return b
}

// Build creates an MPSC queue with the configured growth policy.
//
// Policy selection:
//
//	no MaxCapacity          → NewUnbounded
//	MaxCapacity             → NewChunked
//	MaxCapacity + Doubling  → NewGrowable
func Build[T any](b *Builder) *MPSC[T] {
	switch {
	case b.opts.maxCapacity == 0 && b.opts.doubling:
		panic("lcq: Doubling requires MaxCapacity")
	case b.opts.maxCapacity == 0:
		return NewUnbounded[T](b.opts.capacity)
	case b.opts.doubling:
		return NewGrowable[T](b.opts.capacity, b.opts.maxCapacity)
	default:
		return NewChunked[T](b.opts.capacity, b.opts.maxCapacity)
	}
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad spans two cache lines so that adjacent-line prefetch never pulls
// a neighbouring field group into the same pair of lines.
type pad [2]cpu.CacheLinePad
