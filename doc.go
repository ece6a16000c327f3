// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lcq provides a lock-free, growable multi-producer single-consumer
// FIFO queue backed by linked array chunks.
//
// Many producer goroutines hand elements to one consumer goroutine. The
// queue starts with a single chunk and grows by linking new chunks when the
// current one fills up. Existing elements are never copied; the consumer
// follows a jump marker from the old chunk into the new one. Apart from
// copying each enqueued element into its own immutable box, no operation
// allocates, locks, or blocks.
//
// # Quick Start
//
// Direct constructors:
//
//	q := lcq.NewUnbounded[Event](1024)         // unbounded, 1024-slot chunks
//	q := lcq.NewChunked[Event](1024, 1<<16)   // at most 65536 elements
//	q := lcq.NewGrowable[Event](64, 1<<16)    // chunks double from 64 up to 65536
//
// Builder API:
//
//	q := lcq.Build[Event](lcq.New(1024))
//	q := lcq.Build[Event](lcq.New(1024).MaxCapacity(1 << 16))
//	q := lcq.Build[Event](lcq.New(64).MaxCapacity(1 << 16).Doubling())
//
// # Basic Usage
//
//	q := lcq.NewUnbounded[int](1024)
//
//	// Enqueue (non-blocking, any goroutine)
//	value := 42
//	if err := q.Enqueue(&value); lcq.IsWouldBlock(err) {
//	    // Bounded queue is full - handle backpressure
//	}
//
//	// Dequeue (non-blocking, consumer goroutine only)
//	elem, err := q.Dequeue()
//	if lcq.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// Event Aggregation:
//
//	q := lcq.NewUnbounded[Event](4096)
//
//	for _, s := range sensors {
//	    go func(s Sensor) {
//	        for ev := range s.Events() {
//	            q.Enqueue(&ev)
//	        }
//	    }(s)
//	}
//
//	go func() {
//	    backoff := iox.Backoff{}
//	    for {
//	        ev, err := q.Dequeue()
//	        if err != nil {
//	            backoff.Wait()
//	            continue
//	        }
//	        backoff.Reset()
//	        aggregate(ev)
//	    }
//	}()
//
// # Strict and Relaxed Operations
//
// A producer first claims a position and then writes its element, so for a
// short moment a position can be claimed but not yet visible. Dequeue and
// Peek spin through that window and only report [ErrWouldBlock] when the
// consumer has caught up with every claimed position. RelaxedDequeue and
// RelaxedPeek never spin and may report [ErrWouldBlock] spuriously.
// Producers never wait on a slot, so RelaxedEnqueue equals Enqueue.
//
// # Batches and Wait Loops
//
// Fill claims a run of positions with a single CAS and Drain removes up to a
// limit of elements:
//
//	n, err := q.Fill(func() Event { return next() }, 64)
//	m := q.Drain(func(ev Event) { handle(ev) }, 64)
//
// FillWait and DrainWait repeat those operations until a context is done,
// pacing idle rounds with a [WaitStrategy] ([iox.Backoff] by default):
//
//	ctx, cancel := context.WithCancel(context.Background())
//	go q.DrainWait(ctx, handle, nil)
//
// # Growth Policies
//
//	NewUnbounded  fixed-size chunks, no limit           Cap() == Unbounded
//	NewChunked    fixed-size chunks up to maxCapacity    Cap() == maxCapacity
//	NewGrowable   doubling chunks up to maxCapacity      Cap() == maxCapacity
//
// Capacities round up to the next power of 2. Minimum chunk capacity is 2;
// smaller values panic. Bounded queues report [ErrWouldBlock] when full.
//
// Every chunk that links onward gives up one slot to the jump marker, so
// with fixed-size chunks at most capacity-1 elements live in each chunk.
//
// If allocating a new chunk fails, the producer that tried releases its
// claim and returns an error wrapping [ErrGrowFailed]. Other producers
// and the consumer carry on unaffected.
//
// # Monitoring
//
// Size reports the element count; it is exact only when no operation is in
// flight. ProducerIndex and ConsumerIndex return logical positions that only
// grow and can be sampled from any goroutine to observe progress.
//
// Iterator and All walk a snapshot of the queue from any goroutine without
// modifying it. They may skip elements the consumer removed and never see
// elements added after the snapshot.
//
// # Thread Safety
//
// Enqueue, RelaxedEnqueue, Fill, FillAll and FillWait are safe for any
// number of producer goroutines. Dequeue, Peek, their relaxed forms, Drain,
// DrainAll and DrainWait must be called from one consumer goroutine at a
// time. Violating this constraint causes undefined behavior.
//
// # Race Detection
//
// Go's race detector cannot observe happens-before relationships established
// through atomix acquire-release orderings on separate variables. Slot
// values are protected by their slot tag, so the detector may report false
// positives. Tests incompatible with race detection are skipped when
// [RaceEnabled] is set.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors and
// backoff, [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, [code.hybscloud.com/spin] for CPU pause instructions, and
// [golang.org/x/sys/cpu] for cache line padding.
package lcq
