// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lcq

// Queue is the combined producer-consumer interface of an MPSC queue.
//
// Queue provides non-blocking Enqueue and Dequeue operations. Both return
// ErrWouldBlock when they cannot proceed (bounded queue full, or empty).
//
// Size is best-effort: it is exact only when no operation is in flight.
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
	BatchProducer[T]
	BatchConsumer[T]
	ProgressIndicators
	Cap() int
	Size() int
	IsEmpty() bool
}

// Producer is the interface for enqueueing elements.
//
// The element is passed by pointer to avoid copying large structs. The
// queue stores a copy of the pointed-to value, so the original can be
// modified after Enqueue returns. A nil pointer is rejected.
type Producer[T any] interface {
	// Enqueue adds an element to the queue (non-blocking, multiple
	// producers safe).
	// Returns nil on success, ErrWouldBlock if a bounded queue is full,
	// ErrNilElement for a nil elem.
	Enqueue(elem *T) error

	// RelaxedEnqueue is Enqueue. Producers never wait on a slot, so
	// there is no weaker variant.
	RelaxedEnqueue(elem *T) error
}

// Consumer is the interface for dequeueing elements.
//
// All methods are single consumer only. Calling them from more than one
// goroutine at a time is undefined behavior.
type Consumer[T any] interface {
	// Dequeue removes and returns an element from the queue.
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	Dequeue() (T, error)

	// Peek returns the head element without removing it.
	Peek() (T, error)

	// RelaxedDequeue is Dequeue that never spins; it may report
	// ErrWouldBlock while an element is about to become visible.
	RelaxedDequeue() (T, error)

	// RelaxedPeek is Peek that never spins.
	RelaxedPeek() (T, error)
}

// BatchProducer enqueues elements produced by a supplier function.
type BatchProducer[T any] interface {
	// Fill enqueues up to limit elements and returns how many were added.
	Fill(fn func() T, limit int) (int, error)

	// FillAll enqueues up to one batch of elements.
	FillAll(fn func() T) (int, error)
}

// BatchConsumer removes elements and hands them to a consumer function.
type BatchConsumer[T any] interface {
	// Drain removes up to limit elements and returns how many were removed.
	Drain(fn func(T), limit int) int

	// DrainAll removes up to one batch of elements.
	DrainAll(fn func(T)) int
}

// ProgressIndicators exposes logical producer and consumer positions for
// monitoring. Both values only grow.
type ProgressIndicators interface {
	// ProducerIndex returns the number of positions claimed by producers.
	ProducerIndex() uint64

	// ConsumerIndex returns the number of elements consumed.
	ConsumerIndex() uint64
}
