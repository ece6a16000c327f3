// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lcq

import (
	"math"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Slow path outcomes.
const (
	continueToCAS = iota
	retry
	queueFull
	queueResize
)

// MPSC is a lock-free multi-producer single-consumer queue that grows by
// linking fixed-size array chunks.
//
// Producers claim slots with CAS on a doubled producer index whose low bit
// flags an in-flight resize. When a chunk runs out the winning producer
// links a new chunk and leaves a jump marker the consumer follows; no
// element is ever copied.
//
// Dequeue, Peek, RelaxedDequeue, RelaxedPeek, Drain, DrainAll and DrainWait
// must only be called from one goroutine at a time.
//
// Memory: capacity slots per chunk (16 bytes per slot) plus one boxed T
// per queued element
type MPSC[T any] struct {
	_             pad
	producerIndex atomix.Uint64 // 2 × claimed position, low bit = resize in flight
	_             pad
	consumerIndex atomix.Uint64 // 2 × consumed position (single consumer writes)
	consumerChunk atomix.Pointer[chunk[T]]
	_             pad
	producerLimit atomix.Uint64 // Cached bound on claimable producer index
	producerChunk atomix.Pointer[chunk[T]]
	_             pad
	policy        growthPolicy
	chunkSize     int
}

var _ Queue[int] = (*MPSC[int])(nil)

// NewUnbounded creates an MPSC queue that links chunks of chunkSize slots
// without limit. Enqueue never reports a full queue.
// Chunk size rounds up to the next power of 2.
func NewUnbounded[T any](chunkSize int) *MPSC[T] {
	if chunkSize < 2 {
		panic("lcq: capacity must be >= 2")
	}
	return newMPSC[T](chunkSize, unboundedPolicy{})
}

// NewChunked creates an MPSC queue that links chunks of chunkSize slots
// until maxCapacity elements are queued.
// Both values round up to the next power of 2.
//
// Panics if chunkSize < 2, maxCapacity < 4, or the rounded chunkSize is
// not less than the rounded maxCapacity.
func NewChunked[T any](chunkSize, maxCapacity int) *MPSC[T] {
	if chunkSize < 2 {
		panic("lcq: capacity must be >= 2")
	}
	return newMPSC[T](chunkSize, chunkedPolicy{maxQueueCapacity: checkBounded(chunkSize, maxCapacity)})
}

// NewGrowable creates an MPSC queue that starts with initialCapacity slots
// and doubles each new chunk until maxCapacity.
// Both values round up to the next power of 2.
//
// Panics under the same conditions as NewChunked.
func NewGrowable[T any](initialCapacity, maxCapacity int) *MPSC[T] {
	if initialCapacity < 2 {
		panic("lcq: capacity must be >= 2")
	}
	return newMPSC[T](initialCapacity, growablePolicy{maxQueueCapacity: checkBounded(initialCapacity, maxCapacity)})
}

func newMPSC[T any](capacity int, policy growthPolicy) *MPSC[T] {
	n := roundToPow2(capacity)
	c, err := newChunk[T](n)
	if err != nil {
		panic(err)
	}

	q := &MPSC[T]{
		policy:    policy,
		chunkSize: n,
	}
	q.producerChunk.StoreRelease(c)
	q.consumerChunk.StoreRelease(c)
	// Everything is empty to start with
	q.producerLimit.StoreRelease(c.mask)

	return q
}

// Enqueue adds an element to the queue (multiple producers safe).
// Returns ErrNilElement if elem is nil, ErrWouldBlock if a bounded queue
// is full, or an error wrapping ErrGrowFailed if a new chunk could not be
// allocated. The queue stays usable after any of these.
func (q *MPSC[T]) Enqueue(elem *T) error {
	if elem == nil {
		return ErrNilElement
	}

	sw := spin.Wait{}
	var (
		pIndex uint64
		c      *chunk[T]
	)
	for {
		limit := q.producerLimit.LoadAcquire()
		pIndex = q.producerIndex.LoadAcquire()
		// Low bit set: another producer is resizing
		if pIndex&1 == 1 {
			sw.Once()
			continue
		}
		// Only valid for slot access once the CAS below succeeds
		c = q.producerChunk.LoadAcquire()

		if limit <= pIndex {
			switch q.offerSlowPath(c.mask, pIndex, limit) {
			case continueToCAS:
			case retry:
				continue
			case queueFull:
				return ErrWouldBlock
			case queueResize:
				return q.resize(c, pIndex, func() T { return *elem })
			}
		}

		if q.producerIndex.CompareAndSwapAcqRel(pIndex, pIndex+2) {
			break
		}
	}

	// Index visible before element
	c.at(pIndex).publish(pIndex, *elem)
	return nil
}

// RelaxedEnqueue is Enqueue. Producers never wait on a slot, so there is
// no weaker variant.
func (q *MPSC[T]) RelaxedEnqueue(elem *T) error {
	return q.Enqueue(elem)
}

// offerSlowPath runs when the cached producer limit is exhausted.
func (q *MPSC[T]) offerSlowPath(mask, pIndex, limit uint64) int {
	cIndex := q.consumerIndex.LoadAcquire()
	bufferCapacity := q.policy.bufferCapacity(mask)

	if cIndex+bufferCapacity > pIndex {
		if !q.producerLimit.CompareAndSwapAcqRel(limit, cIndex+bufferCapacity) {
			return retry
		}
		return continueToCAS
	}
	if q.policy.available(pIndex, cIndex) <= 0 {
		return queueFull
	}
	// Claim the right to resize by setting the low bit
	if q.producerIndex.CompareAndSwapAcqRel(pIndex, pIndex+1) {
		return queueResize
	}
	return retry
}

// resize links a new chunk after old. The caller holds the resize bit on
// pIndex. next supplies the element that goes into the new chunk at
// pIndex; it is only called once allocation succeeded.
func (q *MPSC[T]) resize(old *chunk[T], pIndex uint64, next func() T) error {
	c, err := newChunk[T](q.policy.nextChunkSize(old.capacity()))
	if err != nil {
		// Give up the resize claim so other producers can proceed
		q.producerIndex.StoreRelease(pIndex)
		return err
	}

	q.producerChunk.StoreRelease(c)
	c.at(pIndex).publish(pIndex, next())
	old.linkTo(c)

	cIndex := q.consumerIndex.LoadAcquire()
	available := q.policy.available(pIndex, cIndex)
	// Invalidate racing CASs against the old limit; never set the limit
	// beyond the bounds of a chunk
	q.producerLimit.StoreRelease(pIndex + min(c.mask, uint64(available)))
	// Make the resize visible to other producers
	q.producerIndex.StoreRelease(pIndex + 2)
	// Index visible before jump, consistent with consumer expectation
	old.at(pIndex).jump(pIndex)

	return nil
}

// Dequeue removes and returns an element (single consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
//
// If a producer has claimed the head slot but not yet published it,
// Dequeue spins until the element becomes visible.
func (q *MPSC[T]) Dequeue() (T, error) {
	c := q.consumerChunk.LoadRelaxed()
	cIndex := q.consumerIndex.LoadRelaxed()
	s := c.at(cIndex)

	tag := s.tag.LoadAcquire()
	if tagKind(tag) == slotEmpty {
		if q.caughtUp(cIndex) {
			var zero T
			return zero, ErrWouldBlock
		}
		tag = s.await()
	}
	if tagKind(tag) == slotJump {
		return q.pollNext(c, cIndex, true)
	}

	elem := s.take()
	q.consumerIndex.StoreRelease(cIndex + 2)
	return elem, nil
}

// Peek returns the head element without removing it (single consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *MPSC[T]) Peek() (T, error) {
	c := q.consumerChunk.LoadRelaxed()
	cIndex := q.consumerIndex.LoadRelaxed()
	s := c.at(cIndex)

	tag := s.tag.LoadAcquire()
	if tagKind(tag) == slotEmpty {
		if q.caughtUp(cIndex) {
			var zero T
			return zero, ErrWouldBlock
		}
		tag = s.await()
	}
	if tagKind(tag) == slotJump {
		return q.peekNext(c, cIndex, true)
	}
	return s.load(), nil
}

// RelaxedDequeue is Dequeue without waiting on in-flight elements.
// It may return ErrWouldBlock while a claimed element is not yet visible.
func (q *MPSC[T]) RelaxedDequeue() (T, error) {
	c := q.consumerChunk.LoadRelaxed()
	cIndex := q.consumerIndex.LoadRelaxed()
	s := c.at(cIndex)

	tag := s.tag.LoadAcquire()
	switch tagKind(tag) {
	case slotEmpty:
		var zero T
		return zero, ErrWouldBlock
	case slotJump:
		return q.pollNext(c, cIndex, false)
	}

	elem := s.take()
	q.consumerIndex.StoreRelease(cIndex + 2)
	return elem, nil
}

// RelaxedPeek is Peek without waiting on in-flight elements.
func (q *MPSC[T]) RelaxedPeek() (T, error) {
	c := q.consumerChunk.LoadRelaxed()
	cIndex := q.consumerIndex.LoadRelaxed()
	s := c.at(cIndex)

	tag := s.tag.LoadAcquire()
	switch tagKind(tag) {
	case slotEmpty:
		var zero T
		return zero, ErrWouldBlock
	case slotJump:
		return q.peekNext(c, cIndex, false)
	}
	return s.load(), nil
}

// caughtUp reports whether the consumer has reached the producer.
func (q *MPSC[T]) caughtUp(cIndex uint64) bool {
	return cIndex>>1 == q.producerIndex.LoadAcquire()>>1
}

// advance follows the forwarding link of c and installs the next chunk
// as the consumer chunk.
func (q *MPSC[T]) advance(c *chunk[T]) *chunk[T] {
	next := c.link.next.LoadAcquire()
	q.consumerChunk.StoreRelease(next)
	c.retire()
	return next
}

// pollNext moves to the next chunk and removes the element at cIndex.
// The resizing producer wrote that element before the jump marker, so
// it is normally visible on the first load.
func (q *MPSC[T]) pollNext(c *chunk[T], cIndex uint64, wait bool) (T, error) {
	s := q.advance(c).at(cIndex)
	if tagKind(s.tag.LoadAcquire()) == slotEmpty {
		if !wait {
			var zero T
			return zero, ErrWouldBlock
		}
		s.await()
	}
	elem := s.take()
	q.consumerIndex.StoreRelease(cIndex + 2)
	return elem, nil
}

// peekNext moves to the next chunk and returns the element at cIndex.
func (q *MPSC[T]) peekNext(c *chunk[T], cIndex uint64, wait bool) (T, error) {
	s := q.advance(c).at(cIndex)
	if tagKind(s.tag.LoadAcquire()) == slotEmpty {
		if !wait {
			var zero T
			return zero, ErrWouldBlock
		}
		s.await()
	}
	return s.load(), nil
}

// Size returns the number of queued elements.
// The result is exact only when no operation is in flight.
func (q *MPSC[T]) Size() int {
	after := q.consumerIndex.LoadAcquire()
	var size uint64
	for {
		before := after
		pIndex := q.producerIndex.LoadAcquire()
		after = q.consumerIndex.LoadAcquire()
		if before == after {
			size = (pIndex - after) >> 1
			break
		}
	}
	if size > math.MaxInt {
		size = math.MaxInt
	}
	if capacity := q.policy.capacity(); capacity != Unbounded && int(size) > capacity {
		return capacity
	}
	return int(size)
}

// IsEmpty reports whether the queue holds no elements.
func (q *MPSC[T]) IsEmpty() bool {
	return q.consumerIndex.LoadAcquire()>>1 == q.producerIndex.LoadAcquire()>>1
}

// Cap returns the queue capacity, or Unbounded.
func (q *MPSC[T]) Cap() int {
	return q.policy.capacity()
}

// ProducerIndex returns the number of positions claimed by producers.
func (q *MPSC[T]) ProducerIndex() uint64 {
	return q.producerIndex.LoadAcquire() >> 1
}

// ConsumerIndex returns the number of elements consumed.
func (q *MPSC[T]) ConsumerIndex() uint64 {
	return q.consumerIndex.LoadAcquire() >> 1
}
