// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lcq

import (
	"fmt"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Slot kinds, kept in the low two bits of a slot tag.
// The remaining bits hold the logical index the tag was written for.
const (
	slotEmpty    uint64 = 0
	slotElement  uint64 = 1
	slotJump     uint64 = 2
	slotKindMask uint64 = 3
)

// Forwarding link states.
const (
	linkPending  uint64 = 0 // No next chunk yet
	linkForward  uint64 = 1 // Next chunk installed by the resizing producer
	linkConsumed uint64 = 2 // Consumer has moved on; next reference dropped
)

// slot is a tagged cell: empty | element | jump.
//
// The element lives in a box that is never written after publish, so a
// reader holding the box pointer always sees a whole value.
//
// Indices passed to slot and chunk methods are doubled (2 × logical
// position), matching the queue's producer and consumer indices.
type slot[T any] struct {
	tag  atomix.Uint64 // logical index<<2 | kind
	elem atomix.Pointer[T]
}

func makeTag(index, kind uint64) uint64 {
	return index>>1<<2 | kind
}

func tagKind(tag uint64) uint64 {
	return tag & slotKindMask
}

// publish boxes elem and releases it to the consumer.
func (s *slot[T]) publish(index uint64, elem T) {
	box := new(T)
	*box = elem
	s.elem.StoreRelease(box)
	s.tag.StoreRelease(makeTag(index, slotElement))
}

// jump marks the slot as moved to the next chunk.
func (s *slot[T]) jump(index uint64) {
	s.tag.StoreRelease(makeTag(index, slotJump))
}

// load returns the element of a slot whose element tag the consumer
// has already acquired.
func (s *slot[T]) load() T {
	return *s.elem.LoadRelaxed()
}

// take returns the element and empties the slot.
// The tag is cleared before the box so weak readers give up on the slot.
func (s *slot[T]) take() T {
	elem := s.load()
	s.tag.StoreRelease(slotEmpty)
	s.elem.StoreRelease(nil)
	return elem
}

// await spins until a producer that already claimed this slot makes its
// write visible.
func (s *slot[T]) await() uint64 {
	sw := spin.Wait{}
	for {
		tag := s.tag.LoadAcquire()
		if tagKind(tag) != slotEmpty {
			return tag
		}
		sw.Once()
	}
}

// read is the weak, non-mutating load used by iterators. It reports
// slotEmpty unless the slot was written for index, and rereads the tag
// to drop boxes that were replaced underneath.
func (s *slot[T]) read(index uint64) (T, uint64) {
	var zero T
	tag := s.tag.LoadAcquire()
	if tag>>2 != index>>1 {
		return zero, slotEmpty
	}
	kind := tagKind(tag)
	if kind != slotElement {
		return zero, kind
	}
	box := s.elem.LoadAcquire()
	if box == nil || s.tag.LoadAcquire() != tag {
		return zero, slotEmpty
	}
	return *box, kind
}

// link is the trailing forwarding slot of a chunk.
type link[T any] struct {
	state atomix.Uint64
	next  atomix.Pointer[chunk[T]]
}

// chunk is one fixed-capacity circular array in the linked sequence.
type chunk[T any] struct {
	slots []slot[T]
	link  link[T]
	mask  uint64 // (capacity-1) << 1, low bit clear
}

// newChunk allocates a chunk with the given power-of-2 capacity.
// Allocation panics (length out of range, size overflow) are returned as
// ErrGrowFailed so the caller can roll back.
func newChunk[T any](capacity int) (c *chunk[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			c = nil
			err = fmt.Errorf("%w: %v", ErrGrowFailed, r)
		}
	}()
	c = &chunk[T]{
		slots: make([]slot[T], capacity),
		mask:  uint64(capacity-1) << 1,
	}
	return c, nil
}

// capacity returns the number of data slots.
func (c *chunk[T]) capacity() int {
	return len(c.slots)
}

// at maps a doubled index onto its slot.
func (c *chunk[T]) at(index uint64) *slot[T] {
	return &c.slots[(index&c.mask)>>1]
}

// linkTo publishes the forwarding reference to next.
func (c *chunk[T]) linkTo(next *chunk[T]) {
	c.link.next.StoreRelease(next)
	c.link.state.StoreRelease(linkForward)
}

// forward returns the next chunk, or nil when the link is still pending
// or has already been consumed.
func (c *chunk[T]) forward() *chunk[T] {
	if c.link.state.LoadAcquire() != linkForward {
		return nil
	}
	return c.link.next.LoadAcquire()
}

// retire marks the link consumed and drops the reference to the next
// chunk. Consumer only.
func (c *chunk[T]) retire() {
	c.link.state.StoreRelease(linkConsumed)
	c.link.next.StoreRelease(nil)
}
