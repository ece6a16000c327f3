// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lcq

import "iter"

// Iterator is a best-effort snapshot traversal of an MPSC queue.
//
// The window of positions is fixed when the iterator is created. Elements
// removed by the consumer in the meantime are skipped, elements added
// afterwards are not visited, and iteration stops early if the consumer
// has already retired a chunk the iterator needs to leave. Iterator never
// modifies the queue and always terminates.
//
// An Iterator is not safe for concurrent use; any goroutine may create one.
type Iterator[T any] struct {
	cur  *chunk[T]
	next uint64 // Doubled index of the next position to visit
	end  uint64 // Doubled producer index at creation
}

// Iterator returns a weakly consistent iterator over the queued elements.
// Safe to call from any goroutine.
func (q *MPSC[T]) Iterator() *Iterator[T] {
	c := q.consumerChunk.LoadAcquire()
	cIndex := q.consumerIndex.LoadAcquire()
	pIndex := q.producerIndex.LoadAcquire()
	return &Iterator[T]{
		cur:  c,
		next: cIndex,
		end:  pIndex &^ 1,
	}
}

// Next returns the next element and true, or the zero value and false
// when the iteration is over.
func (it *Iterator[T]) Next() (T, bool) {
	var zero T
	for it.next < it.end {
		index := it.next
		it.next += 2

		elem, kind := it.cur.at(index).read(index)
		switch kind {
		case slotElement:
			return elem, true
		case slotEmpty:
			// Removed or not yet visible
			continue
		}

		// Jump: follow the forwarding link unless the consumer got there first
		next := it.cur.forward()
		if next == nil {
			it.next = it.end
			return zero, false
		}
		it.cur = next
		// Same index again in the new chunk; it cannot be a jump
		if elem, kind = next.at(index).read(index); kind == slotElement {
			return elem, true
		}
	}
	return zero, false
}

// All returns an iterator over the queued elements for use with range.
// It has the same weak consistency as Iterator.
func (q *MPSC[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := q.Iterator()
		for {
			elem, ok := it.Next()
			if !ok || !yield(elem) {
				return
			}
		}
	}
}
