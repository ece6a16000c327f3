// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lcq

import "code.hybscloud.com/spin"

// Fill enqueues up to limit elements produced by fn (multiple producers safe).
//
// Fill claims a run of slots with a single CAS, bounded by the cached
// producer limit, and then calls fn once per claimed slot. It may fill
// fewer than limit elements. A fill that triggers growth stores exactly
// one element.
//
// Returns (0, ErrWouldBlock) if a bounded queue is full and (0, err) with
// err wrapping ErrGrowFailed if a new chunk could not be allocated.
// Panics if fn is nil or limit is negative.
func (q *MPSC[T]) Fill(fn func() T, limit int) (int, error) {
	if fn == nil {
		panic("lcq: nil supplier")
	}
	if limit < 0 {
		panic("lcq: negative limit")
	}
	if limit == 0 {
		return 0, nil
	}

	sw := spin.Wait{}
	var (
		pIndex uint64
		batch  uint64
		c      *chunk[T]
	)
	for {
		producerLimit := q.producerLimit.LoadAcquire()
		pIndex = q.producerIndex.LoadAcquire()
		if pIndex&1 == 1 {
			sw.Once()
			continue
		}
		c = q.producerChunk.LoadAcquire()

		if pIndex >= producerLimit {
			switch q.offerSlowPath(c.mask, pIndex, producerLimit) {
			case continueToCAS, retry:
				// The slow path only vouches for one slot; recompute the batch
				continue
			case queueFull:
				return 0, ErrWouldBlock
			case queueResize:
				if err := q.resize(c, pIndex, fn); err != nil {
					return 0, err
				}
				return 1, nil
			}
		}

		// Settle for whatever the cached limit allows; clamp in slots so
		// a huge limit cannot wrap the index
		n := min(uint64(limit), (producerLimit-pIndex)>>1)
		batch = pIndex + 2*n
		if q.producerIndex.CompareAndSwapAcqRel(pIndex, batch) {
			break
		}
	}

	claimed := int((batch - pIndex) >> 1)
	for i := range claimed {
		index := pIndex + 2*uint64(i)
		c.at(index).publish(index, fn())
	}
	return claimed, nil
}

// FillAll enqueues elements produced by fn until one batch worth of
// elements has been added or the queue refuses more.
// A batch is Cap() for bounded queues and one chunk for unbounded queues.
//
// Returns the number of elements added; the error is non-nil only when
// nothing was added.
func (q *MPSC[T]) FillAll(fn func() T) (int, error) {
	batch := q.defaultBatch()
	total := 0
	for total < batch {
		n, err := q.Fill(fn, batch-total)
		total += n
		if err != nil {
			if total > 0 && IsWouldBlock(err) {
				return total, nil
			}
			return total, err
		}
	}
	return total, nil
}

// Drain removes up to limit elements and passes each to fn
// (single consumer only). Returns the number of elements removed.
//
// Drain does not wait for claimed but unpublished elements.
// Panics if fn is nil or limit is negative.
func (q *MPSC[T]) Drain(fn func(T), limit int) int {
	if fn == nil {
		panic("lcq: nil consumer")
	}
	if limit < 0 {
		panic("lcq: negative limit")
	}
	for i := range limit {
		elem, err := q.RelaxedDequeue()
		if err != nil {
			return i
		}
		fn(elem)
	}
	return limit
}

// DrainAll removes up to one batch of elements, see FillAll.
func (q *MPSC[T]) DrainAll(fn func(T)) int {
	return q.Drain(fn, q.defaultBatch())
}

func (q *MPSC[T]) defaultBatch() int {
	if capacity := q.policy.capacity(); capacity != Unbounded {
		return capacity
	}
	return q.chunkSize
}
