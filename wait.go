// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lcq

import (
	"context"

	"code.hybscloud.com/iox"
)

// WaitStrategy paces the retry loops of FillWait and DrainWait.
//
// Wait is called after an attempt that made no progress and Reset after
// one that did. *iox.Backoff satisfies WaitStrategy and is the default.
type WaitStrategy interface {
	Wait()
	Reset()
}

// FillWait keeps filling q with elements produced by fn until ctx is done
// (multiple producers safe). A nil w selects an [iox.Backoff].
//
// Returns the number of elements added and ctx.Err(), or the growth error
// if a new chunk could not be allocated.
func (q *MPSC[T]) FillWait(ctx context.Context, fn func() T, w WaitStrategy) (int, error) {
	if fn == nil {
		panic("lcq: nil supplier")
	}
	if w == nil {
		w = &iox.Backoff{}
	}

	batch := q.defaultBatch()
	done := ctx.Done()
	total := 0
	for {
		select {
		case <-done:
			return total, ctx.Err()
		default:
		}

		n, err := q.Fill(fn, batch)
		if err != nil && !IsWouldBlock(err) {
			return total, err
		}
		if n == 0 {
			w.Wait()
			continue
		}
		w.Reset()
		total += n
	}
}

// DrainWait keeps removing elements from q and passing them to fn until
// ctx is done (single consumer only). A nil w selects an [iox.Backoff].
//
// Returns the number of elements removed and ctx.Err().
func (q *MPSC[T]) DrainWait(ctx context.Context, fn func(T), w WaitStrategy) (int, error) {
	if fn == nil {
		panic("lcq: nil consumer")
	}
	if w == nil {
		w = &iox.Backoff{}
	}

	done := ctx.Done()
	total := 0
	for {
		select {
		case <-done:
			return total, ctx.Err()
		default:
		}

		elem, err := q.RelaxedDequeue()
		if err != nil {
			w.Wait()
			continue
		}
		w.Reset()
		fn(elem)
		total++
	}
}
