// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lcq_test

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/eapache/queue"

	"code.hybscloud.com/lcq"
)

// =============================================================================
// Model Consistency Tests
//
// These tests run the same random single-goroutine operation sequence against
// an MPSC queue and a plain ring-buffer FIFO and require both to agree after
// every step. Capacity limits of bounded policies are applied to the model.
// =============================================================================

// modelRun drives q and a reference FIFO with steps random operations.
func modelRun(t *testing.T, q *lcq.MPSC[int], seed uint64, steps int) {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	model := queue.New()
	limit := q.Cap()
	next := 0

	for step := range steps {
		switch op := rng.IntN(10); {
		case op < 5: // Enqueue, biased so the queue grows
			v := next
			err := q.Enqueue(&v)
			full := limit != lcq.Unbounded && model.Length() == limit
			switch {
			case full && !errors.Is(err, lcq.ErrWouldBlock):
				t.Fatalf("step %d: Enqueue on full: got %v, want ErrWouldBlock", step, err)
			case !full && err != nil:
				t.Fatalf("step %d: Enqueue: %v", step, err)
			case !full:
				model.Add(v)
				next++
			}

		case op < 8:
			v, err := q.Dequeue()
			if model.Length() == 0 {
				if !errors.Is(err, lcq.ErrWouldBlock) {
					t.Fatalf("step %d: Dequeue on empty: got (%d, %v)", step, v, err)
				}
				continue
			}
			want := model.Remove().(int)
			if err != nil || v != want {
				t.Fatalf("step %d: Dequeue: got (%d, %v), want %d", step, v, err, want)
			}

		case op < 9:
			v, err := q.Peek()
			if model.Length() == 0 {
				if !errors.Is(err, lcq.ErrWouldBlock) {
					t.Fatalf("step %d: Peek on empty: got (%d, %v)", step, v, err)
				}
				continue
			}
			if want := model.Peek().(int); err != nil || v != want {
				t.Fatalf("step %d: Peek: got (%d, %v), want %d", step, v, err, want)
			}

		default:
			got := slices.Collect(q.All())
			want := make([]int, model.Length())
			for i := range want {
				want[i] = model.Get(i).(int)
			}
			if !slices.Equal(got, want) {
				t.Fatalf("step %d: All: got %v, want %v", step, got, want)
			}
		}

		if q.Size() != model.Length() {
			t.Fatalf("step %d: Size: got %d, want %d", step, q.Size(), model.Length())
		}
		if q.IsEmpty() != (model.Length() == 0) {
			t.Fatalf("step %d: IsEmpty: got %v with %d elements", step, q.IsEmpty(), model.Length())
		}
	}
}

func TestModelConsistency(t *testing.T) {
	tests := []struct {
		name string
		make func() *lcq.MPSC[int]
	}{
		{"Unbounded/2", func() *lcq.MPSC[int] { return lcq.NewUnbounded[int](2) }},
		{"Unbounded/16", func() *lcq.MPSC[int] { return lcq.NewUnbounded[int](16) }},
		{"Chunked/4-32", func() *lcq.MPSC[int] { return lcq.NewChunked[int](4, 32) }},
		{"Chunked/2-4", func() *lcq.MPSC[int] { return lcq.NewChunked[int](2, 4) }},
		{"Growable/2-64", func() *lcq.MPSC[int] { return lcq.NewGrowable[int](2, 64) }},
		{"Growable/8-16", func() *lcq.MPSC[int] { return lcq.NewGrowable[int](8, 16) }},
		{"Builder/Doubling", func() *lcq.MPSC[int] {
			return lcq.Build[int](lcq.New(4).MaxCapacity(128).Doubling())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := range uint64(8) {
				modelRun(t, tt.make(), seed, 2000)
			}
		})
	}
}

// TestModelBatchConsistency checks Fill and Drain against the reference
// FIFO on a bounded queue.
func TestModelBatchConsistency(t *testing.T) {
	q := lcq.NewGrowable[int](2, 32)
	model := queue.New()
	rng := rand.New(rand.NewPCG(42, 7))
	next := 0
	supply := func() int {
		v := next
		next++
		model.Add(v)
		return v
	}

	for step := range 1000 {
		if rng.IntN(2) == 0 {
			before := model.Length()
			n, err := q.Fill(supply, rng.IntN(9))
			if errors.Is(err, lcq.ErrWouldBlock) && before != q.Cap() {
				t.Fatalf("step %d: Fill reported full with %d elements", step, before)
			}
			if model.Length() != before+n {
				t.Fatalf("step %d: Fill returned %d, supplier ran %d times", step, n, model.Length()-before)
			}
		} else {
			q.Drain(func(v int) {
				if want := model.Remove().(int); v != want {
					t.Fatalf("step %d: Drain: got %d, want %d", step, v, want)
				}
			}, rng.IntN(9))
		}
		if q.Size() != model.Length() {
			t.Fatalf("step %d: Size: got %d, want %d", step, q.Size(), model.Length())
		}
	}
}
