// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lcq_test

import (
	"fmt"
	"slices"

	"code.hybscloud.com/lcq"
)

// ExampleNewUnbounded demonstrates a queue that grows by linking chunks.
func ExampleNewUnbounded() {
	// Two-slot chunks add a new chunk for almost every element
	q := lcq.NewUnbounded[int](2)

	for i := 1; i <= 5; i++ {
		v := i * 10
		q.Enqueue(&v)
	}

	for range 5 {
		v, _ := q.Dequeue()
		fmt.Println(v)
	}

	// Output:
	// 10
	// 20
	// 30
	// 40
	// 50
}

// ExampleNewChunked demonstrates backpressure from a bounded queue.
func ExampleNewChunked() {
	q := lcq.NewChunked[int](4, 8)

	accepted := 0
	for i := range 10 {
		if err := q.Enqueue(&i); lcq.IsWouldBlock(err) {
			fmt.Println("full after", accepted)
			break
		}
		accepted++
	}
	fmt.Println("capacity:", q.Cap())

	// Output:
	// full after 8
	// capacity: 8
}

// ExampleNewGrowable demonstrates a queue whose chunks double in size.
func ExampleNewGrowable() {
	q := lcq.NewGrowable[string](2, 16)

	for _, s := range []string{"a", "b", "c", "d", "e"} {
		q.Enqueue(&s)
	}
	fmt.Println("size:", q.Size())

	var out []string
	for {
		s, err := q.Dequeue()
		if err != nil {
			break
		}
		out = append(out, s)
	}
	fmt.Println(out)

	// Output:
	// size: 5
	// [a b c d e]
}

// ExampleBuild demonstrates policy selection with the builder.
func ExampleBuild() {
	unbounded := lcq.Build[int](lcq.New(64))
	chunked := lcq.Build[int](lcq.New(64).MaxCapacity(1000))
	growable := lcq.Build[int](lcq.New(8).MaxCapacity(1 << 12).Doubling())

	fmt.Println(unbounded.Cap() == lcq.Unbounded)
	fmt.Println(chunked.Cap())
	fmt.Println(growable.Cap())

	// Output:
	// true
	// 1024
	// 4096
}

// ExampleIsWouldBlock demonstrates the empty queue signal.
func ExampleIsWouldBlock() {
	q := lcq.NewUnbounded[int](8)

	_, err := q.Dequeue()
	fmt.Println("empty:", lcq.IsWouldBlock(err))

	v := 1
	q.Enqueue(&v)
	_, err = q.Dequeue()
	fmt.Println("error:", err)

	// Output:
	// empty: true
	// error: <nil>
}

// ExampleMPSC_Peek demonstrates inspecting the head without removing it.
func ExampleMPSC_Peek() {
	q := lcq.NewUnbounded[string](4)
	job := "resize"
	q.Enqueue(&job)

	head, _ := q.Peek()
	fmt.Println("peek:", head, q.Size())

	head, _ = q.Dequeue()
	fmt.Println("dequeue:", head, q.Size())

	// Output:
	// peek: resize 1
	// dequeue: resize 0
}

// ExampleMPSC_Fill demonstrates batch production and consumption.
func ExampleMPSC_Fill() {
	q := lcq.NewChunked[int](16, 64)

	n := 0
	filled, _ := q.Fill(func() int {
		n++
		return n * n
	}, 5)
	fmt.Println("filled:", filled)

	sum := 0
	drained := q.Drain(func(v int) { sum += v }, 10)
	fmt.Println("drained:", drained, "sum:", sum)

	// Output:
	// filled: 5
	// drained: 5 sum: 55
}

// ExampleMPSC_All demonstrates a snapshot traversal.
func ExampleMPSC_All() {
	q := lcq.NewUnbounded[int](4)
	for i := range 6 {
		q.Enqueue(&i)
	}
	q.Dequeue()

	fmt.Println(slices.Collect(q.All()))
	fmt.Println("still queued:", q.Size())

	// Output:
	// [1 2 3 4 5]
	// still queued: 5
}

// Example_progress demonstrates the monotonic progress indicators.
func Example_progress() {
	q := lcq.NewUnbounded[int](8)
	for i := range 7 {
		q.Enqueue(&i)
	}
	for range 3 {
		q.Dequeue()
	}

	fmt.Println("produced:", q.ProducerIndex())
	fmt.Println("consumed:", q.ConsumerIndex())
	fmt.Println("lag:", q.ProducerIndex()-q.ConsumerIndex())

	// Output:
	// produced: 7
	// consumed: 3
	// lag: 4
}
