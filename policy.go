// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lcq

import "math"

// Unbounded is reported by Cap for queues without a capacity limit.
const Unbounded = -1

// growthPolicy decides chunk sizes and capacity accounting.
//
// All index arguments and results are doubled (2 × logical count).
type growthPolicy interface {
	// nextChunkSize returns the capacity of the chunk that follows one
	// of the given capacity.
	nextChunkSize(capacity int) int

	// bufferCapacity returns how far past the consumer index producers
	// may claim within the chunk described by mask.
	bufferCapacity(mask uint64) uint64

	// available returns the remaining room in the whole queue.
	// Zero or negative means full.
	available(pIndex, cIndex uint64) int64

	// capacity returns the logical capacity, or Unbounded.
	capacity() int
}

// unboundedPolicy links chunks of a fixed size without limit.
type unboundedPolicy struct{}

func (unboundedPolicy) nextChunkSize(capacity int) int { return capacity }
func (unboundedPolicy) bufferCapacity(mask uint64) uint64 { return mask }
func (unboundedPolicy) available(_, _ uint64) int64 { return math.MaxInt64 }
func (unboundedPolicy) capacity() int { return Unbounded }

// chunkedPolicy links chunks of a fixed size up to maxQueueCapacity.
type chunkedPolicy struct {
	maxQueueCapacity uint64 // roundToPow2(maxCapacity) << 1
}

func (p chunkedPolicy) nextChunkSize(capacity int) int { return capacity }
func (p chunkedPolicy) bufferCapacity(mask uint64) uint64 { return mask }

func (p chunkedPolicy) available(pIndex, cIndex uint64) int64 {
	return int64(p.maxQueueCapacity) - int64(pIndex-cIndex)
}

func (p chunkedPolicy) capacity() int {
	return int(p.maxQueueCapacity >> 1)
}

// growablePolicy doubles each new chunk until it reaches the maximum.
// The final chunk uses all of its slots since it never links onward.
type growablePolicy struct {
	maxQueueCapacity uint64 // roundToPow2(maxCapacity) << 1
}

func (p growablePolicy) nextChunkSize(capacity int) int {
	return min(capacity*2, int(p.maxQueueCapacity>>1))
}

func (p growablePolicy) bufferCapacity(mask uint64) uint64 {
	if mask+2 == p.maxQueueCapacity {
		return p.maxQueueCapacity
	}
	return mask
}

func (p growablePolicy) available(pIndex, cIndex uint64) int64 {
	return int64(p.maxQueueCapacity) - int64(pIndex-cIndex)
}

func (p growablePolicy) capacity() int {
	return int(p.maxQueueCapacity >> 1)
}

// checkBounded validates bounded construction arguments and returns the
// doubled maximum capacity.
func checkBounded(chunkSize, maxCapacity int) uint64 {
	if maxCapacity < 4 {
		panic("lcq: max capacity must be >= 4")
	}
	if roundToPow2(chunkSize) >= roundToPow2(maxCapacity) {
		panic("lcq: initial capacity must be less than max capacity")
	}
	return uint64(roundToPow2(maxCapacity)) << 1
}
