// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package abq

import (
	"time"
	"unsafe"
)

// defaultConsumerPause is the consumer wait loop's pre-semaphore delay.
// One microsecond smooths microbursts without involving the semaphore.
const defaultConsumerPause = time.Microsecond

// Options configures queue creation.
type Options struct {
	// Capacity is the logical capacity (ring rounds up to power of 2)
	capacity int

	// Tuning
	consumerPause time.Duration
}

// Builder creates queues with fluent configuration.
//
// Example:
//
//	// Default tuning
//	q, err := abq.Build[Event](abq.New(1024))
//
//	// Longer consumer pause for coarse-grained pipelines
//	q, err := abq.Build[Event](abq.New(1024).ConsumerPause(10 * time.Microsecond))
//
//	// Zero-copy pointer queue
//	q, err := abq.New(512).BuildPtr()
type Builder struct {
	opts Options
}

// New creates a queue builder with the given logical capacity.
//
// The capacity is the maximum number of live elements. The ring
// allocation rounds up to the next power of two, but occupancy is
// bounded by the requested capacity, not the ring size.
//
// Capacity is validated at build time: Build, BuildPtr and the direct
// constructors return ErrCapacity when capacity < 1 or
// capacity > MaxCapacity.
func New(capacity int) *Builder {
	return &Builder{opts: Options{
		capacity:      capacity,
		consumerPause: defaultConsumerPause,
	}}
}

// ConsumerPause sets the fixed delay the consumer inserts before any
// semaphore interaction when it finds the queue empty. Default 1µs.
// A non-positive value disables the pause.
func (b *Builder) ConsumerPause(d time.Duration) *Builder {
	b.opts.consumerPause = d
	return b
}

// Build creates an SPSC[T] from the builder configuration.
func Build[T any](b *Builder) (*SPSC[T], error) {
	return newSPSC[T](b.opts)
}

// BuildPtr creates an SPSCPtr from the builder configuration.
func (b *Builder) BuildPtr() (*SPSCPtr, error) {
	return newSPSCPtr(b.opts)
}

// roundToPow2 rounds n up to the next power of 2, with a minimum of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// pad is cache line padding to prevent false sharing.
type pad [64]byte
