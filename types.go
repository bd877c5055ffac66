// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package abq

import "unsafe"

// Queue is the combined producer-consumer interface for a blocking
// SPSC queue.
//
// Exactly one goroutine may use the Producer side and exactly one the
// Consumer side. The two sides may be (and usually are) different
// goroutines. Violating the single-producer single-consumer discipline
// causes undefined behavior including data corruption.
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
	Cap() int
}

// Producer is the interface for the enqueueing side.
//
// The element is passed by pointer to avoid copying large structs at
// the call boundary. The queue stores a copy of the pointed-to value,
// so the original can be reused after the call returns.
type Producer[T any] interface {
	// Enqueue copies *elem into the queue and publishes it to the
	// consumer immediately. Blocks until a slot is free.
	Enqueue(elem *T)

	// EnqueueDeferred copies *elem into the queue but defers
	// publication. Deferred elements become visible at the next
	// Enqueue or Flush, or when the producer stalls on a full ring.
	// Blocks until a slot is free.
	EnqueueDeferred(elem *T)

	// Flush publishes all deferred elements and runs the consumer
	// wake-up check. A no-op when nothing is deferred.
	Flush()
}

// Consumer is the interface for the dequeueing side.
//
// Dequeued elements are returned by value; the vacated slot is cleared
// so objects referenced by it become collectable.
type Consumer[T any] interface {
	// Dequeue removes and returns the head element.
	// Blocks until an element is available.
	Dequeue() T

	// DequeueBatch removes up to len(dst) elements into dst and
	// returns the count. Blocks until at least one element is
	// available; never returns 0 unless len(dst) == 0. A dst of
	// Cap() slots always receives everything currently visible.
	DequeueBatch(dst []T) int
}

// QueuePtr is the combined interface for unsafe.Pointer queues.
//
// QueuePtr passes pointers without copying, for zero-copy hand-off of
// heap objects between the producer and consumer goroutine. The
// producer transfers ownership on Enqueue and must not touch the
// object afterwards.
type QueuePtr interface {
	ProducerPtr
	ConsumerPtr
	Cap() int
}

// ProducerPtr enqueues unsafe.Pointer values (blocking).
type ProducerPtr interface {
	// Enqueue adds elem and publishes it immediately.
	// Blocks until a slot is free.
	Enqueue(elem unsafe.Pointer)

	// EnqueueDeferred adds elem without publishing it.
	// Blocks until a slot is free.
	EnqueueDeferred(elem unsafe.Pointer)

	// Flush publishes all deferred elements.
	Flush()
}

// ConsumerPtr dequeues unsafe.Pointer values (blocking).
type ConsumerPtr interface {
	// Dequeue removes and returns the head pointer.
	// Blocks until an element is available.
	Dequeue() unsafe.Pointer

	// DequeueBatch removes up to len(dst) pointers into dst and
	// returns the count. Blocks until at least one is available;
	// never returns 0 unless len(dst) == 0.
	DequeueBatch(dst []unsafe.Pointer) int
}
