// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package abq

import (
	"time"

	"code.hybscloud.com/abq/internal/sema"
	"code.hybscloud.com/atomix"
)

// SPSC is a single-producer single-consumer bounded queue with
// adaptive blocking.
//
// Both sides prefer lock-free progress on cached indices; when one
// side stalls it publishes an advisory wake-up threshold and parks on
// a latching semaphore, to be signaled by the counterpart's next
// advance across that threshold. The consumer additionally inserts a
// short fixed pause before any semaphore traffic, which absorbs
// microbursts on an otherwise idle queue.
//
// head and tail are raw unbounded 64-bit counters; their difference is
// the occupancy, bounded by the logical capacity rather than the ring
// size. Slot i lives at ring[i&mask].
//
// An SPSC must not be copied after first use: the semaphores and the
// padded index blocks make its address meaningful.
//
// Memory: O(ring) where ring is capacity rounded up to a power of 2
type SPSC[T any] struct {
	ring     []T
	mask     uint64
	capacity uint64 // logical capacity, <= len(ring)
	pause    time.Duration

	_ pad
	// Producer-owned line. tail and tailEvent are read by the
	// consumer; the remaining fields are producer-private.
	tail        atomix.Uint64 // next slot to write (published)
	tailEvent   atomix.Uint64 // wake producer when head passes this
	cachedHead  uint64        // producer's view of head
	localTail   uint64        // includes unpublished advances
	prodSignals atomix.Uint64

	_ pad
	// Consumer-owned line, mirror of the above.
	head        atomix.Uint64 // next slot to read (published)
	headEvent   atomix.Uint64 // wake consumer when tail passes this
	cachedTail  uint64        // consumer's view of tail
	localHead   uint64
	consSignals atomix.Uint64

	_       pad
	prodSem sema.Sema
	_       pad
	consSem sema.Sema
}

// NewSPSC creates a new blocking SPSC queue with the given logical
// capacity and default tuning. The ring allocation rounds up to the
// next power of 2; occupancy stays bounded by capacity.
// Returns ErrCapacity when capacity < 1 or capacity > MaxCapacity.
func NewSPSC[T any](capacity int) (*SPSC[T], error) {
	return newSPSC[T](Options{capacity: capacity, consumerPause: defaultConsumerPause})
}

func newSPSC[T any](opts Options) (*SPSC[T], error) {
	if opts.capacity < 1 || uint64(opts.capacity) > MaxCapacity {
		return nil, ErrCapacity
	}

	n := uint64(roundToPow2(opts.capacity))
	return &SPSC[T]{
		ring:     make([]T, n),
		mask:     n - 1,
		capacity: uint64(opts.capacity),
		pause:    opts.consumerPause,
		prodSem:  sema.New(),
		consSem:  sema.New(),
	}, nil
}

// Enqueue copies *elem into the queue and publishes it immediately
// (producer only). Blocks until a slot is free.
func (q *SPSC[T]) Enqueue(elem *T) {
	q.waitSpace(1)
	q.ring[q.localTail&q.mask] = *elem
	q.advanceTail(1, true)
}

// EnqueueDeferred copies *elem into the queue without publishing it
// (producer only). Blocks until a slot is free.
//
// Deferred elements stay invisible to the consumer until the next
// Enqueue or Flush, or until the producer stalls on a full ring, which
// publishes as a side effect; a producer that stops without a final
// Flush leaves them invisible. Deferring amortizes index publication and consumer
// wake-ups across a burst.
func (q *SPSC[T]) EnqueueDeferred(elem *T) {
	q.waitSpace(1)
	q.ring[q.localTail&q.mask] = *elem
	q.advanceTail(1, false)
}

// Flush publishes all deferred elements and runs the consumer wake-up
// check (producer only). A no-op when nothing is deferred.
func (q *SPSC[T]) Flush() {
	q.publishTail()
}

// Dequeue removes and returns the head element (consumer only).
// Blocks until an element is available.
func (q *SPSC[T]) Dequeue() T {
	q.waitData(1)
	slot := &q.ring[q.localHead&q.mask]
	elem := *slot
	var zero T
	*slot = zero
	q.advanceHead(1)
	return elem
}

// DequeueBatch removes up to len(dst) elements into dst and returns
// the count (consumer only). Blocks until at least one element is
// available; never returns 0 unless len(dst) == 0. Occupancy never
// exceeds Cap, so a dst of Cap slots receives everything visible.
func (q *SPSC[T]) DequeueBatch(dst []T) int {
	if len(dst) == 0 {
		return 0
	}

	have := q.waitData(1)
	n := uint64(len(dst))
	if have < n {
		n = have
	}
	var zero T
	for i := uint64(0); i < n; i++ {
		slot := &q.ring[(q.localHead+i)&q.mask]
		dst[i] = *slot
		*slot = zero
	}
	q.advanceHead(n)
	return int(n)
}

// Cap returns the logical capacity.
func (q *SPSC[T]) Cap() int {
	return int(q.capacity)
}

// ProducerSignals returns how many times the producer has signaled the
// consumer semaphore. Monotonic; for diagnostic rate printing.
func (q *SPSC[T]) ProducerSignals() uint64 {
	return q.prodSignals.LoadRelaxed()
}

// ConsumerSignals returns how many times the consumer has signaled the
// producer semaphore. Monotonic; for diagnostic rate printing.
func (q *SPSC[T]) ConsumerSignals() uint64 {
	return q.consSignals.LoadRelaxed()
}

// waitSpace blocks until at least want slots are free and returns the
// number of free slots (producer only).
func (q *SPSC[T]) waitSpace(want uint64) uint64 {
	for {
		if q.hasSpace(want) {
			break
		}
		// Ask to be woken once roughly the oldest quarter of the
		// backlog has drained, then publish: in the reversed race it
		// is a parked consumer, not this side, that needs the wake.
		q.tailEvent.StoreRelaxed(q.cachedHead + (q.localTail-q.cachedHead)/4)
		q.publishTail()
		if q.hasSpace(want) { // event may already be behind the consumer
			break
		}
		q.prodSem.Wait()
		q.cachedHead = q.head.LoadAcquire()
	}
	return q.cachedHead + q.capacity - q.localTail
}

// hasSpace refreshes the producer's view of head and reports whether
// want slots are free.
func (q *SPSC[T]) hasSpace(want uint64) bool {
	q.cachedHead = q.head.LoadAcquire()
	return q.localTail-q.cachedHead <= q.capacity-want
}

// advanceTail advances the producer's local tail; force publishes it.
func (q *SPSC[T]) advanceTail(n uint64, force bool) {
	q.localTail += n
	if force {
		q.publishTail()
	}
}

// publishTail publishes the local tail and signals the consumer
// semaphore when this advance crossed the consumer's event threshold.
//
// The crossing test uses unsigned subtraction so it stays correct
// across 64-bit wraparound: a threshold e was crossed by an advance
// old→new iff new-e-1 < new-old.
func (q *SPSC[T]) publishTail() {
	old := q.tail.LoadRelaxed()
	q.tail.StoreRelease(q.localTail)

	he := q.headEvent.LoadRelaxed()
	if q.localTail-he-1 < q.localTail-old {
		q.consSem.Signal()
		q.prodSignals.StoreRelaxed(q.prodSignals.LoadRelaxed() + 1)
	}
}

// waitData blocks until at least want elements are visible and returns
// the number of visible elements (consumer only).
func (q *SPSC[T]) waitData(want uint64) uint64 {
	for {
		if q.hasData(want) {
			break
		}
		// Sub-scheduling pause: absorbs microbursts before any
		// semaphore traffic.
		if q.pause > 0 {
			time.Sleep(q.pause)
			if q.hasData(want) {
				break
			}
		}
		q.headEvent.StoreRelaxed(q.localHead + want - 1)
		q.publishHead()
		if q.hasData(want) { // event may already be behind the producer
			break
		}
		q.consSem.Wait()
	}
	return q.cachedTail - q.localHead
}

// hasData refreshes the consumer's view of tail and reports whether
// want elements are visible.
func (q *SPSC[T]) hasData(want uint64) bool {
	q.cachedTail = q.tail.LoadAcquire()
	return q.cachedTail-q.localHead >= want
}

// advanceHead advances and publishes the consumer's head.
//
// Publication is unconditional: the signal side is already
// rate-limited by the producer's event threshold, and a blocked
// producer waiting for drain must observe progress promptly.
func (q *SPSC[T]) advanceHead(n uint64) {
	q.localHead += n
	q.publishHead()
}

// publishHead publishes the local head and signals the producer
// semaphore when this advance crossed the producer's event threshold.
// Mirror of publishTail.
func (q *SPSC[T]) publishHead() {
	old := q.head.LoadRelaxed()
	q.head.StoreRelease(q.localHead)

	te := q.tailEvent.LoadRelaxed()
	if q.localHead-te-1 < q.localHead-old {
		q.prodSem.Signal()
		q.consSignals.StoreRelaxed(q.consSignals.LoadRelaxed() + 1)
	}
}
