// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package abq

import (
	"time"
	"unsafe"

	"code.hybscloud.com/abq/internal/sema"
	"code.hybscloud.com/atomix"
)

// SPSCPtr is a blocking SPSC queue for unsafe.Pointer values.
//
// Useful for zero-copy hand-off of heap objects between the producer
// and consumer goroutine, such as packet buffers moving through a
// processing pipeline. The producer transfers ownership on Enqueue and
// must not touch the object afterwards.
//
// Same protocol as SPSC; see there for the blocking and publication
// semantics. An SPSCPtr must not be copied after first use.
type SPSCPtr struct {
	ring     []unsafe.Pointer
	mask     uint64
	capacity uint64
	pause    time.Duration

	_           pad
	tail        atomix.Uint64
	tailEvent   atomix.Uint64
	cachedHead  uint64
	localTail   uint64
	prodSignals atomix.Uint64

	_           pad
	head        atomix.Uint64
	headEvent   atomix.Uint64
	cachedTail  uint64
	localHead   uint64
	consSignals atomix.Uint64

	_       pad
	prodSem sema.Sema
	_       pad
	consSem sema.Sema
}

// NewSPSCPtr creates a new blocking SPSC queue for unsafe.Pointer
// values with the given logical capacity and default tuning.
// Returns ErrCapacity when capacity < 1 or capacity > MaxCapacity.
func NewSPSCPtr(capacity int) (*SPSCPtr, error) {
	return newSPSCPtr(Options{capacity: capacity, consumerPause: defaultConsumerPause})
}

func newSPSCPtr(opts Options) (*SPSCPtr, error) {
	if opts.capacity < 1 || uint64(opts.capacity) > MaxCapacity {
		return nil, ErrCapacity
	}

	n := uint64(roundToPow2(opts.capacity))
	return &SPSCPtr{
		ring:     make([]unsafe.Pointer, n),
		mask:     n - 1,
		capacity: uint64(opts.capacity),
		pause:    opts.consumerPause,
		prodSem:  sema.New(),
		consSem:  sema.New(),
	}, nil
}

// slot returns the address of ring[i&mask].
// Pointer arithmetic avoids slice bounds checking in the hot path.
func (q *SPSCPtr) slot(i uint64) *unsafe.Pointer {
	return (*unsafe.Pointer)(unsafe.Add(unsafe.Pointer(unsafe.SliceData(q.ring)), int(i&q.mask)*ptrSize))
}

// Enqueue adds elem and publishes it immediately (producer only).
// Blocks until a slot is free.
func (q *SPSCPtr) Enqueue(elem unsafe.Pointer) {
	q.waitSpace(1)
	*q.slot(q.localTail) = elem
	q.localTail++
	q.publishTail()
}

// EnqueueDeferred adds elem without publishing it (producer only).
// Blocks until a slot is free. See SPSC.EnqueueDeferred.
func (q *SPSCPtr) EnqueueDeferred(elem unsafe.Pointer) {
	q.waitSpace(1)
	*q.slot(q.localTail) = elem
	q.localTail++
}

// Flush publishes all deferred elements (producer only).
func (q *SPSCPtr) Flush() {
	q.publishTail()
}

// Dequeue removes and returns the head pointer (consumer only).
// Blocks until an element is available.
func (q *SPSCPtr) Dequeue() unsafe.Pointer {
	q.waitData(1)
	slot := q.slot(q.localHead)
	elem := *slot
	*slot = nil
	q.advanceHead(1)
	return elem
}

// DequeueBatch removes up to len(dst) pointers into dst and returns
// the count (consumer only). Blocks until at least one element is
// available; never returns 0 unless len(dst) == 0.
func (q *SPSCPtr) DequeueBatch(dst []unsafe.Pointer) int {
	if len(dst) == 0 {
		return 0
	}

	have := q.waitData(1)
	n := uint64(len(dst))
	if have < n {
		n = have
	}
	for i := uint64(0); i < n; i++ {
		slot := q.slot(q.localHead + i)
		dst[i] = *slot
		*slot = nil
	}
	q.advanceHead(n)
	return int(n)
}

// Cap returns the logical capacity.
func (q *SPSCPtr) Cap() int {
	return int(q.capacity)
}

// ProducerSignals returns how many times the producer has signaled the
// consumer semaphore.
func (q *SPSCPtr) ProducerSignals() uint64 {
	return q.prodSignals.LoadRelaxed()
}

// ConsumerSignals returns how many times the consumer has signaled the
// producer semaphore.
func (q *SPSCPtr) ConsumerSignals() uint64 {
	return q.consSignals.LoadRelaxed()
}

func (q *SPSCPtr) waitSpace(want uint64) uint64 {
	for {
		if q.hasSpace(want) {
			break
		}
		q.tailEvent.StoreRelaxed(q.cachedHead + (q.localTail-q.cachedHead)/4)
		q.publishTail()
		if q.hasSpace(want) {
			break
		}
		q.prodSem.Wait()
		q.cachedHead = q.head.LoadAcquire()
	}
	return q.cachedHead + q.capacity - q.localTail
}

func (q *SPSCPtr) hasSpace(want uint64) bool {
	q.cachedHead = q.head.LoadAcquire()
	return q.localTail-q.cachedHead <= q.capacity-want
}

func (q *SPSCPtr) publishTail() {
	old := q.tail.LoadRelaxed()
	q.tail.StoreRelease(q.localTail)

	he := q.headEvent.LoadRelaxed()
	if q.localTail-he-1 < q.localTail-old {
		q.consSem.Signal()
		q.prodSignals.StoreRelaxed(q.prodSignals.LoadRelaxed() + 1)
	}
}

func (q *SPSCPtr) waitData(want uint64) uint64 {
	for {
		if q.hasData(want) {
			break
		}
		if q.pause > 0 {
			time.Sleep(q.pause)
			if q.hasData(want) {
				break
			}
		}
		q.headEvent.StoreRelaxed(q.localHead + want - 1)
		q.publishHead()
		if q.hasData(want) {
			break
		}
		q.consSem.Wait()
	}
	return q.cachedTail - q.localHead
}

func (q *SPSCPtr) hasData(want uint64) bool {
	q.cachedTail = q.tail.LoadAcquire()
	return q.cachedTail-q.localHead >= want
}

func (q *SPSCPtr) advanceHead(n uint64) {
	q.localHead += n
	q.publishHead()
}

func (q *SPSCPtr) publishHead() {
	old := q.head.LoadRelaxed()
	q.head.StoreRelease(q.localHead)

	te := q.tailEvent.LoadRelaxed()
	if q.localHead-te-1 < q.localHead-old {
		q.prodSem.Signal()
		q.consSignals.StoreRelaxed(q.consSignals.LoadRelaxed() + 1)
	}
}
