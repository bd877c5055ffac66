// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package abq provides a bounded SPSC FIFO queue with adaptive
// blocking, for low-latency packet-processing pipelines.
//
// A producer goroutine hands elements to a consumer goroutine across a
// shared ring buffer. Both sides prefer lock-free progress on cached
// indices; a stalled side falls back to a short spin or pause, and
// only as a last resort parks on a latching semaphore, to be woken by
// the counterpart's next advance. Under sustained load the steady
// state is wait-free on both sides with near-zero semaphore traffic.
//
// # Quick Start
//
//	q, err := abq.NewSPSC[Packet](1024)
//	if err != nil {
//	    return err
//	}
//
//	// Producer goroutine
//	go func() {
//	    for pkt := range input {
//	        q.Enqueue(&pkt) // blocks while the queue is full
//	    }
//	}()
//
//	// Consumer goroutine
//	go func() {
//	    for {
//	        pkt := q.Dequeue() // blocks while the queue is empty
//	        process(pkt)
//	    }
//	}()
//
// Builder API for tuning:
//
//	q, err := abq.Build[Packet](abq.New(1024).ConsumerPause(5 * time.Microsecond))
//
// # Blocking Semantics
//
// Enqueue and Dequeue never fail and never drop: they block until the
// operation completes. The only error surface is construction
// ([ErrCapacity]). Backpressure is therefore implicit; for
// non-blocking queues with an ErrWouldBlock contract, use
// [code.hybscloud.com/lfq] instead.
//
// There is no cancellation: a blocked side is only released by a
// counterpart advance. Hosts that need teardown push a sentinel
// element and stop the loop on receipt.
//
// # Deferred Publication
//
// A producer enqueueing a burst can amortize index publication and
// consumer wake-ups across the burst:
//
//	for i := range batch {
//	    q.EnqueueDeferred(&batch[i]) // invisible to the consumer
//	}
//	q.Flush() // one publish, at most one wake-up
//
// Deferred elements are invisible until the next Enqueue or Flush (or
// until the producer stalls on a full ring, which publishes as a side
// effect). A producer that stops without a final Flush leaves its
// trailing deferred elements invisible.
//
// # Batch Consumption
//
// DequeueBatch drains everything currently visible, capped by the
// destination buffer:
//
//	buf := make([]Packet, q.Cap())
//	for {
//	    n := q.DequeueBatch(buf) // blocks until at least one element
//	    for i := range n {
//	        process(buf[i])
//	    }
//	}
//
// # Wake-Up Protocol
//
// A stalled side publishes an advisory threshold before parking: the
// consumer asks to be woken as soon as one element is visible, while
// the producer asks to be woken only after roughly a quarter of the
// backlog has drained. The counterpart checks the threshold on every
// published advance and signals the semaphore only when it was just
// crossed, so a full-queue producer is not woken once per consumed
// element, and a steadily-fed consumer is not signaled once per
// enqueue. The counters [SPSC.ProducerSignals] and
// [SPSC.ConsumerSignals] expose the signal rates; under steady
// non-empty non-full load both stay near zero.
//
// # Queue Variants
//
// Two flavors are available:
//
//	Build[T] / NewSPSC[T]   - generic, copies values through the ring
//	BuildPtr / NewSPSCPtr   - unsafe.Pointer hand-off, zero-copy
//
// Use SPSCPtr when elements are large heap objects whose ownership
// moves from producer to consumer:
//
//	q, _ := abq.NewSPSCPtr(512)
//
//	// Producer
//	pkt := &Packet{Data: payload}
//	q.Enqueue(unsafe.Pointer(pkt))
//	// ownership transferred - do not use pkt after this
//
//	// Consumer
//	pkt := (*Packet)(q.Dequeue())
//
// # Thread Safety
//
// Exactly one goroutine may use the producer side (Enqueue,
// EnqueueDeferred, Flush) and exactly one the consumer side (Dequeue,
// DequeueBatch) of a given queue. The two sides may run concurrently;
// that is the point. Violating the single-producer single-consumer
// discipline causes undefined behavior including data corruption.
//
// Queues must not be copied after first use.
//
// # Capacity
//
// The constructor capacity is the logical bound on occupancy. The ring
// allocation rounds up to the next power of two, but the queue is full
// at exactly the requested capacity:
//
//	q, _ := abq.NewSPSC[int](1000) // ring of 1024, full at 1000
//	q.Cap()                        // 1000
//
// # Race Detection
//
// The ring slots are plain memory synchronized by acquire/release
// operations on the published indices; the advisory event thresholds
// are intentionally relaxed. The race detector does not observe the
// atomix orderings on the indices, so tests that run a producer and a
// consumer concurrently are skipped under it; see RaceEnabled.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic primitives
// with explicit memory ordering and [code.hybscloud.com/spin] for CPU
// pause instructions in the semaphore spin phase.
package abq
