// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sema provides the single-slot latching semaphore used by the
// blocking queue slow path.
//
// The semaphore is an edge-held wake-up primitive: Signal sets a latch
// and wakes at most one parked waiter; Wait consumes the latch if it is
// set, otherwise parks until the next Signal. A Signal issued before the
// matching Wait is never lost. The latch holds a single edge: repeated
// Signals before a Wait collapse into one wake.
//
// Contract: at most one goroutine calls Wait on a given instance. The
// caller re-checks its own condition after every wake, so spurious
// wakes are tolerated.
package sema

import "code.hybscloud.com/spin"

// waitSpin bounds the spin phase of Wait. On a tight producer/consumer
// handoff the counterpart's Signal usually lands within a few hundred
// cycles, and consuming the latch without parking keeps the scheduler
// out of the exchange.
const waitSpin = 64

// Sema is a single-slot latching semaphore.
//
// The zero value is not usable; create instances with New. A Sema must
// not be copied after first use.
type Sema struct {
	latch chan struct{}
}

// New returns a ready-to-use semaphore with the latch clear.
func New() Sema {
	return Sema{latch: make(chan struct{}, 1)}
}

// Signal sets the latch and wakes the parked waiter, if any.
// The latch persists until the next Wait consumes it.
func (s *Sema) Signal() {
	select {
	case s.latch <- struct{}{}:
	default:
	}
}

// Wait consumes the latch, parking until Signal sets it.
// A bounded spin phase runs before the park.
func (s *Sema) Wait() {
	sw := spin.Wait{}
	for range waitSpin {
		select {
		case <-s.latch:
			return
		default:
		}
		sw.Once()
	}
	<-s.latch
}
