// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sema_test

import (
	"testing"
	"time"

	"code.hybscloud.com/abq/internal/sema"
)

// TestSignalBeforeWait verifies a signal issued before the wait is not
// lost: the latch persists until consumed.
func TestSignalBeforeWait(t *testing.T) {
	s := sema.New()
	s.Signal()

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not consume a pending signal")
	}
}

// TestSignalCollapses verifies repeated signals hold a single edge:
// one Wait consumes them all.
func TestSignalCollapses(t *testing.T) {
	s := sema.New()
	s.Signal()
	s.Signal()
	s.Signal()
	s.Wait() // consumes the single latched edge

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned without a pending signal")
	case <-time.After(20 * time.Millisecond):
	}

	s.Signal()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not observe the signal")
	}
}

// TestWaitThenSignal verifies a parked waiter is woken by a later
// signal.
func TestWaitThenSignal(t *testing.T) {
	s := sema.New()

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	s.Signal()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not wake on signal")
	}
}

// TestSignalWaitCycles drives many latch/consume rounds across two
// goroutines.
func TestSignalWaitCycles(t *testing.T) {
	const rounds = 10000

	ping, pong := sema.New(), sema.New()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range rounds {
			ping.Wait()
			pong.Signal()
		}
	}()

	for range rounds {
		ping.Signal()
		pong.Wait()
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("ping-pong did not complete")
	}
}
