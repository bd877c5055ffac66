// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package abq

import "testing"

func TestRoundToPow2(t *testing.T) {
	for _, tc := range []struct{ in, want int }{
		{0, 2},
		{1, 2},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{1000, 1024},
		{1024, 1024},
		{1025, 2048},
	} {
		if got := roundToPow2(tc.in); got != tc.want {
			t.Fatalf("roundToPow2(%d): got %d, want %d", tc.in, got, tc.want)
		}
	}
}

// TestRingSizeAndMask verifies the ring allocation rounds up while the
// logical capacity stays at the requested value.
func TestRingSizeAndMask(t *testing.T) {
	q, err := NewSPSC[int](5)
	if err != nil {
		t.Fatal(err)
	}
	if len(q.ring) != 8 {
		t.Fatalf("ring: got %d slots, want 8", len(q.ring))
	}
	if q.mask != 7 {
		t.Fatalf("mask: got %d, want 7", q.mask)
	}
	if q.capacity != 5 {
		t.Fatalf("capacity: got %d, want 5", q.capacity)
	}
}

// TestDeferredPublication verifies EnqueueDeferred advances only the
// local tail and publication catches the shared index up.
func TestDeferredPublication(t *testing.T) {
	q, err := NewSPSC[int](8)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 3 {
		v := i
		q.EnqueueDeferred(&v)
	}
	if q.localTail != 3 {
		t.Fatalf("localTail: got %d, want 3", q.localTail)
	}
	if got := q.tail.LoadAcquire(); got != 0 {
		t.Fatalf("published tail: got %d, want 0", got)
	}

	q.Flush()
	if got := q.tail.LoadAcquire(); got != 3 {
		t.Fatalf("published tail after Flush: got %d, want 3", got)
	}
}

// TestSlotVacatedOnDequeue verifies dequeued slots are cleared so
// referenced objects become collectable.
func TestSlotVacatedOnDequeue(t *testing.T) {
	q, err := NewSPSC[*int](4)
	if err != nil {
		t.Fatal(err)
	}

	v := 42
	p := &v
	q.Enqueue(&p)
	if got := q.Dequeue(); got != &v {
		t.Fatalf("Dequeue: got %p, want %p", got, &v)
	}
	if q.ring[0] != nil {
		t.Fatal("slot not cleared after Dequeue")
	}

	// Batch path clears too.
	q.Enqueue(&p)
	q.Enqueue(&p)
	buf := make([]*int, 2)
	if n := q.DequeueBatch(buf); n != 2 {
		t.Fatalf("DequeueBatch: got %d, want 2", n)
	}
	if q.ring[1] != nil || q.ring[2] != nil {
		t.Fatal("slots not cleared after DequeueBatch")
	}
}

// TestEventThresholds verifies the advisory thresholds each side
// publishes before parking.
func TestEventThresholds(t *testing.T) {
	q, err := NewSPSC[int](8)
	if err != nil {
		t.Fatal(err)
	}

	// Producer fills the queue, then stalls: the wake threshold sits a
	// quarter into the backlog.
	for i := range 8 {
		v := i
		q.Enqueue(&v)
	}
	if q.hasSpace(1) {
		t.Fatal("hasSpace on a full queue")
	}
	q.tailEvent.StoreRelaxed(q.cachedHead + (q.localTail-q.cachedHead)/4)
	if got := q.tailEvent.LoadRelaxed(); got != 2 {
		t.Fatalf("tailEvent: got %d, want 2", got)
	}

	// Crossing the threshold requires head to pass it, not reach it.
	q.localHead, q.cachedTail = 2, 8
	q.publishHead()
	if got := q.consSignals.LoadRelaxed(); got != 0 {
		t.Fatalf("consSignals at threshold: got %d, want 0", got)
	}
	q.localHead = 3
	q.publishHead()
	if got := q.consSignals.LoadRelaxed(); got != 1 {
		t.Fatalf("consSignals after crossing: got %d, want 1", got)
	}
}

// TestOccupancyBound walks mixed operations and checks the index
// invariant 0 <= tail-head <= capacity at every step.
func TestOccupancyBound(t *testing.T) {
	q, err := NewSPSC[int](3)
	if err != nil {
		t.Fatal(err)
	}

	check := func() {
		t.Helper()
		occ := q.localTail - q.localHead
		if occ > q.capacity {
			t.Fatalf("occupancy %d exceeds capacity %d", occ, q.capacity)
		}
	}

	for round := range 20 {
		for i := range 3 {
			v := round*3 + i
			q.Enqueue(&v)
			check()
		}
		for range 3 {
			q.Dequeue()
			check()
		}
	}
}
