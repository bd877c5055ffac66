// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package abq_test

import (
	"fmt"
	"unsafe"

	"code.hybscloud.com/abq"
)

// ExampleNewSPSC demonstrates basic blocking enqueue and dequeue.
func ExampleNewSPSC() {
	q, err := abq.NewSPSC[int](8)
	if err != nil {
		panic(err)
	}

	// Producer side: blocks only when the queue is full
	for i := 1; i <= 5; i++ {
		v := i * 10
		q.Enqueue(&v)
	}

	// Consumer side: blocks only when the queue is empty
	for range 5 {
		fmt.Println(q.Dequeue())
	}

	// Output:
	// 10
	// 20
	// 30
	// 40
	// 50
}

// ExampleSPSC_EnqueueDeferred demonstrates burst publication: the
// deferred elements become visible together at the Flush.
func ExampleSPSC_EnqueueDeferred() {
	q, err := abq.NewSPSC[string](16)
	if err != nil {
		panic(err)
	}

	for _, s := range []string{"one", "two", "three"} {
		q.EnqueueDeferred(&s)
	}
	q.Flush() // one publish, at most one consumer wake-up

	buf := make([]string, q.Cap())
	n := q.DequeueBatch(buf)
	fmt.Println(buf[:n])

	// Output:
	// [one two three]
}

// ExampleSPSC_DequeueBatch demonstrates draining everything visible in
// one call.
func ExampleSPSC_DequeueBatch() {
	q, err := abq.NewSPSC[int](8)
	if err != nil {
		panic(err)
	}

	for i := range 4 {
		q.Enqueue(&i)
	}

	buf := make([]int, q.Cap())
	n := q.DequeueBatch(buf) // blocks until at least one element
	fmt.Println(n, buf[:n])

	// Output:
	// 4 [0 1 2 3]
}

// ExampleNewSPSCPtr demonstrates zero-copy hand-off of heap objects.
func ExampleNewSPSCPtr() {
	type packet struct {
		port int
		data []byte
	}

	q, err := abq.NewSPSCPtr(8)
	if err != nil {
		panic(err)
	}

	// Producer transfers ownership of the packet
	pkt := &packet{port: 3, data: []byte("payload")}
	q.Enqueue(unsafe.Pointer(pkt))

	// Consumer receives the same object, no copy
	got := (*packet)(q.Dequeue())
	fmt.Println(got.port, string(got.data))

	// Output:
	// 3 payload
}
