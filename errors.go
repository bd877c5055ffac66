// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package abq

import "errors"

// ErrCapacity indicates an invalid capacity argument at construction.
//
// Capacity must satisfy 1 <= capacity <= MaxCapacity. No queue is
// created when ErrCapacity is returned.
//
// Unlike the non-blocking queues in code.hybscloud.com/lfq, runtime
// operations here never fail: Enqueue and Dequeue block until they
// succeed, so there is no would-block condition to report.
var ErrCapacity = errors.New("abq: capacity out of range")

// MaxCapacity is the largest accepted logical capacity. It keeps the
// ring allocation (next power of two) within the 2^63 bound required
// by the 64-bit wrap-safe index arithmetic.
const MaxCapacity = 1 << 62
