// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package abq

// RaceEnabled is true when the race detector is active.
// Used by tests to skip concurrent producer/consumer runs: the
// detector does not observe the atomix orderings that synchronize the
// ring slots.
const RaceEnabled = true
