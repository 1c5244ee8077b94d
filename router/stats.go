// SPDX-License-Identifier: EPL-2.0

package router

import "sync/atomic"

// Stats is a point-in-time snapshot of engine counters.
type Stats struct {
	Registrations uint64 // successful Register and Allocate calls that changed the table
	Rejected      uint64 // Register/Allocate failures
	Deposits      uint64 // routed deposits
	Unrouted      uint64 // deposits dropped for lack of a mapping
	Clamped       uint64 // deposits longer than BufferFrames
	Cycles        uint64 // Produce calls
}

type counters struct {
	registrations atomic.Uint64
	rejected      atomic.Uint64
	deposits      atomic.Uint64
	unrouted      atomic.Uint64
	clamped       atomic.Uint64
	cycles        atomic.Uint64
}

// Stats reads the counters without taking either engine lock.
func (e *Engine) Stats() Stats {
	return Stats{
		Registrations: e.stats.registrations.Load(),
		Rejected:      e.stats.rejected.Load(),
		Deposits:      e.stats.deposits.Load(),
		Unrouted:      e.stats.unrouted.Load(),
		Clamped:       e.stats.clamped.Load(),
		Cycles:        e.stats.cycles.Load(),
	}
}
