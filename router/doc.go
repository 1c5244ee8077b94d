// SPDX-License-Identifier: EPL-2.0

// Package router is the routing core of a virtual multi-channel audio
// device.
//
// An Engine keeps two pieces of shared state:
//   - a bounded routing table mapping a process id to a channel
//   - a bank of fixed-size sample buffers, one per channel
//
// Producer processes call Register once when they attach, Deposit for every
// chunk of audio, and Unregister when they detach. A single real-time
// consumer calls Produce once per I/O cycle to receive the sum of all
// channel buffers.
//
// # Deposit semantics
//
// A deposit overwrites its channel buffer; it never appends or mixes.
// Chunks longer than Config.BufferFrames are truncated, shorter chunks are
// zero-padded, and chunks from unmapped processes are dropped. None of
// these are errors; they show up in Stats. Each accepted chunk also sets
// the channel's peak and RMS meter, read with Levels.
//
// # Table capacity
//
// Once every slot has been used, Register for a new process fails with
// ErrTableFull. Unregistered slots stay reserved for their process unless
// the engine was built WithReclaimInactive.
//
// # Mixing
//
// Produce sums every channel buffer, mapped or not, without clipping or
// gain. Limiting is left to the consumer.
//
// # Locking
//
// The table lock guards Register, Unregister, Allocate and the lookup at
// the start of Deposit. The bank lock guards the copy in Deposit and the
// whole of Produce. The two locks are never nested, so registration
// traffic cannot stall the real-time path.
//
// # Example
//
//	e, _ := router.New(router.DefaultConfig())
//	_ = e.Register(pid, 3)
//	e.Deposit(pid, chunk, len(chunk))
//
//	out := make([]float32, 1024)
//	n := e.Produce(out, len(out))
package router
