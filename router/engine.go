// SPDX-License-Identifier: EPL-2.0

package router

import (
	"fmt"
	"log/slog"
)

// Engine routes audio deposited by producer processes into per-channel
// buffers and mixes those buffers into a single output on demand.
//
// The routing table and the buffer bank are guarded by separate locks that
// are never held together, so a slow Register or Deposit lookup cannot
// delay Produce.
type Engine struct {
	cfg    Config
	table  *table
	bank   *bank
	log    *slog.Logger
	stats  counters
	meters []meter

	clearOnUnregister bool
	reclaimInactive   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for registration events. Deposit and Produce
// never log.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClearOnUnregister controls whether Unregister silences the channel
// it releases. Enabled by default; the buffer is left alone when another
// active mapping still targets the channel.
func WithClearOnUnregister(enabled bool) Option {
	return func(e *Engine) {
		e.clearOnUnregister = enabled
	}
}

// WithReclaimInactive lets a new process take over the slot of an
// unregistered one when the table is full. Disabled by default: a full
// table rejects new processes and every inactive slot stays reserved for
// its own process. The process that lost its slot may get ErrTableFull
// when it registers again.
func WithReclaimInactive(enabled bool) Option {
	return func(e *Engine) {
		e.reclaimInactive = enabled
	}
}

func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:               cfg,
		table:             newTable(cfg.MaxMappings),
		bank:              newBank(cfg.Channels, cfg.BufferFrames),
		log:               slog.New(slog.DiscardHandler),
		meters:            make([]meter, cfg.Channels),
		clearOnUnregister: true,
	}

	for _, opt := range opts {
		opt(e)
	}
	e.table.reclaim = e.reclaimInactive

	return e, nil
}

func (e *Engine) Config() Config { return e.cfg }

// Register routes pid to channel. A known pid, active or not, is moved to
// the new channel in its own slot; a new pid takes an unused slot.
// ErrTableFull is returned for a new pid when no slot is unused.
func (e *Engine) Register(pid, channel int) error {
	if channel < 0 || channel >= e.cfg.Channels {
		e.stats.rejected.Add(1)
		return fmt.Errorf("%w: %d not in [0, %d)", ErrChannelOutOfRange, channel, e.cfg.Channels)
	}

	added, err := e.table.register(pid, channel)
	if err != nil {
		e.stats.rejected.Add(1)
		e.log.Warn("register rejected", "pid", pid, "channel", channel, "err", err)
		return err
	}

	e.stats.registrations.Add(1)
	if added {
		e.log.Debug("mapping added", "pid", pid, "channel", channel)
	} else {
		e.log.Debug("mapping updated", "pid", pid, "channel", channel)
	}

	return nil
}

// Unregister deactivates pid. Unknown or already inactive pids are
// ignored.
func (e *Engine) Unregister(pid int) {
	var gen uint64
	channel, shared, ok := e.table.release(pid, func(ch int) {
		gen = e.bank.generation(ch)
	})
	if !ok {
		return
	}

	// A deposit from a process mapped to the channel after the release
	// bumps the generation and survives.
	if e.clearOnUnregister && !shared && e.bank.release(channel, pid, gen) {
		e.meters[channel].store(0, 0)
	}

	e.log.Debug("mapping removed", "pid", pid, "channel", channel, "shared", shared)
}

// Lookup returns the channel of the active mapping for pid.
func (e *Engine) Lookup(pid int) (int, bool) {
	return e.table.lookup(pid)
}

// Allocate returns the channel pid is already routed to, or routes it to
// the lowest channel no active mapping uses.
func (e *Engine) Allocate(pid int) (int, error) {
	channel, added, err := e.table.allocate(pid, e.cfg.Channels)
	if err != nil {
		e.stats.rejected.Add(1)
		e.log.Warn("allocate rejected", "pid", pid, "err", err)
		return 0, err
	}

	if added {
		e.stats.registrations.Add(1)
		e.log.Debug("channel allocated", "pid", pid, "channel", channel)
	}

	return channel, nil
}

// Mappings returns the active mappings in table order.
func (e *Engine) Mappings() []Mapping {
	return e.table.snapshot()
}

// Reset drops every mapping and silences every channel.
func (e *Engine) Reset() {
	e.table.reset()
	e.bank.clearAll()
	for ch := range e.meters {
		e.meters[ch].store(0, 0)
	}
	e.log.Debug("engine reset")
}

// Deposit overwrites the channel buffer of pid with the first frameCount
// samples. frameCount is clamped to BufferFrames and to len(samples);
// anything beyond is discarded. Deposits from unmapped processes are
// dropped. The channel meter is updated from the accepted chunk.
func (e *Engine) Deposit(pid int, samples []float32, frameCount int) {
	if frameCount > e.cfg.BufferFrames {
		e.stats.clamped.Add(1)
	}
	frames := clampFrames(frameCount, len(samples), e.cfg.BufferFrames)

	channel, ok := e.table.lookup(pid)
	if !ok {
		e.stats.unrouted.Add(1)
		return
	}

	chunk := samples[:frames]
	e.meters[channel].store(Measure(chunk))
	e.bank.write(channel, pid, chunk)
	e.stats.deposits.Add(1)
}

// Produce writes the sum of every channel buffer into out and returns the
// number of frames written: frameCount clamped to BufferFrames and
// len(out). The sum is not clipped.
//
// Produce is safe to call from a real-time callback: it takes only the
// buffer lock and does not allocate.
func (e *Engine) Produce(out []float32, frameCount int) int {
	frames := clampFrames(frameCount, len(out), e.cfg.BufferFrames)

	e.bank.mix(out[:frames])
	e.stats.cycles.Add(1)

	return frames
}

func clampFrames(n, length, limit int) int {
	return max(0, min(n, length, limit))
}
