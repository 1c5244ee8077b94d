// SPDX-License-Identifier: EPL-2.0

package output

import (
	"log/slog"
	"sync/atomic"
)

// puller fills device periods straight from a Producer. A period longer
// than one engine cycle can only be padded with silence; those are
// counted so they can be reported off the audio thread.
type puller struct {
	src Producer

	short   atomic.Uint64 // periods padded with silence
	longest atomic.Int64  // largest period seen, in frames
	warned  atomic.Bool
}

// fill must not block, allocate or log.
func (p *puller) fill(out []float32) {
	n := p.src.Produce(out, len(out))
	clear(out[n:])

	if n < len(out) {
		p.short.Add(1)
		if int64(len(out)) > p.longest.Load() {
			p.longest.Store(int64(len(out)))
		}
	}
}

// ShortPeriods is the number of device periods padded with silence.
func (p *puller) ShortPeriods() uint64 { return p.short.Load() }

// report logs the first time padding is seen and returns whether it did.
func (p *puller) report(log *slog.Logger, cycleFrames int) bool {
	if p.short.Load() == 0 || p.warned.Swap(true) {
		return false
	}

	log.Warn("device period exceeds engine cycle, output has gaps",
		"period_frames", p.longest.Load(),
		"cycle_frames", cycleFrames,
	)

	return true
}
