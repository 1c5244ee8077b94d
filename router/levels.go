// SPDX-License-Identifier: EPL-2.0

package router

import (
	"math"
	"sync/atomic"
)

// SilenceDB is the floor reported for a silent channel.
const SilenceDB = -100

// Level is the meter reading of one channel, taken over its most recent
// deposit. Values are linear, 1.0 being full scale.
type Level struct {
	Channel int
	Peak    float32
	RMS     float32
}

// PeakDB and RMSDB convert the reading to dBFS.
func (l Level) PeakDB() float32 { return ToDB(l.Peak) }
func (l Level) RMSDB() float32  { return ToDB(l.RMS) }

// ToDB converts a linear level to dBFS, floored at SilenceDB.
func ToDB(linear float32) float32 {
	if linear <= 0 {
		return SilenceDB
	}

	return max(SilenceDB, float32(20*math.Log10(float64(linear))))
}

// Measure returns the peak and RMS of samples.
func Measure(samples []float32) (peak, rms float32) {
	if len(samples) == 0 {
		return 0, 0
	}

	var sum float64
	for _, v := range samples {
		a := v
		if a < 0 {
			a = -a
		}
		peak = max(peak, a)
		sum += float64(v) * float64(v)
	}

	return peak, float32(math.Sqrt(sum / float64(len(samples))))
}

// meter holds float32 bits so Deposit can publish without a lock.
type meter struct {
	peak atomic.Uint32
	rms  atomic.Uint32
}

func (m *meter) store(peak, rms float32) {
	m.peak.Store(math.Float32bits(peak))
	m.rms.Store(math.Float32bits(rms))
}

// Levels returns the meter of every channel. A channel reads zero until
// its first deposit and again after it is silenced by Unregister or
// Reset.
func (e *Engine) Levels() []Level {
	out := make([]Level, len(e.meters))
	for ch := range e.meters {
		out[ch] = Level{
			Channel: ch,
			Peak:    math.Float32frombits(e.meters[ch].peak.Load()),
			RMS:     math.Float32frombits(e.meters[ch].rms.Load()),
		}
	}

	return out
}
