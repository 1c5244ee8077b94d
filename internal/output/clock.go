// SPDX-License-Identifier: EPL-2.0

// Package output pulls the mix out of the engine, either on a software
// clock feeding sinks or from a real audio device callback.
package output

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Producer is the pull side of the engine.
type Producer interface {
	Produce(out []float32, frameCount int) int
}

// FrameSink receives every produced cycle. frames is only valid for the
// duration of the call.
type FrameSink interface {
	WriteFrames(frames []float32) error
}

// Clock calls Produce once per period and hands the frames to its sinks.
// A sink that returns an error is logged and detached.
type Clock struct {
	src    Producer
	period time.Duration
	buf    []float32
	log    *slog.Logger

	mu    sync.Mutex
	sinks []FrameSink
}

// NewClock produces frames per cycle. The usual period is
// frames/sampleRate, see router.Config.CyclePeriod.
func NewClock(src Producer, frames int, period time.Duration, log *slog.Logger) *Clock {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Clock{
		src:    src,
		period: period,
		buf:    make([]float32, frames),
		log:    log,
	}
}

func (c *Clock) AddSink(s FrameSink) {
	c.mu.Lock()
	c.sinks = append(c.sinks, s)
	c.mu.Unlock()
}

// Sinks is the number of attached sinks.
func (c *Clock) Sinks() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.sinks)
}

// Tick runs one cycle and returns the number of frames produced.
func (c *Clock) Tick() int {
	n := c.src.Produce(c.buf, len(c.buf))
	frames := c.buf[:n]

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.sinks[:0]
	for _, s := range c.sinks {
		if err := s.WriteFrames(frames); err != nil {
			c.log.Warn("detaching output sink", "sink", fmt.Sprintf("%T", s), "error", err)
			continue
		}
		kept = append(kept, s)
	}
	clear(c.sinks[len(kept):])
	c.sinks = kept

	return n
}

// Run ticks until ctx is done.
func (c *Clock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.period)
	defer ticker.Stop()

	c.log.Info("output clock started", "period", c.period, "frames", len(c.buf))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Tick()
		}
	}
}
