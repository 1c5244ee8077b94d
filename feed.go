// SPDX-License-Identifier: EPL-2.0

package audroute

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ik5/audroute/audio"
	"github.com/ik5/audroute/router"
)

// Engine is the part of *router.Engine a Feeder writes to.
type Engine interface {
	Config() router.Config
	Deposit(pid int, samples []float32, frameCount int)
}

// Feeder plays one audio.Source into an engine on behalf of one process
// id, one buffer's worth of frames per Step. Multi-channel sources are
// downmixed first.
type Feeder struct {
	eng    Engine
	pid    int
	src    audio.Source
	buf    []float32
	open   func() (audio.Source, error)
	log    *slog.Logger
	frames int
}

type FeederOption func(*Feeder)

// WithLoop makes the feeder reopen its source through open whenever the
// current one ends.
func WithLoop(open func() (audio.Source, error)) FeederOption {
	return func(f *Feeder) {
		f.open = open
	}
}

func WithFeederLogger(l *slog.Logger) FeederOption {
	return func(f *Feeder) {
		if l != nil {
			f.log = l
		}
	}
}

// NewFeeder checks src against the engine's sample rate and wraps it for
// mono delivery. The caller registers pid with the engine; the feeder
// only deposits.
func NewFeeder(eng Engine, pid int, src audio.Source, opts ...FeederOption) (*Feeder, error) {
	cfg := eng.Config()

	f := &Feeder{
		eng: eng,
		pid: pid,
		buf: make([]float32, cfg.BufferFrames),
		log: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(f)
	}

	if err := f.use(src); err != nil {
		return nil, err
	}

	return f, nil
}

func (f *Feeder) use(src audio.Source) error {
	if rate := f.eng.Config().SampleRate; src.SampleRate() != rate {
		return fmt.Errorf("%w: source %d Hz, engine %d Hz", ErrSampleRateMismatch, src.SampleRate(), rate)
	}

	f.src = audio.NewMonoMixer(src)

	return nil
}

// PID is the process id the feeder deposits under.
func (f *Feeder) PID() int { return f.pid }

// Frames is the total number of frames deposited so far.
func (f *Feeder) Frames() int { return f.frames }

// Step reads up to one buffer of frames and deposits it. The final short
// chunk of a finite source is deposited together with io.EOF.
func (f *Feeder) Step() error {
	n, err := f.fill()
	if n > 0 {
		f.eng.Deposit(f.pid, f.buf[:n], n)
		f.frames += n
	}

	return err
}

func (f *Feeder) fill() (int, error) {
	n := 0
	fresh := false

	for n < len(f.buf) {
		got, err := f.src.ReadSamples(f.buf[n:])
		n += got
		if got > 0 {
			fresh = false
		}

		switch {
		case errors.Is(err, io.EOF):
			if f.open == nil {
				return n, io.EOF
			}
			if fresh {
				return n, ErrEmptySource
			}
			if err := f.reopen(); err != nil {
				return n, err
			}
			fresh = true
		case err != nil:
			return n, fmt.Errorf("feed pid %d: %w", f.pid, err)
		case got == 0:
			return n, nil
		}
	}

	return n, nil
}

func (f *Feeder) reopen() error {
	if err := f.src.Close(); err != nil {
		f.log.Warn("closing feed source", "pid", f.pid, "error", err)
	}

	src, err := f.open()
	if err != nil {
		return fmt.Errorf("reopen feed pid %d: %w", f.pid, err)
	}

	f.log.Debug("feed looped", "pid", f.pid, "frames", f.frames)

	return f.use(src)
}

// Run steps once per period until the source ends or ctx is done. A
// finished source returns nil.
func (f *Feeder) Run(ctx context.Context, period time.Duration) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := f.Step()
			if errors.Is(err, io.EOF) {
				f.log.Info("feed finished", "pid", f.pid, "frames", f.frames)
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}

// Close releases the current source.
func (f *Feeder) Close() error {
	return f.src.Close()
}
