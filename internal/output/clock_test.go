// SPDX-License-Identifier: EPL-2.0

package output

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ik5/audroute/router"
)

type recordSink struct {
	mu     sync.Mutex
	cycles [][]float32
}

func (r *recordSink) WriteFrames(frames []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cycles = append(r.cycles, append([]float32(nil), frames...))
	return nil
}

func (r *recordSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cycles)
}

type failSink struct{ calls int }

func (f *failSink) WriteFrames([]float32) error {
	f.calls++
	return errors.New("disk full")
}

func newEngine(t *testing.T, frames int) *router.Engine {
	t.Helper()

	cfg := router.DefaultConfig()
	cfg.BufferFrames = frames
	eng, err := router.New(cfg)
	if err != nil {
		t.Fatalf("router.New() error = %v", err)
	}
	return eng
}

func TestClock_TickDeliversMix(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, 4)
	if err := eng.Register(7, 0); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	eng.Deposit(7, []float32{0.1, 0.2, 0.3, 0.4}, 4)

	clk := NewClock(eng, 4, time.Millisecond, nil)
	sink := &recordSink{}
	clk.AddSink(sink)

	if n := clk.Tick(); n != 4 {
		t.Fatalf("Tick() = %d, want 4", n)
	}

	if sink.count() != 1 {
		t.Fatalf("sink saw %d cycles, want 1", sink.count())
	}
	want := []float32{0.1, 0.2, 0.3, 0.4}
	for i, v := range sink.cycles[0] {
		if v != want[i] {
			t.Errorf("frame %d = %v, want %v", i, v, want[i])
		}
	}
}

func TestClock_SinkSeesOnlyProducedFrames(t *testing.T) {
	t.Parallel()

	// A clock buffer longer than BufferFrames is clamped by Produce.
	eng := newEngine(t, 4)
	clk := NewClock(eng, 16, time.Millisecond, nil)
	sink := &recordSink{}
	clk.AddSink(sink)

	clk.Tick()

	if got := len(sink.cycles[0]); got != 4 {
		t.Errorf("sink got %d frames, want 4", got)
	}
}

func TestClock_FailingSinkDetached(t *testing.T) {
	t.Parallel()

	clk := NewClock(newEngine(t, 8), 8, time.Millisecond, nil)
	bad := &failSink{}
	good := &recordSink{}
	clk.AddSink(bad)
	clk.AddSink(good)

	clk.Tick()
	clk.Tick()

	if bad.calls != 1 {
		t.Errorf("failing sink called %d times, want 1", bad.calls)
	}
	if good.count() != 2 {
		t.Errorf("healthy sink saw %d cycles, want 2", good.count())
	}
	if clk.Sinks() != 1 {
		t.Errorf("Sinks() = %d, want 1", clk.Sinks())
	}
}

func TestClock_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, 8)
	clk := NewClock(eng, 8, time.Millisecond, nil)
	sink := &recordSink{}
	clk.AddSink(sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- clk.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for sink.count() < 3 {
		select {
		case <-deadline:
			t.Fatal("clock did not tick")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if eng.Stats().Cycles < 3 {
		t.Errorf("Stats().Cycles = %d, want >= 3", eng.Stats().Cycles)
	}
}

func BenchmarkClock_Tick(b *testing.B) {
	cfg := router.DefaultConfig()
	eng, err := router.New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	clk := NewClock(eng, cfg.BufferFrames, cfg.CyclePeriod(), nil)

	b.ReportAllocs()

	for b.Loop() {
		clk.Tick()
	}
}
