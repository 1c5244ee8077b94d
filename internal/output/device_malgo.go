// SPDX-License-Identifier: EPL-2.0

//go:build malgo

package output

import (
	"fmt"
	"log/slog"
	"time"
	"unsafe"

	"github.com/gen2brain/malgo"
)

// Device plays the mix on the default playback device as mono float32.
// The device callback calls Produce directly.
type Device struct {
	puller

	ctx    *malgo.AllocatedContext
	dev    *malgo.Device
	log    *slog.Logger
	cycle  int
	done   chan struct{}
	closed bool
}

// OpenDevice initializes playback with one period of periodFrames, which
// should match the engine's BufferFrames so each callback is one cycle.
func OpenDevice(src Producer, sampleRate, periodFrames int, log *slog.Logger) (*Device, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Debug("malgo", "message", message)
	})
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}

	d := &Device{
		puller: puller{src: src},
		ctx:    ctx,
		log:    log,
		cycle:  periodFrames,
		done:   make(chan struct{}),
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatF32
	cfg.Playback.Channels = 1
	cfg.SampleRate = uint32(sampleRate)
	cfg.PeriodSizeInFrames = uint32(periodFrames)
	cfg.PerformanceProfile = malgo.LowLatency

	dev, err := malgo.InitDevice(ctx.Context, cfg, malgo.DeviceCallbacks{
		Data: d.fill,
	})
	if err != nil {
		d.freeContext()
		return nil, fmt.Errorf("init playback device: %w", err)
	}
	d.dev = dev

	return d, nil
}

// fill runs on the device thread. It must not block or allocate.
func (d *Device) fill(output, _ []byte, frameCount uint32) {
	if len(output) < 4 {
		return
	}

	out := unsafe.Slice((*float32)(unsafe.Pointer(&output[0])), len(output)/4)
	out = out[:min(int(frameCount), len(out))]

	d.puller.fill(out)
}

func (d *Device) Start() error {
	if err := d.dev.Start(); err != nil {
		return fmt.Errorf("start playback: %w", err)
	}

	d.log.Info("playback device started")
	go d.watch()

	return nil
}

// watch reports padded periods, which mean the device negotiated a
// period longer than requested.
func (d *Device) watch() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			if d.report(d.log, d.cycle) {
				return
			}
		}
	}
}

func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	close(d.done)

	if d.dev != nil {
		d.dev.Uninit()
	}
	d.freeContext()

	if n := d.ShortPeriods(); n > 0 {
		d.log.Warn("playback padded periods with silence", "periods", n)
	}

	return nil
}

func (d *Device) freeContext() {
	if err := d.ctx.Uninit(); err != nil {
		d.log.Debug("audio context uninit", "error", err)
	}
	d.ctx.Free()
}
