// SPDX-License-Identifier: EPL-2.0

package audroute

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audroute/audio"
	"github.com/ik5/audroute/formats/wav"
)

func TestNewRegistry_Extensions(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	for _, path := range []string{"a.wav", "b.AIFF", "c.aif", "d.mp3", "e.ogg"} {
		if _, err := reg.ForPath(path); err != nil {
			t.Errorf("ForPath(%q) error = %v", path, err)
		}
	}

	if _, err := reg.ForPath("f.flac"); !errors.Is(err, audio.ErrUnknownFormat) {
		t.Errorf("ForPath(flac) error = %v, want ErrUnknownFormat", err)
	}
}

func TestNewRegistry_FeedWAVFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	// Stereo with the channels at 0.25 and 0.75 downmixes to 0.5.
	w := wav.NewWriter(f, 48000, 2)
	frames := make([]float32, 2*6)
	for i := range 6 {
		frames[2*i] = 0.25
		frames[2*i+1] = 0.75
	}
	if err := w.WriteFrames(frames); err != nil {
		t.Fatalf("WriteFrames() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	f.Close()

	src, err := NewRegistry().Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	eng := newTestEngine(t, 4)
	if err := eng.Register(9, 1); err != nil {
		t.Fatal(err)
	}

	feed, err := NewFeeder(eng, 9, src)
	if err != nil {
		t.Fatalf("NewFeeder() error = %v", err)
	}
	defer feed.Close()

	if err := feed.Step(); err != nil {
		t.Fatalf("first Step() error = %v", err)
	}
	for i, v := range produce(eng) {
		// 16-bit quantization.
		if v < 0.499 || v > 0.501 {
			t.Errorf("frame %d = %v, want ~0.5", i, v)
		}
	}

	if err := feed.Step(); !errors.Is(err, io.EOF) {
		t.Errorf("second Step() error = %v, want io.EOF", err)
	}
	if feed.Frames() != 6 {
		t.Errorf("Frames() = %d, want 6", feed.Frames())
	}
}
