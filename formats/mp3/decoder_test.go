// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

// mockMP3Reader simulates gomp3.Decoder. chunk caps each Read, so odd
// values split samples across reads the way a frame boundary can.
type mockMP3Reader struct {
	sampleRate int
	data       []byte
	offset     int
	chunk      int
	err        error
}

func newMockReader(sampleRate, chunk int, samples ...int16) *mockMP3Reader {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, samples)

	return &mockMP3Reader{sampleRate: sampleRate, data: buf.Bytes(), chunk: chunk}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(p []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.data) {
		return 0, io.EOF
	}

	if m.chunk > 0 && len(p) > m.chunk {
		p = p[:m.chunk]
	}

	n := copy(p, m.data[m.offset:])
	m.offset += n

	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("This is not MP3 data")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); err == nil {
				t.Error("Decode() error = nil, want error")
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMockReader(44100, 0)}

	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		chunk int
	}{
		{"whole reads", 0},
		{"odd byte reads", 3},
		{"single byte reads", 1},
	}

	in := []int16{0, 16384, 32767, -16384, -32768, 8192, -8192, 0}
	want := []float32{0, 0.5, 1, -0.5, -1, 0.25, -0.25, 0}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := &source{dec: newMockReader(8000, tt.chunk, in...)}

			dst := make([]float32, len(in))
			n, err := src.ReadSamples(dst)
			if err != nil {
				t.Fatalf("ReadSamples() error = %v", err)
			}
			if n != len(in) {
				t.Fatalf("ReadSamples() n = %d, want %d", n, len(in))
			}

			for i := range want {
				if math.Abs(float64(dst[i]-want[i])) > 0.0001 {
					t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
				}
			}
		})
	}
}

func TestSource_ReadSamples_EOF(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMockReader(8000, 0, 1, 2, 3, 4, 5)}

	dst := make([]float32, 4)

	n, err := src.ReadSamples(dst)
	if n != 4 || err != nil {
		t.Fatalf("first ReadSamples() = (%d, %v), want (4, nil)", n, err)
	}

	n, err = src.ReadSamples(dst)
	if n != 1 || err != io.EOF {
		t.Fatalf("second ReadSamples() = (%d, %v), want (1, io.EOF)", n, err)
	}

	n, err = src.ReadSamples(dst)
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() after end = (%d, %v), want (0, io.EOF)", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt frame")
	src := &source{dec: &mockMP3Reader{sampleRate: 8000, err: boom}}

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMockReader(8000, 0, 1, 2)}

	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int16, 1<<16)
	for i := range samples {
		samples[i] = int16(math.Sin(float64(i)*0.05) * 20000)
	}
	dst := make([]float32, 2048)

	b.ReportAllocs()

	for b.Loop() {
		src := &source{dec: newMockReader(44100, 0, samples...), buf: make([]byte, 4096)}
		for {
			if _, err := src.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
