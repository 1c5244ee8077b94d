// SPDX-License-Identifier: EPL-2.0

package intpcm

import (
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
)

type mockReader struct {
	samples []int
	offset  int
	err     error
}

func (m *mockReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}

	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n

	return n, nil
}

func mono(rate int) *goaudio.Format {
	return &goaudio.Format{SampleRate: rate, NumChannels: 1}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   *goaudio.Format
		bitDepth int
		wantErr  error
	}{
		{"16-bit", mono(8000), 16, nil},
		{"24-bit", mono(8000), 24, nil},
		{"32-bit", mono(8000), 32, nil},
		{"8-bit", mono(8000), 8, ErrUnsupportedBitDepth},
		{"12-bit", mono(8000), 12, ErrUnsupportedBitDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(&mockReader{}, tt.format, tt.bitDepth)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := New(&mockReader{}, nil, 16); err == nil {
		t.Error("New(nil format) error = nil")
	}
	if _, err := New(&mockReader{}, &goaudio.Format{SampleRate: 8000}, 16); err == nil {
		t.Error("New(0 channels) error = nil")
	}
}

func TestSource_Scaling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bitDepth int
		in       []int
		want     []float32
	}{
		{16, []int{0, 16384, -16384, -32768}, []float32{0, 0.5, -0.5, -1}},
		{24, []int{4194304, -8388608}, []float32{0.5, -1}},
		{32, []int{1073741824, -2147483648}, []float32{0.5, -1}},
	}

	for _, tt := range tests {
		src, err := New(&mockReader{samples: tt.in}, mono(8000), tt.bitDepth)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		buf := make([]float32, len(tt.in))
		n, err := src.ReadSamples(buf)
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
		if n != len(tt.in) {
			t.Fatalf("ReadSamples() n = %d, want %d", n, len(tt.in))
		}

		for i, want := range tt.want {
			if buf[i] != want {
				t.Errorf("%d-bit buf[%d] = %v, want %v", tt.bitDepth, i, buf[i], want)
			}
		}
	}
}

func TestSource_ShortReadIsEOF(t *testing.T) {
	t.Parallel()

	src, _ := New(&mockReader{samples: []int{1, 2, 3}}, mono(8000), 16)

	buf := make([]float32, 8)
	n, err := src.ReadSamples(buf)
	if n != 3 || err != io.EOF {
		t.Errorf("ReadSamples() = (%d, %v), want (3, io.EOF)", n, err)
	}

	n, err = src.ReadSamples(buf)
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() after end = (%d, %v), want (0, io.EOF)", n, err)
	}
}

func TestSource_ReaderError(t *testing.T) {
	t.Parallel()

	src, _ := New(&mockReader{err: io.ErrUnexpectedEOF}, mono(8000), 16)

	_, err := src.ReadSamples(make([]float32, 4))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestSource_EmptyBuffer(t *testing.T) {
	t.Parallel()

	src, _ := New(&mockReader{samples: []int{1}}, mono(8000), 16)

	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}
