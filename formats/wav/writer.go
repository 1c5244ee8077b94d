// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/audroute/utils"
)

// Writer streams 16-bit PCM into a WAV container. The header sizes are
// patched on Close, so the destination must be seekable.
type Writer struct {
	enc      *gowav.Encoder
	buf      *goaudio.IntBuffer
	channels int
	frames   int
	closed   bool
}

func NewWriter(ws io.WriteSeeker, sampleRate, channels int) *Writer {
	format := &goaudio.Format{SampleRate: sampleRate, NumChannels: channels}

	return &Writer{
		enc:      gowav.NewEncoder(ws, sampleRate, 16, channels, formatPCM),
		buf:      &goaudio.IntBuffer{Format: format, SourceBitDepth: 16},
		channels: channels,
	}
}

// WriteFrames appends interleaved float32 samples. Values outside [-1, 1]
// saturate. A trailing partial frame is dropped.
func (w *Writer) WriteFrames(samples []float32) error {
	if w.closed {
		return ErrWriterClosed
	}

	n := len(samples) - len(samples)%w.channels
	if n == 0 {
		return nil
	}

	if cap(w.buf.Data) < n {
		w.buf.Data = make([]int, n)
	}
	w.buf.Data = w.buf.Data[:n]

	for i, v := range samples[:n] {
		w.buf.Data[i] = int(utils.Float32ToInt16(v))
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("wav write: %w", err)
	}

	w.frames += n / w.channels

	return nil
}

// Frames is the number of frames written so far.
func (w *Writer) Frames() int { return w.frames }

// Close finalizes the header. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("wav close: %w", err)
	}

	return nil
}
