// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts go-audio integer PCM decoders to audio.Source.
package intpcm

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

var ErrUnsupportedBitDepth = errors.New("unsupported PCM bit depth")

// Reader is the part of the go-audio wav and aiff decoders the source uses.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source converts integer PCM to float32 in [-1, 1).
type Source struct {
	dec      Reader
	format   *goaudio.Format
	bitDepth int
	scale    float32
	buf      *goaudio.IntBuffer
	done     bool
}

// Supported reports whether bitDepth can be decoded. 8-bit is left out
// because WAV stores it unsigned and AIFF signed.
func Supported(bitDepth int) bool {
	switch bitDepth {
	case 16, 24, 32:
		return true
	}

	return false
}

func New(dec Reader, format *goaudio.Format, bitDepth int) (*Source, error) {
	if format == nil || format.NumChannels < 1 || format.SampleRate < 1 {
		return nil, fmt.Errorf("invalid PCM format: %+v", format)
	}
	if !Supported(bitDepth) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	return &Source{
		dec:      dec,
		format:   format,
		bitDepth: bitDepth,
		scale:    1 / float32(int64(1)<<(bitDepth-1)),
	}, nil
}

func (s *Source) SampleRate() int { return s.format.SampleRate }
func (s *Source) Channels() int   { return s.format.NumChannels }
func (s *Source) Close() error    { return nil }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.done {
		return 0, io.EOF
	}

	if s.buf == nil || cap(s.buf.Data) < len(dst) {
		s.buf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.format,
			SourceBitDepth: s.bitDepth,
		}
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v) * s.scale
	}

	switch {
	case err == io.EOF:
		s.done = true
	case err != nil:
		return n, fmt.Errorf("read pcm: %w", err)
	case n < len(dst):
		// go-audio signals the end of the data chunk with a short read.
		s.done = true
		err = io.EOF
	}

	if n == 0 && s.done {
		return 0, io.EOF
	}

	return n, err
}
