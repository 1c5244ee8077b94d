// SPDX-License-Identifier: EPL-2.0

// Package stream sends the live mix to websocket listeners in 20 ms
// packets. Listeners that fall behind lose packets; the producer never
// waits for them.
package stream

import (
	"errors"
	"fmt"

	"github.com/ik5/audroute/utils"
)

const (
	CodecPCM16 = "pcm16"
	CodecOpus  = "opus"

	// PacketDuration is the length of one packet in milliseconds.
	PacketDuration = 20
)

var (
	ErrUnknownCodec     = errors.New("unknown codec")
	ErrCodecUnavailable = errors.New("codec support not enabled")
)

// Encoder turns one packet of mono float32 samples into a message body.
// The returned slice is owned by the caller.
type Encoder interface {
	Encode(samples []float32) ([]byte, error)
	Codec() string
}

// PacketFrames is the number of frames in one packet at sampleRate.
func PacketFrames(sampleRate int) int {
	return sampleRate * PacketDuration / 1000
}

// NewEncoder returns the encoder for codec. bitrate is ignored by pcm16
// and zero leaves the opus default.
func NewEncoder(codec string, sampleRate, bitrate int) (Encoder, error) {
	switch codec {
	case CodecPCM16, "":
		return PCM16{}, nil
	case CodecOpus:
		return newOpusEncoder(sampleRate, bitrate)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, codec)
}

// PCM16 encodes little-endian signed 16-bit samples.
type PCM16 struct{}

func (PCM16) Codec() string { return CodecPCM16 }

func (PCM16) Encode(samples []float32) ([]byte, error) {
	out := make([]byte, 2*len(samples))
	utils.PutInt16LE(out, samples)
	return out, nil
}
