// SPDX-License-Identifier: EPL-2.0

//go:build opus

package stream

import (
	"fmt"

	"github.com/ik5/audroute/utils"
	"gopkg.in/hraban/opus.v2"
)

const maxOpusPacketSize = 4000

type opusEncoder struct {
	enc *opus.Encoder
	pcm []int16
}

func newOpusEncoder(sampleRate, bitrate int) (Encoder, error) {
	enc, err := opus.NewEncoder(sampleRate, 1, opus.AppAudio)
	if err != nil {
		return nil, fmt.Errorf("create opus encoder: %w", err)
	}

	if bitrate > 0 {
		if err := enc.SetBitrate(bitrate); err != nil {
			return nil, fmt.Errorf("set opus bitrate %d: %w", bitrate, err)
		}
	}

	return &opusEncoder{
		enc: enc,
		pcm: make([]int16, PacketFrames(sampleRate)),
	}, nil
}

func (*opusEncoder) Codec() string { return CodecOpus }

func (e *opusEncoder) Encode(samples []float32) ([]byte, error) {
	if len(samples) > len(e.pcm) {
		e.pcm = make([]int16, len(samples))
	}
	n := utils.Float32sToInt16s(e.pcm, samples)

	data := make([]byte, maxOpusPacketSize)
	size, err := e.enc.Encode(e.pcm[:n], data)
	if err != nil {
		return nil, fmt.Errorf("opus encode: %w", err)
	}

	return data[:size], nil
}
