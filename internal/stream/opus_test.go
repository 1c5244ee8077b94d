// SPDX-License-Identifier: EPL-2.0

//go:build opus

package stream

import (
	"math"
	"testing"
)

func TestOpusEncoder_Encode(t *testing.T) {
	t.Parallel()

	enc, err := NewEncoder(CodecOpus, 48000, 64000)
	if err != nil {
		t.Fatalf("NewEncoder(opus) error = %v", err)
	}

	packet := make([]float32, PacketFrames(48000))
	for i := range packet {
		packet[i] = float32(0.3 * math.Sin(2*math.Pi*440*float64(i)/48000))
	}

	data, err := enc.Encode(packet)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(data) == 0 || len(data) > maxOpusPacketSize {
		t.Errorf("encoded packet size = %d", len(data))
	}
}
