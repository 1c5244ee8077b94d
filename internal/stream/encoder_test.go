// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestPacketFrames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate int
		want int
	}{
		{48000, 960},
		{44100, 882},
		{16000, 320},
		{8000, 160},
	}

	for _, tt := range tests {
		if got := PacketFrames(tt.rate); got != tt.want {
			t.Errorf("PacketFrames(%d) = %d, want %d", tt.rate, got, tt.want)
		}
	}
}

func TestPCM16_Encode(t *testing.T) {
	t.Parallel()

	data, err := PCM16{}.Encode([]float32{0, 1, -1, 2, 0.5})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(data) != 10 {
		t.Fatalf("len(data) = %d, want 10", len(data))
	}

	want := []int16{0, 32767, -32767, 32767, 16383}
	for i, w := range want {
		if got := int16(binary.LittleEndian.Uint16(data[2*i:])); got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestNewEncoder(t *testing.T) {
	t.Parallel()

	enc, err := NewEncoder(CodecPCM16, 48000, 0)
	if err != nil {
		t.Fatalf("NewEncoder(pcm16) error = %v", err)
	}
	if enc.Codec() != CodecPCM16 {
		t.Errorf("Codec() = %q, want %q", enc.Codec(), CodecPCM16)
	}

	if _, err := NewEncoder("flac", 48000, 0); !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("NewEncoder(flac) error = %v, want ErrUnknownCodec", err)
	}
}
