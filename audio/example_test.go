// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"
	"io"

	"github.com/ik5/audroute/audio"
	"github.com/ik5/audroute/internal/audiotest"
)

// Example_monoMixer converts a stereo source to mono.
func Example_monoMixer() {
	source := audiotest.NewSineSource(16000, 2, 16000, 440.0)
	mono := audio.NewMonoMixer(source)

	fmt.Printf("Input channels: %d\n", source.Channels())
	fmt.Printf("Output channels: %d\n", mono.Channels())
	fmt.Printf("Sample rate: %d Hz\n", mono.SampleRate())

	buf := make([]float32, 100)
	n, _ := mono.ReadSamples(buf)

	fmt.Printf("Read %d mono samples\n", n)
	// Output:
	// Input channels: 2
	// Output channels: 1
	// Sample rate: 16000 Hz
	// Read 100 mono samples
}

// Example_multiChannel averages a 5.1 source down to one channel.
func Example_multiChannel() {
	source := audiotest.NewConstantSource(48000, 6, 48000, 0.5)
	mono := audio.NewMonoMixer(source)

	buf := make([]float32, 1)
	n, _ := mono.ReadSamples(buf)
	if n > 0 {
		fmt.Printf("Output sample value: %.1f\n", buf[0])
	}
	// Output:
	// Output sample value: 0.5
}

type toneDecoder struct{}

func (toneDecoder) Decode(io.Reader) (audio.Source, error) {
	return audiotest.NewSineSource(48000, 1, 1000, 440.0), nil
}

// Example_registry looks up decoders by key and by path.
func Example_registry() {
	registry := audio.NewRegistry()
	registry.Register("tone", toneDecoder{})

	decoder, ok := registry.Get("TONE")
	fmt.Printf("Retrieved decoder: %T %v\n", decoder, ok)

	_, err := registry.ForPath("/tmp/clip.flac")
	fmt.Println(err)
	// Output:
	// Retrieved decoder: audio_test.toneDecoder true
	// no decoder for format: "flac"
}

// Example_readLoop drains a source, consuming the samples returned with io.EOF.
func Example_readLoop() {
	source := audiotest.NewSineSource(16000, 1, 1000, 440.0)

	buf := make([]float32, 4096)
	total := 0

	for {
		n, err := source.ReadSamples(buf)
		total += n

		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Printf("Error reading samples: %v\n", err)
			return
		}
	}

	fmt.Printf("Processed %d samples\n", total)
	// Output:
	// Processed 1000 samples
}
