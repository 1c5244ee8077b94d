// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"fmt"
	"log"

	"github.com/ik5/audroute/audio"
	"github.com/ik5/audroute/formats/aiff"
)

// ExampleDecoder_Decode opens an AIFF file through the registry and
// downmixes it for a feed.
func ExampleDecoder_Decode() {
	registry := audio.NewRegistry()
	registry.Register("aiff", aiff.Decoder{})
	registry.Register("aif", aiff.Decoder{})

	src, err := registry.Open("take.aiff")
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	mono := audio.NewMonoMixer(src)
	fmt.Printf("Decoded AIFF: %d Hz, %d channel(s) after downmix\n",
		mono.SampleRate(), mono.Channels())
}
