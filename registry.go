// SPDX-License-Identifier: EPL-2.0

package audroute

import (
	"github.com/ik5/audroute/audio"
	"github.com/ik5/audroute/formats/aiff"
	"github.com/ik5/audroute/formats/mp3"
	"github.com/ik5/audroute/formats/vorbis"
	"github.com/ik5/audroute/formats/wav"
)

// NewRegistry returns a registry with every bundled decoder, keyed by
// file extension.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})

	return reg
}
