// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files into audio.Source using
// github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit stereo, so the Source reports two
// channels even for mono files. Feeds wrap it in audio.MonoMixer:
//
//	src, err := mp3.Decoder{}.Decode(f)
//	mono := audio.NewMonoMixer(src)
package mp3
