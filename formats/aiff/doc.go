// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files into audio.Source using
// github.com/go-audio/aiff.
//
// Big-endian integer PCM at 16, 24 or 32 bits is supported. Samples come
// out as float32 in [-1.0, 1.0), the same as every other decoder, so an
// AIFF feed and a WAV feed can share one engine.
//
//	f, _ := os.Open("take.aiff")
//	src, err := aiff.Decoder{}.Decode(f)
package aiff
