// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files into audio.Source using
// github.com/jfreymuth/oggvorbis.
//
// The decoder already produces interleaved float32, so reads go straight
// into the caller's buffer without conversion.
package vorbis
