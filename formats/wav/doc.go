// SPDX-License-Identifier: EPL-2.0

// Package wav decodes WAV files into audio.Source and records float32
// frames to 16-bit PCM WAV. Both directions go through
// github.com/go-audio/wav.
//
// Decoding accepts integer PCM at 16, 24 or 32 bits, any channel count
// and any sample rate:
//
//	f, _ := os.Open("voice.wav")
//	src, err := wav.Decoder{}.Decode(f)
//
// The Writer is the recorder sink for the output clock. It needs an
// io.WriteSeeker because the RIFF sizes are patched on Close:
//
//	w := wav.NewWriter(f, 48000, 1)
//	err := w.WriteFrames(mix)
//	err = w.Close()
package wav
