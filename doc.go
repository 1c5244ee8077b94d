// SPDX-License-Identifier: EPL-2.0

// Package audroute is the top of the audio routing stack: a virtual
// multi-channel device where each producer process is routed to one
// channel and every channel is summed into a single output stream.
//
// The engine itself lives in the router package. This package adds the
// Feeder, which plays a decoded file into the engine under a process id,
// standing in for a real producer process:
//
//	eng, _ := router.New(router.DefaultConfig())
//	_ = eng.Register(4242, 3)
//
//	src, _ := audroute.NewRegistry().Open("voice.wav")
//	feed, err := audroute.NewFeeder(eng, 4242, src)
//	if err != nil {
//	    // ErrSampleRateMismatch: the engine never resamples
//	}
//	go feed.Run(ctx, eng.Config().CyclePeriod())
//
// Output is pulled with Engine.Produce, either by the device callback or
// by the cycle clock in internal/output.
//
// # Format Decoders
//
// Each format has its own decoder, all returning audio.Source:
//   - WAV (integer PCM 16/24/32-bit) via formats/wav
//   - AIFF (integer PCM 16/24/32-bit) via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//
// The daemon in cmd/audroute wires the engine, the control socket, the
// websocket surfaces and the configured feeds from one YAML file.
package audroute
