// SPDX-License-Identifier: EPL-2.0

// Package audio provides the source abstractions that feed the router.
//
// A Source is a pull-based stream of interleaved float32 samples in
// [-1.0, 1.0]. Decoders in the formats packages produce Sources, and the
// Registry picks a decoder by format key or file extension:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	src, err := registry.Open("voice.wav")
//
// The router core carries one mono channel per process, so multi-channel
// sources go through a MonoMixer first:
//
//	mono := audio.NewMonoMixer(src)
//	buf := make([]float32, 1024)
//	n, err := mono.ReadSamples(buf)
//
// ReadSamples returns io.EOF once the stream is finished. Callers should
// consume the n samples returned alongside io.EOF before stopping.
//
// There is no sample-rate conversion here. A source whose rate differs
// from the engine's is rejected by the feeder.
package audio
