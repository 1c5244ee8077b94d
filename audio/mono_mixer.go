// SPDX-License-Identifier: EPL-2.0

package audio

// MonoMixer downmixes a Source to one channel by averaging each frame.
// Mono sources pass through untouched.
type MonoMixer struct {
	src Source
	tmp []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{src: src}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }

func (m *MonoMixer) Close() error { return m.src.Close() }

// ReadSamples fills dst with mono frames and returns how many it wrote.
func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels == 1 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}

	n, err := m.src.ReadSamples(m.tmp[:need])
	frames := n / channels
	downmix(dst[:frames], m.tmp[:frames*channels], channels)

	return frames, err
}

// downmix averages interleaved frames of src into dst.
func downmix(dst, src []float32, channels int) {
	switch channels {
	case 2:
		for f := range dst {
			dst[f] = (src[2*f] + src[2*f+1]) * 0.5
		}
	default:
		inv := 1 / float32(channels)
		for f := range dst {
			var sum float32
			for _, v := range src[f*channels : (f+1)*channels] {
				sum += v
			}
			dst[f] = sum * inv
		}
	}
}
