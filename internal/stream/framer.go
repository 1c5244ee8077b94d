// SPDX-License-Identifier: EPL-2.0

package stream

// Framer re-chunks a stream of arbitrary-length writes into fixed-size
// packets.
type Framer struct {
	buf  []float32
	fill int
}

func NewFramer(packetFrames int) *Framer {
	return &Framer{buf: make([]float32, packetFrames)}
}

// Write appends frames and calls emit for every completed packet. The
// packet passed to emit is reused after emit returns. Write stops at the
// first emit error and drops the rest of frames.
func (f *Framer) Write(frames []float32, emit func(packet []float32) error) error {
	for len(frames) > 0 {
		n := copy(f.buf[f.fill:], frames)
		f.fill += n
		frames = frames[n:]

		if f.fill < len(f.buf) {
			break
		}
		f.fill = 0

		if err := emit(f.buf); err != nil {
			return err
		}
	}

	return nil
}

// Pending is the number of frames waiting for a full packet.
func (f *Framer) Pending() int { return f.fill }

// Reset drops any partial packet.
func (f *Framer) Reset() { f.fill = 0 }
