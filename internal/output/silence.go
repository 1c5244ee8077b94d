// SPDX-License-Identifier: EPL-2.0

package output

import (
	"errors"
	"time"

	"github.com/ik5/audroute/router"
)

var ErrSilence = errors.New("silence limit reached")

// SilenceStop forwards frames to a sink until the signal has stayed below
// a threshold for a set time, then fails with ErrSilence so the clock
// detaches it. Quiet time is counted in frames, one write at a time.
type SilenceStop struct {
	sink        FrameSink
	thresholdDB float32
	limit       int
	quiet       int
	stopped     bool
}

func NewSilenceStop(sink FrameSink, thresholdDB float64, after time.Duration, sampleRate int) *SilenceStop {
	return &SilenceStop{
		sink:        sink,
		thresholdDB: float32(thresholdDB),
		limit:       max(1, int(after.Seconds()*float64(sampleRate))),
	}
}

// Quiet is the length of the current run of silence in frames.
func (s *SilenceStop) Quiet() int { return s.quiet }

func (s *SilenceStop) WriteFrames(frames []float32) error {
	if s.stopped {
		return ErrSilence
	}

	if err := s.sink.WriteFrames(frames); err != nil {
		return err
	}

	_, rms := router.Measure(frames)
	if router.ToDB(rms) >= s.thresholdDB {
		s.quiet = 0
		return nil
	}

	s.quiet += len(frames)
	if s.quiet >= s.limit {
		s.stopped = true
		return ErrSilence
	}

	return nil
}
