// SPDX-License-Identifier: EPL-2.0

package audroute

import "errors"

var (
	// ErrSampleRateMismatch is returned when a source does not run at the
	// engine's rate. The engine mixes raw samples and never resamples.
	ErrSampleRateMismatch = errors.New("source sample rate differs from engine")

	// ErrEmptySource is returned when a looping feed reopens to a source
	// with no samples.
	ErrEmptySource = errors.New("looping source produced no samples")
)
