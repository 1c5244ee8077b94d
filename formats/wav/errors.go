// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"

	"github.com/ik5/audroute/formats/internal/intpcm"
)

var (
	ErrNotWavFile = errors.New("not a WAV file")
	ErrNotPCM     = errors.New("only integer PCM WAV is supported")

	// ErrUnsupportedBitDepth is returned for depths other than 16, 24 and 32.
	ErrUnsupportedBitDepth = intpcm.ErrUnsupportedBitDepth

	ErrWriterClosed = errors.New("wav writer closed")
)
