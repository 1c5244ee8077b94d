// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"errors"

	"github.com/ik5/audroute/formats/internal/intpcm"
)

var (
	// ErrNotAiffFile indicates the input is not a valid AIFF file
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedBitDepth indicates a depth other than 16, 24 or 32
	ErrUnsupportedBitDepth = intpcm.ErrUnsupportedBitDepth
)
