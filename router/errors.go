// SPDX-License-Identifier: EPL-2.0

package router

import "errors"

var (
	ErrTableFull         = errors.New("mapping table full")
	ErrChannelOutOfRange = errors.New("channel out of range")
	ErrNoFreeChannel     = errors.New("no free channel")
	ErrInvalidConfig     = errors.New("invalid engine config")
)
