// SPDX-License-Identifier: EPL-2.0

package router

import (
	"fmt"
	"time"
)

// Defaults of the single fixed virtual device.
const (
	DefaultChannels     = 16
	DefaultMaxMappings  = 64
	DefaultBufferFrames = 1024
	DefaultSampleRate   = 48000
)

// Config holds the fixed dimensions of an Engine. They never change after
// construction.
type Config struct {
	// Channels is the number of channel buffers in the bank.
	Channels int
	// MaxMappings bounds the routing table.
	MaxMappings int
	// BufferFrames is the length of every channel buffer and the largest
	// frame count Deposit and Produce will honour.
	BufferFrames int
	// SampleRate is informational; the engine does no timing or resampling.
	SampleRate int
}

func DefaultConfig() Config {
	return Config{
		Channels:     DefaultChannels,
		MaxMappings:  DefaultMaxMappings,
		BufferFrames: DefaultBufferFrames,
		SampleRate:   DefaultSampleRate,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Channels <= 0:
		return fmt.Errorf("%w: channels must be positive, got %d", ErrInvalidConfig, c.Channels)
	case c.MaxMappings <= 0:
		return fmt.Errorf("%w: max mappings must be positive, got %d", ErrInvalidConfig, c.MaxMappings)
	case c.BufferFrames <= 0:
		return fmt.Errorf("%w: buffer frames must be positive, got %d", ErrInvalidConfig, c.BufferFrames)
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfig, c.SampleRate)
	}

	return nil
}

// CyclePeriod is the wall-clock duration of one BufferFrames cycle at
// SampleRate.
func (c Config) CyclePeriod() time.Duration {
	return time.Duration(c.BufferFrames) * time.Second / time.Duration(c.SampleRate)
}
