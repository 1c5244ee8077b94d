// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
)

var ErrInvalid = errors.New("invalid config")

var opusRates = map[int]bool{8000: true, 12000: true, 16000: true, 24000: true, 48000: true}

// Validate checks cross-field constraints the YAML types cannot express.
func Validate(cfg *Config) error {
	if err := cfg.Engine.Router().Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	switch cfg.Stream.Codec {
	case CodecPCM16, CodecOpus:
	case "":
		cfg.Stream.Codec = CodecPCM16
	default:
		return fmt.Errorf("%w: stream.codec %q, want pcm16 or opus", ErrInvalid, cfg.Stream.Codec)
	}

	if cfg.Stream.Codec == CodecOpus && !opusRates[cfg.Engine.SampleRate] {
		return fmt.Errorf("%w: opus cannot encode %d Hz", ErrInvalid, cfg.Engine.SampleRate)
	}

	if cfg.Output.StopOnSilence < 0 {
		return fmt.Errorf("%w: output.stop_on_silence %v is negative", ErrInvalid, cfg.Output.StopOnSilence)
	}
	if cfg.Output.SilenceDB >= 0 {
		return fmt.Errorf("%w: output.silence_db %v must be below 0 dBFS", ErrInvalid, cfg.Output.SilenceDB)
	}

	if _, err := parseLevel(cfg.Logging.Level); err != nil {
		return err
	}

	seen := make(map[int]bool, len(cfg.Feeds))
	for i, f := range cfg.Feeds {
		if f.Path == "" {
			return fmt.Errorf("%w: feeds[%d].path is required", ErrInvalid, i)
		}
		if f.PID <= 0 {
			return fmt.Errorf("%w: feeds[%d].pid must be > 0", ErrInvalid, i)
		}
		if seen[f.PID] {
			return fmt.Errorf("%w: feeds[%d].pid %d used twice", ErrInvalid, i, f.PID)
		}
		seen[f.PID] = true

		if f.Channel < 0 || f.Channel >= cfg.Engine.Channels {
			return fmt.Errorf("%w: feeds[%d].channel %d not in [0, %d)", ErrInvalid, i, f.Channel, cfg.Engine.Channels)
		}
	}

	if len(cfg.Feeds) > cfg.Engine.MaxMappings {
		return fmt.Errorf("%w: %d feeds exceed engine.max_mappings %d", ErrInvalid, len(cfg.Feeds), cfg.Engine.MaxMappings)
	}

	return nil
}
