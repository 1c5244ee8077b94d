// SPDX-License-Identifier: EPL-2.0

// Package config loads the daemon's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ik5/audroute/internal/stream"
	"github.com/ik5/audroute/router"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSocket = "/tmp/audroute.sock"
	CodecPCM16    = stream.CodecPCM16
	CodecOpus     = stream.CodecOpus

	DefaultSilenceDB = -60
)

type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Control ControlConfig `yaml:"control"`
	HTTP    HTTPConfig    `yaml:"http"`
	Stream  StreamConfig  `yaml:"stream"`
	Output  OutputConfig  `yaml:"output"`
	Feeds   []FeedConfig  `yaml:"feeds"`
	Logging LoggingConfig `yaml:"logging"`
}

type EngineConfig struct {
	Channels          int  `yaml:"channels"`
	MaxMappings       int  `yaml:"max_mappings"`
	BufferFrames      int  `yaml:"buffer_frames"`
	SampleRate        int  `yaml:"sample_rate"`
	ClearOnUnregister bool `yaml:"clear_on_unregister"`
	ReclaimInactive   bool `yaml:"reclaim_inactive"` // let new pids take unregistered slots of a full table
}

type ControlConfig struct {
	Socket string `yaml:"socket"` // empty disables the unix socket
}

type HTTPConfig struct {
	Listen string `yaml:"listen"` // host:port for /control and /listen, empty disables
}

type StreamConfig struct {
	Codec   string `yaml:"codec"`   // pcm16, opus
	Bitrate int    `yaml:"bitrate"` // opus only, bits per second
}

type OutputConfig struct {
	Device bool   `yaml:"device"` // play through the default audio device
	Record string `yaml:"record"` // WAV path for the mix, empty disables

	// StopOnSilence ends the recording once the mix stays below
	// SilenceDB for this long. Zero records until shutdown.
	StopOnSilence time.Duration `yaml:"stop_on_silence"`
	SilenceDB     float64       `yaml:"silence_db"`
}

type FeedConfig struct {
	Path    string `yaml:"path"`
	PID     int    `yaml:"pid"`
	Channel int    `yaml:"channel"`
	Loop    bool   `yaml:"loop"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// Default is the configuration used for every key the YAML leaves out.
func Default() Config {
	rc := router.DefaultConfig()

	return Config{
		Engine: EngineConfig{
			Channels:          rc.Channels,
			MaxMappings:       rc.MaxMappings,
			BufferFrames:      rc.BufferFrames,
			SampleRate:        rc.SampleRate,
			ClearOnUnregister: true,
		},
		Control: ControlConfig{Socket: DefaultSocket},
		Stream:  StreamConfig{Codec: CodecPCM16, Bitrate: 64000},
		Output:  OutputConfig{SilenceDB: DefaultSilenceDB},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Router converts the engine section to the core's config.
func (e EngineConfig) Router() router.Config {
	return router.Config{
		Channels:     e.Channels,
		MaxMappings:  e.MaxMappings,
		BufferFrames: e.BufferFrames,
		SampleRate:   e.SampleRate,
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
