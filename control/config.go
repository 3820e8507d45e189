// File: control/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// TOML configuration for the ring worker. File values are layered over
// DefaultConfig, so a config file only needs the keys it changes.

package control

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"
)

// CurrentConfigVersion is the config schema version this build understands.
const CurrentConfigVersion = 1

var (
	// ErrConfigVersionMismatch is returned when the file declares another schema version.
	ErrConfigVersionMismatch = errors.New("config version mismatch")
	// ErrInvalidConfig is returned by Validate.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config is the full worker configuration.
type Config struct {
	Version  int            `koanf:"version"`
	Ring     RingConfig     `koanf:"ring"`
	Loop     LoopConfig     `koanf:"loop"`
	Producer ProducerConfig `koanf:"producer"`
	Log      LogConfig      `koanf:"log"`
}

// RingConfig sizes the ring and picks its overflow policy.
type RingConfig struct {
	Capacity int    `koanf:"capacity"` // Ring slots, must be > 0
	Overflow string `koanf:"overflow"` // "reject" or "spill"
}

// LoopConfig tunes the draining event loop.
type LoopConfig struct {
	BatchSize    int `koanf:"batch_size"`     // Items drained per iteration
	MaxBackoffMs int `koanf:"max_backoff_ms"` // Idle sleep cap in milliseconds
}

// ProducerConfig drives the synthetic producers of the worker.
type ProducerConfig struct {
	Count      int `koanf:"count"`       // Number of producer goroutines
	Items      int `koanf:"items"`       // Items per producer, 0 runs until interrupted
	IntervalMs int `koanf:"interval_ms"` // Delay between items in milliseconds
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Ring: RingConfig{
			Capacity: 1000,
			Overflow: "reject",
		},
		Loop: LoopConfig{
			BatchSize:    16,
			MaxBackoffMs: 1,
		},
		Producer: ProducerConfig{
			Count:      1,
			Items:      100,
			IntervalMs: 10,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
	}
}

// LoadConfig reads the TOML file at path over DefaultConfig. An empty path
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		if err := k.Unmarshal("", cfg); err != nil {
			return nil, fmt.Errorf("error unmarshaling config: %w", err)
		}
		if cfg.Version != CurrentConfigVersion {
			return nil, fmt.Errorf("%w: %s (got: %d, expected: %d)",
				ErrConfigVersionMismatch, path, cfg.Version, CurrentConfigVersion)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string
	if c.Ring.Capacity <= 0 {
		problems = append(problems, fmt.Sprintf("ring.capacity must be positive, got %d", c.Ring.Capacity))
	}
	switch strings.ToLower(c.Ring.Overflow) {
	case "", "reject", "spill":
	default:
		problems = append(problems, fmt.Sprintf("ring.overflow must be reject or spill, got %q", c.Ring.Overflow))
	}
	if c.Loop.BatchSize <= 0 {
		problems = append(problems, fmt.Sprintf("loop.batch_size must be positive, got %d", c.Loop.BatchSize))
	}
	if c.Loop.MaxBackoffMs < 0 {
		problems = append(problems, "loop.max_backoff_ms must not be negative")
	}
	if c.Producer.Count < 0 || c.Producer.Items < 0 || c.Producer.IntervalMs < 0 {
		problems = append(problems, "producer values must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level: %v", err))
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format must be console or json, got %q", c.Log.Format))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
