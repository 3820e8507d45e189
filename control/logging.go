// File: control/logging.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// zap logger construction. Writes to stderr, or to a lumberjack-rotated file
// when LogConfig.File is set.

package control

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig contains logging configuration.
type LogConfig struct {
	Level      string `koanf:"level"`        // debug, info, warn, error
	Format     string `koanf:"format"`       // console or json
	File       string `koanf:"file"`         // Empty logs to stderr
	Console    bool   `koanf:"console"`      // Mirror file output to stderr
	MaxSizeMB  int    `koanf:"max_size_mb"`  // Size before rotation
	MaxBackups int    `koanf:"max_backups"`  // Rotated files to keep
	MaxAgeDays int    `koanf:"max_age_days"` // Rotated file max age
	Compress   bool   `koanf:"compress"`     // gzip rotated files
}

// NewLogger builds a logger from cfg. The returned close function flushes
// the logger and releases the log file, if any.
func NewLogger(cfg LogConfig) (*zap.Logger, func() error, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	var (
		ws     zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
		closer                     = func() error { return nil }
	)
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
			Compress:   cfg.Compress,
		}
		ws = zapcore.AddSync(rotator)
		if cfg.Console {
			ws = zapcore.NewMultiWriteSyncer(zapcore.Lock(os.Stderr), ws)
		}
		closer = rotator.Close
	}

	logger := zap.New(zapcore.NewCore(enc, ws, zap.NewAtomicLevelAt(level)), zap.AddCaller())
	return logger, func() error {
		_ = logger.Sync()
		return closer()
	}, nil
}
