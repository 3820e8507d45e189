package control

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log", "ring.log")
	logger, closeFn, err := NewLogger(LogConfig{
		Level:      "info",
		Format:     "json",
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
	})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("ring drained", zap.Int("items", 3))
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"ring drained"`)
	assert.Contains(t, string(data), `"items":3`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewLoggerRejectsLevel(t *testing.T) {
	_, _, err := NewLogger(LogConfig{Level: "verbose"})
	require.Error(t, err)
}
