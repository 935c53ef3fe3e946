// File: internal/observability/logger_test.go
package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/onboardkit/onboardkit/pkg/config"
)

// syncBuffer adapts bytes.Buffer to zapcore.WriteSyncer.
type syncBuffer struct {
	bytes.Buffer
}

func (b *syncBuffer) Sync() error { return nil }

func TestNewLoggerJSONFormat(t *testing.T) {
	buf := &syncBuffer{}
	logger, err := newLogger(config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "onboardkit-test",
	}, zapcore.Lock(buf))
	require.NoError(t, err)

	logger.Info("hello")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, `"msg":"hello"`)
	assert.Contains(t, out, "onboardkit-test")
	assert.Contains(t, out, `"level":"INFO"`)
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	buf := &syncBuffer{}
	logger, err := newLogger(config.LoggerConfig{
		Level:  "warn",
		Format: "json",
	}, zapcore.Lock(buf))
	require.NoError(t, err)

	logger.Debug("too quiet")
	logger.Info("still too quiet")
	logger.Warn("audible")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "too quiet")
	assert.Contains(t, out, "audible")
}

func TestNewLoggerBadLevelFallsBackToInfo(t *testing.T) {
	buf := &syncBuffer{}
	logger, err := newLogger(config.LoggerConfig{
		Level:  "shouting",
		Format: "json",
	}, zapcore.Lock(buf))
	require.NoError(t, err)

	logger.Debug("dropped")
	logger.Info("kept")
	require.NoError(t, logger.Sync())

	lines := strings.TrimSpace(buf.String())
	assert.NotContains(t, lines, "dropped")
	assert.Contains(t, lines, "kept")
}

func TestSyncToleratesNil(t *testing.T) {
	// Must not panic.
	Sync(nil)
}
