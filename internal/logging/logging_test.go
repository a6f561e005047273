package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, toZapLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, toZapLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, toZapLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, toZapLevel("loud"))
}

func TestNewWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(WarnLevel, &buf)
	log.Infow("hidden")
	log.Warnw("arrivals fetch failed", "tenant", "acme")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "arrivals fetch failed")
	assert.Contains(t, out, "acme")
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "board.log")
	log, closeFn := New(InfoLevel, path)
	log.Infow("board started", "session", "s-1")
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "board started")
}
