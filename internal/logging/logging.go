// Package logging builds the board's zap logger. The terminal belongs to the
// board UI, so log output goes to a state file instead of stdout.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log levels accepted by New.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Logger wraps zap's SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

const defaultLevel = zapcore.InfoLevel

func toZapLevel(level string) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return defaultLevel
	}
}

// DefaultPath returns ~/.local/state/signboard/signboard.log, or "" when the
// home directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "signboard", "signboard.log")
}

// New opens path for appending and returns a logger writing to it plus a
// close func. Any failure to open the file falls back to stderr.
func New(level, path string) (*Logger, func()) {
	w, closeFn := openSink(path)
	return newLogger(level, w), closeFn
}

// NewWriter returns a logger writing to w. Used by tests and the mock server.
func NewWriter(level string, w io.Writer) *Logger {
	return newLogger(level, zapcore.AddSync(w))
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func openSink(path string) (zapcore.WriteSyncer, func()) {
	stderr := zapcore.Lock(os.Stderr)
	if path == "" {
		return stderr, func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return stderr, func() {}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return stderr, func() {}
	}
	return zapcore.Lock(f), func() {
		_ = f.Sync()
		_ = f.Close()
	}
}

func newLogger(level string, ws zapcore.WriteSyncer) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), ws, zap.NewAtomicLevelAt(toZapLevel(level)))
	return &Logger{SugaredLogger: zap.New(core).Sugar()}
}
