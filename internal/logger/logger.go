// Package logger provides the process-wide debug log.
//
// The terminal belongs to the progress display, so log records go to a
// file and only when debug mode is on. Until InitLogging enables it every
// call is a no-op.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar = zap.NewNop().Sugar()
	base  = zap.NewNop()
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	// DebugEnabled reports whether InitLogging enabled the file sink.
	DebugEnabled = false
)

// InitLogging sets up logging based on configuration.
func InitLogging(debugMode bool, logPath string) error {
	DebugEnabled = debugMode
	if !debugMode || logPath == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{logPath}
	cfg.ErrorOutputPaths = []string{logPath}
	cfg.Level = level
	level.SetLevel(zapcore.DebugLevel)

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	mu.Lock()
	base = l
	sugar = l.Sugar()
	mu.Unlock()

	return nil
}

// SetLogger replaces the underlying logger.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
	sugar = l.Sugar()
}

// Level returns the current minimum enabled level.
func Level() zapcore.Level {
	return level.Level()
}

// Close flushes buffered records.
func Close() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Infof(format string, v ...any) {
	get().Infof(format, v...)
}

// Errorf logs an error message to the file if debug mode is enabled.
func Errorf(format string, v ...any) {
	get().Errorf(format, v...)
}

func Debugf(format string, v ...any) {
	get().Debugf(format, v...)
}

func Warnf(format string, v ...any) {
	get().Warnf(format, v...)
}
