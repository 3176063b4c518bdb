// Package logx holds the process-wide structured logger.
package logx

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu sync.RWMutex
	lg *zap.SugaredLogger
)

// Init builds the JSON logger at the given level. An empty level falls back to LOG_LEVEL.
func Init(level string) {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	z, err := cfg.Build()
	if err != nil {
		z = zap.NewNop()
	}

	mu.Lock()
	lg = z.Sugar()
	mu.Unlock()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

// L returns the shared logger, building a default one on first use
func L() *zap.SugaredLogger {
	mu.RLock()
	l := lg
	mu.RUnlock()
	if l == nil {
		Init("")
		mu.RLock()
		l = lg
		mu.RUnlock()
	}
	return l
}

// Set replaces the shared logger, e.g. with zap.NewNop() in tests
func Set(l *zap.SugaredLogger) {
	mu.Lock()
	lg = l
	mu.Unlock()
}

func Sync() { _ = L().Sync() }
