// SPDX-License-Identifier: GPL-2.0-or-later

// Package conlog is the console output of the server. Messages keep the
// printf style of the console but are emitted through a structured logger.
package conlog

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = newDefault()
)

func newDefault() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// SetLogger replaces the backend. A nil logger silences all output.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	logger = l.Sugar()
	mu.Unlock()
}

// Logger returns the current backend, for components that want fields.
func Logger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Sync() error {
	return Logger().Sync()
}

func line(format string, v ...interface{}) string {
	return strings.TrimRight(fmt.Sprintf(format, v...), "\n")
}

// Printf is regular console output.
func Printf(format string, v ...interface{}) {
	Logger().Info(line(format, v...))
}

// SafePrintf is console output that must not trigger a screen update.
func SafePrintf(format string, v ...interface{}) {
	Printf(format, v...)
}

// DPrintf only shows up with developer logging enabled.
func DPrintf(format string, v ...interface{}) {
	Logger().Debug(line(format, v...))
}

func WPrintf(format string, v ...interface{}) {
	Logger().Warn(line(format, v...))
}

func EPrintf(format string, v ...interface{}) {
	Logger().Error(line(format, v...))
}
