// Package log wraps zap with the settings every component of the viewer shares.
package log

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a sugared zap logger tagged with the viewer session.
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds a Logger. Development mode uses the console encoder; debug lowers the level to Debug.
//
// Parameters:
//   - development: use zap's development configuration
//   - debug: enable debug-level output
//
// Returns:
//   - *Logger: the logger, tagged with a fresh session id
//   - error: error if zap fails to build
func NewLogger(development, debug bool) (*Logger, error) {
	var config zap.Config
	if development {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{logger.Sugar().With("session", uuid.NewString())}, nil
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

// Named returns a child logger with name appended to the logger name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{l.SugaredLogger.Named(name)}
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.SugaredLogger.With(args...)}
}
