// Package logging holds the logger factory shared by the module's packages.
package logging

import (
	"github.com/pion/logging"
)

var loggerFactory logging.LoggerFactory = logging.NewDefaultLoggerFactory()

// NewLogger returns a leveled logger for scope. Levels are controlled with the
// PION_LOG_* environment variables.
func NewLogger(scope string) logging.LeveledLogger {
	return loggerFactory.NewLogger(scope)
}

// Factory returns the shared factory, used when callers don't supply one.
func Factory() logging.LoggerFactory {
	return loggerFactory
}
