// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package loggertest provides a logger that records entries for assertions.
package loggertest

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/dlibra-harvest/internal/logger"
)

// New returns a Logger that records every entry at debug level and above,
// together with the recorded entries.
func New() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.FromZap(zap.New(core)), logs
}
