// Package logger configures the process-wide structured logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a sugared logger. Verbose enables debug output with caller
// annotations; otherwise a console logger at info level is returned.
func New(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true

	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		cfg.DisableCaller = true
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}

// Nop returns a logger that discards everything, for tests
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
