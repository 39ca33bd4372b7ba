// Package logging wires up the structured logger every git-shadow
// command and hook invocation uses. Output is a human-readable console
// encoder by default and JSON when --log-json is set; every
// engine invocation attaches a transaction id so its log lines can be
// correlated across pre-commit, post-commit, and post-merge.
package logging

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.Logger.
type Logger struct {
	*zap.Logger
}

// New builds a logger at the given level ("debug", "info", "warn",
// "error"). jsonOutput selects the production JSON encoder; otherwise a
// development console encoder is used.
func New(level string, jsonOutput bool) (*Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	var cfg zap.Config
	if jsonOutput {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{logger}, nil
}

// NewTransactionID mints a fresh per-invocation correlation id.
func NewTransactionID() string {
	return uuid.NewString()
}

// WithTransaction returns a child logger carrying the transaction id
// field.
func (l *Logger) WithTransaction(txID string) *zap.Logger {
	return l.With(zap.String("transaction_id", txID))
}
