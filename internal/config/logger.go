package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger from the global config section.
func NewLogger(g Global) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if g.Logger.Level != "" {
		parsed, err := zapcore.ParseLevel(g.Logger.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
