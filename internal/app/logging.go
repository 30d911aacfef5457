package app

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig configures logging wiring.
type LoggingConfig struct {
	Logger *zap.Logger
	// Level, when set, overrides the level of a logger built here.
	Level string
	// Development selects the console encoder.
	Development bool
}

// NewLogger returns cfg.Logger, or builds one that writes to stderr so stdout
// stays free for bridge output.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	if cfg.Logger != nil {
		return cfg.Logger.Named("app"), nil
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Named("app"), nil
}

// ParseLevel maps a --log-level value to a zap level; empty means info.
func ParseLevel(value string) (zapcore.Level, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(value))); err != nil {
		return zapcore.InfoLevel, err
	}
	return level, nil
}
