package app

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/promptkit/internal/config"
)

// NewLogger builds the application logger from the log settings.
// Production mode writes JSON, development mode writes console lines.
// An empty file logs to stderr.
func NewLogger(lc config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(lc.Level))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", lc.Level, err)
	}

	var cfg zap.Config
	switch strings.ToLower(lc.Mode) {
	case "prod", config.ModeProduction:
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	if lc.File != "" {
		cfg.OutputPaths = []string{lc.File}
		cfg.ErrorOutputPaths = []string{lc.File}
	}

	return cfg.Build()
}
