package bootstrap

import (
	"fmt"
	"wiki-ui-suite/internal/config"
	"wiki-ui-suite/pkg/logg"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the suite logger. Logs go to stderr so they never mix with span
// output on stdout.
func newLogger(config *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config

	if config.AppConfig.Debug {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	zapConfig.DisableStacktrace = true
	zapConfig.OutputPaths = []string{"stderr"}

	level, err := zapcore.ParseLevel(config.AppConfig.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	zapConfig.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String(logg.Engine, string(config.BrowserConfig.Engine))), nil
}
