package bootstrap

import (
	"testing"
	"wiki-ui-suite/internal/config"
	"wiki-ui-suite/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(level string) *config.Config {
	return &config.Config{
		AppConfig:     &config.AppConfig{LogLevel: level},
		BrowserConfig: &config.BrowserConfig{Engine: entity.EngineSafari},
	}
}

func TestNewLoggerLevels(t *testing.T) {
	logger, err := newLogger(testConfig("warn"))
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := newLogger(testConfig("verbose"))
	assert.Error(t, err)
}

func TestInstallTracingDisabled(t *testing.T) {
	conf := testConfig("info")
	conf.AppConfig.Trace = false

	assert.NoError(t, installTracing(nil, conf, zap.NewNop()))
}
