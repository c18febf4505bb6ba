package config

import (
	"testing"
	"time"
	"wiki-ui-suite/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	conf, err := Load(entity.EngineFirefox)
	require.NoError(t, err)

	assert.Equal(t, entity.EngineFirefox, conf.BrowserConfig.Engine)
	assert.True(t, conf.BrowserConfig.Headless)
	assert.Equal(t, 30000, conf.BrowserConfig.Timeout)
	assert.Equal(t, 2*time.Second, conf.SettleConfig.SuggestionBudget)
	assert.Equal(t, 50*time.Millisecond, conf.SettleConfig.PollInterval)
	assert.Equal(t, "https://wikipedia.org", conf.SiteConfig.HomeURL)
	assert.Equal(t, "info", conf.AppConfig.LogLevel)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SETTLE_NAVIGATION_BUDGET", "3s")
	t.Setenv("SUITE_FILTER", "autosuggest")
	t.Setenv("BROWSER_HEADLESS", "false")

	conf, err := Load(entity.EngineChrome)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, conf.SettleConfig.NavigationBudget)
	assert.Equal(t, "autosuggest", conf.SuiteConfig.Filter)
	assert.False(t, conf.BrowserConfig.Headless)
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	_, err := Load(entity.Engine("opera"))
	assert.Error(t, err)
}
