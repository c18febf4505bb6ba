package browsertest

import (
	"time"
	"wiki-ui-suite/internal/config"
	"wiki-ui-suite/internal/entity"
)

// Config points the suite at the Wikipedia fixture with budgets short enough for unit
// tests.
func Config() *config.Config {
	return &config.Config{
		AppConfig: &config.AppConfig{LogLevel: "debug"},
		BrowserConfig: &config.BrowserConfig{
			Engine:       entity.EngineChrome,
			Headless:     true,
			Timeout:      5000,
			WindowWidth:  1200,
			WindowHeight: 800,
		},
		SettleConfig: &config.SettleConfig{
			SuggestionBudget: 300 * time.Millisecond,
			NavigationBudget: time.Second,
			ReadRetryBudget:  200 * time.Millisecond,
			PollInterval:     5 * time.Millisecond,
		},
		SuiteConfig: &config.SuiteConfig{CaseTimeout: 10 * time.Second, Seed: 1},
		SiteConfig:  &config.SiteConfig{HomeURL: HomeURL, MainPageURL: MainPageURL},
	}
}
