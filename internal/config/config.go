package config

import (
	"fmt"
	"time"
	"wiki-ui-suite/internal/entity"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppConfig     *AppConfig
	BrowserConfig *BrowserConfig
	SettleConfig  *SettleConfig
	SuiteConfig   *SuiteConfig
	SiteConfig    *SiteConfig
}

type AppConfig struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
	Trace    bool   `envconfig:"APP_TRACE" default:"false"`
}

type BrowserConfig struct {
	// Engine comes from the command line, never from the environment.
	Engine       entity.Engine `ignored:"true"`
	Headless     bool          `envconfig:"BROWSER_HEADLESS" default:"true"`
	SlowMo       int           `envconfig:"BROWSER_SLOW_MO" default:"0"`
	Timeout      int           `envconfig:"BROWSER_TIMEOUT" default:"30000"`
	Install      bool          `envconfig:"BROWSER_INSTALL" default:"false"`
	WebDriverURL string        `envconfig:"BROWSER_WEBDRIVER_URL"`
	WindowWidth  int           `envconfig:"BROWSER_WINDOW_WIDTH" default:"1200"`
	WindowHeight int           `envconfig:"BROWSER_WINDOW_HEIGHT" default:"800"`
}

type SettleConfig struct {
	SuggestionBudget time.Duration `envconfig:"SETTLE_SUGGESTION_BUDGET" default:"2s"`
	NavigationBudget time.Duration `envconfig:"SETTLE_NAVIGATION_BUDGET" default:"15s"`
	ReadRetryBudget  time.Duration `envconfig:"SETTLE_READ_RETRY_BUDGET" default:"1s"`
	PollInterval     time.Duration `envconfig:"SETTLE_POLL_INTERVAL" default:"50ms"`
}

type SuiteConfig struct {
	CaseTimeout time.Duration `envconfig:"SUITE_CASE_TIMEOUT" default:"2m"`
	Filter      string        `envconfig:"SUITE_FILTER"`
	Seed        int64         `envconfig:"SUITE_SEED" default:"0"`
}

type SiteConfig struct {
	HomeURL     string `envconfig:"SITE_HOME_URL" default:"https://wikipedia.org"`
	MainPageURL string `envconfig:"SITE_MAIN_PAGE_URL" default:"https://en.wikipedia.org/wiki/Main_Page"`
}

// Load reads the environment (and an optional .env file) and binds the engine chosen
// on the command line.
func Load(engine entity.Engine) (*Config, error) {
	_ = godotenv.Load()

	var conf Config

	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("read config from env vars: %w", err)
	}

	if _, ok := entity.ParseEngine(string(engine)); !ok {
		return nil, fmt.Errorf("unsupported browser engine %q", engine)
	}

	conf.BrowserConfig.Engine = engine

	return &conf, nil
}
