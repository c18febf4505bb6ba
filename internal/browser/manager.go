package browser

import (
	"context"
	"fmt"
	"sync"
	"wiki-ui-suite/internal/config"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/internal/ports"
	"wiki-ui-suite/pkg/apperr"
	"wiki-ui-suite/pkg/logg"
	"wiki-ui-suite/pkg/tracing"

	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	browserManagerName = "BrowserManager"
	browserTracer      = "browser.manager"
)

// Manager owns one playwright browser process and hands out an isolated context and
// page per test case.
type Manager struct {
	config     *config.Config
	logger     *zap.Logger
	tracer     trace.Tracer
	mu         sync.Mutex
	playwright *playwright.Playwright
	browser    playwright.Browser
	ready      bool
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func NewManager(params Params) *Manager {
	return &Manager{
		config: params.Config,
		logger: params.Logger.With(zap.String(logg.Layer, browserManagerName)),
		tracer: otel.Tracer(browserTracer),
		ready:  false,
	}
}

// NewSessionFactory picks the remote WebDriver backend when a WebDriver URL is
// configured and playwright otherwise.
func NewSessionFactory(params Params) ports.SessionFactory {
	if params.Config.BrowserConfig.WebDriverURL != "" {
		return NewRemote(params)
	}

	return NewManager(params)
}

type engineTarget struct {
	browserType func(pw *playwright.Playwright) playwright.BrowserType
	install     string
	channel     string
}

// Playwright has no Internet Explorer; its Edge channel is the nearest Microsoft engine.
var engineTargets = map[entity.Engine]engineTarget{
	entity.EngineChrome: {
		browserType: func(pw *playwright.Playwright) playwright.BrowserType { return pw.Chromium },
		install:     "chromium",
	},
	entity.EngineFirefox: {
		browserType: func(pw *playwright.Playwright) playwright.BrowserType { return pw.Firefox },
		install:     "firefox",
	},
	entity.EngineSafari: {
		browserType: func(pw *playwright.Playwright) playwright.BrowserType { return pw.WebKit },
		install:     "webkit",
	},
	entity.EngineIE: {
		browserType: func(pw *playwright.Playwright) playwright.BrowserType { return pw.Chromium },
		install:     "msedge",
		channel:     "msedge",
	},
}

func (m *Manager) Launch(ctx context.Context) (err error) {
	const op = "Launch"
	engine := m.config.BrowserConfig.Engine
	logger := m.logger.With(zap.String(logg.Operation, op), zap.String(logg.Engine, string(engine)))

	ctx, step := tracing.StartSpan(ctx, m.tracer, logger, op, attribute.String("engine", string(engine)))
	defer func() {
		step.End(err)
	}()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ready {
		return nil
	}

	target, ok := engineTargets[engine]
	if !ok {
		return apperr.InvalidReqError(op, "engine", fmt.Errorf("unsupported engine %q", engine))
	}

	logger.Info("Launching browser...")

	if m.config.BrowserConfig.Install {
		step.AddEvent("installing playwright")

		err = playwright.Install(&playwright.RunOptions{Browsers: []string{target.install}})
		if err != nil {
			return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
				apperr.MetaReason: "playwright_install_failed",
				apperr.MetaStage:  apperr.StageBrowser,
			})
		}
	}

	step.AddEvent("starting playwright")

	pw, err := playwright.Run()
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "playwright_start_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	options := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.config.BrowserConfig.Headless),
		SlowMo:   playwright.Float(float64(m.config.BrowserConfig.SlowMo)),
	}

	if target.channel != "" {
		options.Channel = playwright.String(target.channel)
	}

	browser, err := target.browserType(pw).Launch(options)
	if err != nil {
		_ = pw.Stop()

		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "browser_launch_failed",
			apperr.MetaStage:  apperr.StageBrowser,
			apperr.MetaEngine: string(engine),
		})
	}

	m.playwright = pw
	m.browser = browser
	m.ready = true

	logger.Info("Browser launched successfully", zap.String("version", browser.Version()))

	return nil
}

// NewSession opens a fresh browser context so no cookies or storage leak between cases.
func (m *Manager) NewSession(ctx context.Context) (_ ports.Session, err error) {
	const op = "NewSession"
	logger := m.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ready {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	browserContext, err := m.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  m.config.BrowserConfig.WindowWidth,
			Height: m.config.BrowserConfig.WindowHeight,
		},
		Locale: playwright.String("en-US"),
	})
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "context_create_failed",
			apperr.MetaStage:  apperr.StageSession,
		})
	}

	browserContext.SetDefaultTimeout(float64(m.config.BrowserConfig.Timeout))
	browserContext.SetDefaultNavigationTimeout(float64(m.config.BrowserConfig.Timeout))

	page, err := browserContext.NewPage()
	if err != nil {
		_ = browserContext.Close()

		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "page_create_failed",
			apperr.MetaStage:  apperr.StageSession,
		})
	}

	logger.Debug("Session opened")

	return &session{
		config:         m.config,
		logger:         m.logger.With(zap.String(logg.Layer, "BrowserSession")),
		tracer:         m.tracer,
		browserContext: browserContext,
		page:           page,
	}, nil
}

func (m *Manager) Close(ctx context.Context) (err error) {
	const op = "Close"
	logger := m.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	m.mu.Lock()
	defer m.mu.Unlock()

	logger.Info("Closing browser...")

	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			logger.Warn("Failed to close browser", zap.Error(err))
		}
	}

	if m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
				apperr.MetaReason: "playwright_stop_failed",
			})
		}
	}

	m.browser = nil
	m.playwright = nil
	m.ready = false
	logger.Info("Browser closed")

	return nil
}

func (m *Manager) IsReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ready
}
