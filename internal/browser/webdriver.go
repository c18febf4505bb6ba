package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"wiki-ui-suite/internal/config"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/internal/ports"
	"wiki-ui-suite/pkg/apperr"
	"wiki-ui-suite/pkg/logg"
	"wiki-ui-suite/pkg/tracing"

	"github.com/tebeka/selenium"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	remoteManagerName = "RemoteWebDriver"
	remoteTracer      = "browser.remote"
)

var remoteBrowserNames = map[entity.Engine]string{
	entity.EngineFirefox: "firefox",
	entity.EngineIE:      "internet explorer",
	entity.EngineChrome:  "chrome",
	entity.EngineSafari:  "safari",
}

// Remote drives a Selenium server or standalone WebDriver endpoint. It is the only
// backend that reaches a real Internet Explorer.
type Remote struct {
	config *config.Config
	logger *zap.Logger
	tracer trace.Tracer
	mu     sync.Mutex
	ready  bool
}

func NewRemote(params Params) *Remote {
	return &Remote{
		config: params.Config,
		logger: params.Logger.With(zap.String(logg.Layer, remoteManagerName)),
		tracer: otel.Tracer(remoteTracer),
	}
}

// Launch only validates the engine; a WebDriver session is the unit of launch.
func (r *Remote) Launch(ctx context.Context) (err error) {
	const op = "Launch"
	engine := r.config.BrowserConfig.Engine
	logger := r.logger.With(zap.String(logg.Operation, op), zap.String(logg.Engine, string(engine)))

	_, step := tracing.StartSpan(ctx, r.tracer, logger, op, attribute.String("engine", string(engine)))
	defer func() {
		step.End(err)
	}()

	if _, ok := remoteBrowserNames[engine]; !ok {
		return apperr.InvalidReqError(op, "engine", fmt.Errorf("unsupported engine %q", engine))
	}

	r.mu.Lock()
	r.ready = true
	r.mu.Unlock()

	logger.Info("Remote WebDriver configured", zap.String(logg.URL, r.config.BrowserConfig.WebDriverURL))

	return nil
}

func (r *Remote) NewSession(ctx context.Context) (_ ports.Session, err error) {
	const op = "NewSession"
	logger := r.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, r.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	if !r.IsReady() {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	caps := selenium.Capabilities{"browserName": remoteBrowserNames[r.config.BrowserConfig.Engine]}

	wd, err := selenium.NewRemote(caps, r.config.BrowserConfig.WebDriverURL)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeUnavailable, err, map[string]any{
			apperr.MetaReason: "webdriver_session_failed",
			apperr.MetaStage:  apperr.StageSession,
			apperr.MetaURL:    r.config.BrowserConfig.WebDriverURL,
		})
	}

	if r.config.BrowserConfig.Engine == entity.EngineSafari {
		if err := wd.ResizeWindow("", r.config.BrowserConfig.WindowWidth, r.config.BrowserConfig.WindowHeight); err != nil {
			logger.Warn("Failed to size window", zap.Error(err))
		}
	}

	return &remoteSession{wd: wd, logger: r.logger}, nil
}

func (r *Remote) Close(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ready = false

	return nil
}

func (r *Remote) IsReady() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ready
}

type remoteSession struct {
	wd     selenium.WebDriver
	logger *zap.Logger
}

func (s *remoteSession) Navigate(_ context.Context, url string) error {
	if err := s.wd.Get(url); err != nil {
		return classify("Navigate", err, map[string]any{
			apperr.MetaStage: apperr.StageNavigation,
			apperr.MetaURL:   url,
		})
	}

	return nil
}

func (s *remoteSession) Find(_ context.Context, locator entity.Locator) (ports.Element, error) {
	by, value, err := seleniumBy(locator)
	if err != nil {
		return nil, err
	}

	el, err := s.wd.FindElement(by, value)
	if err != nil {
		return nil, classify("Find", err, map[string]any{apperr.MetaSelector: locator.String()})
	}

	return &remoteElement{wd: s.wd, el: el, locator: locator}, nil
}

func (s *remoteSession) FindAll(_ context.Context, locator entity.Locator) ([]ports.Element, error) {
	by, value, err := seleniumBy(locator)
	if err != nil {
		return nil, err
	}

	els, err := s.wd.FindElements(by, value)
	if err != nil {
		return nil, classify("FindAll", err, map[string]any{apperr.MetaSelector: locator.String()})
	}

	return wrapRemote(s.wd, els, locator), nil
}

func (s *remoteSession) CurrentURL(_ context.Context) (string, error) {
	u, err := s.wd.CurrentURL()
	if err != nil {
		return "", classify("CurrentURL", err, nil)
	}

	return u, nil
}

func (s *remoteSession) Title(_ context.Context) (string, error) {
	t, err := s.wd.Title()
	if err != nil {
		return "", classify("Title", err, nil)
	}

	return t, nil
}

func (s *remoteSession) Close(_ context.Context) error {
	if err := s.wd.Quit(); err != nil {
		return apperr.Wrap("Close", apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "webdriver_quit_failed",
			apperr.MetaStage:  apperr.StageSession,
		})
	}

	s.logger.Debug("Session closed")

	return nil
}

func wrapRemote(wd selenium.WebDriver, els []selenium.WebElement, locator entity.Locator) []ports.Element {
	out := make([]ports.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &remoteElement{wd: wd, el: el, locator: locator})
	}

	return out
}

// remoteElement sticks to W3C endpoints. Reads that the standard attribute endpoint
// answers with null (outerHTML, resolved href) and the legacy moveto and submit
// commands go through the session's script endpoint instead.
type remoteElement struct {
	wd      selenium.WebDriver
	el      selenium.WebElement
	locator entity.Locator
}

func (e *remoteElement) meta() map[string]any {
	return map[string]any{apperr.MetaSelector: e.locator.String()}
}

func (e *remoteElement) Text(_ context.Context) (string, error) {
	t, err := e.el.Text()
	if err != nil {
		return "", classify("element.Text", err, e.meta())
	}

	return t, nil
}

// script calls fn, one of the element scripts shared with the playwright backend, with
// the element as its first argument.
func (e *remoteElement) script(fn string, args ...any) (any, error) {
	params := make([]any, 0, len(args)+1)
	params = append(params, e.el)
	params = append(params, args...)

	return e.wd.ExecuteScript(webdriverCall(fn, len(params)), params)
}

func (e *remoteElement) Attribute(_ context.Context, name string) (string, error) {
	v, err := e.script(readPropertyScript, name)
	if err != nil {
		return "", classify("element.Attribute", err, e.meta())
	}

	return scriptString(v), nil
}

func (e *remoteElement) HTML(_ context.Context) (string, error) {
	v, err := e.script(outerHTMLScript)
	if err != nil {
		return "", classify("element.HTML", err, e.meta())
	}

	return scriptString(v), nil
}

func (e *remoteElement) Click(_ context.Context) error {
	return classify("element.Click", e.el.Click(), e.meta())
}

func (e *remoteElement) SendKeys(_ context.Context, text string) error {
	return classify("element.SendKeys", e.el.SendKeys(text), e.meta())
}

func (e *remoteElement) Submit(_ context.Context) error {
	v, err := e.script(submitScript)
	if err != nil {
		return classify("element.Submit", err, e.meta())
	}

	if submitted, _ := v.(bool); !submitted {
		return apperr.Wrap("element.Submit", apperr.CodeActionFailed, errors.New("element is not inside a form"), e.meta())
	}

	return nil
}

// Hover scrolls the element to the middle of the viewport. WebDriver has no hover
// without the actions API; the archive links only need to be in view to be clicked.
func (e *remoteElement) Hover(_ context.Context) error {
	_, err := e.script(scrollIntoViewScript)

	return classify("element.Hover", err, e.meta())
}

func (e *remoteElement) Find(_ context.Context, locator entity.Locator) (ports.Element, error) {
	by, value, err := seleniumBy(locator)
	if err != nil {
		return nil, err
	}

	el, err := e.el.FindElement(by, value)
	if err != nil {
		return nil, classify("element.Find", err, e.meta())
	}

	return &remoteElement{wd: e.wd, el: el, locator: locator}, nil
}

func (e *remoteElement) FindAll(_ context.Context, locator entity.Locator) ([]ports.Element, error) {
	by, value, err := seleniumBy(locator)
	if err != nil {
		return nil, err
	}

	els, err := e.el.FindElements(by, value)
	if err != nil {
		return nil, classify("element.FindAll", err, e.meta())
	}

	return wrapRemote(e.wd, els, locator), nil
}
