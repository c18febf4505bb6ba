package browser

import (
	"context"
	"fmt"
	"wiki-ui-suite/internal/config"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/internal/ports"
	"wiki-ui-suite/pkg/apperr"
	"wiki-ui-suite/pkg/logg"
	"wiki-ui-suite/pkg/tracing"

	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type session struct {
	config         *config.Config
	logger         *zap.Logger
	tracer         trace.Tracer
	browserContext playwright.BrowserContext
	page           playwright.Page
}

func (s *session) Navigate(ctx context.Context, url string) (err error) {
	const op = "Navigate"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	_, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("url", url))
	defer func() {
		step.End(err)
	}()

	_, err = s.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(s.config.BrowserConfig.Timeout)),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return classify(op, err, map[string]any{
			apperr.MetaReason: "goto_failed",
			apperr.MetaStage:  apperr.StageNavigation,
			apperr.MetaURL:    url,
		})
	}

	step.AddEvent("navigation completed")

	return nil
}

func (s *session) Find(ctx context.Context, locator entity.Locator) (_ ports.Element, err error) {
	const op = "Find"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, locator.String()))

	_, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("selector", locator.String()))
	defer func() {
		step.End(err)
	}()

	selector, err := playwrightSelector(locator)
	if err != nil {
		return nil, err
	}

	handle, err := s.page.QuerySelector(selector)
	if err != nil {
		return nil, classify(op, err, map[string]any{apperr.MetaSelector: locator.String()})
	}

	if handle == nil {
		return nil, apperr.NotFoundError(op, fmt.Errorf("%w: %s", apperr.ErrNotFound, locator))
	}

	return &element{handle: handle, locator: locator}, nil
}

func (s *session) FindAll(ctx context.Context, locator entity.Locator) (_ []ports.Element, err error) {
	const op = "FindAll"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, locator.String()))

	_, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("selector", locator.String()))
	defer func() {
		step.End(err)
	}()

	selector, err := playwrightSelector(locator)
	if err != nil {
		return nil, err
	}

	handles, err := s.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, classify(op, err, map[string]any{apperr.MetaSelector: locator.String()})
	}

	step.SetAttributes(attribute.Int("count", len(handles)))

	return wrapHandles(handles, locator), nil
}

func (s *session) CurrentURL(_ context.Context) (string, error) {
	return s.page.URL(), nil
}

func (s *session) Title(_ context.Context) (string, error) {
	title, err := s.page.Title()
	if err != nil {
		return "", classify("Title", err, nil)
	}

	return title, nil
}

func (s *session) Close(_ context.Context) error {
	if err := s.browserContext.Close(); err != nil {
		return apperr.Wrap("Close", apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "context_close_failed",
			apperr.MetaStage:  apperr.StageSession,
		})
	}

	s.logger.Debug("Session closed")

	return nil
}

func wrapHandles(handles []playwright.ElementHandle, locator entity.Locator) []ports.Element {
	elements := make([]ports.Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &element{handle: h, locator: locator})
	}

	return elements
}

// element wraps an ElementHandle, which pins a specific DOM node: once the page
// replaces that node every call fails with a stale_element error.
type element struct {
	handle  playwright.ElementHandle
	locator entity.Locator
}

func (e *element) meta() map[string]any {
	return map[string]any{apperr.MetaSelector: e.locator.String()}
}

func (e *element) Text(_ context.Context) (string, error) {
	text, err := e.handle.InnerText()
	if err != nil {
		return "", classify("element.Text", err, e.meta())
	}

	return text, nil
}

func (e *element) Attribute(_ context.Context, name string) (string, error) {
	v, err := e.handle.Evaluate(readPropertyScript, name)
	if err != nil {
		return "", classify("element.Attribute", err, e.meta())
	}

	s, _ := v.(string)

	return s, nil
}

func (e *element) HTML(_ context.Context) (string, error) {
	v, err := e.handle.Evaluate(outerHTMLScript)
	if err != nil {
		return "", classify("element.HTML", err, e.meta())
	}

	s, _ := v.(string)

	return s, nil
}

func (e *element) Click(_ context.Context) error {
	if err := e.handle.Click(); err != nil {
		return classify("element.Click", err, e.meta())
	}

	return nil
}

func (e *element) SendKeys(_ context.Context, text string) error {
	const op = "element.SendKeys"

	for _, chunk := range splitKeys(text) {
		var err error
		if chunk.key != "" {
			err = e.handle.Press(chunk.key)
		} else {
			err = e.handle.Type(chunk.text)
		}

		if err != nil {
			return classify(op, err, e.meta())
		}
	}

	return nil
}

func (e *element) Submit(_ context.Context) error {
	const op = "element.Submit"

	v, err := e.handle.Evaluate(submitScript)
	if err != nil {
		return classify(op, err, e.meta())
	}

	if ok, _ := v.(bool); !ok {
		return apperr.Wrap(op, apperr.CodeActionFailed, fmt.Errorf("element %s is not inside a form", e.locator), e.meta())
	}

	return nil
}

func (e *element) Hover(_ context.Context) error {
	if _, err := e.handle.Evaluate(scrollIntoViewScript); err != nil {
		return classify("element.Hover", err, e.meta())
	}

	if err := e.handle.Hover(); err != nil {
		return classify("element.Hover", err, e.meta())
	}

	return nil
}

func (e *element) Find(_ context.Context, locator entity.Locator) (ports.Element, error) {
	const op = "element.Find"

	selector, err := playwrightSelector(locator)
	if err != nil {
		return nil, err
	}

	handle, err := e.handle.QuerySelector(selector)
	if err != nil {
		return nil, classify(op, err, e.meta())
	}

	if handle == nil {
		return nil, apperr.NotFoundError(op, fmt.Errorf("%w: %s within %s", apperr.ErrNotFound, locator, e.locator))
	}

	return &element{handle: handle, locator: locator}, nil
}

func (e *element) FindAll(_ context.Context, locator entity.Locator) ([]ports.Element, error) {
	selector, err := playwrightSelector(locator)
	if err != nil {
		return nil, err
	}

	handles, err := e.handle.QuerySelectorAll(selector)
	if err != nil {
		return nil, classify("element.FindAll", err, e.meta())
	}

	return wrapHandles(handles, locator), nil
}
