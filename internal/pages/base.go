// Package pages holds the page objects of the suite. Each page binds a driver to the
// fixed locators of one Wikipedia page type and exposes what a test needs to do or read
// there; synchronization with asynchronous page updates goes through package settle.
package pages

import (
	"context"
	"errors"
	"strings"
	"wiki-ui-suite/internal/config"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/internal/extract"
	"wiki-ui-suite/internal/ports"
	"wiki-ui-suite/internal/settle"
	"wiki-ui-suite/pkg/apperr"
	"wiki-ui-suite/pkg/logg"
	"wiki-ui-suite/pkg/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const pagesTracer = "pages"

var (
	searchInput           = entity.ID("searchInput")
	headerSearchButton    = entity.CSS("#searchButton")
	headerSearchSuggested = entity.CSS(".suggestions-results > a")
	body                  = entity.TagName("body")
)

// Env is what every page object is built from.
type Env struct {
	Driver ports.Driver
	Config *config.Config
	Logger *zap.Logger
}

// Base carries the behavior shared by every Wikipedia page: the header search box,
// link navigation and table reading.
type Base struct {
	driver ports.Driver
	config *config.Config
	logger *zap.Logger
	tracer trace.Tracer
}

func newBase(env Env, layer string) *Base {
	return &Base{
		driver: env.Driver,
		config: env.Config,
		logger: env.Logger.With(zap.String(logg.Layer, layer)),
		tracer: otel.Tracer(pagesTracer),
	}
}

func NewBase(env Env) *Base {
	return newBase(env, "BasePage")
}

func (b *Base) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, *tracing.Span, *zap.Logger) {
	logger := b.logger.With(zap.String(logg.Operation, op))
	ctx, step := tracing.StartSpan(ctx, b.tracer, logger, op, attrs...)

	return ctx, step, logger
}

func (b *Base) suggestionOptions() settle.Options {
	return settle.Options{Budget: b.config.SettleConfig.SuggestionBudget, Interval: b.config.SettleConfig.PollInterval}
}

func (b *Base) navigationOptions() settle.Options {
	return settle.Options{Budget: b.config.SettleConfig.NavigationBudget, Interval: b.config.SettleConfig.PollInterval}
}

func (b *Base) readOptions() settle.Options {
	return settle.Options{Budget: b.config.SettleConfig.ReadRetryBudget, Interval: b.config.SettleConfig.PollInterval}
}

func (b *Base) Title(ctx context.Context) (string, error) {
	return b.driver.Title(ctx)
}

func (b *Base) CurrentURL(ctx context.Context) (string, error) {
	return b.driver.CurrentURL(ctx)
}

// BodyText returns the visible page text with non-breaking spaces as plain spaces.
func (b *Base) BodyText(ctx context.Context) (string, error) {
	el, err := b.driver.Find(ctx, body)
	if err != nil {
		return "", err
	}

	text, err := el.Text(ctx)
	if err != nil {
		return "", err
	}

	return strings.ReplaceAll(text, "\u00a0", " "), nil
}

func (b *Base) location(ctx context.Context) (settle.Location, error) {
	url, err := b.driver.CurrentURL(ctx)
	if err != nil {
		return settle.Location{}, err
	}

	title, err := b.driver.Title(ctx)
	if err != nil {
		return settle.Location{}, err
	}

	return settle.Location{URL: url, Title: title}, nil
}

// navigate runs action and waits until both the URL and the title have changed. Running
// out of budget is a failure: the next step would otherwise act on the wrong page.
func (b *Base) navigate(ctx context.Context, op string, action func(ctx context.Context) error) (err error) {
	ctx, step, logger := b.start(ctx, op)
	defer func() {
		step.End(err)
	}()

	before, err := b.location(ctx)
	if err != nil {
		return err
	}

	if err := action(ctx); err != nil {
		return err
	}

	var after settle.Location

	err = settle.Poll(ctx, b.navigationOptions(), func(ctx context.Context) (bool, error) {
		loc, err := b.location(ctx)
		if err != nil {
			return false, err
		}

		after = loc

		return loc.MovedFrom(before), nil
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			if appErr.Metadata == nil {
				appErr.Metadata = map[string]any{}
			}

			appErr.Metadata[apperr.MetaAction] = op
			appErr.Metadata[apperr.MetaURL] = before.URL
		}

		return err
	}

	logger.Debug("Navigation settled", zap.String(logg.URL, after.URL), zap.String("title", after.Title))

	return nil
}

// ClickLink clicks el and waits for the page it opens.
func (b *Base) ClickLink(ctx context.Context, el ports.Element) error {
	return b.navigate(ctx, "ClickLink", el.Click)
}

// readSuggestions reads the dropdown once. With split set each entry's text is cut into
// a title line and a summary line; otherwise the whole text is the title.
func (b *Base) readSuggestions(ctx context.Context, locator entity.Locator, split bool) ([]entity.Suggestion, error) {
	els, err := b.driver.FindAll(ctx, locator)
	if err != nil {
		return nil, err
	}

	suggestions := make([]entity.Suggestion, 0, len(els))

	for _, el := range els {
		text, err := el.Text(ctx)
		if err != nil {
			return nil, err
		}

		link, err := el.Attribute(ctx, "href")
		if err != nil {
			return nil, err
		}

		s := entity.Suggestion{Title: text, Link: link}
		if split {
			s.Title, s.Summary = extract.SplitSuggestion(text)
		}

		suggestions = append(suggestions, s)
	}

	return suggestions, nil
}

// enterSearchTerm types term into the search input and waits for the suggestion list
// to change. An unchanged list after the budget is accepted as the settled state.
func (b *Base) enterSearchTerm(ctx context.Context, op, term string, read func(ctx context.Context) ([]entity.Suggestion, error)) (err error) {
	ctx, step, logger := b.start(ctx, op, attribute.String("term", term))
	defer func() {
		step.End(err)
	}()

	suggestions, err := settle.Settle(ctx, b.suggestionOptions(), read,
		func(ctx context.Context) error {
			input, err := b.driver.Find(ctx, searchInput)
			if err != nil {
				return err
			}

			return input.SendKeys(ctx, term)
		},
		settle.SliceChanged[entity.Suggestion],
	)
	if err = settle.BestEffort(err); err != nil {
		return err
	}

	logger.Debug("Suggestions settled", zap.Int("count", len(suggestions)))

	return nil
}

// HeaderSearchSuggestions reads the header search dropdown, starting over while the
// list is being replaced.
func (b *Base) HeaderSearchSuggestions(ctx context.Context) ([]entity.Suggestion, error) {
	return settle.Retry(ctx, b.readOptions(), func(ctx context.Context) ([]entity.Suggestion, error) {
		return b.readSuggestions(ctx, headerSearchSuggested, false)
	})
}

// EnterHeaderSearchTerm types into the header search box without submitting.
func (b *Base) EnterHeaderSearchTerm(ctx context.Context, term string) error {
	return b.enterSearchTerm(ctx, "EnterHeaderSearchTerm", term, func(ctx context.Context) ([]entity.Suggestion, error) {
		return b.readSuggestions(ctx, headerSearchSuggested, false)
	})
}

// SubmitHeaderSearch submits the term already typed into the header search box.
func (b *Base) SubmitHeaderSearch(ctx context.Context) error {
	return b.navigate(ctx, "SubmitHeaderSearch", func(ctx context.Context) error {
		button, err := b.driver.Find(ctx, headerSearchButton)
		if err != nil {
			return err
		}

		return button.SendKeys(ctx, entity.KeyReturn)
	})
}

// TableRows reads the rows of a table element.
func (b *Base) TableRows(ctx context.Context, table ports.Element) ([]entity.TableRow, error) {
	html, err := table.HTML(ctx)
	if err != nil {
		return nil, err
	}

	return extract.TableRows(html)
}

// ValueInTable returns the data cell of the first row whose header contains label.
func (b *Base) ValueInTable(ctx context.Context, table ports.Element, label string) (string, bool, error) {
	html, err := table.HTML(ctx)
	if err != nil {
		return "", false, err
	}

	return extract.ValueInTable(html, label)
}
