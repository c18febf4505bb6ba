package pages

import (
	"context"
	"fmt"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/internal/ports"
	"wiki-ui-suite/internal/settle"

	"go.opentelemetry.io/otel/attribute"
)

var (
	homeSearchButton = entity.CSS("button[type='submit']")
	homeSuggestions  = entity.CSS("#typeahead-suggestions a")
)

// Home is the wikipedia.org portal with the language links and the big search box.
type Home struct {
	*Base
}

func NewHome(env Env) *Home {
	return &Home{Base: newBase(env, "HomePage")}
}

func (h *Home) Open(ctx context.Context) (err error) {
	ctx, step, _ := h.start(ctx, "OpenHome", attribute.String("url", h.config.SiteConfig.HomeURL))
	defer func() {
		step.End(err)
	}()

	return h.driver.Navigate(ctx, h.config.SiteConfig.HomeURL)
}

// EnterSearchTerm types into the portal search box without submitting and waits for
// the typeahead list to change.
func (h *Home) EnterSearchTerm(ctx context.Context, term string) error {
	return h.enterSearchTerm(ctx, "EnterSearchTerm", term, func(ctx context.Context) ([]entity.Suggestion, error) {
		return h.readSuggestions(ctx, homeSuggestions, true)
	})
}

// SubmitSearch submits the form holding the portal search box.
func (h *Home) SubmitSearch(ctx context.Context) error {
	return h.navigate(ctx, "SubmitSearch", func(ctx context.Context) error {
		button, err := h.driver.Find(ctx, homeSearchButton)
		if err != nil {
			return err
		}

		return button.Submit(ctx)
	})
}

// SearchSuggestions reads the typeahead list. Reads that hit a list being replaced,
// including an href that disappeared mid-read, start over until the read budget ends.
func (h *Home) SearchSuggestions(ctx context.Context) ([]entity.Suggestion, error) {
	return settle.Retry(ctx, h.readOptions(), func(ctx context.Context) ([]entity.Suggestion, error) {
		return h.readSuggestions(ctx, homeSuggestions, true)
	})
}

func (h *Home) LanguageLink(ctx context.Context, language string) (ports.Element, error) {
	return h.driver.Find(ctx, entity.CSS(fmt.Sprintf("[data-el-section='primary links'] a[title*='%s']", language)))
}

// ClickLanguageLink opens the main page of the edition whose link title contains
// language, e.g. "English" or "Français".
func (h *Home) ClickLanguageLink(ctx context.Context, language string) error {
	return h.navigate(ctx, "ClickLanguageLink", func(ctx context.Context) error {
		link, err := h.LanguageLink(ctx, language)
		if err != nil {
			return err
		}

		return link.Click(ctx)
	})
}
