package pages

import (
	"context"
	"wiki-ui-suite/internal/entity"

	"go.opentelemetry.io/otel/attribute"
)

var (
	topBanner = entity.ID("mp-topbanner")
	leftPanel = entity.ID("mw-panel")
)

// Main is the English Wikipedia main page.
type Main struct {
	*Base
}

func NewMain(env Env) *Main {
	return &Main{Base: newBase(env, "MainPage")}
}

func (m *Main) Open(ctx context.Context) (err error) {
	ctx, step, _ := m.start(ctx, "OpenMain", attribute.String("url", m.config.SiteConfig.MainPageURL))
	defer func() {
		step.End(err)
	}()

	return m.driver.Navigate(ctx, m.config.SiteConfig.MainPageURL)
}

// OpenArticleBySearch types term into the header search and submits it, landing on
// the article of the first suggestion.
func (m *Main) OpenArticleBySearch(ctx context.Context, term string) error {
	if err := m.EnterHeaderSearchTerm(ctx, term); err != nil {
		return err
	}

	return m.SubmitHeaderSearch(ctx)
}

// ClickLeftPanelLink follows the sidebar link whose text contains text.
func (m *Main) ClickLeftPanelLink(ctx context.Context, text string) error {
	panel, err := m.driver.Find(ctx, leftPanel)
	if err != nil {
		return err
	}

	link, err := panel.Find(ctx, entity.PartialLinkText(text))
	if err != nil {
		return err
	}

	return m.ClickLink(ctx, link)
}

func (m *Main) TopBannerText(ctx context.Context) (string, error) {
	el, err := m.driver.Find(ctx, topBanner)
	if err != nil {
		return "", err
	}

	return el.Text(ctx)
}
