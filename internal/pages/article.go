package pages

import (
	"context"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/internal/extract"
	"wiki-ui-suite/internal/ports"
)

var (
	articleHeader = entity.ID("firstHeading")
	infobox       = entity.CSS("table.infobox")
	tocBox        = entity.ID("toc")
	tocItem       = entity.ClassName("toctext")
	headline      = entity.ClassName("mw-headline")
)

// Article is any encyclopedia article page.
type Article struct {
	*Base
}

func NewArticle(env Env) *Article {
	return &Article{Base: newBase(env, "ArticlePage")}
}

func (a *Article) Header(ctx context.Context) (string, error) {
	el, err := a.driver.Find(ctx, articleHeader)
	if err != nil {
		return "", err
	}

	return el.Text(ctx)
}

func (a *Article) InfoboxText(ctx context.Context) (string, error) {
	el, err := a.driver.Find(ctx, infobox)
	if err != nil {
		return "", err
	}

	return el.Text(ctx)
}

// InfoboxContents returns the infobox rows as label/value pairs.
func (a *Article) InfoboxContents(ctx context.Context) ([]entity.TableRow, error) {
	el, err := a.driver.Find(ctx, infobox)
	if err != nil {
		return nil, err
	}

	return a.TableRows(ctx, el)
}

func (a *Article) ValueFromInfobox(ctx context.Context, label string) (string, bool, error) {
	el, err := a.driver.Find(ctx, infobox)
	if err != nil {
		return "", false, err
	}

	return a.ValueInTable(ctx, el, label)
}

// ValueFromInfoboxContents looks label up in rows already read by InfoboxContents.
func (a *Article) ValueFromInfoboxContents(rows []entity.TableRow, label string) (string, bool) {
	return extract.LookupValue(rows, label)
}

func (a *Article) TOCItems(ctx context.Context) ([]string, error) {
	toc, err := a.driver.Find(ctx, tocBox)
	if err != nil {
		return nil, err
	}

	items, err := toc.FindAll(ctx, tocItem)
	if err != nil {
		return nil, err
	}

	return texts(ctx, items)
}

func (a *Article) Headlines(ctx context.Context) ([]string, error) {
	items, err := a.driver.FindAll(ctx, headline)
	if err != nil {
		return nil, err
	}

	return texts(ctx, items)
}

func texts(ctx context.Context, els []ports.Element) ([]string, error) {
	out := make([]string, 0, len(els))

	for _, el := range els {
		t, err := el.Text(ctx)
		if err != nil {
			return nil, err
		}

		out = append(out, t)
	}

	return out, nil
}
