// Package extract turns HTML fragments read from the browser into suite data.
// Everything here is pure: the caller reads the fragment once and the parsing does no
// further I/O, so the results cannot race a DOM update.
package extract

import (
	"fmt"
	"net/url"
	"strings"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/pkg/apperr"

	"github.com/PuerkitoBio/goquery"
)

func parse(op, fragment string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "html_parse_failed",
			apperr.MetaStage:  apperr.StageExtraction,
		})
	}

	return doc, nil
}

// TableRows pairs each row's first header cell with its first data cell. A missing
// cell leaves the corresponding field nil; rows are never dropped.
func TableRows(fragment string) ([]entity.TableRow, error) {
	doc, err := parse("extract.TableRows", fragment)
	if err != nil {
		return nil, err
	}

	rows := make([]entity.TableRow, 0)

	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		rows = append(rows, entity.TableRow{
			Label: cellText(tr, "th"),
			Value: cellText(tr, "td"),
		})
	})

	return rows, nil
}

func cellText(tr *goquery.Selection, tag string) *string {
	cell := tr.Find(tag).First()
	if cell.Length() == 0 {
		return nil
	}

	text := RenderText(cell)

	return &text
}

// ValueInTable returns the data cell of the first row whose header contains label.
// It shares LookupValue's matching rule.
func ValueInTable(fragment, label string) (string, bool, error) {
	rows, err := TableRows(fragment)
	if err != nil {
		return "", false, err
	}

	value, found := LookupValue(rows, label)

	return value, found, nil
}

// LookupValue scans rows in order for the first label containing label. Rows without
// a header cell never match, not even an empty label; a matching row without a data
// cell ends the search as not found.
func LookupValue(rows []entity.TableRow, label string) (string, bool) {
	for _, row := range rows {
		if row.Label == nil || !strings.Contains(*row.Label, label) {
			continue
		}

		if row.Value == nil {
			return "", false
		}

		return *row.Value, true
	}

	return "", false
}

// ArchiveLinks lists the anchors in fragment in document order, with hrefs resolved
// against base when one is given.
func ArchiveLinks(fragment string, base *url.URL) ([]entity.ArchiveLink, error) {
	doc, err := parse("extract.ArchiveLinks", fragment)
	if err != nil {
		return nil, err
	}

	links := make([]entity.ArchiveLink, 0)

	var resolveErr error

	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")

		if base != nil && href != "" {
			ref, err := url.Parse(href)
			if err != nil {
				resolveErr = apperr.Wrap("extract.ArchiveLinks", apperr.CodeInvalidArgument, fmt.Errorf("href %q: %w", href, err), map[string]any{
					apperr.MetaStage: apperr.StageExtraction,
				})

				return false
			}

			href = base.ResolveReference(ref).String()
		}

		title, _ := a.Attr("title")

		links = append(links, entity.ArchiveLink{
			Href:  href,
			Title: title,
			Text:  RenderText(a),
		})

		return true
	})

	if resolveErr != nil {
		return nil, resolveErr
	}

	return links, nil
}

// SplitSuggestion separates the title line of a suggestion from its one-line summary.
// Anything other than exactly two lines yields an empty summary.
func SplitSuggestion(text string) (title, summary string) {
	parts := strings.Split(text, "\n")
	if len(parts) == 2 {
		return parts[0], parts[1]
	}

	return parts[0], ""
}
