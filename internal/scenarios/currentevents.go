package scenarios

import (
	"context"
	"regexp"
	"strconv"
	"wiki-ui-suite/internal/dates"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/internal/pages"
	"wiki-ui-suite/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func CurrentEventsCases() []usecase.Case {
	return []usecase.Case{
		{Suite: suiteCurrentEvents, Name: "current_month", Run: currentMonthHeaders},
		{Suite: suiteCurrentEvents, Name: "archived_month", Run: archivedMonthHeaders},
		{Suite: suiteCurrentEvents, Name: "archived_months_link_text", Run: archivedMonthsLinkText},
	}
}

func openCurrentEvents(ctx context.Context, t *usecase.T, env usecase.CaseEnv) *pages.CurrentEvents {
	mainPage := openMain(ctx, t, env)
	t.Must(mainPage.ClickLeftPanelLink(ctx, "Current events"))

	return pages.NewCurrentEvents(env.Env)
}

func currentMonthHeaders(ctx context.Context, t *usecase.T, env usecase.CaseEnv) {
	ce := openCurrentEvents(ctx, t, env)

	verifyDateHeaders(ctx, t, ce, env.Now.Month().String(), strconv.Itoa(env.Now.Year()), false)
}

func archivedMonthHeaders(ctx context.Context, t *usecase.T, env usecase.CaseEnv) {
	ce := openCurrentEvents(ctx, t, env)

	year := ce.FirstArchivedYear() + env.Rand.IntN(env.Now.Year()-ce.FirstArchivedYear()+1)

	first, last, err := dates.MonthRange(year, env.Now)
	t.Must(err)

	month, err := dates.MonthName(int(first) + env.Rand.IntN(int(last-first)+1))
	t.Must(err)

	t.Logf("Verifying %s %d", month, year)
	t.Must(ce.ClickArchivedMonth(ctx, month, year))

	verifyDateHeaders(ctx, t, ce, month, strconv.Itoa(year), true)
}

// verifyDateHeaders checks every day heading is a long date in month and year and that
// the days run in the expected direction.
func verifyDateHeaders(ctx context.Context, t *usecase.T, ce *pages.CurrentEvents, month, year string, ascending bool) {
	t.Helper()

	headers, err := ce.DateHeaders(ctx)
	t.Must(err)
	require.NotEmpty(t, headers, "no date headers")

	parsed := make([]entity.ParsedDate, 0, len(headers))

	for _, h := range headers {
		d, err := ce.ParseDateHeader(h)
		require.NoError(t, err, "header %q", h)

		assert.Equal(t, month, d.Month)
		assert.Equal(t, year, d.Year)

		parsed = append(parsed, d)
	}

	ok, err := dates.InOrder(parsed, ascending)
	t.Must(err)
	assert.True(t, ok, "days out of order (ascending=%t): %v", ascending, headers)
}

// archivedMonthsLinkText expects one group per year from the current year back to the
// first archived year, each a year link followed by its month links.
func archivedMonthsLinkText(ctx context.Context, t *usecase.T, env usecase.CaseEnv) {
	ce := openCurrentEvents(ctx, t, env)

	years, err := ce.ArchiveLinksByYear(ctx)
	t.Must(err)
	require.Len(t, years, env.Now.Year()-ce.FirstArchivedYear()+1)

	year := env.Now.Year()

	for _, block := range years {
		links, err := ce.ParseArchiveLinks(ctx, block)
		t.Must(err)
		require.NotEmpty(t, links)

		y := strconv.Itoa(year)
		assert.Equal(t, y, links[0].Text)
		assert.Equal(t, y, links[0].Title)
		assert.Regexp(t, "/wiki/"+y+"$", links[0].Href)

		first, last, err := dates.MonthRange(year, env.Now)
		t.Must(err)
		assert.Len(t, links, int(last-first)+2, "links for %d", year)

		for i, link := range links[1:] {
			name, err := dates.MonthName(int(first) + i)
			if !assert.NoError(t, err, "unexpected link %q in %d", link.Text, year) {
				break
			}

			assert.Equal(t, name, link.Text)
			assert.Regexp(t, regexp.QuoteMeta(name+" "+y)+"$", link.Title)
			assert.Regexp(t, "/"+regexp.QuoteMeta(name+"_"+y)+"$", link.Href)
		}

		year--
	}
}
