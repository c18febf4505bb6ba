// Package scenarios is the regression suite itself: the cases run against the home
// page, the main page, articles and the current events portal.
package scenarios

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/internal/pages"
	"wiki-ui-suite/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	suiteHome          = "HomePage"
	suiteMain          = "MainPage"
	suiteArticle       = "ArticlePage"
	suiteCurrentEvents = "CurrentEventsPage"
)

// All returns every case in run order: home, main, article, current events.
func All() ([]usecase.Case, error) {
	article, err := ArticleCases()
	if err != nil {
		return nil, err
	}

	cases := HomeCases()
	cases = append(cases, MainCases()...)
	cases = append(cases, article...)
	cases = append(cases, CurrentEventsCases()...)

	return cases, nil
}

func openMain(ctx context.Context, t *usecase.T, env usecase.CaseEnv) *pages.Main {
	mainPage := pages.NewMain(env.Env)
	t.Must(mainPage.Open(ctx))

	return mainPage
}

func verifySuggestionsStartWith(t *usecase.T, suggestions []entity.Suggestion, prefix string) {
	t.Helper()

	require.NotEmpty(t, suggestions, "no suggestions for %q", prefix)

	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(strings.ToLower(prefix)))
	for _, s := range suggestions {
		assert.Regexp(t, pattern, strings.ToLower(s.Title))
	}
}

func verifyArticlePage(ctx context.Context, t *usecase.T, article *pages.Article, term string) {
	t.Helper()

	title, err := article.Title(ctx)
	t.Must(err)
	assert.Regexp(t, "^"+regexp.QuoteMeta(term), title)

	url, err := article.CurrentURL(ctx)
	t.Must(err)
	assert.Regexp(t, regexp.QuoteMeta(strings.ReplaceAll(term, " ", "_"))+"$", url)

	header, err := article.Header(ctx)
	t.Must(err)
	assert.Equal(t, term, header)
}

func caseName(format string, args ...any) string {
	return strings.ToLower(strings.ReplaceAll(fmt.Sprintf(format, args...), " ", "_"))
}
