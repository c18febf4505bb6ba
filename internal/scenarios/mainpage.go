package scenarios

import (
	"context"
	"wiki-ui-suite/internal/pages"
	"wiki-ui-suite/internal/usecase"
)

func MainCases() []usecase.Case {
	return []usecase.Case{
		{Suite: suiteMain, Name: "article_search", Run: mainArticleSearch},
		{Suite: suiteMain, Name: "autosuggest", Run: mainAutosuggest},
	}
}

func mainArticleSearch(ctx context.Context, t *usecase.T, env usecase.CaseEnv) {
	const term = "Disneyland"

	mainPage := openMain(ctx, t, env)
	t.Must(mainPage.OpenArticleBySearch(ctx, term))

	verifyArticlePage(ctx, t, pages.NewArticle(env.Env), term)
}

func mainAutosuggest(ctx context.Context, t *usecase.T, env usecase.CaseEnv) {
	mainPage := openMain(ctx, t, env)

	t.Must(mainPage.EnterHeaderSearchTerm(ctx, "dou"))
	suggestions, err := mainPage.HeaderSearchSuggestions(ctx)
	t.Must(err)
	verifySuggestionsStartWith(t, suggestions, "dou")

	t.Must(mainPage.EnterHeaderSearchTerm(ctx, "glas"))
	suggestions, err = mainPage.HeaderSearchSuggestions(ctx)
	t.Must(err)
	verifySuggestionsStartWith(t, suggestions, "douglas")
}
