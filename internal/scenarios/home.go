package scenarios

import (
	"context"
	"strings"
	"wiki-ui-suite/internal/pages"
	"wiki-ui-suite/internal/usecase"

	"github.com/stretchr/testify/assert"
)

type languageEdition struct {
	language string
	title    string
	body     string
}

var languageEditions = []languageEdition{
	{"English", "Wikipedia, the free encyclopedia", "the free encyclopedia that anyone can edit"},
	{"Français", "Wikipédia, l'encyclopédie libre", "L'encyclopédie libre que chacun peut améliorer"},
	{"Deutsch", "Wikipedia – Die freie Enzyklopädie", "Wikipedia ist ein Projekt zum Aufbau einer Enzyklopädie aus freien Inhalten"},
	{"Español", "Wikipedia, la enciclopedia libre", "la enciclopedia de contenido libreque todos pueden editar"},
}

func HomeCases() []usecase.Case {
	cases := []usecase.Case{
		{Suite: suiteHome, Name: "title", Run: homeTitle},
		{Suite: suiteHome, Name: "article_search", Run: homeArticleSearch},
		{Suite: suiteHome, Name: "autosuggest", Run: homeAutosuggest},
	}

	for _, e := range languageEditions {
		cases = append(cases, usecase.Case{
			Suite: suiteHome,
			Name:  caseName("%s link", e.language),
			Run: func(ctx context.Context, t *usecase.T, env usecase.CaseEnv) {
				homeLanguageLink(ctx, t, env, e)
			},
		})
	}

	return cases
}

func openHome(ctx context.Context, t *usecase.T, env usecase.CaseEnv) *pages.Home {
	home := pages.NewHome(env.Env)
	t.Must(home.Open(ctx))

	return home
}

func homeTitle(ctx context.Context, t *usecase.T, env usecase.CaseEnv) {
	home := openHome(ctx, t, env)

	title, err := home.Title(ctx)
	t.Must(err)
	assert.Equal(t, "Wikipedia", title)
}

func homeArticleSearch(ctx context.Context, t *usecase.T, env usecase.CaseEnv) {
	const term = "Buster Keaton"

	home := openHome(ctx, t, env)
	t.Must(home.EnterSearchTerm(ctx, term))
	t.Must(home.SubmitSearch(ctx))

	verifyArticlePage(ctx, t, pages.NewArticle(env.Env), term)
}

func homeAutosuggest(ctx context.Context, t *usecase.T, env usecase.CaseEnv) {
	home := openHome(ctx, t, env)

	t.Must(home.EnterSearchTerm(ctx, "bust"))
	suggestions, err := home.SearchSuggestions(ctx)
	t.Must(err)
	verifySuggestionsStartWith(t, suggestions, "bust")

	t.Must(home.EnterSearchTerm(ctx, "er"))
	suggestions, err = home.SearchSuggestions(ctx)
	t.Must(err)
	verifySuggestionsStartWith(t, suggestions, "buster")
}

func homeLanguageLink(ctx context.Context, t *usecase.T, env usecase.CaseEnv, edition languageEdition) {
	home := openHome(ctx, t, env)
	t.Must(home.ClickLanguageLink(ctx, edition.language))

	mainPage := pages.NewMain(env.Env)

	title, err := mainPage.Title(ctx)
	t.Must(err)
	assert.Equal(t, edition.title, title)

	body, err := mainPage.BodyText(ctx)
	t.Must(err)
	assert.Contains(t, strings.ReplaceAll(body, "\n", ""), edition.body)
}
