package scenarios

import (
	"context"
	_ "embed"
	"fmt"
	"wiki-ui-suite/internal/pages"
	"wiki-ui-suite/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

//go:embed infobox_cases.yaml
var infoboxCasesYAML []byte

type infoboxCase struct {
	Name   string          `yaml:"name"`
	Search string          `yaml:"search"`
	Expect []infoboxExpect `yaml:"expect"`
}

type infoboxExpect struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

func loadInfoboxCases(data []byte) ([]infoboxCase, error) {
	var cases []infoboxCase

	if err := yaml.UnmarshalStrict(data, &cases); err != nil {
		return nil, fmt.Errorf("parse infobox cases: %w", err)
	}

	for i, c := range cases {
		if c.Name == "" || c.Search == "" || len(c.Expect) == 0 {
			return nil, fmt.Errorf("infobox case %d: name, search and expect are required", i)
		}
	}

	return cases, nil
}

func ArticleCases() ([]usecase.Case, error) {
	infoboxes, err := loadInfoboxCases(infoboxCasesYAML)
	if err != nil {
		return nil, err
	}

	cases := make([]usecase.Case, 0, len(infoboxes)+1)

	for _, ic := range infoboxes {
		cases = append(cases, usecase.Case{
			Suite: suiteArticle,
			Name:  caseName("infobox for %s", ic.Name),
			Run: func(ctx context.Context, t *usecase.T, env usecase.CaseEnv) {
				articleInfobox(ctx, t, env, ic)
			},
		})
	}

	cases = append(cases, usecase.Case{Suite: suiteArticle, Name: "compare_toc_and_headlines", Run: articleTOCAndHeadlines})

	return cases, nil
}

func openArticleBySearch(ctx context.Context, t *usecase.T, env usecase.CaseEnv, term string) *pages.Article {
	mainPage := openMain(ctx, t, env)
	t.Must(mainPage.OpenArticleBySearch(ctx, term))

	return pages.NewArticle(env.Env)
}

func articleInfobox(ctx context.Context, t *usecase.T, env usecase.CaseEnv, ic infoboxCase) {
	article := openArticleBySearch(ctx, t, env, ic.Search)

	rows, err := article.InfoboxContents(ctx)
	t.Must(err)

	for _, want := range ic.Expect {
		got, ok := article.ValueFromInfoboxContents(rows, want.Label)
		if assert.True(t, ok, "no infobox value labelled %q", want.Label) {
			assert.Contains(t, got, want.Value)
		}
	}
}

func articleTOCAndHeadlines(ctx context.Context, t *usecase.T, env usecase.CaseEnv) {
	article := openArticleBySearch(ctx, t, env, "Douglas Adams")

	toc, err := article.TOCItems(ctx)
	t.Must(err)
	require.NotEmpty(t, toc, "TOC is empty")

	headlines, err := article.Headlines(ctx)
	t.Must(err)
	require.NotEmpty(t, headlines, "No headlines found")

	assert.Equal(t, toc, headlines)
}
