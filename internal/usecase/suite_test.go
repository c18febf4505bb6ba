package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
	"wiki-ui-suite/internal/browser/browsertest"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newSuite(t *testing.T, cases ...Case) (*SuiteService, *browsertest.Factory) {
	t.Helper()

	factory := &browsertest.Factory{Site: browsertest.NewWikipedia(time.Now())}
	require.NoError(t, factory.Launch(context.Background()))

	conf := browsertest.Config()
	conf.SuiteConfig.CaseTimeout = 200 * time.Millisecond

	return NewSuiteService(SuiteServiceParams{
		Config:  conf,
		Logger:  zaptest.NewLogger(t),
		Browser: factory,
		Cases:   cases,
	}), factory
}

func TestRunReportsEveryOutcome(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })

	reached := false

	suite, factory := newSuite(t,
		Case{Suite: "S", Name: "passes", Run: func(ctx context.Context, t *T, env CaseEnv) {
			title, err := env.Driver.Title(ctx)
			t.Must(err)
			assert.Empty(t, title)
			t.Logf("title %q", title)
		}},
		Case{Suite: "S", Name: "asserts", Run: func(_ context.Context, t *T, _ CaseEnv) {
			assert.Equal(t, 1, 2)
			assert.Equal(t, "a", "b")
		}},
		Case{Suite: "S", Name: "requires", Run: func(_ context.Context, t *T, _ CaseEnv) {
			require.True(t, false, "stop here")
			reached = true
		}},
		Case{Suite: "S", Name: "errors", Run: func(_ context.Context, t *T, _ CaseEnv) {
			t.Must(apperr.NotFoundError("Find", apperr.ErrNotFound))
		}},
		Case{Suite: "S", Name: "panics", Run: func(context.Context, *T, CaseEnv) {
			panic("boom")
		}},
		Case{Suite: "S", Name: "hangs", Run: func(context.Context, *T, CaseEnv) {
			<-block
		}},
		Case{Suite: "S", Name: "skips", Run: func(_ context.Context, t *T, _ CaseEnv) {
			t.Skip("not on this engine")
		}},
	)

	var streamed []string

	report, err := suite.Run(context.Background(), func(r entity.CaseResult) {
		streamed = append(streamed, r.Name)
	})
	require.NoError(t, err)
	require.Len(t, report.Results, 7)

	statuses := map[string]entity.CaseStatus{}
	for _, r := range report.Results {
		statuses[r.Name] = r.Status
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", r.ID.String())
	}

	assert.Equal(t, map[string]entity.CaseStatus{
		"passes":   entity.CaseStatusPassed,
		"asserts":  entity.CaseStatusFailed,
		"requires": entity.CaseStatusFailed,
		"errors":   entity.CaseStatusError,
		"panics":   entity.CaseStatusError,
		"hangs":    entity.CaseStatusError,
		"skips":    entity.CaseStatusSkipped,
	}, statuses)

	assert.Len(t, report.Results[1].Failures, 2, "assert keeps the case running")
	assert.False(t, reached, "require ends the case")
	assert.Contains(t, report.Results[5].Failures[0], "timed out")
	assert.Len(t, report.Results[0].Logs, 1)

	assert.Equal(t, []string{"passes", "asserts", "requires", "errors", "panics", "hangs", "skips"}, streamed)
	assert.False(t, report.Passed())
	assert.Equal(t, entity.EngineChrome, report.Engine)

	sessions := factory.Sessions()
	require.Len(t, sessions, 7, "one session per case")

	for _, s := range sessions {
		assert.True(t, s.Closed())
	}
}

func TestRunFiltersByName(t *testing.T) {
	noop := func(context.Context, *T, CaseEnv) {}

	suite, _ := newSuite(t,
		Case{Suite: "HomePage", Name: "title", Run: noop},
		Case{Suite: "MainPage", Name: "autosuggest", Run: noop},
		Case{Suite: "HomePage", Name: "autosuggest", Run: noop},
	)
	suite.config.SuiteConfig.Filter = "homepage.AUTO"

	report, err := suite.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "HomePage.autosuggest", report.Results[0].FullName())
	assert.True(t, report.Passed())
}

func TestRunRequiresLaunchedBrowser(t *testing.T) {
	suite, factory := newSuite(t)
	require.NoError(t, factory.Close(context.Background()))

	_, err := suite.Run(context.Background(), nil)

	assert.Equal(t, apperr.CodeBrowserNotReady, apperr.CodeOf(err))
}

func TestStopAbandonsRemainingCases(t *testing.T) {
	var suite *SuiteService

	suite, _ = newSuite(t,
		Case{Suite: "S", Name: "first", Run: func(context.Context, *T, CaseEnv) {
			suite.Stop()
		}},
		Case{Suite: "S", Name: "second", Run: func(context.Context, *T, CaseEnv) {}},
	)

	report, err := suite.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "first", report.Results[0].Name)
}

func TestCasesGetSeededRandomness(t *testing.T) {
	var draws []int

	draw := func(_ context.Context, _ *T, env CaseEnv) {
		draws = append(draws, env.Rand.IntN(1_000_000))
	}

	run := func() []int {
		draws = nil
		suite, _ := newSuite(t, Case{Suite: "S", Name: "a", Run: draw}, Case{Suite: "S", Name: "b", Run: draw})
		suite.config.SuiteConfig.Seed = 42

		_, err := suite.Run(context.Background(), nil)
		require.NoError(t, err)

		return draws
	}

	first := run()
	assert.Equal(t, first, run())
	assert.Len(t, first, 2)
}

func TestErrorOutranksFailure(t *testing.T) {
	tt := newT("x", zaptest.NewLogger(t))

	tt.Errorf("assertion %d", 1)
	tt.record(entity.CaseStatusError, "boom")
	tt.Errorf("assertion %d", 2)

	status, failures, _ := tt.seal()
	assert.Equal(t, entity.CaseStatusError, status)
	assert.Equal(t, []string{"assertion 1", "boom", "assertion 2"}, failures)

	tt.Errorf("after seal")
	_, failures, _ = tt.seal()
	assert.Len(t, failures, 3)
	assert.True(t, tt.Failed())
}

func TestMustIgnoresNil(t *testing.T) {
	done := make(chan struct{})
	tt := newT("x", zaptest.NewLogger(t))

	go func() {
		defer close(done)
		tt.Must(nil)
		tt.Must(errors.New("stop"))
		tt.Errorf("unreachable")
	}()
	<-done

	status, failures, _ := tt.seal()
	assert.Equal(t, entity.CaseStatusError, status)
	assert.Equal(t, []string{"stop"}, failures)
}
