package browser

import (
	"errors"
	"fmt"
	"testing"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/pkg/apperr"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"
)

func TestPlaywrightSelector(t *testing.T) {
	cases := []struct {
		locator entity.Locator
		want    string
	}{
		{entity.ID("searchInput"), `css=[id="searchInput"]`},
		{entity.CSS(".suggestions-results > a"), "css=.suggestions-results > a"},
		{entity.XPath("//button[@type='submit']"), "xpath=//button[@type='submit']"},
		{entity.ClassName("toctext"), "css=.toctext"},
		{entity.TagName("tr"), "css=tr"},
		{entity.PartialLinkText("Current events"), `css=a:has-text("Current events")`},
	}

	for _, c := range cases {
		got, err := playwrightSelector(c.locator)
		require.NoError(t, err, c.locator.String())
		assert.Equal(t, c.want, got)
	}

	_, err := playwrightSelector(entity.Locator{By: "name", Value: "q"})
	assert.Equal(t, apperr.CodeUnsupported, apperr.CodeOf(err))
}

func TestSeleniumBy(t *testing.T) {
	by, value, err := seleniumBy(entity.PartialLinkText("Current events"))
	require.NoError(t, err)
	assert.Equal(t, selenium.ByPartialLinkText, by)
	assert.Equal(t, "Current events", value)

	by, _, err = seleniumBy(entity.CSS("a"))
	require.NoError(t, err)
	assert.Equal(t, selenium.ByCSSSelector, by)

	by, value, err = seleniumBy(entity.ClassName("toctext"))
	require.NoError(t, err)
	assert.Equal(t, selenium.ByCSSSelector, by)
	assert.Equal(t, ".toctext", value)
}

func TestSplitKeys(t *testing.T) {
	chunks := splitKeys("bust" + entity.KeyReturn)
	assert.Equal(t, []keyChunk{{text: "bust"}, {key: "Enter"}}, chunks)

	chunks = splitKeys(entity.KeyDown + entity.KeyDown + "x")
	assert.Equal(t, []keyChunk{{key: "ArrowDown"}, {key: "ArrowDown"}, {text: "x"}}, chunks)

	assert.Empty(t, splitKeys(""))
}

func TestClassify(t *testing.T) {
	assert.Nil(t, classify("op", nil, nil))

	err := classify("op", errors.New("Element is not attached to the DOM"), nil)
	assert.ErrorIs(t, err, apperr.ErrStaleElement)

	err = classify("op", fmt.Errorf("click: %w", playwright.ErrTimeout), nil)
	assert.ErrorIs(t, err, apperr.ErrTimeout)

	err = classify("op", &selenium.Error{Err: "stale element reference", Message: "element is stale"}, nil)
	assert.ErrorIs(t, err, apperr.ErrStaleElement)

	err = classify("op", &selenium.Error{Err: "no such element", Message: "unable to locate"}, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = classify("op", errors.New("net::ERR_NAME_NOT_RESOLVED"), nil)
	assert.Equal(t, apperr.CodeActionFailed, apperr.CodeOf(err))
}
