package main

import (
	"testing"
	"wiki-ui-suite/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usage = "Argument missing or invalid. Expected one of 'firefox', 'ie', 'chrome', 'safari'"

func TestParseArgs(t *testing.T) {
	for _, name := range []string{"firefox", "ie", "chrome", "safari"} {
		t.Run(name, func(t *testing.T) {
			engine, err := parseArgs([]string{name})
			require.NoError(t, err)
			assert.Equal(t, entity.Engine(name), engine)
		})
	}
}

func TestParseArgsUsage(t *testing.T) {
	for _, args := range [][]string{nil, {"opera"}, {"Chrome"}, {"chrome", "firefox"}} {
		_, err := parseArgs(args)
		require.Error(t, err, "%v", args)
		assert.Equal(t, usage, err.Error())
	}
}
