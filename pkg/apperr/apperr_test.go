package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapMatchesSentinelByCode(t *testing.T) {
	err := Wrap("Settle", CodeTimeout, errors.New("url unchanged"), nil)

	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrStaleElement)
	assert.Equal(t, "Settle: url unchanged", err.Error())
}

func TestHasCodeWalksNestedErrors(t *testing.T) {
	inner := StaleError("Text", errors.New("element is not attached to the DOM"))
	outer := Wrap("Suggestions", CodeActionFailed, fmt.Errorf("read: %w", inner), nil)

	assert.True(t, HasCode(outer, CodeStaleElement))
	assert.True(t, HasCode(outer, CodeActionFailed))
	assert.False(t, HasCode(outer, CodeTimeout))
	assert.Equal(t, CodeActionFailed, CodeOf(outer))
	assert.ErrorIs(t, outer, ErrStaleElement)
}

func TestMetadataDefaults(t *testing.T) {
	err := Wrap("op", CodeInternal, nil, nil)

	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.NotNil(t, appErr.Metadata)
	assert.Equal(t, "op", appErr.Error())

	err = InvalidReqError("Load", "engine", errors.New("unknown engine"))
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "engine", appErr.Metadata[MetaField])
	assert.Equal(t, CodeInvalidArgument, appErr.Code)
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.False(t, HasCode(nil, CodeTimeout))
}
