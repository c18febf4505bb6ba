package browser

import (
	"errors"
	"strings"
	"wiki-ui-suite/pkg/apperr"

	"github.com/playwright-community/playwright-go"
	"github.com/tebeka/selenium"
)

// Messages the drivers use when a handle outlived the node or document it pointed at.
var staleMarkers = []string{
	"not attached to the dom",
	"jshandle is disposed",
	"execution context was destroyed",
	"cannot find context with specified id",
	"stale element reference",
	"node is detached",
}

var notFoundMarkers = []string{
	"no such element",
	"unable to locate element",
}

// classify wraps a driver error with the suite's error code so callers can tell a
// replaced element apart from a real failure.
func classify(op string, err error, metadata map[string]any) error {
	if err == nil {
		return nil
	}

	code := apperr.CodeActionFailed

	switch {
	case errors.Is(err, playwright.ErrTimeout):
		code = apperr.CodeTimeout
	case containsAny(err, staleMarkers):
		code = apperr.CodeStaleElement
	case containsAny(err, notFoundMarkers):
		code = apperr.CodeNotFound
	}

	var wdErr *selenium.Error
	if errors.As(err, &wdErr) {
		switch wdErr.Err {
		case "stale element reference":
			code = apperr.CodeStaleElement
		case "no such element":
			code = apperr.CodeNotFound
		case "timeout", "script timeout":
			code = apperr.CodeTimeout
		}
	}

	return apperr.Wrap(op, code, err, metadata)
}

func containsAny(err error, markers []string) bool {
	msg := strings.ToLower(err.Error())

	for _, m := range markers {
		if strings.Contains(msg, m) {
			return true
		}
	}

	return false
}
