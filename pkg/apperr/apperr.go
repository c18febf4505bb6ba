package apperr

import (
	"errors"
	"fmt"
)

const (
	MetaReason   = "reason"
	MetaStage    = "stage"
	MetaField    = "field"
	MetaCase     = "case"
	MetaAction   = "action"
	MetaSelector = "selector"
	MetaURL      = "url"
	MetaEngine   = "engine"
	MetaBudget   = "budget"
	MetaInput    = "input"

	StagePreparation = "preparation"
	StageBrowser     = "browser"
	StageSession     = "session"
	StageSettle      = "settle"
	StageNavigation  = "navigation"
	StageInteraction = "interaction"
	StageExtraction  = "extraction"
	StageParsing     = "parsing"

	CodeInternal        = "internal"
	CodeInvalidArgument = "invalid_argument"
	CodeNotFound        = "not_found"
	CodeStaleElement    = "stale_element"
	CodePatternMismatch = "pattern_mismatch"
	CodeUnavailable     = "unavailable"
	CodeTimeout         = "timeout"
	CodeBrowserNotReady = "browser_not_ready"
	CodeActionFailed    = "action_failed"
	CodeUnsupported     = "unsupported"
)

var (
	ErrNotFound        = errors.New("element not found")
	ErrStaleElement    = errors.New("stale element reference")
	ErrPatternMismatch = errors.New("text does not match expected pattern")
	ErrTimeout         = errors.New("timed out waiting for condition")
	ErrInvalidMonth    = errors.New("invalid month")
)

var sentinels = map[string]error{
	CodeNotFound:        ErrNotFound,
	CodeStaleElement:    ErrStaleElement,
	CodePatternMismatch: ErrPatternMismatch,
	CodeTimeout:         ErrTimeout,
}

type Error struct {
	Op       string
	Code     string
	Err      error
	Metadata map[string]any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, apperr.ErrTimeout) match any Error carrying the timeout code,
// whatever the wrapped cause is.
func (e *Error) Is(target error) bool {
	if sentinel, ok := sentinels[e.Code]; ok {
		return sentinel == target
	}

	return false
}

func Wrap(op, code string, err error, metadata map[string]any) error {
	if metadata == nil {
		metadata = make(map[string]any)
	}

	return &Error{
		Op:       op,
		Code:     code,
		Err:      err,
		Metadata: metadata,
	}
}

func WrapWithReason(op, code string, err error, reason string) error {
	return Wrap(op, code, err, map[string]any{
		MetaReason: reason,
	})
}

func WrapErrorWithReason(op, code, reason string) error {
	return Wrap(op, code, errors.New(reason), map[string]any{
		MetaReason: reason,
	})
}

func InvalidReqError(op, field string, err error) error {
	return Wrap(op, CodeInvalidArgument, err, map[string]any{
		MetaField:  field,
		MetaReason: "invalid_request",
	})
}

func NotFoundError(op string, err error) error {
	return Wrap(op, CodeNotFound, err, map[string]any{
		MetaReason: "not_found",
	})
}

func StaleError(op string, err error) error {
	return Wrap(op, CodeStaleElement, err, map[string]any{
		MetaReason: "stale_element",
	})
}

func TimeoutError(op string, err error, metadata map[string]any) error {
	return Wrap(op, CodeTimeout, err, metadata)
}

// CodeOf returns the code of the outermost Error in the chain, or "" if there is none.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return ""
}

// HasCode reports whether any Error in the chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		var appErr *Error
		if !errors.As(err, &appErr) {
			return false
		}

		if appErr.Code == code {
			return true
		}

		err = appErr.Err
	}

	return false
}
