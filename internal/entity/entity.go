package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Engine string

const (
	EngineFirefox Engine = "firefox"
	EngineIE      Engine = "ie"
	EngineChrome  Engine = "chrome"
	EngineSafari  Engine = "safari"
)

// SupportedEngines is ordered the way the usage message lists them.
var SupportedEngines = []Engine{EngineFirefox, EngineIE, EngineChrome, EngineSafari}

func ParseEngine(s string) (Engine, bool) {
	for _, e := range SupportedEngines {
		if string(e) == s {
			return e, true
		}
	}

	return "", false
}

type By string

const (
	ByID              By = "id"
	ByCSS             By = "css"
	ByXPath           By = "xpath"
	ByClassName       By = "class"
	ByTagName         By = "tag"
	ByPartialLinkText By = "partial_link_text"
)

type Locator struct {
	By    By
	Value string
}

func ID(v string) Locator              { return Locator{By: ByID, Value: v} }
func CSS(v string) Locator             { return Locator{By: ByCSS, Value: v} }
func XPath(v string) Locator           { return Locator{By: ByXPath, Value: v} }
func ClassName(v string) Locator       { return Locator{By: ByClassName, Value: v} }
func TagName(v string) Locator         { return Locator{By: ByTagName, Value: v} }
func PartialLinkText(v string) Locator { return Locator{By: ByPartialLinkText, Value: v} }

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.By, l.Value)
}

// WebDriver key codes accepted by Element.SendKeys.
const (
	KeyBackspace = "\ue003"
	KeyTab       = "\ue004"
	KeyReturn    = "\ue006"
	KeyEnter     = "\ue007"
	KeyEscape    = "\ue00c"
	KeyUp        = "\ue013"
	KeyDown      = "\ue015"
)

// Suggestion is one entry of a search autosuggest dropdown.
type Suggestion struct {
	Title   string
	Summary string
	Link    string
}

// TableRow pairs a header cell with a data cell. A nil field means the cell was absent.
type TableRow struct {
	Label *string
	Value *string
}

func (r TableRow) LabelText() string {
	if r.Label == nil {
		return ""
	}

	return *r.Label
}

func (r TableRow) ValueText() string {
	if r.Value == nil {
		return ""
	}

	return *r.Value
}

type ArchiveLink struct {
	Href  string
	Title string
	Text  string
}

type ParsedDate struct {
	Month   string
	Day     string
	Year    string
	Weekday string
}

type CaseStatus string

const (
	CaseStatusPassed  CaseStatus = "ok"
	CaseStatusFailed  CaseStatus = "FAIL"
	CaseStatusError   CaseStatus = "ERROR"
	CaseStatusSkipped CaseStatus = "skipped"
)

type CaseResult struct {
	ID       uuid.UUID
	Suite    string
	Name     string
	Status   CaseStatus
	Failures []string
	Logs     []string
	Duration time.Duration
}

func (r CaseResult) FullName() string {
	return r.Suite + "." + r.Name
}

type RunReport struct {
	ID         uuid.UUID
	Engine     Engine
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []CaseResult
}

func (r *RunReport) Count(status CaseStatus) int {
	n := 0

	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}

	return n
}

func (r *RunReport) Passed() bool {
	return r.Count(CaseStatusFailed) == 0 && r.Count(CaseStatusError) == 0
}

func (r *RunReport) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Ran %d tests in %s", len(r.Results), r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))

	if r.Passed() {
		b.WriteString(" - OK")
	} else {
		fmt.Fprintf(&b, " - FAILED (failures=%d, errors=%d)", r.Count(CaseStatusFailed), r.Count(CaseStatusError))
	}

	if skipped := r.Count(CaseStatusSkipped); skipped > 0 {
		fmt.Fprintf(&b, " (skipped=%d)", skipped)
	}

	return b.String()
}
