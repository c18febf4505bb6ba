package logg

// Field keys shared by every zap logger in the suite.
const (
	Layer     = "layer"
	Operation = "operation"
	URL       = "url"
	Selector  = "selector"
	Action    = "action"
	Engine    = "engine"
	RunID     = "run_id"
	CaseID    = "case_id"
	Case      = "case"
	Suite     = "suite"
	Attempt   = "attempt"
	Elapsed   = "elapsed"
)
