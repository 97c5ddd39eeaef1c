package entity

type ProcessReconciliationRequest struct {
	InputPath string `json:"input_path"`
	Sheet     string `json:"sheet"`
	OutputDir string `json:"output_dir"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Operator  string `json:"operator"`
}

// RunRequest is a validated reconciliation invocation.
type RunRequest struct {
	InputPath string
	Sheet     string
	OutputDir string
	Range     DateRange
	Operator  string
}

type ProcessMetadata struct {
	InputPath string `json:"input_path"`
	Sheet     string `json:"sheet,omitempty"`
	OutputDir string `json:"output_dir"`
	StartTime int64  `json:"start_time,omitempty"`
	EndTime   int64  `json:"end_time,omitempty"`
}

// RunOutcome is what a finished run hands back to its caller.
type RunOutcome struct {
	RunID      int64         `json:"run_id"`
	ReportID   string        `json:"report_id"`
	Summary    ReportSummary `json:"summary"`
	Artifacts  []string      `json:"artifacts"`
	DurationMs int64         `json:"duration_ms"`
}
