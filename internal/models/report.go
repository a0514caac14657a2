package models

// Status is a Playwright outcome string. Results use passed/failed/timedOut/skipped/interrupted,
// tests additionally report expected/unexpected/flaky.
type Status string

const (
	StatusPassed      Status = "passed"
	StatusFailed      Status = "failed"
	StatusTimedOut    Status = "timedOut"
	StatusSkipped     Status = "skipped"
	StatusInterrupted Status = "interrupted"
	StatusExpected    Status = "expected"
	StatusUnexpected  Status = "unexpected"
	StatusFlaky       Status = "flaky"
)

// IsFailure reports whether a result status counts as a failed attempt.
func (s Status) IsFailure() bool {
	return s == StatusFailed || s == StatusTimedOut
}

// Report is the subset of the Playwright JSON reporter output consumed by the analyzer.
// Every collection may be absent in the input and decodes to nil.
type Report struct {
	Suites []Suite       `json:"suites,omitempty"`
	Stats  *Stats        `json:"stats,omitempty"`
	Errors []ReportError `json:"errors,omitempty"`
}

// Stats is the run summary block of the report
type Stats struct {
	StartTime  string  `json:"startTime,omitempty"`
	Duration   float64 `json:"duration"`
	Expected   int     `json:"expected"`
	Unexpected int     `json:"unexpected"`
	Flaky      int     `json:"flaky"`
	Skipped    int     `json:"skipped"`
}

// ReportError is a global (non-test) error raised by the runner
type ReportError struct {
	Message *string `json:"message,omitempty"`
	Stack   *string `json:"stack,omitempty"`
}

// Suite is a grouping node; suites nest arbitrarily deep
type Suite struct {
	Title  string  `json:"title"`
	File   string  `json:"file,omitempty"`
	Specs  []Spec  `json:"specs,omitempty"`
	Suites []Suite `json:"suites,omitempty"`
}

// Spec is a single test case definition inside a suite
type Spec struct {
	Title string `json:"title"`
	File  string `json:"file,omitempty"`
	Line  int    `json:"line,omitempty"`
	OK    *bool  `json:"ok,omitempty"`
	Tests []Test `json:"tests,omitempty"`
}

// Test is one execution lineage of a spec under a project (browser)
type Test struct {
	Status         Status   `json:"status"`
	ExpectedStatus Status   `json:"expectedStatus,omitempty"`
	ProjectName    *string  `json:"projectName,omitempty"`
	Results        []Result `json:"results,omitempty"`
}

// Result is a single attempt of a test
type Result struct {
	Status   Status        `json:"status"`
	Retry    int           `json:"retry"`
	Duration float64       `json:"duration"`
	Error    *ResultError  `json:"error,omitempty"`
	Stdout   []OutputChunk `json:"stdout,omitempty"`
	Stderr   []OutputChunk `json:"stderr,omitempty"`
}

// ResultError carries the failure message and stack of an attempt
type ResultError struct {
	Message *string `json:"message,omitempty"`
	Stack   *string `json:"stack,omitempty"`
}

// OutputChunk is a captured stdout/stderr entry. Playwright writes either text or a
// base64 buffer; only text chunks are used for prompts.
type OutputChunk struct {
	Text   *string `json:"text,omitempty"`
	Buffer *string `json:"buffer,omitempty"`
}

// FailedTest is the flattened view of a failing test produced by the failure collector.
// Project is nil when the report carries no projectName.
type FailedTest struct {
	Title   string   `json:"title"`
	Project *string  `json:"project,omitempty"`
	Status  Status   `json:"status"`
	Results []Result `json:"results"`
}

// FirstResult returns the first attempt, or nil when the test has no results
func (f *FailedTest) FirstResult() *Result {
	if len(f.Results) == 0 {
		return nil
	}
	return &f.Results[0]
}

// ProjectOr returns the project name or fallback when absent
func (f *FailedTest) ProjectOr(fallback string) string {
	if f.Project == nil || *f.Project == "" {
		return fallback
	}
	return *f.Project
}
