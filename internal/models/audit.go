package models

import "time"

// CompletionAudit records a single completion-service call
type CompletionAudit struct {
	ID         string    `json:"id" yaml:"id" badgerhold:"key"`
	RunID      string    `json:"run_id" yaml:"run_id" badgerhold:"index"`
	Operation  string    `json:"operation" yaml:"operation"` // "analyze" or "generate"
	Subject    string    `json:"subject" yaml:"subject"`     // test title or story name
	Provider   string    `json:"provider" yaml:"provider"`
	Model      string    `json:"model" yaml:"model"`
	Success    bool      `json:"success" yaml:"success"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMs int64     `json:"duration_ms" yaml:"duration_ms"`
	Prompt     string    `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Response   string    `json:"response,omitempty" yaml:"response,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}
