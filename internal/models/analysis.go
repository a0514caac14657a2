package models

// AnalysisRecord is the completion-service verdict for one failed test.
// Analysis holds an HTML fragment and is empty when the service returned no text.
type AnalysisRecord struct {
	Title    string `json:"title" yaml:"title"`
	Project  string `json:"project" yaml:"project"`
	Status   Status `json:"status" yaml:"status"`
	Analysis string `json:"analysis" yaml:"analysis"`
}

// GeneratedTest describes a test source file written from a story
type GeneratedTest struct {
	Story    string `json:"story"`
	Path     string `json:"path"`
	Content  string `json:"content"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}
