package models

// Story is a markdown user story keyed by its filename stem.
// Structured fields are re-derived from Text on demand.
type Story struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Text string `json:"text"`
}
