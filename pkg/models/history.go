package models

import "time"

// AnalysisRecord is a persisted summary of a completed analysis run.
type AnalysisRecord struct {
	ID         int64     `json:"id"`
	Symbol     string    `json:"symbol"`
	Backend    string    `json:"backend"`
	PromptsRun int       `json:"prompts_run"`
	Errors     int       `json:"errors"`
	DurationMs int64     `json:"duration_ms"`
	Result     []byte    `json:"result,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
