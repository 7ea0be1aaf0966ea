package models

import "time"

// PromptResult is the outcome of a single prompt: the rendered prompt text
// and either the backend response or an error marker.
type PromptResult struct {
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
	Err      string `json:"error,omitempty"`
}

// Failed reports whether this prompt's model call failed.
func (r PromptResult) Failed() bool {
	return r.Err != ""
}

// AnalysisResult is the aggregate output of one analysis run.
// Results holds exactly one entry per ID in PromptsRun; PromptsRun preserves
// the caller-requested order.
type AnalysisResult struct {
	Symbol      string                  `json:"symbol"`
	Timestamp   time.Time               `json:"timestamp"`
	Backend     string                  `json:"backend"`
	PromptsRun  []string                `json:"prompts_run"`
	Results     map[string]PromptResult `json:"results"`
	Summary     string                  `json:"summary"`
	LiveContext *LiveContext            `json:"live_context,omitempty"`
}

// ErrorCount returns how many prompts ended in an error marker.
func (a *AnalysisResult) ErrorCount() int {
	n := 0
	for _, r := range a.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}
