package harness

import "github.com/maxter/simrec/internal/recording"

// TraceEvent records one executed step.
type TraceEvent struct {
	Step   int            `json:"step"`
	Op     string         `json:"op"`
	Args   map[string]any `json:"args,omitempty"`
	Result map[string]any `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expectation matched.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation mismatches. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// ListenerCalls counts change notifications during the run.
	ListenerCalls int `json:"listener_calls"`

	// RemovedFiles lists file paths deleted by remove operations, in order.
	RemovedFiles []string `json:"removed_files,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// infoMap flattens a recording for the trace.
func infoMap(info recording.Info) map[string]any {
	return map[string]any{
		"id":           info.ID,
		"name":         info.Name,
		"path":         info.Path,
		"length":       info.Length,
		"created_time": info.CreatedTime,
	}
}
