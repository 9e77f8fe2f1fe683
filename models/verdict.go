package models

// Verdict is the outcome of one evaluation: the overall decision plus the
// per-check breakdown. Produced once per call, never persisted.
type Verdict struct {
	Overall bool            `json:"verdict"`
	Checks  map[string]bool `json:"checks"`
}
