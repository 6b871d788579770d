package models

import "fmt"

// Status is the outcome of processing one file
type Status string

const (
	// StatusUpdated means the file content changed
	StatusUpdated Status = "updated"
	// StatusUnchanged means there was nothing to do, e.g. the idempotence guard matched
	StatusUnchanged Status = "unchanged"
	// StatusSkipped means the file was not processed (absent, or missing the anchor)
	StatusSkipped Status = "skipped"
	// StatusFailed means the document was rejected and left untouched
	StatusFailed Status = "failed"
)

// Result reports what happened to a single file
type Result struct {
	File    string
	Status  Status
	Reason  string
	Changes []string // names of the edits applied, in order
	Notes   []string // non-fatal observations, e.g. an asset anchor that was not found

	// Before and After hold the document content on dry runs so callers can diff.
	Before string
	After  string
}

// AddChange records an applied edit
func (r *Result) AddChange(name string) {
	r.Changes = append(r.Changes, name)
}

// AddNote records a non-fatal observation
func (r *Result) AddNote(format string, args ...interface{}) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// Summary counts results per status
type Summary struct {
	Updated   int
	Unchanged int
	Skipped   int
	Failed    int
}

// Summarize tallies a result slice
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusUpdated:
			s.Updated++
		case StatusUnchanged:
			s.Unchanged++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

// Total returns the number of results counted
func (s Summary) Total() int {
	return s.Updated + s.Unchanged + s.Skipped + s.Failed
}

// HasFailures reports whether any result failed
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}
