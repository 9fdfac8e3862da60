package models

import "time"

// Status is the final state of one source in a run.
type Status string

// Source statuses.
const (
	StatusSuccess         Status = "success"
	StatusEmpty           Status = "empty"
	StatusUnexpectedShape Status = "unexpected_shape"
	StatusFailed          Status = "failed"
)

// Outcome records what happened to one configured source.
type Outcome struct {
	Err      error
	Source   string
	Adapter  string
	Status   Status
	File     string
	Digest   string
	Detail   string
	Rows     int
	Duration time.Duration
}

// Failed reports whether the source ended in failure.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}

// RunSummary aggregates outcome counts by status.
type RunSummary struct {
	Total           int
	Succeeded       int
	Empty           int
	UnexpectedShape int
	Failed          int
	Rows            int
}

// Summarize counts outcomes by status.
func Summarize(outcomes []Outcome) RunSummary {
	summary := RunSummary{Total: len(outcomes)}

	for _, o := range outcomes {
		switch o.Status {
		case StatusSuccess:
			summary.Succeeded++
			summary.Rows += o.Rows
		case StatusEmpty:
			summary.Empty++
		case StatusUnexpectedShape:
			summary.UnexpectedShape++
		case StatusFailed:
			summary.Failed++
		}
	}

	return summary
}
