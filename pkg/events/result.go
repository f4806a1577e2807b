package events

import (
	"strings"
	"time"
)

// Status is the outcome of a step or test case.
type Status string

const (
	StatusPassed    Status = "passed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
	StatusPending   Status = "pending"
	StatusUndefined Status = "undefined"
	StatusAmbiguous Status = "ambiguous"
)

// severity orders statuses the way cucumber aggregates them.
var severity = map[Status]int{
	StatusPassed:    0,
	StatusSkipped:   1,
	StatusPending:   2,
	StatusUndefined: 3,
	StatusAmbiguous: 4,
	StatusFailed:    5,
}

// ParseStatus maps a cucumber status name in any case to a Status.
// Unknown names map to StatusUndefined.
func ParseStatus(s string) Status {
	status := Status(strings.ToLower(s))
	if _, ok := severity[status]; !ok {
		return StatusUndefined
	}
	return status
}

// WorstStatus returns the most severe of the given statuses, or
// StatusPassed when none are given.
func WorstStatus(statuses ...Status) Status {
	worst := StatusPassed
	for _, s := range statuses {
		if severity[s] > severity[worst] {
			worst = s
		}
	}
	return worst
}

// Exception describes why a step failed.
type Exception struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

func (e *Exception) Error() string {
	if e.Type == "" {
		return e.Message
	}
	if e.Message == "" {
		return e.Type
	}
	return e.Type + ": " + e.Message
}

// Result is the outcome of a single step or test case.
type Result struct {
	Duration  time.Duration `json:"duration"`
	Status    Status        `json:"status"`
	Exception error         `json:"-"`
}

// Passed reports whether the result counts as a success.
func (r Result) Passed() bool {
	return r.Status == StatusPassed
}

// RunResult is carried by test-run-finished.
type RunResult struct {
	Duration time.Duration `json:"duration"`
	Success  bool          `json:"success"`
}
