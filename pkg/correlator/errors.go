package correlator

import "errors"

// Every error returned by Handle wraps one of these. They all mean the
// broadcaster broke its ordering contract.
var (
	ErrDocumentNotFound    = errors.New("no gherkin document for uri")
	ErrScenarioNotFound    = errors.New("no scenario matches source location")
	ErrNoPendingPickle     = errors.New("test case started without an accepted pickle")
	ErrNoOpenDocument      = errors.New("test run finished without an open document")
	ErrStepIndexOutOfRange = errors.New("step index out of range")
	ErrUnknownEvent        = errors.New("unknown event")
)
