package envelope

import "errors"

var (
	ErrUnknownTestCase        = errors.New("unknown test case")
	ErrUnknownPickle          = errors.New("unknown pickle")
	ErrUnknownTestCaseStarted = errors.New("unknown test case started")
	ErrUnknownTestStep        = errors.New("unknown test step")
)
