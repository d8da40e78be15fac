package appcore

import "fmt"

// Step names an execution stage of the command and query templates.
type Step string

const (
	StepAuthorize    Step = "authorize"
	StepGetAggregate Step = "get_aggregate"
	StepHandle       Step = "handle"
)

// UnexpectedError wraps a non-domain failure raised by one of the template steps.
// The HTTP boundary renders it as a 500.
type UnexpectedError struct {
	Handler string
	Step    Step
	Err     error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Handler, e.Step, e.Err)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

func newUnexpectedError(handler string, step Step, err error) error {
	return &UnexpectedError{Handler: handler, Step: step, Err: err}
}
