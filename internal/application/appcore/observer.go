package appcore

import "time"

// Kind distinguishes command executions from query executions.
type Kind string

const (
	KindCommand Kind = "command"
	KindQuery   Kind = "query"
)

// Outcome labels of an execution besides the failure codes.
const (
	OutcomeSuccess    = "success"
	OutcomeUnexpected = "unexpected"
)

// Observer receives execution telemetry. Implementations must be safe for concurrent use.
type Observer interface {
	ObserveExecution(handler string, kind Kind, outcome string, duration time.Duration)
	ObserveMonitorFailure(handler string)
}

type nopObserver struct{}

func (nopObserver) ObserveExecution(string, Kind, string, time.Duration) {}

func (nopObserver) ObserveMonitorFailure(string) {}

func outcomeOf[T any](r Result[T]) string {
	if r.IsSuccess() {
		return OutcomeSuccess
	}
	return string(r.Code())
}
