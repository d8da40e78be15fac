package healthcheck

import (
	"context"

	"github.com/sony/gobreaker/v2"
)

// BreakerStateFunc returns the current state of a circuit breaker.
type BreakerStateFunc func() gobreaker.State

// MiloBreakerChecker reports the Milo partner as degraded while its breaker is not closed.
// The API keeps serving without Milo, so it is meant to be observed, not required.
type MiloBreakerChecker struct {
	state BreakerStateFunc
}

func NewMiloBreakerChecker(state BreakerStateFunc) *MiloBreakerChecker {
	return &MiloBreakerChecker{state: state}
}

func (c *MiloBreakerChecker) Name() string {
	return "milo"
}

func (c *MiloBreakerChecker) Check(context.Context) Status {
	state := c.state()
	if state == gobreaker.StateClosed {
		return Status{Healthy: true}
	}
	return Status{Healthy: true, Degraded: true, Message: "circuit breaker " + state.String()}
}
