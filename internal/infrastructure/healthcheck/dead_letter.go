package healthcheck

import (
	"context"
	"fmt"
)

// QueueLengther is implemented by eventbus.DeadLetterHandler.
type QueueLengther interface {
	QueueLength(ctx context.Context) (int64, error)
}

// DeadLetterChecker reports evenements the worker failed to store.
type DeadLetterChecker struct {
	queue QueueLengther
}

func NewDeadLetterChecker(queue QueueLengther) *DeadLetterChecker {
	return &DeadLetterChecker{queue: queue}
}

func (c *DeadLetterChecker) Name() string {
	return "evenements_dead_letters"
}

func (c *DeadLetterChecker) Check(ctx context.Context) Status {
	count, err := c.queue.QueueLength(ctx)
	if err != nil {
		return Status{Message: fmt.Sprintf("failed to get dead letter queue length: %v", err)}
	}
	if count > 0 {
		return Status{Healthy: true, Degraded: true, Message: fmt.Sprintf("dead letter queue: %d evenements", count)}
	}
	return Status{Healthy: true}
}
