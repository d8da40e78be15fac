package appcore

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// DefaultMonitorTimeout bounds a single monitor call.
const DefaultMonitorTimeout = 10 * time.Second

// MonitorFunc is a best-effort side effect run after an execution.
type MonitorFunc func(ctx context.Context) error

// Dispatcher runs monitor calls off the request path.
type Dispatcher interface {
	Dispatch(ctx context.Context, handler string, fn MonitorFunc)
}

// AsyncDispatcher runs each monitor on its own goroutine. Errors and panics are
// logged and counted, never returned.
type AsyncDispatcher struct {
	logger   *slog.Logger
	observer Observer
	timeout  time.Duration
	wg       sync.WaitGroup
}

// DispatcherOption configures an AsyncDispatcher.
type DispatcherOption func(*AsyncDispatcher)

// WithDispatcherLogger sets the logger used for monitor failures.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *AsyncDispatcher) {
		d.logger = logger
	}
}

// WithDispatcherObserver sets the observer notified of monitor failures.
func WithDispatcherObserver(observer Observer) DispatcherOption {
	return func(d *AsyncDispatcher) {
		d.observer = observer
	}
}

// WithMonitorTimeout bounds each monitor call.
func WithMonitorTimeout(timeout time.Duration) DispatcherOption {
	return func(d *AsyncDispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// NewAsyncDispatcher creates a dispatcher.
func NewAsyncDispatcher(opts ...DispatcherOption) *AsyncDispatcher {
	d := &AsyncDispatcher{
		logger:   slog.Default(),
		observer: nopObserver{},
		timeout:  DefaultMonitorTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch starts fn and returns immediately. The monitor context keeps the
// request values but not its cancellation.
func (d *AsyncDispatcher) Dispatch(ctx context.Context, handler string, fn MonitorFunc) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		monitorCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.run(monitorCtx, fn); err != nil {
			d.logger.ErrorContext(monitorCtx, "monitor failed",
				correlationIDAttr(monitorCtx),
				slog.String("handler", handler),
				slog.String("error", err.Error()),
			)
			d.observer.ObserveMonitorFailure(handler)
		}
	}()
}

func (d *AsyncDispatcher) run(ctx context.Context, fn MonitorFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn(ctx)
}

// Wait blocks until every dispatched monitor has returned or ctx is done.
func (d *AsyncDispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
