package appcore

import "log/slog"

// Runtime holds the collaborators shared by every executor: logger, monitor
// dispatcher and telemetry observer.
type Runtime struct {
	logger     *slog.Logger
	dispatcher Dispatcher
	observer   Observer
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithLogger sets the logger used for unexpected errors.
func WithLogger(logger *slog.Logger) RuntimeOption {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithDispatcher sets the monitor dispatcher.
func WithDispatcher(dispatcher Dispatcher) RuntimeOption {
	return func(r *Runtime) {
		r.dispatcher = dispatcher
	}
}

// WithObserver sets the execution observer.
func WithObserver(observer Observer) RuntimeOption {
	return func(r *Runtime) {
		r.observer = observer
	}
}

// NewRuntime creates a Runtime. Without options it logs to slog.Default and
// dispatches monitors on an AsyncDispatcher.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.dispatcher == nil {
		r.dispatcher = NewAsyncDispatcher(
			WithDispatcherLogger(r.logger),
			WithDispatcherObserver(r.observer),
		)
	}
	return r
}
