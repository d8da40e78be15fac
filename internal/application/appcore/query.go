package appcore

import (
	"context"
	"log/slog"
	"time"

	"github.com/lllypuk/passemploi/internal/domain/authentification"
)

// QueryHandler is implemented by every read use case. Handle must not mutate state.
type QueryHandler[Q, R any] interface {
	Authorize(ctx context.Context, query Q, utilisateur authentification.Utilisateur) (Result[Unit], error)
	Handle(ctx context.Context, query Q, utilisateur authentification.Utilisateur) (Result[R], error)
}

// QueryMonitor is optionally implemented by query handlers that record consultations.
// It runs only after a successful Handle.
type QueryMonitor[Q any] interface {
	Monitor(ctx context.Context, utilisateur authentification.Utilisateur, query Q) error
}

// QueryExecutor drives a QueryHandler through authorize, handle and the optional monitor.
type QueryExecutor[Q, R any] struct {
	name    string
	handler QueryHandler[Q, R]
	monitor QueryMonitor[Q]
	runtime *Runtime
}

// NewQueryExecutor wraps handler under the given name.
func NewQueryExecutor[Q, R any](name string, handler QueryHandler[Q, R], runtime *Runtime) *QueryExecutor[Q, R] {
	if runtime == nil {
		runtime = NewRuntime()
	}
	e := &QueryExecutor[Q, R]{name: name, handler: handler, runtime: runtime}
	if monitor, ok := handler.(QueryMonitor[Q]); ok {
		e.monitor = monitor
	}
	return e
}

// Name returns the handler name.
func (e *QueryExecutor[Q, R]) Name() string {
	return e.name
}

// Execute authorizes then handles the query. An unexpected error from Handle is
// returned as error, distinct from a domain failure.
func (e *QueryExecutor[Q, R]) Execute(
	ctx context.Context,
	query Q,
	utilisateur authentification.Utilisateur,
) (Result[R], error) {
	start := time.Now()

	authorized, err := e.handler.Authorize(ctx, query, utilisateur)
	if err != nil {
		return e.unexpected(ctx, StepAuthorize, err, start)
	}
	if authorized.IsFailure() {
		result := Propagate[R](authorized)
		e.observe(result, start)
		return result, nil
	}

	result, err := e.handler.Handle(ctx, query, utilisateur)
	if err != nil {
		return e.unexpected(ctx, StepHandle, err, start)
	}

	if e.monitor != nil && result.IsSuccess() {
		e.runtime.dispatcher.Dispatch(ctx, e.name, func(ctx context.Context) error {
			return e.monitor.Monitor(ctx, utilisateur, query)
		})
	}

	e.observe(result, start)
	return result, nil
}

func (e *QueryExecutor[Q, R]) observe(result Result[R], start time.Time) {
	e.runtime.observer.ObserveExecution(e.name, KindQuery, outcomeOf(result), time.Since(start))
}

func (e *QueryExecutor[Q, R]) unexpected(
	ctx context.Context,
	step Step,
	err error,
	start time.Time,
) (Result[R], error) {
	e.runtime.logger.ErrorContext(ctx, "query failed unexpectedly",
		correlationIDAttr(ctx),
		slog.String("handler", e.name),
		slog.String("step", string(step)),
		slog.String("error", err.Error()),
	)
	e.runtime.observer.ObserveExecution(e.name, KindQuery, OutcomeUnexpected, time.Since(start))
	return Result[R]{}, newUnexpectedError(e.name, step, err)
}
