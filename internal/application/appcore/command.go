package appcore

import (
	"context"
	"log/slog"
	"time"

	"github.com/lllypuk/passemploi/internal/domain/authentification"
)

// CommandHandler is implemented by every mutation use case.
//
//   - Authorize runs first; a failure ends the execution.
//   - GetAggregate loads the aggregate the command is about, nil when absent.
//   - Handle performs at most one persistence mutation and produces the final Result.
//   - Monitor is a best-effort side effect run off the request path.
//
// Unexpected failures are returned as error and never folded into the Result.
type CommandHandler[C, A, R any] interface {
	Authorize(ctx context.Context, cmd C, utilisateur authentification.Utilisateur) (Result[Unit], error)
	GetAggregate(ctx context.Context, cmd C) (*A, error)
	Handle(ctx context.Context, cmd C, utilisateur authentification.Utilisateur, aggregate *A) (Result[R], error)
	Monitor(ctx context.Context, utilisateur authentification.Utilisateur, cmd C, aggregate *A) error
}

// NoAggregate is embedded by handlers of commands that create rather than mutate.
type NoAggregate[C, A any] struct{}

func (NoAggregate[C, A]) GetAggregate(context.Context, C) (*A, error) {
	return nil, nil
}

// NoMonitor is embedded by handlers without audit side effect.
type NoMonitor[C, A any] struct{}

func (NoMonitor[C, A]) Monitor(context.Context, authentification.Utilisateur, C, *A) error {
	return nil
}

// CommandExecutor drives a CommandHandler through authorize, load, handle and monitor.
type CommandExecutor[C, A, R any] struct {
	name    string
	handler CommandHandler[C, A, R]
	runtime *Runtime
}

// NewCommandExecutor wraps handler under the given name (used in logs and metrics).
func NewCommandExecutor[C, A, R any](
	name string,
	handler CommandHandler[C, A, R],
	runtime *Runtime,
) *CommandExecutor[C, A, R] {
	if runtime == nil {
		runtime = NewRuntime()
	}
	return &CommandExecutor[C, A, R]{name: name, handler: handler, runtime: runtime}
}

// Name returns the handler name.
func (e *CommandExecutor[C, A, R]) Name() string {
	return e.name
}

// Execute returns Authorize's failure when authorization fails, otherwise
// exactly the Result produced by Handle.
func (e *CommandExecutor[C, A, R]) Execute(
	ctx context.Context,
	cmd C,
	utilisateur authentification.Utilisateur,
) (Result[R], error) {
	start := time.Now()

	authorized, err := e.handler.Authorize(ctx, cmd, utilisateur)
	if err != nil {
		return e.unexpected(ctx, StepAuthorize, err, start)
	}
	if authorized.IsFailure() {
		result := Propagate[R](authorized)
		e.observe(result, start)
		return result, nil
	}

	aggregate, err := e.handler.GetAggregate(ctx, cmd)
	if err != nil {
		return e.unexpected(ctx, StepGetAggregate, err, start)
	}

	result, err := e.handler.Handle(ctx, cmd, utilisateur, aggregate)
	if err != nil {
		return e.unexpected(ctx, StepHandle, err, start)
	}

	e.runtime.dispatcher.Dispatch(ctx, e.name, func(ctx context.Context) error {
		return e.handler.Monitor(ctx, utilisateur, cmd, aggregate)
	})

	e.observe(result, start)
	return result, nil
}

func (e *CommandExecutor[C, A, R]) observe(result Result[R], start time.Time) {
	e.runtime.observer.ObserveExecution(e.name, KindCommand, outcomeOf(result), time.Since(start))
}

func (e *CommandExecutor[C, A, R]) unexpected(
	ctx context.Context,
	step Step,
	err error,
	start time.Time,
) (Result[R], error) {
	e.runtime.logger.ErrorContext(ctx, "command failed unexpectedly",
		correlationIDAttr(ctx),
		slog.String("handler", e.name),
		slog.String("step", string(step)),
		slog.String("error", err.Error()),
	)
	e.runtime.observer.ObserveExecution(e.name, KindCommand, OutcomeUnexpected, time.Since(start))
	return Result[R]{}, newUnexpectedError(e.name, step, err)
}
