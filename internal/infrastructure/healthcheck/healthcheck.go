// Package healthcheck probes the infrastructure the API depends on.
package healthcheck

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lllypuk/passemploi/internal/infrastructure/httpserver"
)

const defaultCheckTimeout = 2 * time.Second

// Status is the outcome of one check.
type Status struct {
	Healthy bool

	// Degraded marks a component that answers but not at full capacity.
	Degraded bool
	Message  string
}

// Checker probes a single component.
type Checker interface {
	Name() string
	Check(ctx context.Context) Status
}

type entry struct {
	checker  Checker
	required bool
}

// Registry runs every registered checker concurrently and implements httpserver.HealthChecker.
type Registry struct {
	entries []entry
	timeout time.Duration
	logger  *slog.Logger
}

var _ httpserver.HealthChecker = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{timeout: defaultCheckTimeout, logger: logger}
}

// Require registers a checker whose failure makes the service not ready.
func (r *Registry) Require(c Checker) *Registry {
	r.entries = append(r.entries, entry{checker: c, required: true})
	return r
}

// Observe registers a checker that is reported but never blocks readiness.
func (r *Registry) Observe(c Checker) *Registry {
	r.entries = append(r.entries, entry{checker: c})
	return r
}

// IsReady reports whether every required checker is healthy.
func (r *Registry) IsReady(ctx context.Context) bool {
	statuses := r.run(ctx)
	for i, e := range r.entries {
		if e.required && !statuses[i].Healthy {
			return false
		}
	}
	return true
}

// GetHealthStatus returns the status of every registered component.
func (r *Registry) GetHealthStatus(ctx context.Context) []httpserver.ComponentStatus {
	statuses := r.run(ctx)
	components := make([]httpserver.ComponentStatus, len(r.entries))
	for i, e := range r.entries {
		components[i] = httpserver.ComponentStatus{
			Name:    e.checker.Name(),
			Status:  statusLabel(statuses[i]),
			Message: statuses[i].Message,
		}
	}
	return components
}

func (r *Registry) run(ctx context.Context) []Status {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	statuses := make([]Status, len(r.entries))
	var g errgroup.Group
	for i, e := range r.entries {
		g.Go(func() error {
			statuses[i] = e.checker.Check(ctx)
			if !statuses[i].Healthy {
				r.logger.WarnContext(ctx, "health check failed",
					slog.String("component", e.checker.Name()),
					slog.String("message", statuses[i].Message),
				)
			}
			return nil
		})
	}
	_ = g.Wait()
	return statuses
}

func statusLabel(s Status) string {
	switch {
	case !s.Healthy:
		return httpserver.StatusUnhealthy
	case s.Degraded:
		return httpserver.StatusDegraded
	default:
		return httpserver.StatusHealthy
	}
}
