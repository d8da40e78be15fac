// Package metrics exposes the service's Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lllypuk/passemploi/internal/application/appcore"
)

// ExecutionMetrics records command and query executions. It implements appcore.Observer.
type ExecutionMetrics struct {
	Executions      *prometheus.CounterVec
	Duration        *prometheus.HistogramVec
	MonitorFailures *prometheus.CounterVec
}

var _ appcore.Observer = (*ExecutionMetrics)(nil)

// NewExecutionMetrics creates and registers execution metrics with the given registerer.
func NewExecutionMetrics(registerer prometheus.Registerer) *ExecutionMetrics {
	m := &ExecutionMetrics{
		Executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passemploi_executions_total",
				Help: "Total number of command and query executions",
			},
			// outcome: success, unexpected or the failure code
			[]string{"handler", "kind", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "passemploi_execution_duration_seconds",
				Help:    "Duration of command and query executions, monitor excluded",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"handler", "kind"},
		),
		MonitorFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passemploi_monitor_failures_total",
				Help: "Total number of failed monitor steps",
			},
			[]string{"handler"},
		),
	}

	registerer.MustRegister(m.Executions, m.Duration, m.MonitorFailures)
	return m
}

func (m *ExecutionMetrics) ObserveExecution(handler string, kind appcore.Kind, outcome string, duration time.Duration) {
	m.Executions.WithLabelValues(handler, string(kind), outcome).Inc()
	m.Duration.WithLabelValues(handler, string(kind)).Observe(duration.Seconds())
}

func (m *ExecutionMetrics) ObserveMonitorFailure(handler string) {
	m.MonitorFailures.WithLabelValues(handler).Inc()
}

// EvenementMetrics records the worker's processing of engagement evenements.
type EvenementMetrics struct {
	Processed      *prometheus.CounterVec
	DeadLettersLen prometheus.Gauge
}

// NewEvenementMetrics creates and registers evenement metrics with the given registerer.
func NewEvenementMetrics(registerer prometheus.Registerer) *EvenementMetrics {
	m := &EvenementMetrics{
		Processed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passemploi_evenements_processed_total",
				Help: "Total number of evenements handled by the worker",
			},
			[]string{"code", "status"}, // status: success/failed
		),
		DeadLettersLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "passemploi_evenements_dead_letters",
			Help: "Current length of the evenement dead letter queue",
		}),
	}

	registerer.MustRegister(m.Processed, m.DeadLettersLen)
	return m
}

// RecordProcessed counts one handled evenement.
func (m *EvenementMetrics) RecordProcessed(code string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	m.Processed.WithLabelValues(code, status).Inc()
}
