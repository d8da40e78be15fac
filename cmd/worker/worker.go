package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lllypuk/passemploi/internal/config"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	"github.com/lllypuk/passemploi/internal/infrastructure/eventbus"
	"github.com/lllypuk/passemploi/internal/infrastructure/healthcheck"
	"github.com/lllypuk/passemploi/internal/infrastructure/httpserver"
	"github.com/lllypuk/passemploi/internal/infrastructure/metrics"
)

const deadLetterSampleInterval = 30 * time.Second

// retryConfig applies the configured retry budget to the default backoff.
func retryConfig(cfg config.EventsConfig) eventbus.RetryConfig {
	retry := eventbus.DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries
	return retry
}

// measured counts every attempt of next by evenement code and outcome.
func measured(next eventbus.Handler, m *metrics.EvenementMetrics) eventbus.Handler {
	return func(ctx context.Context, e evenement.Evenement) error {
		err := next(ctx, e)
		m.RecordProcessed(string(e.Code), err)
		return err
	}
}

// subscribe stores every evenement code and logs it.
func subscribe(
	bus *eventbus.RedisEventBus,
	repository evenement.Repository,
	m *metrics.EvenementMetrics,
	logger *slog.Logger,
) error {
	return eventbus.RegisterForAllCodes(bus,
		measured(eventbus.NewStoreHandler(repository).AsHandler(), m),
		eventbus.NewLoggingHandler(logger).AsHandler(),
	)
}

// sampleDeadLetters keeps the dead letter gauge current until ctx is done.
func sampleDeadLetters(
	ctx context.Context,
	queue healthcheck.QueueLengther,
	gauge prometheus.Gauge,
	interval time.Duration,
	logger *slog.Logger,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		count, err := queue.QueueLength(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.WarnContext(ctx, "failed to sample dead letter queue", slog.String("error", err.Error()))
		} else {
			gauge.Set(float64(count))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// registerObservability exposes the probes and the metrics of the worker.
func registerObservability(e *echo.Echo, health httpserver.HealthChecker, gatherer prometheus.Gatherer) {
	httpserver.NewHealthEndpoints(health).Register(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
