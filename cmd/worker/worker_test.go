package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/config"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	"github.com/lllypuk/passemploi/internal/infrastructure/eventbus"
	"github.com/lllypuk/passemploi/internal/infrastructure/healthcheck"
	"github.com/lllypuk/passemploi/internal/infrastructure/metrics"
	"github.com/lllypuk/passemploi/tests/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRetryConfig_UsesConfiguredBudget(t *testing.T) {
	cfg := config.DefaultConfig().Events
	cfg.MaxRetries = 7

	retry := retryConfig(cfg)

	assert.Equal(t, 7, retry.MaxRetries)
	assert.Equal(t, eventbus.DefaultRetryConfig().InitialBackoff, retry.InitialBackoff)
}

func TestMeasured_RecordsOutcome(t *testing.T) {
	m := metrics.NewEvenementMetrics(prometheus.NewRegistry())
	failure := errors.New("mongo down")
	calls := 0
	next := func(context.Context, evenement.Evenement) error {
		calls++
		if calls == 1 {
			return nil
		}
		return failure
	}

	handler := measured(next, m)
	e := evenement.Evenement{Code: evenement.CodeFavoriCree}

	require.NoError(t, handler(context.Background(), e))
	require.ErrorIs(t, handler(context.Background(), e), failure)

	code := string(evenement.CodeFavoriCree)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Processed.WithLabelValues(code, "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Processed.WithLabelValues(code, "failed")), 0)
}

func TestSubscribe_EveryCodeIsStoredAndLogged(t *testing.T) {
	// Subscribe only registers handlers; no Redis server is needed.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	bus := eventbus.NewRedisEventBus(client, eventbus.WithLogger(discardLogger()))

	err := subscribe(bus, mocks.NewMockEvenementPublisher(), metrics.NewEvenementMetrics(prometheus.NewRegistry()),
		discardLogger())

	require.NoError(t, err)
	for _, code := range evenement.Codes {
		assert.Equal(t, 2, bus.HandlerCount(code), "code %s", code)
	}
}

type fakeQueue struct {
	length atomic.Int64
	err    error
}

func (q *fakeQueue) QueueLength(context.Context) (int64, error) {
	return q.length.Load(), q.err
}

func TestSampleDeadLetters_UpdatesGauge(t *testing.T) {
	queue := &fakeQueue{}
	queue.length.Store(4)
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_dead_letters"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sampleDeadLetters(ctx, queue, gauge, 5*time.Millisecond, discardLogger())
		close(done)
	}()

	assert.Eventually(t, func() bool { return testutil.ToFloat64(gauge) == 4 }, time.Second, 5*time.Millisecond)

	queue.length.Store(9)
	assert.Eventually(t, func() bool { return testutil.ToFloat64(gauge) == 9 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sampler did not stop")
	}
}

func TestSampleDeadLetters_KeepsLastValueOnError(t *testing.T) {
	queue := &fakeQueue{err: errors.New("redis down")}
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_dead_letters"})
	gauge.Set(3)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	sampleDeadLetters(ctx, queue, gauge, 5*time.Millisecond, discardLogger())

	assert.InDelta(t, 3, testutil.ToFloat64(gauge), 0)
}

type stubChecker struct {
	status healthcheck.Status
}

func (c stubChecker) Name() string { return "stub" }

func (c stubChecker) Check(context.Context) healthcheck.Status { return c.status }

func TestRegisterObservability(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewEvenementMetrics(registry)
	m.RecordProcessed(string(evenement.CodeFavoriCree), nil)

	e := echo.New()
	health := healthcheck.NewRegistry(discardLogger()).
		Require(stubChecker{status: healthcheck.Status{Healthy: false, Message: "down"}})
	registerObservability(e, health, registry)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, get("/health").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get("/ready").Code)

	metricsRec := get("/metrics")
	require.Equal(t, http.StatusOK, metricsRec.Code)
	assert.Contains(t, metricsRec.Body.String(), "passemploi_evenements_processed_total")
}
