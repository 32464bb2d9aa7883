// Package observe provides OpenTelemetry metrics for the calculator and a
// Prometheus exporter bridge so they can be scraped via /metrics.
package observe

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// meterName is the instrumentation scope name used for all calculator metrics.
const meterName = "github.com/udisondev/plantcalc"

// Metrics holds the calculator's metric instruments.
// Safe for concurrent use.
type Metrics struct {
	// Calculations counts damage and fuse calculations.
	// Attributes: op (damage|fuse), mode (formula|table), status (ok|error).
	Calculations metric.Int64Counter

	// Errors counts failed calculations by error kind.
	Errors metric.Int64Counter

	// TableLoads counts damage table fetches by status.
	TableLoads metric.Int64Counter

	// TableLoadDuration tracks damage table fetch + parse latency.
	TableLoadDuration metric.Float64Histogram

	// HTTPRequestDuration tracks API request latency by method and route pattern.
	HTTPRequestDuration metric.Float64Histogram
}

var loadBuckets = []float64{
	0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
}

// NewMetrics creates all instruments from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Calculations, err = m.Int64Counter("plantcalc.calculations",
		metric.WithDescription("Total calculations by operation, mode and status."),
	); err != nil {
		return nil, err
	}
	if met.Errors, err = m.Int64Counter("plantcalc.errors",
		metric.WithDescription("Total failed calculations by error kind."),
	); err != nil {
		return nil, err
	}
	if met.TableLoads, err = m.Int64Counter("plantcalc.table.loads",
		metric.WithDescription("Total damage table loads by status."),
	); err != nil {
		return nil, err
	}
	if met.TableLoadDuration, err = m.Float64Histogram("plantcalc.table.load.duration",
		metric.WithDescription("Latency of fetching and parsing one damage table."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(loadBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("plantcalc.http.request.duration",
		metric.WithDescription("HTTP request latency by method and route."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// Discard returns instruments that record nothing.
func Discard() *Metrics {
	m, err := NewMetrics(noop.NewMeterProvider())
	if err != nil {
		panic(err)
	}
	return m
}

// RecordCalculation records one calculation; kind is "" on success.
func (m *Metrics) RecordCalculation(ctx context.Context, op, mode, kind string) {
	status := "ok"
	if kind != "" {
		status = "error"
		m.Errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("op", op),
			attribute.String("kind", kind),
		))
	}
	m.Calculations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("mode", mode),
		attribute.String("status", status),
	))
}

// RecordTableLoad records one damage table load.
func (m *Metrics) RecordTableLoad(ctx context.Context, took time.Duration, err error) {
	status := "ok"
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = "canceled"
	case err != nil:
		status = "error"
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.TableLoads.Add(ctx, 1, attrs)
	m.TableLoadDuration.Record(ctx, took.Seconds(), attrs)
}
