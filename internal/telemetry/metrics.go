package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/sw33tLie/moviescope/pkg/compare"
	"github.com/sw33tLie/moviescope/pkg/errs"
)

// Metrics records upstream calls and comparison runs. It satisfies both
// movieapi.Observer and compare.Observer.
type Metrics struct {
	apiDuration     metric.Float64Histogram
	apiErrors       metric.Int64Counter
	runs            metric.Int64Counter
	failedProviders metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	apiDuration, err := meter.Float64Histogram("movie_api_duration_seconds",
		metric.WithDescription("Duration of upstream movie API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30))
	if err != nil {
		return nil, fmt.Errorf("create movie_api_duration_seconds: %w", err)
	}
	apiErrors, err := meter.Int64Counter("movie_api_errors_total",
		metric.WithDescription("Failed upstream movie API calls"),
		metric.WithUnit("{error}"))
	if err != nil {
		return nil, fmt.Errorf("create movie_api_errors_total: %w", err)
	}
	runs, err := meter.Int64Counter("movie_compare_runs_total",
		metric.WithDescription("Completed comparison runs"),
		metric.WithUnit("{run}"))
	if err != nil {
		return nil, fmt.Errorf("create movie_compare_runs_total: %w", err)
	}
	failedProviders, err := meter.Int64Counter("movie_compare_failed_providers_total",
		metric.WithDescription("Providers whose listing failed during a comparison run"),
		metric.WithUnit("{provider}"))
	if err != nil {
		return nil, fmt.Errorf("create movie_compare_failed_providers_total: %w", err)
	}

	return &Metrics{
		apiDuration:     apiDuration,
		apiErrors:       apiErrors,
		runs:            runs,
		failedProviders: failedProviders,
	}, nil
}

func (m *Metrics) CallFinished(upstream, endpoint string, elapsed time.Duration, err error) {
	ctx := context.Background()
	m.apiDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("upstream", upstream),
		attribute.String("endpoint", endpoint),
	))
	if err != nil {
		m.apiErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("upstream", upstream),
			attribute.String("error_type", string(errs.KindOf(err))),
		))
	}
}

func (m *Metrics) RunFinished(r compare.Report) {
	ctx := context.Background()
	m.runs.Add(ctx, 1)
	for _, name := range r.FailedProviders {
		m.failedProviders.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", name)))
	}
}
