// Package telemetry wires OpenTelemetry metrics for upstream calls and
// comparison runs.
package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	meterName          = "github.com/sw33tLie/moviescope"
	defaultServiceName = "moviescope"
	defaultInterval    = 30 * time.Second
)

// Config controls metric export. An empty OTLPEndpoint disables export.
type Config struct {
	OTLPEndpoint string
	Insecure     bool
	ServiceName  string
	Interval     time.Duration
}

// Provider owns the meter provider for the lifetime of the process.
type Provider struct {
	sdk   *sdkmetric.MeterProvider
	meter metric.Meter
}

// Init builds an OTLP/HTTP meter provider, or a noop one when no endpoint is
// configured.
func Init(ctx context.Context, cfg Config) (*Provider, error) {
	endpoint := strings.TrimSpace(cfg.OTLPEndpoint)
	if endpoint == "" {
		return &Provider{meter: noop.NewMeterProvider().Meter(meterName)}, nil
	}

	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = defaultServiceName
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(name)))
	if err != nil {
		return nil, fmt.Errorf("create telemetry resource: %w", err)
	}

	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(stripScheme(endpoint))}
	if cfg.Insecure || strings.HasPrefix(endpoint, "http://") {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp)
	return &Provider{sdk: mp, meter: mp.Meter(meterName)}, nil
}

// Meter returns the meter instruments should be created on.
func (p *Provider) Meter() metric.Meter {
	return p.meter
}

// Shutdown flushes pending metrics.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.sdk == nil {
		return nil
	}
	if err := p.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown meter provider: %w", err)
	}
	return nil
}

func stripScheme(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	return strings.TrimRight(endpoint, "/")
}
