// Package telemetry counts quotes through an OpenTelemetry meter backed by a
// Prometheus registry. The quoter is a one-shot process, so instead of
// serving /metrics it writes the registry as a node-exporter textfile.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/amm"
)

const meterName = "github.com/Cogwheel-Validator/spectra-amm-quoter/quoter"

// impact buckets in percent, both directions
var impactBuckets = []float64{-50, -10, -5, -3, -1, 0, 1, 3, 5, 10, 50}

// Config configures the meter.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// Also print collected metrics to stderr on shutdown
	DevelopmentMode bool
}

// DefaultConfig returns the config the CLI uses.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "spectra-amm-quoter",
		ServiceVersion: "1.0.0",
	}
}

// Metrics holds the quote instruments and the registry they export to.
// All methods are safe for concurrent use.
type Metrics struct {
	registry *promclient.Registry
	provider *metric.MeterProvider

	quotes otelmetric.Int64Counter
	errors otelmetric.Int64Counter
	impact otelmetric.Float64Histogram
}

// New builds a meter provider with a Prometheus reader on a private registry.
func New(config Config) (*Metrics, error) {
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	opts := []metric.Option{
		metric.WithResource(resource.NewSchemaless(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
		)),
		metric.WithReader(exporter),
		metric.WithView(metric.NewView(
			metric.Instrument{Name: "quoter_price_impact_percent"},
			metric.Stream{Aggregation: metric.AggregationExplicitBucketHistogram{Boundaries: impactBuckets}},
		)),
	}
	if config.DevelopmentMode {
		stdoutExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stderr))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
		}
		// flushed by Shutdown; the interval only matters for long scenario runs
		opts = append(opts, metric.WithReader(metric.NewPeriodicReader(stdoutExporter,
			metric.WithInterval(10*time.Second))))
	}

	provider := metric.NewMeterProvider(opts...)
	meter := provider.Meter(meterName)

	m := &Metrics{registry: registry, provider: provider}
	if m.quotes, err = meter.Int64Counter("quoter_quotes",
		otelmetric.WithDescription("Swap quotes computed, by direction and impact severity")); err != nil {
		return nil, fmt.Errorf("failed to create quotes counter: %w", err)
	}
	if m.errors, err = meter.Int64Counter("quoter_errors",
		otelmetric.WithDescription("Rejected or failed quotes, by error kind")); err != nil {
		return nil, fmt.Errorf("failed to create errors counter: %w", err)
	}
	if m.impact, err = meter.Float64Histogram("quoter_price_impact_percent",
		otelmetric.WithDescription("Price impact of computed quotes in percent")); err != nil {
		return nil, fmt.Errorf("failed to create impact histogram: %w", err)
	}
	return m, nil
}

// RecordQuote counts a successful quote.
func (m *Metrics) RecordQuote(ctx context.Context, direction amm.TradeDirection, b amm.SwapBreakdown) {
	severity := amm.ClassifyImpact(b.PriceImpact)
	m.quotes.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("direction", direction.String()),
		attribute.String("severity", string(severity)),
	))
	m.impact.Record(ctx, b.PriceImpact.InexactFloat64(),
		otelmetric.WithAttributes(attribute.String("direction", direction.String())))
}

// RecordError counts a failed quote under its error kind.
func (m *Metrics) RecordError(ctx context.Context, err error) {
	m.errors.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("kind", ErrorKind(err))))
}

// ErrorKind maps an engine error to a short label value.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, amm.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, amm.ErrInvalidPoolState):
		return "invalid_pool_state"
	case errors.Is(err, amm.ErrInvalidSlippage):
		return "invalid_slippage"
	case errors.Is(err, amm.ErrNegativeSlippageFactor):
		return "negative_slippage_factor"
	case errors.Is(err, amm.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, amm.ErrInvalidDecimal):
		return "invalid_decimal"
	default:
		return "other"
	}
}

// WriteTextfile writes the current registry contents to path in the
// Prometheus text format. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := promclient.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() promclient.Gatherer {
	return m.registry
}

// Shutdown flushes and stops every reader.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}
