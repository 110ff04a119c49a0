package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/monowai/beancounter-sub001/internal/application/usecase"

var tracer = otel.Tracer(instrumentationName)

// Metrics holds the instruments the use cases record to.
type Metrics struct {
	accumulated metric.Int64Counter
	rejected    metric.Int64Counter
	valuations  metric.Int64Counter
	duration    metric.Float64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	accumulated, err := meter.Int64Counter("positions.trn.accumulated",
		metric.WithDescription("Transactions folded into positions"))
	if err != nil {
		return nil, fmt.Errorf("create accumulated counter: %w", err)
	}
	rejected, err := meter.Int64Counter("positions.trn.rejected",
		metric.WithDescription("Transactions rejected by a business rule"))
	if err != nil {
		return nil, fmt.Errorf("create rejected counter: %w", err)
	}
	valuations, err := meter.Int64Counter("positions.valuations",
		metric.WithDescription("Valuation attempts by outcome"))
	if err != nil {
		return nil, fmt.Errorf("create valuations counter: %w", err)
	}
	duration, err := meter.Float64Histogram("positions.valuation.duration",
		metric.WithDescription("Valuation latency"), metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}
	return &Metrics{accumulated: accumulated, rejected: rejected, valuations: valuations, duration: duration}, nil
}

// NopMetrics returns Metrics that record nothing.
func NopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	return m
}

func (m *Metrics) folded(ctx context.Context, portfolio string, accumulated, rejected int) {
	attrs := metric.WithAttributes(attribute.String("portfolio", portfolio))
	m.accumulated.Add(ctx, int64(accumulated), attrs)
	if rejected > 0 {
		m.rejected.Add(ctx, int64(rejected), attrs)
	}
}

func (m *Metrics) valued(ctx context.Context, portfolio string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.valuations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("portfolio", portfolio), attribute.String("outcome", outcome)))
	m.duration.Record(ctx, time.Since(started).Seconds(),
		metric.WithAttributes(attribute.String("portfolio", portfolio)))
}
