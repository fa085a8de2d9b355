package sim

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/SwiggitySwerve/MekStation-sub016/internal/sim"

type metrics struct {
	duels  metric.Int64Counter
	turns  metric.Int64Histogram
	events metric.Int64Histogram
}

func newMetrics() (*metrics, error) {
	m := otel.Meter(instrumentationName)
	var (
		out metrics
		err error
	)
	out.duels, err = m.Int64Counter(
		"sim.duels.completed",
		metric.WithDescription("Duels played to the end"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duels counter: %w", err)
	}
	out.turns, err = m.Int64Histogram(
		"sim.duel.turns",
		metric.WithDescription("Turns per duel"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating turns histogram: %w", err)
	}
	out.events, err = m.Int64Histogram(
		"sim.duel.events",
		metric.WithDescription("Events logged per duel"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events histogram: %w", err)
	}
	return &out, nil
}

func (m *metrics) record(ctx context.Context, res Result) {
	attrs := metric.WithAttributes(
		attribute.String("winner", res.Winner),
		attribute.String("reason", res.Reason),
	)
	m.duels.Add(ctx, 1, attrs)
	m.turns.Record(ctx, int64(res.Turns), attrs)
	if res.Session != nil {
		m.events.Record(ctx, int64(res.Session.Len()), attrs)
	}
}
