package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Consume outcomes recorded by RecordConsumeOutcome.
const (
	OutcomeDisclosed        = "disclosed"
	OutcomeNotFound         = "not_found"
	OutcomeExpired          = "expired"
	OutcomeInvalidKey       = "invalid_key"
	OutcomeDecryptionFailed = "decryption_failed"
	OutcomeCorrupt          = "corrupt"
	OutcomeError            = "error"
)

// BusinessMetrics records use case level metrics.
type BusinessMetrics interface {
	// RecordOperation counts one operation, e.g. ("secrets", "secret_consume", "success").
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records the operation latency in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordConsumeOutcome counts consume attempts by outcome (see the Outcome constants).
	RecordConsumeOutcome(ctx context.Context, outcome string)

	// RecordPurged adds count to the number of dead records removed by retention.
	RecordPurged(ctx context.Context, count int64)
}

type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	consumeCounter   metric.Int64Counter
	purgedCounter    metric.Int64Counter
}

// NewBusinessMetrics creates the instruments on a meter named after namespace.
// Every instrument name is prefixed with namespace.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of business operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of business operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	consumeCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_secret_consume_total", namespace),
		metric.WithDescription("Consume attempts by outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create consume counter: %w", err)
	}

	purgedCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_secrets_purged_total", namespace),
		metric.WithDescription("Dead secret records removed by retention"),
		metric.WithUnit("{secret}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create purged counter: %w", err)
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		consumeCounter:   consumeCounter,
		purgedCounter:    purgedCounter,
	}, nil
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

func (b *businessMetrics) RecordConsumeOutcome(ctx context.Context, outcome string) {
	b.consumeCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (b *businessMetrics) RecordPurged(ctx context.Context, count int64) {
	if count <= 0 {
		return
	}
	b.purgedCounter.Add(ctx, count)
}

// NoOpBusinessMetrics is used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {}

func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}

func (n *NoOpBusinessMetrics) RecordConsumeOutcome(ctx context.Context, outcome string) {}

func (n *NoOpBusinessMetrics) RecordPurged(ctx context.Context, count int64) {}
