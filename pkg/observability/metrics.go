package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricComparesTotal   = "structdiff.compares.total"
	metricCompareDuration = "structdiff.compare.duration.seconds"
	metricErrorsTotal     = "structdiff.errors.total"
	metricChangesEmitted  = "structdiff.changes.emitted.total"

	attrOp     = "op"
	attrStatus = "status"
	attrImpact = "impact"

	statusError = "error"
)

// durationBucketBoundaries covers 1ms to 60s: a compare ranges from
// sub-millisecond identical-tree checks to multi-second parses.
//
//nolint:gochecknoglobals // Fixed histogram layout.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// CompareMetrics holds the OTel instruments recorded per compare operation.
type CompareMetrics struct {
	comparesTotal   metric.Int64Counter
	compareDuration metric.Float64Histogram
	errorsTotal     metric.Int64Counter
	changesEmitted  metric.Int64Counter
}

// NewCompareMetrics creates the compare instruments from the given meter.
func NewCompareMetrics(mt metric.Meter) (*CompareMetrics, error) {
	compares, err := mt.Int64Counter(metricComparesTotal,
		metric.WithDescription("Total number of compare operations"),
		metric.WithUnit("{compare}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricComparesTotal, err)
	}

	duration, err := mt.Float64Histogram(metricCompareDuration,
		metric.WithDescription("Compare duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCompareDuration, err)
	}

	errTotal, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Total number of failed operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	emitted, err := mt.Int64Counter(metricChangesEmitted,
		metric.WithDescription("Total number of changes emitted, by impact"),
		metric.WithUnit("{change}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricChangesEmitted, err)
	}

	return &CompareMetrics{
		comparesTotal:   compares,
		compareDuration: duration,
		errorsTotal:     errTotal,
		changesEmitted:  emitted,
	}, nil
}

// RecordCompare records one completed compare with its operation label,
// status, and duration.
func (cm *CompareMetrics) RecordCompare(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	cm.comparesTotal.Add(ctx, 1, attrs)
	cm.compareDuration.Record(ctx, duration.Seconds(), attrs)

	if status == statusError {
		cm.errorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrOp, op),
		))
	}
}

// RecordChanges records the number of emitted changes for one impact level.
func (cm *CompareMetrics) RecordChanges(ctx context.Context, impact string, count int64) {
	cm.changesEmitted.Add(ctx, count, metric.WithAttributes(
		attribute.String(attrImpact, impact),
	))
}
