package core

import (
	"context"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// Measures reported about store engine operations, tagged by kind and operation
var (
	opCount = stats.Int64("modelstore/core/op_count",
		"number of store operations", stats.UnitDimensionless)
	opFailures = stats.Int64("modelstore/core/op_failures",
		"number of failed store operations", stats.UnitDimensionless)
	opTiming = stats.Float64("modelstore/core/op_timing",
		"store operation response time", stats.UnitMilliseconds)

	keyKind      = tag.MustNewKey("kind")
	keyOperation = tag.MustNewKey("operation")
)

// MetricsViews returns the opencensus views covering engine operations,
// for registration with the caller's exporter setup.
func MetricsViews() []*view.View {
	tags := []tag.Key{keyKind, keyOperation}
	return []*view.View{
		{
			Name:        "modelstore/core/op_count",
			Description: "number of store operations",
			Measure:     opCount,
			TagKeys:     tags,
			Aggregation: view.Count(),
		},
		{
			Name:        "modelstore/core/op_failures",
			Description: "number of failed store operations",
			Measure:     opFailures,
			TagKeys:     tags,
			Aggregation: view.Count(),
		},
		{
			Name:        "modelstore/core/op_timing",
			Description: "distribution of operation response times (ms)",
			Measure:     opTiming,
			TagKeys:     tags,
			Aggregation: view.Distribution(1, 5, 10, 50, 100, 500, 1000, 5000),
		},
	}
}

// record reports one operation outcome. Used with defer from engine entry points.
func (s *Store[T]) record(start time.Time, operation string, erp *error) {
	if !s.metricsEnabled {
		return
	}
	tags := []tag.Mutator{
		tag.Upsert(keyKind, s.kind),
		tag.Upsert(keyOperation, operation),
	}
	ms := []stats.Measurement{
		opCount.M(1),
		opTiming.M(float64(time.Since(start).Nanoseconds()) / 1e6),
	}
	if erp != nil && *erp != nil {
		ms = append(ms, opFailures.M(1))
	}
	_ = stats.RecordWithTags(context.Background(), tags, ms...)
}
