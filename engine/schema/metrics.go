package schema

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Config documents are labelled with the title of the schema they are checked against,
// which is the name of the config class the schema was generated from.
const (
	metricCompiles           = "pipebase_config_schema_compiles_total"
	metricValidations        = "pipebase_config_validations_total"
	metricValidationDuration = "pipebase_config_validation_duration_seconds"

	attrConfigClass = "config_class"
	attrOutcome     = "outcome"
	attrCacheHit    = "cache_hit"

	untitledSchema = "untitled"
)

var validationBuckets = []float64{0.00001, 0.0001, 0.001, 0.01, 0.1}

type configMetrics struct {
	compiles    metric.Int64Counter
	validations metric.Int64Counter
	duration    metric.Float64Histogram
}

var (
	metricsOnce sync.Once
	metrics     *configMetrics
)

func newConfigMetrics(meter metric.Meter) (*configMetrics, error) {
	compiles, err := meter.Int64Counter(
		metricCompiles,
		metric.WithDescription("Config schemas compiled or served from the compile cache"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	validations, err := meter.Int64Counter(
		metricValidations,
		metric.WithDescription("Config documents validated, by config class and outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(
		metricValidationDuration,
		metric.WithDescription("Time spent validating a config document"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(validationBuckets...),
	)
	if err != nil {
		return nil, err
	}
	return &configMetrics{compiles: compiles, validations: validations, duration: duration}, nil
}

// currentMetrics returns the instruments of the global meter provider, or nil when they
// could not be created.
func currentMetrics() *configMetrics {
	metricsOnce.Do(func() {
		m, err := newConfigMetrics(otel.GetMeterProvider().Meter("pipebase.config"))
		if err != nil {
			otel.Handle(err)
			return
		}
		metrics = m
	})
	return metrics
}

// useMeter replaces the instruments with ones created from meter.
func useMeter(meter metric.Meter) error {
	m, err := newConfigMetrics(meter)
	if err != nil {
		return err
	}
	metricsOnce.Do(func() {})
	metrics = m
	return nil
}

func (m *configMetrics) recordCompile(ctx context.Context, class string, cacheHit bool) {
	if m == nil {
		return
	}
	m.compiles.Add(metricsContext(ctx), 1, metric.WithAttributes(
		attribute.String(attrConfigClass, class),
		attribute.Bool(attrCacheHit, cacheHit),
	))
}

func (m *configMetrics) recordValidation(ctx context.Context, class string, took time.Duration, valid bool) {
	if m == nil {
		return
	}
	outcome := "invalid"
	if valid {
		outcome = "valid"
	}
	ctx = metricsContext(ctx)
	m.validations.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrConfigClass, class),
		attribute.String(attrOutcome, outcome),
	))
	m.duration.Record(ctx, took.Seconds(), metric.WithAttributes(attribute.String(attrConfigClass, class)))
}

func metricsContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
