// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrInvalidConfig is returned when the Prometheus configuration is invalid.
	ErrInvalidConfig = errors.New("invalid prometheus configuration")

	// ErrRegistrationFailed is returned when metric registration fails.
	ErrRegistrationFailed = errors.New("metric registration failed")
)

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

// PrometheusConfig configures the Prometheus sink.
//
// Thread Safety: Immutable after creation; safe for concurrent read access.
type PrometheusConfig struct {
	// Namespace is the metrics namespace (e.g., "driftlens").
	// Required.
	Namespace string

	// Subsystem is the metrics subsystem (e.g., "analyzer").
	// Required.
	Subsystem string

	// Registry is the Prometheus registry to use.
	// If nil, uses prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// DurationBuckets defines histogram buckets for analysis duration
	// (seconds). If nil, uses default buckets.
	DurationBuckets []float64
}

// DefaultPrometheusConfig returns a configuration with sensible defaults.
//
// Outputs:
//   - *PrometheusConfig: Configuration with defaults applied. Never nil.
func DefaultPrometheusConfig() *PrometheusConfig {
	return &PrometheusConfig{
		Namespace: "driftlens",
		Subsystem: "analyzer",
		DurationBuckets: []float64{
			0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0,
		},
	}
}

// Validate checks that the configuration is valid.
//
// Outputs:
//   - error: Non-nil if a required field is missing.
func (c *PrometheusConfig) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("%w: namespace is required", ErrInvalidConfig)
	}
	if c.Subsystem == "" {
		return fmt.Errorf("%w: subsystem is required", ErrInvalidConfig)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Prometheus Sink
// -----------------------------------------------------------------------------

// PrometheusSink exports analysis metrics to a Prometheus registry.
//
// Metrics:
//   - {ns}_{sub}_analyses_total: counter of completed analyses
//   - {ns}_{sub}_fields_examined_total: counter of examined fields
//   - {ns}_{sub}_significant_fields_total: counter of flagged fields
//   - {ns}_{sub}_field_tests_total{strategy,outcome}: counter of field tests
//   - {ns}_{sub}_analysis_duration_seconds: histogram of run durations
//
// Thread Safety: Safe for concurrent use; the underlying client collectors
// are thread-safe.
type PrometheusSink struct {
	analyses    prometheus.Counter
	fields      prometheus.Counter
	significant prometheus.Counter
	fieldTests  *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewPrometheusSink creates and registers the sink's collectors.
//
// Inputs:
//   - config: Sink configuration. If nil, uses DefaultPrometheusConfig().
//
// Outputs:
//   - *PrometheusSink: The registered sink. Nil on error.
//   - error: ErrInvalidConfig or ErrRegistrationFailed.
func NewPrometheusSink(config *PrometheusConfig) (*PrometheusSink, error) {
	if config == nil {
		config = DefaultPrometheusConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	registry := config.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	buckets := config.DurationBuckets
	if buckets == nil {
		buckets = DefaultPrometheusConfig().DurationBuckets
	}

	sink := &PrometheusSink{
		analyses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "analyses_total",
			Help:      "Total completed analysis runs.",
		}),
		fields: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "fields_examined_total",
			Help:      "Total fields examined across analysis runs.",
		}),
		significant: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "significant_fields_total",
			Help:      "Total fields flagged as statistically significant.",
		}),
		fieldTests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "field_tests_total",
			Help:      "Field-level statistical tests by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of analysis runs.",
			Buckets:   buckets,
		}),
	}

	collectors := []prometheus.Collector{
		sink.analyses, sink.fields, sink.significant, sink.fieldTests, sink.duration,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
		}
	}

	return sink, nil
}

// RecordAnalysis records one completed analysis run.
//
// Thread Safety: Safe for concurrent use.
func (s *PrometheusSink) RecordAnalysis(duration time.Duration, fields, significant int) {
	s.analyses.Inc()
	s.fields.Add(float64(fields))
	s.significant.Add(float64(significant))
	s.duration.Observe(duration.Seconds())
}

// RecordFieldTest records one field-level test by strategy and outcome.
//
// Thread Safety: Safe for concurrent use.
func (s *PrometheusSink) RecordFieldTest(strategy, outcome string) {
	s.fieldTests.WithLabelValues(strategy, outcome).Inc()
}

// Ensure PrometheusSink implements Sink.
var _ Sink = (*PrometheusSink)(nil)
