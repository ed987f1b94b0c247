// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry exports analysis metrics to monitoring systems.
package telemetry

import "time"

// Outcome labels for field-level test metrics.
const (
	// OutcomeOK indicates the test produced a p-value.
	OutcomeOK = "ok"

	// OutcomeSignificant indicates the test produced a p-value below alpha.
	OutcomeSignificant = "significant"

	// OutcomeError indicates the test failed (insufficient samples,
	// indeterminate statistic, invalid input).
	OutcomeError = "error"
)

// Sink receives analysis metrics.
//
// Thread Safety: Implementations must be safe for concurrent use.
type Sink interface {
	// RecordAnalysis records one completed analysis run.
	//
	// Inputs:
	//   - duration: Wall time of the run.
	//   - fields: Number of fields examined.
	//   - significant: Number of fields flagged as significant.
	RecordAnalysis(duration time.Duration, fields, significant int)

	// RecordFieldTest records one field-level test by strategy and outcome.
	RecordFieldTest(strategy, outcome string)
}

// NopSink discards all metrics. Useful for tests and metrics-off mode.
type NopSink struct{}

// RecordAnalysis discards the observation (no-op).
func (NopSink) RecordAnalysis(time.Duration, int, int) {}

// RecordFieldTest discards the observation (no-op).
func (NopSink) RecordFieldTest(string, string) {}

// Ensure NopSink implements Sink.
var _ Sink = NopSink{}
