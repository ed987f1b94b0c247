// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package analyzer

import (
	"time"
)

// MaxProbability is the error probability assigned to structural problems
// (missing or unexpected fields) that cannot be tested statistically.
const MaxProbability = 0.99999

// -----------------------------------------------------------------------------
// Field Status
// -----------------------------------------------------------------------------

// FieldStatus describes how a field was handled during analysis.
type FieldStatus int

const (
	// StatusAnalyzed indicates the field was tested statistically.
	StatusAnalyzed FieldStatus = iota

	// StatusMissing indicates the field exists only in the reference dataset.
	StatusMissing

	// StatusUnexpected indicates the field exists only in the suspect dataset.
	StatusUnexpected

	// StatusFailed indicates the statistical test could not run
	// (insufficient samples, indeterminate statistic, kind mismatch).
	StatusFailed
)

// String returns the string representation.
func (s FieldStatus) String() string {
	switch s {
	case StatusAnalyzed:
		return "analyzed"
	case StatusMissing:
		return "missing_in_suspect"
	case StatusUnexpected:
		return "unexpected_in_suspect"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so reports serialize the
// status as its name.
func (s FieldStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// -----------------------------------------------------------------------------
// Results
// -----------------------------------------------------------------------------

// FieldResult holds the outcome for one field.
type FieldResult struct {
	// Field is the field name.
	Field string `json:"field"`

	// Status describes how the field was handled.
	Status FieldStatus `json:"status"`

	// Strategy is the name of the test that ran (empty for structural
	// statuses).
	Strategy string `json:"strategy,omitempty"`

	// PValue is the unadjusted p-value. Only meaningful for
	// StatusAnalyzed.
	PValue float64 `json:"p_value,omitempty"`

	// AdjustedPValue is the Bonferroni-adjusted p-value. Only set when
	// adjustment is enabled.
	AdjustedPValue float64 `json:"adjusted_p_value,omitempty"`

	// Probability is the error probability in percent: (1-p)*100 for
	// significant fields, 0 for non-significant fields, and
	// MaxProbability*100 for structural problems.
	Probability float64 `json:"probability"`

	// Significant is true when the (possibly adjusted) p-value is below
	// alpha, or the problem is structural.
	Significant bool `json:"significant"`

	// EffectSize is Cohen's d for numeric fields (0 when unavailable).
	EffectSize float64 `json:"effect_size,omitempty"`

	// EffectCategory is the Cohen's d interpretation for numeric fields.
	EffectCategory string `json:"effect_category,omitempty"`

	// Detail carries a human-readable explanation for structural or
	// failed statuses.
	Detail string `json:"detail,omitempty"`
}

// Report holds the complete result of one analysis run.
type Report struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall time of the run.
	Duration time.Duration `json:"duration"`

	// Alpha is the significance level used.
	Alpha float64 `json:"alpha"`

	// Adjusted is true if the Bonferroni correction was applied.
	Adjusted bool `json:"adjusted"`

	// Strategy is the numerical strategy that was configured.
	Strategy string `json:"strategy"`

	// Fields holds the per-field outcomes, sorted by probability
	// descending, then by field name.
	Fields []FieldResult `json:"fields"`

	// AnalyzedFields is the number of fields that were tested.
	AnalyzedFields int `json:"analyzed_fields"`

	// SignificantFields is the number of fields flagged as significant,
	// including structural problems.
	SignificantFields int `json:"significant_fields"`
}

// Significant returns the flagged fields in report order.
//
// Outputs:
//   - []FieldResult: A fresh slice; modifying it does not affect the report.
func (r *Report) Significant() []FieldResult {
	out := make([]FieldResult, 0, r.SignificantFields)
	for _, f := range r.Fields {
		if f.Significant {
			out = append(out, f)
		}
	}
	return out
}
