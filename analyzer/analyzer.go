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
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/driftlens/dataset"
	"github.com/AleutianAI/driftlens/stats"
	"github.com/AleutianAI/driftlens/telemetry"
)

// tracerName identifies this package's tracer.
const tracerName = "github.com/AleutianAI/driftlens/analyzer"

// Analyzer compares a reference dataset against a suspect dataset.
//
// Description:
//
//	Analyzer walks the union of fields in both datasets, runs the
//	configured statistical strategy per field, and produces a Report
//	attributing likely data-quality problems to individual fields.
//	Per-field failures (insufficient samples, indeterminate statistics)
//	are recorded in the field result rather than aborting the run.
//
// Thread Safety: Immutable after construction; safe for concurrent use
// with different dataset pairs.
type Analyzer struct {
	config *Config
	ignore map[string]bool
	tracer trace.Tracer
}

// New creates an analyzer from the given options.
//
// Inputs:
//   - opts: Option functions applied over DefaultConfig().
//
// Outputs:
//   - *Analyzer: The new analyzer. Nil on error.
//   - error: ErrInvalidConfig or ErrNilStrategy.
func New(opts ...Option) (*Analyzer, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ignore := make(map[string]bool, len(config.IgnoreFields))
	for _, f := range config.IgnoreFields {
		ignore[f] = true
	}

	return &Analyzer{
		config: config,
		ignore: ignore,
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Analyze compares the two datasets field by field.
//
// Inputs:
//   - ctx: Context for tracing. The computation itself is bounded and is
//     not cancelled mid-run.
//   - reference: The well-behaved dataset. Must not be nil.
//   - suspect: The potentially problematic dataset. Must not be nil.
//
// Outputs:
//   - *Report: Per-field results sorted by error probability. Nil on error.
//   - error: ErrNilDataset. Per-field test failures do not fail the run.
//
// Thread Safety: Safe for concurrent use.
func (a *Analyzer) Analyze(ctx context.Context, reference, suspect *dataset.Dataset) (*Report, error) {
	if reference == nil || suspect == nil {
		return nil, ErrNilDataset
	}

	_, span := a.tracer.Start(ctx, "analyzer.Analyze",
		trace.WithAttributes(
			attribute.Int("reference_fields", reference.NumFields()),
			attribute.Int("suspect_fields", suspect.NumFields()),
			attribute.String("strategy", a.config.Numerical.Name()),
		))
	defer span.End()

	start := time.Now()
	results := a.compareFields(reference, suspect)
	a.threshold(results)

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Probability != results[j].Probability {
			return results[i].Probability > results[j].Probability
		}
		return results[i].Field < results[j].Field
	})

	report := &Report{
		ID:        uuid.NewString(),
		StartedAt: start,
		Duration:  time.Since(start),
		Alpha:     a.config.Alpha,
		Adjusted:  a.config.AdjustPValues,
		Strategy:  a.config.Numerical.Name(),
		Fields:    results,
	}
	for _, r := range results {
		if r.Status == StatusAnalyzed {
			report.AnalyzedFields++
		}
		if r.Significant {
			report.SignificantFields++
		}
	}

	span.SetAttributes(
		attribute.Int("analyzed_fields", report.AnalyzedFields),
		attribute.Int("significant_fields", report.SignificantFields),
	)
	a.config.Sink.RecordAnalysis(report.Duration, len(results), report.SignificantFields)
	a.config.Logger.Info("analysis complete",
		"report_id", report.ID,
		"fields", len(results),
		"analyzed", report.AnalyzedFields,
		"significant", report.SignificantFields,
		"duration_ms", report.Duration.Milliseconds(),
	)

	return report, nil
}

// compareFields runs the per-field tests and structural checks.
func (a *Analyzer) compareFields(reference, suspect *dataset.Dataset) []FieldResult {
	var results []FieldResult

	for _, field := range reference.Fields() {
		if a.ignore[field] {
			continue
		}
		refCol, _ := reference.Column(field)
		susCol, ok := suspect.Column(field)
		if !ok {
			results = append(results, FieldResult{
				Field:       field,
				Status:      StatusMissing,
				Probability: MaxProbability * 100,
				Significant: true,
				Detail:      "field missing in suspect dataset",
			})
			continue
		}
		results = append(results, a.testField(field, refCol, susCol))
	}

	for _, field := range suspect.Fields() {
		if a.ignore[field] {
			continue
		}
		if _, ok := reference.Column(field); !ok {
			results = append(results, FieldResult{
				Field:       field,
				Status:      StatusUnexpected,
				Probability: MaxProbability * 100,
				Significant: true,
				Detail:      "unexpected field in suspect dataset",
			})
		}
	}

	return results
}

// testField dispatches one field to the strategy matching its column kind.
func (a *Analyzer) testField(field string, refCol, susCol dataset.Column) FieldResult {
	if refCol.Kind != susCol.Kind {
		a.config.Sink.RecordFieldTest("none", telemetry.OutcomeError)
		return FieldResult{
			Field:  field,
			Status: StatusFailed,
			Detail: fmt.Sprintf("column kind mismatch: reference is %s, suspect is %s",
				refCol.Kind, susCol.Kind),
		}
	}

	var (
		strategyName string
		pValue       float64
		err          error
	)
	result := FieldResult{Field: field}

	switch refCol.Kind {
	case dataset.KindNumeric:
		strategyName = a.config.Numerical.Name()
		pValue, err = a.config.Numerical.CalculateProbability(refCol.Numeric, susCol.Numeric)
		if err == nil {
			// Effect size is advisory; an indeterminate d does not fail
			// the field.
			if d, effErr := stats.EffectSize(refCol.Numeric, susCol.Numeric); effErr == nil {
				result.EffectSize = d
				result.EffectCategory = stats.CategorizeEffect(d).String()
			}
		}
	case dataset.KindCategorical:
		strategyName = a.config.Categorical.Name()
		pValue, err = a.config.Categorical.CalculateProbability(refCol.Categorical, susCol.Categorical)
	}

	result.Strategy = strategyName
	if err != nil {
		a.config.Sink.RecordFieldTest(strategyName, telemetry.OutcomeError)
		a.config.Logger.Warn("field test failed",
			"field", field,
			"strategy", strategyName,
			"error", err.Error(),
		)
		result.Status = StatusFailed
		result.Detail = err.Error()
		return result
	}

	result.Status = StatusAnalyzed
	result.PValue = pValue
	return result
}

// threshold applies the optional Bonferroni correction and converts
// p-values to error probabilities.
func (a *Analyzer) threshold(results []FieldResult) {
	analyzed := make([]int, 0, len(results))
	pValues := make([]float64, 0, len(results))
	for i, r := range results {
		if r.Status == StatusAnalyzed {
			analyzed = append(analyzed, i)
			pValues = append(pValues, r.PValue)
		}
	}

	effective := pValues
	if a.config.AdjustPValues {
		effective = stats.BonferroniAdjust(pValues)
	}

	for j, i := range analyzed {
		p := effective[j]
		if a.config.AdjustPValues {
			results[i].AdjustedPValue = p
		}
		if p < a.config.Alpha {
			results[i].Significant = true
			results[i].Probability = (1 - p) * 100
			a.config.Sink.RecordFieldTest(results[i].Strategy, telemetry.OutcomeSignificant)
		} else {
			results[i].Probability = 0
			a.config.Sink.RecordFieldTest(results[i].Strategy, telemetry.OutcomeOK)
		}
	}
}
