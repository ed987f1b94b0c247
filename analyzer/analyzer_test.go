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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/driftlens/dataset"
	"github.com/AleutianAI/driftlens/stats"
	"github.com/AleutianAI/driftlens/telemetry"
)

// ----- Test Fixtures -----

// recordingSink captures telemetry calls for assertions.
type recordingSink struct {
	mu         sync.Mutex
	analyses   int
	fieldTests map[string]int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{fieldTests: make(map[string]int)}
}

func (s *recordingSink) RecordAnalysis(_ time.Duration, _ int, _ int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses++
}

func (s *recordingSink) RecordFieldTest(strategy, outcome string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fieldTests[strategy+"/"+outcome]++
}

var _ telemetry.Sink = (*recordingSink)(nil)

// steadyValues produces n values with mild periodic variation around base.
func steadyValues(n int, base float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base + 0.005*float64(i%5)
	}
	return out
}

func buildDataset(t *testing.T, numeric map[string][]float64, categorical map[string][]string) *dataset.Dataset {
	t.Helper()
	ds := dataset.New()
	for name, vals := range numeric {
		require.NoError(t, ds.AddNumeric(name, vals))
	}
	for name, vals := range categorical {
		require.NoError(t, ds.AddCategorical(name, vals))
	}
	return ds
}

// ----- Construction -----

func TestNewDefaults(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	assert.InDelta(t, 0.05, a.config.Alpha, 1e-12)
	assert.Equal(t, "welch_t_test", a.config.Numerical.Name())
	assert.Equal(t, "chi_squared", a.config.Categorical.Name())
}

func TestNewInvalidAlpha(t *testing.T) {
	_, err := New(WithAlpha(1.5))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewNilStrategy(t *testing.T) {
	_, err := New(WithStrategy(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNilStrategy)
}

// ----- Analyze -----

func TestAnalyzeNilDataset(t *testing.T) {
	a, err := New()
	require.NoError(t, err)

	_, err = a.Analyze(context.Background(), nil, dataset.New())
	assert.ErrorIs(t, err, ErrNilDataset)

	_, err = a.Analyze(context.Background(), dataset.New(), nil)
	assert.ErrorIs(t, err, ErrNilDataset)
}

func TestAnalyzeDetectsShiftedField(t *testing.T) {
	reference := buildDataset(t, map[string][]float64{
		"latency": steadyValues(50, 0.70),
		"stable":  steadyValues(50, 0.50),
	}, nil)
	suspect := buildDataset(t, map[string][]float64{
		"latency": steadyValues(50, 0.95),
		"stable":  steadyValues(50, 0.50),
	}, nil)

	sink := newRecordingSink()
	a, err := New(WithSink(sink))
	require.NoError(t, err)

	report, err := a.Analyze(context.Background(), reference, suspect)
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 2, report.AnalyzedFields)
	assert.Equal(t, 1, report.SignificantFields)

	// Shifted field sorts first on probability.
	require.Len(t, report.Fields, 2)
	assert.Equal(t, "latency", report.Fields[0].Field)
	assert.True(t, report.Fields[0].Significant)
	assert.Greater(t, report.Fields[0].Probability, 95.0)
	assert.Equal(t, "welch_t_test", report.Fields[0].Strategy)
	assert.NotEmpty(t, report.Fields[0].EffectCategory)

	assert.Equal(t, "stable", report.Fields[1].Field)
	assert.False(t, report.Fields[1].Significant)
	assert.Zero(t, report.Fields[1].Probability)

	assert.Equal(t, 1, sink.analyses)
	assert.Equal(t, 1, sink.fieldTests["welch_t_test/significant"])
	assert.Equal(t, 1, sink.fieldTests["welch_t_test/ok"])
}

func TestAnalyzeCategoricalField(t *testing.T) {
	refLabels := make([]string, 0, 40)
	susLabels := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		refLabels = append(refLabels, "ok")
		if i < 30 {
			susLabels = append(susLabels, "error")
		} else {
			susLabels = append(susLabels, "ok")
		}
	}

	reference := buildDataset(t, nil, map[string][]string{"status": refLabels})
	suspect := buildDataset(t, nil, map[string][]string{"status": susLabels})

	a, err := New()
	require.NoError(t, err)
	report, err := a.Analyze(context.Background(), reference, suspect)
	require.NoError(t, err)

	require.Len(t, report.Fields, 1)
	assert.Equal(t, StatusAnalyzed, report.Fields[0].Status)
	assert.Equal(t, "chi_squared", report.Fields[0].Strategy)
	assert.True(t, report.Fields[0].Significant)
}

func TestAnalyzeStructuralMismatches(t *testing.T) {
	reference := buildDataset(t, map[string][]float64{
		"shared": steadyValues(20, 0.5),
		"gone":   steadyValues(20, 0.5),
	}, nil)
	suspect := buildDataset(t, map[string][]float64{
		"shared": steadyValues(20, 0.5),
		"extra":  steadyValues(20, 0.5),
	}, nil)

	a, err := New()
	require.NoError(t, err)
	report, err := a.Analyze(context.Background(), reference, suspect)
	require.NoError(t, err)

	byField := make(map[string]FieldResult)
	for _, r := range report.Fields {
		byField[r.Field] = r
	}
	require.Len(t, byField, 3)

	assert.Equal(t, StatusMissing, byField["gone"].Status)
	assert.True(t, byField["gone"].Significant)
	assert.InDelta(t, MaxProbability*100, byField["gone"].Probability, 1e-9)

	assert.Equal(t, StatusUnexpected, byField["extra"].Status)
	assert.True(t, byField["extra"].Significant)

	assert.Equal(t, StatusAnalyzed, byField["shared"].Status)
	assert.Equal(t, 1, report.AnalyzedFields)
	assert.Equal(t, 2, report.SignificantFields)
}

func TestAnalyzeKindMismatch(t *testing.T) {
	reference := buildDataset(t, map[string][]float64{"f": steadyValues(10, 0.5)}, nil)
	suspect := buildDataset(t, nil, map[string][]string{"f": {"a", "b", "a", "b", "a", "b", "a", "b", "a", "b"}})

	a, err := New()
	require.NoError(t, err)
	report, err := a.Analyze(context.Background(), reference, suspect)
	require.NoError(t, err)

	require.Len(t, report.Fields, 1)
	assert.Equal(t, StatusFailed, report.Fields[0].Status)
	assert.Contains(t, report.Fields[0].Detail, "kind mismatch")
	assert.Zero(t, report.AnalyzedFields)
}

func TestAnalyzeFieldTestFailureDoesNotAbort(t *testing.T) {
	reference := buildDataset(t, map[string][]float64{
		"tiny": {1.0},
		"good": steadyValues(20, 0.5),
	}, nil)
	suspect := buildDataset(t, map[string][]float64{
		"tiny": {1.0},
		"good": steadyValues(20, 0.5),
	}, nil)

	sink := newRecordingSink()
	a, err := New(WithSink(sink))
	require.NoError(t, err)
	report, err := a.Analyze(context.Background(), reference, suspect)
	require.NoError(t, err)

	byField := make(map[string]FieldResult)
	for _, r := range report.Fields {
		byField[r.Field] = r
	}
	assert.Equal(t, StatusFailed, byField["tiny"].Status)
	assert.NotEmpty(t, byField["tiny"].Detail)
	assert.Equal(t, StatusAnalyzed, byField["good"].Status)
	assert.Equal(t, 1, sink.fieldTests["welch_t_test/error"])
}

func TestAnalyzeIgnoreFields(t *testing.T) {
	reference := buildDataset(t, map[string][]float64{
		"noisy": steadyValues(20, 0.1),
		"kept":  steadyValues(20, 0.5),
	}, nil)
	suspect := buildDataset(t, map[string][]float64{
		"noisy": steadyValues(20, 0.9),
		"kept":  steadyValues(20, 0.5),
	}, nil)

	a, err := New(WithIgnoreFields("noisy"))
	require.NoError(t, err)
	report, err := a.Analyze(context.Background(), reference, suspect)
	require.NoError(t, err)

	require.Len(t, report.Fields, 1)
	assert.Equal(t, "kept", report.Fields[0].Field)
}

func TestAnalyzeBonferroniAdjustment(t *testing.T) {
	numeric := map[string][]float64{
		"a": steadyValues(50, 0.70),
		"b": steadyValues(50, 0.50),
		"c": steadyValues(50, 0.30),
	}
	reference := buildDataset(t, numeric, nil)
	suspect := buildDataset(t, map[string][]float64{
		"a": steadyValues(50, 0.95),
		"b": steadyValues(50, 0.50),
		"c": steadyValues(50, 0.30),
	}, nil)

	a, err := New(WithAdjustPValues(true))
	require.NoError(t, err)
	report, err := a.Analyze(context.Background(), reference, suspect)
	require.NoError(t, err)

	assert.True(t, report.Adjusted)
	for _, r := range report.Fields {
		if r.Status != StatusAnalyzed {
			continue
		}
		assert.GreaterOrEqual(t, r.AdjustedPValue, r.PValue)
		assert.LessOrEqual(t, r.AdjustedPValue, 1.0)
	}
}

func TestAnalyzeMannWhitneyStrategy(t *testing.T) {
	// A repetitive distribution where rank-based testing is the safer pick.
	pattern := []float64{0.9, 0.91, 0.02, 0.92}
	suspectVals := make([]float64, 0, 60)
	for i := 0; i < 15; i++ {
		suspectVals = append(suspectVals, pattern...)
	}
	refVals := make([]float64, 50)
	for i := range refVals {
		refVals[i] = 0.7 + 0.001*float64(i%7)
	}

	reference := buildDataset(t, map[string][]float64{"score": refVals}, nil)
	suspect := buildDataset(t, map[string][]float64{"score": suspectVals}, nil)

	a, err := New(WithStrategy(stats.NewMannWhitneyU()))
	require.NoError(t, err)
	report, err := a.Analyze(context.Background(), reference, suspect)
	require.NoError(t, err)

	require.Len(t, report.Fields, 1)
	assert.Equal(t, "mann_whitney_u", report.Fields[0].Strategy)
	assert.Equal(t, StatusAnalyzed, report.Fields[0].Status)
}
