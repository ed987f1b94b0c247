// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// RankSumResult holds the results of a Mann-Whitney U test.
type RankSumResult struct {
	// U is the U statistic for the first sample.
	U float64

	// ZScore is the tie-corrected, continuity-corrected z approximation.
	ZScore float64

	// PValue is the two-sided p-value.
	PValue float64
}

// MannWhitneyU implements Strategy using the Mann-Whitney U rank-sum test.
//
// Description:
//
//	MannWhitneyU is a non-parametric alternative to the t-test: it compares
//	the relative ranks of the pooled observations rather than their means,
//	so it makes no distributional assumption and tolerates heavily repeated
//	values. Tied values receive the average of the ranks they would
//	otherwise occupy (mid-rank handling).
//
//	The p-value uses the normal approximation for all sample sizes, with a
//	tie-corrected variance and a 0.5 continuity correction. This single
//	formulation applies uniformly; there is no exact-distribution fork for
//	small samples.
//
// Thread Safety: Stateless; safe for concurrent use.
type MannWhitneyU struct{}

// NewMannWhitneyU creates a Mann-Whitney U strategy.
//
// Outputs:
//   - *MannWhitneyU: The new strategy. Never nil.
func NewMannWhitneyU() *MannWhitneyU {
	return &MannWhitneyU{}
}

// Name returns the strategy identifier.
func (m *MannWhitneyU) Name() string { return "mann_whitney_u" }

// CalculateProbability returns the two-sided rank-sum p-value for a and b.
//
// Thread Safety: Safe for concurrent use.
func (m *MannWhitneyU) CalculateProbability(a, b []float64) (float64, error) {
	result, err := m.Test(a, b)
	if err != nil {
		return 0, err
	}
	return result.PValue, nil
}

// Test performs the full Mann-Whitney U test.
//
// Inputs:
//   - a: First sample. At least MinSampleSize finite values.
//   - b: Second sample. Same constraints.
//
// Outputs:
//   - *RankSumResult: Test results. Nil on error.
//   - error: ErrInsufficientSamples, ErrInvalidInput, or
//     ErrIndeterminateStatistic when every pooled value is identical
//     (zero rank variance).
//
// Thread Safety: Safe for concurrent use.
func (m *MannWhitneyU) Test(a, b []float64) (*RankSumResult, error) {
	if err := validateSamples(a, b); err != nil {
		return nil, err
	}

	n1 := float64(len(a))
	n2 := float64(len(b))
	total := n1 + n2

	rankSumA, tieSum := rankSum(a, b)

	u := rankSumA - n1*(n1+1)/2
	mu := n1 * n2 / 2

	// Tie-corrected variance of U under the null hypothesis.
	sigma2 := n1 * n2 / 12 * ((total + 1) - tieSum/(total*(total-1)))
	if sigma2 <= 0 {
		return nil, fmt.Errorf("%w: zero rank variance, all pooled values identical",
			ErrIndeterminateStatistic)
	}

	// Continuity correction: shrink the deviation by 0.5 toward the mean.
	deviation := math.Abs(u-mu) - 0.5
	if deviation < 0 {
		deviation = 0
	}
	z := deviation / math.Sqrt(sigma2)

	pValue := clampProbability(2 * distuv.UnitNormal.Survival(z))

	return &RankSumResult{
		U:      u,
		ZScore: z,
		PValue: pValue,
	}, nil
}

// rankSum assigns mid-ranks to the pooled samples and returns the rank sum
// of sample a together with the tie term sum(t^3 - t) over tie groups.
func rankSum(a, b []float64) (rankSumA, tieSum float64) {
	type pooled struct {
		value float64
		fromA bool
	}

	entries := make([]pooled, 0, len(a)+len(b))
	for _, v := range a {
		entries = append(entries, pooled{value: v, fromA: true})
	}
	for _, v := range b {
		entries = append(entries, pooled{value: v})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].value < entries[j].value })

	// Walk runs of equal values: every member of a run gets the mid-rank,
	// the average of the ranks the run spans.
	for i := 0; i < len(entries); {
		j := i
		for j < len(entries) && entries[j].value == entries[i].value {
			j++
		}
		runLen := float64(j - i)
		// Ranks are 1-based: the run spans ranks i+1 .. j.
		midRank := (float64(i+1) + float64(j)) / 2
		for k := i; k < j; k++ {
			if entries[k].fromA {
				rankSumA += midRank
			}
		}
		if runLen > 1 {
			tieSum += runLen*runLen*runLen - runLen
		}
		i = j
	}
	return rankSumA, tieSum
}

// Ensure MannWhitneyU implements Strategy.
var _ Strategy = (*MannWhitneyU)(nil)
