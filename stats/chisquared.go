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
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquaredResult holds the results of a chi-squared homogeneity test.
type ChiSquaredResult struct {
	// Statistic is the chi-squared statistic.
	Statistic float64

	// PValue is the upper-tail p-value.
	PValue float64

	// DegreesOfFreedom is (categories - 1) for the 2xk table.
	DegreesOfFreedom float64
}

// ChiSquared implements CategoricalStrategy using a chi-squared test of
// homogeneity.
//
// Description:
//
//	ChiSquared builds a 2xk contingency table of category counts (one row
//	per sample, one column per observed category across both samples) and
//	tests whether the two samples draw categories from the same
//	distribution. The p-value is the chi-squared survival at the statistic
//	with k-1 degrees of freedom.
//
// Thread Safety: Stateless; safe for concurrent use.
type ChiSquared struct{}

// NewChiSquared creates a chi-squared strategy.
//
// Outputs:
//   - *ChiSquared: The new strategy. Never nil.
func NewChiSquared() *ChiSquared {
	return &ChiSquared{}
}

// Name returns the strategy identifier.
func (c *ChiSquared) Name() string { return "chi_squared" }

// CalculateProbability returns the homogeneity p-value for a and b.
//
// Thread Safety: Safe for concurrent use.
func (c *ChiSquared) CalculateProbability(a, b []string) (float64, error) {
	result, err := c.Test(a, b)
	if err != nil {
		return 0, err
	}
	return result.PValue, nil
}

// Test performs the full chi-squared homogeneity test.
//
// Inputs:
//   - a: First sample of category labels. At least MinSampleSize values.
//   - b: Second sample of category labels. Same constraints.
//
// Outputs:
//   - *ChiSquaredResult: Test results. Nil on error.
//   - error: ErrInsufficientSamples, or ErrIndeterminateStatistic when
//     fewer than two distinct categories exist across both samples
//     (zero degrees of freedom).
//
// Thread Safety: Safe for concurrent use.
func (c *ChiSquared) Test(a, b []string) (*ChiSquaredResult, error) {
	if len(a) < MinSampleSize || len(b) < MinSampleSize {
		return nil, fmt.Errorf("%w: need at least %d per sample, got %d and %d",
			ErrInsufficientSamples, MinSampleSize, len(a), len(b))
	}

	countsA := make(map[string]float64)
	countsB := make(map[string]float64)
	for _, v := range a {
		countsA[v]++
	}
	for _, v := range b {
		countsB[v]++
	}

	categories := make([]string, 0, len(countsA)+len(countsB))
	seen := make(map[string]bool)
	for v := range countsA {
		if !seen[v] {
			seen[v] = true
			categories = append(categories, v)
		}
	}
	for v := range countsB {
		if !seen[v] {
			seen[v] = true
			categories = append(categories, v)
		}
	}
	// Deterministic iteration order for reproducible float accumulation.
	sort.Strings(categories)

	if len(categories) < 2 {
		return nil, fmt.Errorf("%w: fewer than two distinct categories",
			ErrIndeterminateStatistic)
	}

	nA := float64(len(a))
	nB := float64(len(b))
	total := nA + nB

	var statistic float64
	for _, cat := range categories {
		colTotal := countsA[cat] + countsB[cat]
		expA := nA * colTotal / total
		expB := nB * colTotal / total
		statistic += (countsA[cat] - expA) * (countsA[cat] - expA) / expA
		statistic += (countsB[cat] - expB) * (countsB[cat] - expB) / expB
	}

	df := float64(len(categories) - 1)
	dist := distuv.ChiSquared{K: df}
	pValue := clampProbability(dist.Survival(statistic))

	return &ChiSquaredResult{
		Statistic:        statistic,
		PValue:           pValue,
		DegreesOfFreedom: df,
	}, nil
}

// Ensure ChiSquared implements CategoricalStrategy.
var _ CategoricalStrategy = (*ChiSquared)(nil)
