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

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TTestResult holds the results of a Welch t-test.
type TTestResult struct {
	// Statistic is the computed t-statistic.
	Statistic float64

	// PValue is the two-sided p-value.
	PValue float64

	// DegreesOfFreedom is the Welch-Satterthwaite df.
	DegreesOfFreedom float64
}

// WelchTTest implements Strategy using Welch's unequal-variance t-test.
//
// Description:
//
//	Welch's t-test compares the means of two samples without assuming equal
//	population variances, making it more robust than Student's t-test when
//	the two groups have different spreads. The two-sided p-value is computed
//	from the Student's t distribution with Welch-Satterthwaite degrees of
//	freedom.
//
// Thread Safety: Stateless; safe for concurrent use.
type WelchTTest struct{}

// NewWelchTTest creates a Welch t-test strategy.
//
// Outputs:
//   - *WelchTTest: The new strategy. Never nil.
func NewWelchTTest() *WelchTTest {
	return &WelchTTest{}
}

// Name returns the strategy identifier.
func (w *WelchTTest) Name() string { return "welch_t_test" }

// CalculateProbability returns the two-sided Welch p-value for a and b.
//
// Thread Safety: Safe for concurrent use.
func (w *WelchTTest) CalculateProbability(a, b []float64) (float64, error) {
	result, err := w.Test(a, b)
	if err != nil {
		return 0, err
	}
	return result.PValue, nil
}

// Test performs the full Welch t-test and returns statistic, df, and p-value.
//
// Inputs:
//   - a: First sample. At least MinSampleSize finite values.
//   - b: Second sample. Same constraints.
//
// Outputs:
//   - *TTestResult: Test results. Nil on error.
//   - error: ErrInsufficientSamples, ErrInvalidInput, or
//     ErrIndeterminateStatistic when both samples have zero variance.
//
// Thread Safety: Safe for concurrent use.
func (w *WelchTTest) Test(a, b []float64) (*TTestResult, error) {
	if err := validateSamples(a, b); err != nil {
		return nil, err
	}

	mean1 := stat.Mean(a, nil)
	mean2 := stat.Mean(b, nil)

	// Unbiased sample variance (divide by n-1).
	var1 := stat.Variance(a, nil)
	var2 := stat.Variance(b, nil)

	n1 := float64(len(a))
	n2 := float64(len(b))

	// Squared standard error of the mean difference.
	se2 := var1/n1 + var2/n2
	if se2 == 0 {
		return nil, fmt.Errorf("%w: zero variance in both samples", ErrIndeterminateStatistic)
	}

	tStat := (mean1 - mean2) / math.Sqrt(se2)

	// Welch-Satterthwaite degrees of freedom.
	num := se2 * se2
	denom := math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1)
	if denom == 0 {
		return nil, fmt.Errorf("%w: undefined degrees of freedom", ErrIndeterminateStatistic)
	}
	df := num / denom

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue := clampProbability(2 * dist.Survival(math.Abs(tStat)))

	return &TTestResult{
		Statistic:        tStat,
		PValue:           pValue,
		DegreesOfFreedom: df,
	}, nil
}

// Ensure WelchTTest implements Strategy.
var _ Strategy = (*WelchTTest)(nil)
