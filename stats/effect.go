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

// -----------------------------------------------------------------------------
// Effect Size
// -----------------------------------------------------------------------------

// EffectSize calculates Cohen's d for two samples.
//
// Description:
//
//	Cohen's d is the standardized difference between two means, using the
//	pooled standard deviation as the denominator. Positive means the first
//	sample's mean is larger.
//
// Inputs:
//   - a: First sample. At least MinSampleSize finite values.
//   - b: Second sample. Same constraints.
//
// Outputs:
//   - float64: Cohen's d value.
//   - error: ErrInsufficientSamples, ErrInvalidInput, or
//     ErrIndeterminateStatistic when the pooled variance is zero.
//
// Thread Safety: Stateless; safe for concurrent use.
func EffectSize(a, b []float64) (float64, error) {
	if err := validateSamples(a, b); err != nil {
		return 0, err
	}

	mean1 := stat.Mean(a, nil)
	mean2 := stat.Mean(b, nil)
	var1 := stat.Variance(a, nil)
	var2 := stat.Variance(b, nil)

	n1 := float64(len(a))
	n2 := float64(len(b))

	pooledVar := ((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2)
	pooledStdDev := math.Sqrt(pooledVar)
	if pooledStdDev == 0 {
		return 0, fmt.Errorf("%w: zero pooled variance", ErrIndeterminateStatistic)
	}

	return (mean1 - mean2) / pooledStdDev, nil
}

// EffectCategory categorizes effect sizes using Cohen's conventions.
type EffectCategory int

const (
	// EffectNegligible indicates |d| < 0.2
	EffectNegligible EffectCategory = iota
	// EffectSmall indicates 0.2 <= |d| < 0.5
	EffectSmall
	// EffectMedium indicates 0.5 <= |d| < 0.8
	EffectMedium
	// EffectLarge indicates |d| >= 0.8
	EffectLarge
)

// String returns the string representation.
func (e EffectCategory) String() string {
	switch e {
	case EffectNegligible:
		return "negligible"
	case EffectSmall:
		return "small"
	case EffectMedium:
		return "medium"
	case EffectLarge:
		return "large"
	default:
		return "unknown"
	}
}

// CategorizeEffect returns the category for a Cohen's d value.
func CategorizeEffect(d float64) EffectCategory {
	absD := math.Abs(d)
	switch {
	case absD < 0.2:
		return EffectNegligible
	case absD < 0.5:
		return EffectSmall
	case absD < 0.8:
		return EffectMedium
	default:
		return EffectLarge
	}
}

// -----------------------------------------------------------------------------
// Confidence Intervals
// -----------------------------------------------------------------------------

// ConfidenceInterval represents a statistical confidence interval.
type ConfidenceInterval struct {
	// Lower is the lower bound.
	Lower float64

	// Upper is the upper bound.
	Upper float64

	// Level is the confidence level (e.g., 0.95).
	Level float64

	// Center is the point estimate (mean difference).
	Center float64
}

// Contains returns true if the interval contains the value.
func (ci *ConfidenceInterval) Contains(v float64) bool {
	return v >= ci.Lower && v <= ci.Upper
}

// Width returns the interval width.
func (ci *ConfidenceInterval) Width() float64 {
	return ci.Upper - ci.Lower
}

// MeanDifferenceCI calculates a confidence interval for mean(a) - mean(b)
// using Welch's method.
//
// Inputs:
//   - a: First sample. At least MinSampleSize finite values.
//   - b: Second sample. Same constraints.
//   - level: Confidence level in (0, 1), e.g. 0.95.
//
// Outputs:
//   - *ConfidenceInterval: The interval. For zero-variance inputs the
//     interval collapses to the point estimate.
//   - error: ErrInsufficientSamples or ErrInvalidInput.
//
// Thread Safety: Stateless; safe for concurrent use.
func MeanDifferenceCI(a, b []float64, level float64) (*ConfidenceInterval, error) {
	if err := validateSamples(a, b); err != nil {
		return nil, err
	}

	mean1 := stat.Mean(a, nil)
	mean2 := stat.Mean(b, nil)
	meanDiff := mean1 - mean2

	var1 := stat.Variance(a, nil)
	var2 := stat.Variance(b, nil)

	n1 := float64(len(a))
	n2 := float64(len(b))

	se2 := var1/n1 + var2/n2
	if se2 == 0 {
		return &ConfidenceInterval{
			Lower:  meanDiff,
			Upper:  meanDiff,
			Level:  level,
			Center: meanDiff,
		}, nil
	}
	se := math.Sqrt(se2)

	df := se2 * se2 / (math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	tCrit := dist.Quantile(1 - (1-level)/2)

	margin := tCrit * se
	return &ConfidenceInterval{
		Lower:  meanDiff - margin,
		Upper:  meanDiff + margin,
		Level:  level,
		Center: meanDiff,
	}, nil
}

// -----------------------------------------------------------------------------
// Power Analysis
// -----------------------------------------------------------------------------

// Power estimates the statistical power of a two-sample comparison.
//
// Description:
//
//	Power is the probability of correctly rejecting the null hypothesis
//	when a true effect of the given size exists. Uses the normal
//	approximation with the harmonic mean of the two sample sizes.
//
// Inputs:
//   - n1: Sample size for group 1.
//   - n2: Sample size for group 2.
//   - effectSize: Expected Cohen's d.
//   - alpha: Significance level (e.g., 0.05).
//
// Outputs:
//   - float64: Power in [0, 1]. Zero when either group is below
//     MinSampleSize.
//
// Thread Safety: Stateless; safe for concurrent use.
func Power(n1, n2 int, effectSize, alpha float64) float64 {
	if n1 < MinSampleSize || n2 < MinSampleSize {
		return 0
	}

	nHarmonic := 2 * float64(n1) * float64(n2) / float64(n1+n2)
	ncp := math.Abs(effectSize) * math.Sqrt(nHarmonic/2)

	zCrit := distuv.UnitNormal.Quantile(1 - alpha/2)
	power := distuv.UnitNormal.Survival(zCrit - ncp)

	return clampProbability(power)
}

// RequiredSampleSize calculates the per-group sample size needed to detect
// an effect of the given size with the desired power.
//
// Inputs:
//   - effectSize: Expected Cohen's d. Must be non-zero.
//   - alpha: Significance level (e.g., 0.05).
//   - power: Desired power (e.g., 0.8).
//
// Outputs:
//   - int: Required samples per group. math.MaxInt32 for a zero effect.
//
// Thread Safety: Stateless; safe for concurrent use.
func RequiredSampleSize(effectSize, alpha, power float64) int {
	if effectSize == 0 {
		return math.MaxInt32
	}

	zAlpha := distuv.UnitNormal.Quantile(1 - alpha/2)
	zPower := distuv.UnitNormal.Quantile(power)

	n := 2 * math.Pow((zAlpha+zPower)/math.Abs(effectSize), 2)

	return int(math.Ceil(n)) + 1
}

// -----------------------------------------------------------------------------
// Multiple Comparisons
// -----------------------------------------------------------------------------

// BonferroniAdjust applies the Bonferroni correction to a set of p-values.
//
// Description:
//
//	Each p-value is multiplied by the number of comparisons and capped at 1.
//	This controls the family-wise error rate when many fields are tested
//	against the same significance level.
//
// Inputs:
//   - pValues: The unadjusted p-values. Not modified.
//
// Outputs:
//   - []float64: Adjusted p-values, same order as the input.
//
// Thread Safety: Stateless; safe for concurrent use.
func BonferroniAdjust(pValues []float64) []float64 {
	m := float64(len(pValues))
	adjusted := make([]float64, len(pValues))
	for i, p := range pValues {
		adjusted[i] = math.Min(p*m, 1)
	}
	return adjusted
}
