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
	"errors"
	"fmt"
	"math"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrInsufficientSamples indicates a sample has fewer than MinSampleSize
	// elements. Recoverable by supplying more data.
	ErrInsufficientSamples = errors.New("insufficient samples for statistical analysis")

	// ErrIndeterminateStatistic indicates the test statistic is mathematically
	// undefined for the given inputs (for example zero variance on both sides
	// of a t-test, or zero rank variance in a rank-sum test).
	ErrIndeterminateStatistic = errors.New("indeterminate test statistic")

	// ErrInvalidInput indicates a sample contains a non-finite value.
	ErrInvalidInput = errors.New("sample contains non-finite value")
)

// MinSampleSize is the minimum number of observations per sample.
// Variance and rank computations are undefined below this.
const MinSampleSize = 2

// -----------------------------------------------------------------------------
// Strategy Interfaces
// -----------------------------------------------------------------------------

// Strategy is the capability shared by all two-sample numerical tests.
//
// Description:
//
//	A Strategy computes a two-sided p-value for the null hypothesis that the
//	two samples are drawn from distributions with equal central tendency.
//	Lower values indicate stronger evidence the samples differ.
//
// Thread Safety: Implementations must be stateless and safe for concurrent
// use; each call depends only on its inputs.
type Strategy interface {
	// CalculateProbability returns a p-value in [0, 1] for samples a and b.
	//
	// Inputs:
	//   - a: First sample. Must contain at least MinSampleSize finite values.
	//   - b: Second sample. Same constraints as a.
	//
	// Outputs:
	//   - float64: Two-sided p-value in [0, 1].
	//   - error: ErrInsufficientSamples, ErrInvalidInput, or
	//     ErrIndeterminateStatistic.
	CalculateProbability(a, b []float64) (float64, error)

	// Name returns a stable identifier for the strategy (used in reports
	// and metrics labels).
	Name() string
}

// CategoricalStrategy is the capability for two-sample categorical tests.
//
// Thread Safety: Implementations must be stateless and safe for concurrent use.
type CategoricalStrategy interface {
	// CalculateProbability returns a p-value in [0, 1] for the null
	// hypothesis that both samples draw categories from the same
	// distribution.
	CalculateProbability(a, b []string) (float64, error)

	// Name returns a stable identifier for the strategy.
	Name() string
}

// -----------------------------------------------------------------------------
// Shared Validation
// -----------------------------------------------------------------------------

// validateSamples checks size and finiteness constraints for both samples.
//
// Size is checked before values so that a short sample of garbage reports
// the size problem first.
func validateSamples(a, b []float64) error {
	if len(a) < MinSampleSize || len(b) < MinSampleSize {
		return fmt.Errorf("%w: need at least %d per sample, got %d and %d",
			ErrInsufficientSamples, MinSampleSize, len(a), len(b))
	}
	for _, sample := range [2][]float64{a, b} {
		for i, v := range sample {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: value %v at index %d", ErrInvalidInput, v, i)
			}
		}
	}
	return nil
}

// clampProbability keeps a two-sided p-value inside [0, 1].
// Folding the two tails can push slightly past 1 in floating point.
func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
