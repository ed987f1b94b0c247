// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package stats provides two-sample statistical tests behind a common
// strategy capability.
//
// # Architecture
//
// The package exposes one numerical capability with two interchangeable
// implementations, plus a categorical counterpart:
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│                          stats                                    │
//	├──────────────────────────────────────────────────────────────────┤
//	│                                                                   │
//	│   Strategy (interface)                                            │
//	│   CalculateProbability(a, b []float64) (p, error)                 │
//	│        │                                                          │
//	│        ├─► WelchTTest       parametric, unequal variances         │
//	│        └─► MannWhitneyU     rank-based, tie tolerant              │
//	│                                                                   │
//	│   CategoricalStrategy (interface)                                 │
//	│   CalculateProbability(a, b []string) (p, error)                  │
//	│        └─► ChiSquared       2xk test of homogeneity               │
//	│                                                                   │
//	└──────────────────────────────────────────────────────────────────┘
//
// Callers choose the implementation explicitly based on what they know about
// their data: WelchTTest assumes roughly normal samples but not equal
// variances; MannWhitneyU makes no distributional assumption and handles
// heavily repeated values through mid-rank ties.
//
// # Choosing a strategy
//
//   - Continuous, roughly bell-shaped measurements: WelchTTest.
//   - Skewed, ordinal, or duplicate-heavy measurements: MannWhitneyU.
//   - Label/category data: ChiSquared.
//
// # Numerical backend
//
// Distribution functions (Student's t, standard normal, chi-squared) come
// from gonum.org/v1/gonum/stat/distuv and are treated as trusted primitives.
//
// # Error Handling
//
// All strategies share one sentinel taxonomy: ErrInsufficientSamples,
// ErrInvalidInput, and ErrIndeterminateStatistic. An undefined statistic is
// always surfaced as an error, never masked as a default p-value.
//
// # Thread Safety
//
// Every strategy is stateless. A single instance may be shared by any number
// of goroutines with no synchronization.
package stats
