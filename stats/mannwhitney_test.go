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
	"math"
	"testing"
)

func TestMannWhitneyU_KnownValues(t *testing.T) {
	strategy := NewMannWhitneyU()

	// Reference values for the tie-corrected normal approximation with
	// continuity correction, cross-checked by hand:
	//   z = (|U - n1*n2/2| - 0.5) / sqrt(tie-corrected variance)
	for _, test := range []struct {
		name      string
		a         []float64
		b         []float64
		expected  float64
		tolerance float64
	}{
		{
			name:      "fully separated",
			a:         []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			b:         []float64{20, 21, 22, 23, 24, 25, 26, 27, 28, 29},
			expected:  0.00018267179110955002,
			tolerance: 1e-7,
		},
		{
			name:      "overlapping with cross-group ties",
			a:         []float64{0, 1, 2, 3, 4},
			b:         []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			expected:  0.13986357686781267,
			tolerance: 1e-7,
		},
		{
			// Mid-rank handling: each group is one big tie run.
			name:      "duplicate values",
			a:         []float64{0, 0, 0, 0, 0},
			b:         []float64{1, 1, 1, 1, 1},
			expected:  0.0039767517097886512,
			tolerance: 1e-7,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			p, err := strategy.CalculateProbability(test.a, test.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(p-test.expected) > test.tolerance {
				t.Errorf("expected p=%v, got %v", test.expected, p)
			}
		})
	}
}

func TestMannWhitneyU_MidRanks(t *testing.T) {
	// Pooled and sorted: 0 0 1 1 2 2 3 3 4 4 5 6 7 8 9.
	// The five tied pairs get mid-ranks 1.5, 3.5, 5.5, 7.5, 9.5, so the
	// rank sum of the first sample is 27.5 and U = 27.5 - 15 = 12.5.
	result, err := NewMannWhitneyU().Test(
		[]float64{0, 1, 2, 3, 4},
		[]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.U != 12.5 {
		t.Errorf("expected U=12.5 from mid-rank assignment, got %v", result.U)
	}
}

func TestMannWhitneyU_RepetitiveData(t *testing.T) {
	// Heavy value repetition: a short pattern repeated 15 times against a
	// smooth control. Tie correction must keep the variance positive and
	// the p-value finite and in range.
	pattern := []float64{0.9, 0.91, 0.02, 0.92}
	b := make([]float64, 0, 60)
	for i := 0; i < 15; i++ {
		b = append(b, pattern...)
	}
	a := make([]float64, 50)
	for i := range a {
		a[i] = 0.7 + 0.001*float64(i%7)
	}

	t.Run("rank-sum handles ties", func(t *testing.T) {
		p, err := NewMannWhitneyU().CalculateProbability(a, b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.IsNaN(p) || p < 0 || p > 1 {
			t.Errorf("p-value out of range: %v", p)
		}
	})

	t.Run("t-test stays in range too", func(t *testing.T) {
		p, err := NewWelchTTest().CalculateProbability(a, b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.IsNaN(p) || p < 0 || p > 1 {
			t.Errorf("p-value out of range: %v", p)
		}
	})
}

func TestMannWhitneyU_Symmetry(t *testing.T) {
	strategy := NewMannWhitneyU()
	a := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	b := []float64{2, 7, 1, 8, 2, 8}

	pAB, err := strategy.CalculateProbability(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pBA, err := strategy.CalculateProbability(b, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pAB != pBA {
		t.Errorf("two-sided test must be order-independent: %v != %v", pAB, pBA)
	}
}

func TestMannWhitneyU_Determinism(t *testing.T) {
	strategy := NewMannWhitneyU()
	a := []float64{0.3, 0.1, 0.4, 0.1}
	b := []float64{0.5, 0.9, 0.2, 0.6}

	first, err := strategy.CalculateProbability(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		p, err := strategy.CalculateProbability(a, b)
		if err != nil {
			t.Fatalf("unexpected error on call %d: %v", i, err)
		}
		if p != first {
			t.Fatalf("expected identical result on repeat call, got %v then %v", first, p)
		}
	}
}

func TestMannWhitneyU_Errors(t *testing.T) {
	strategy := NewMannWhitneyU()

	t.Run("size two is accepted", func(t *testing.T) {
		p, err := strategy.CalculateProbability([]float64{1, 2}, []float64{3, 4})
		if err != nil {
			t.Fatalf("unexpected error for n=2 samples: %v", err)
		}
		if p < 0 || p > 1 {
			t.Errorf("p-value out of range: %v", p)
		}
	})

	t.Run("size one is rejected", func(t *testing.T) {
		_, err := strategy.CalculateProbability([]float64{1, 2}, []float64{3})
		if !errors.Is(err, ErrInsufficientSamples) {
			t.Errorf("expected ErrInsufficientSamples, got %v", err)
		}
	})

	t.Run("identical pooled values are indeterminate", func(t *testing.T) {
		_, err := strategy.CalculateProbability(
			[]float64{7, 7, 7},
			[]float64{7, 7, 7, 7},
		)
		if !errors.Is(err, ErrIndeterminateStatistic) {
			t.Errorf("expected ErrIndeterminateStatistic, got %v", err)
		}
	})

	t.Run("NaN is rejected", func(t *testing.T) {
		_, err := strategy.CalculateProbability(
			[]float64{1, 2, math.NaN()},
			[]float64{4, 5, 6},
		)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
