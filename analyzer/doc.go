// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package analyzer attributes data-quality problems to individual fields by
// comparing a reference dataset against a suspect dataset.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                            ANALYZER                                  │
//	├─────────────────────────────────────────────────────────────────────┤
//	│                                                                      │
//	│   reference ──┐                                                      │
//	│               ├─► per-field dispatch ──┬─► numeric    ─► Strategy    │
//	│   suspect  ───┘                        └─► categorical ─► ChiSquared │
//	│                                                  │                   │
//	│        ┌─────────────────────────────────────────┘                   │
//	│        ▼                                                             │
//	│   p-values ─► Bonferroni (optional) ─► thresholding ─► Report        │
//	│                                        • error probability           │
//	│                                        • Cohen's d effect size       │
//	│                                        • missing/unexpected fields   │
//	│                                                                      │
//	└─────────────────────────────────────────────────────────────────────┘
//
// Fields present in both datasets are compared with a statistical test
// chosen by column kind: numeric columns use the configured stats.Strategy
// (Welch's t-test by default, Mann-Whitney U for skewed or duplicate-heavy
// data), categorical columns use the chi-squared test of homogeneity.
// Fields missing from the suspect dataset, or unexpectedly present in it,
// are flagged at MaxProbability without testing.
//
// # Usage
//
//	a, err := analyzer.New(
//	    analyzer.WithStrategy(stats.NewMannWhitneyU()),
//	    analyzer.WithAlpha(0.01),
//	    analyzer.WithIgnoreFields("id", "timestamp"),
//	)
//	if err != nil {
//	    return err
//	}
//	report, err := a.Analyze(ctx, reference, suspect)
//
// # Observability
//
// Each Analyze call opens an OpenTelemetry span and logs a summary through
// pkg/logging. Metrics go to the configured telemetry.Sink; embedding
// services typically wire telemetry.PrometheusSink, the CLI runs with the
// no-op sink.
//
// # Thread Safety
//
// Analyzer is immutable after construction and safe for concurrent use with
// different dataset pairs, as long as the configured strategies are
// stateless (all strategies in the stats package are).
package analyzer
