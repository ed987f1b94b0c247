// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/driftlens/analyzer"
	"github.com/AleutianAI/driftlens/dataset"
	"github.com/AleutianAI/driftlens/stats"
	"github.com/AleutianAI/driftlens/telemetry"
)

// fileConfig mirrors the analyze flags for --config files.
//
// Example:
//
//	strategy: mannwhitney
//	alpha: 0.01
//	adjust: true
//	ignore:
//	  - request_id
//	  - timestamp
type fileConfig struct {
	Strategy string   `yaml:"strategy"`
	Alpha    float64  `yaml:"alpha"`
	Adjust   bool     `yaml:"adjust"`
	Ignore   []string `yaml:"ignore"`
}

var (
	referencePath string
	suspectPath   string
	strategyName  string
	alpha         float64
	adjustPValues bool
	ignoreFields  []string
	configPath    string
	jsonOutput    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare a suspect dataset against a reference dataset",
	Long: `Analyze loads both CSV files, infers each field's kind from its
values, runs the configured significance test per shared field, and
reports fields ordered by the probability that they carry a
data-quality problem. Fields present in only one dataset are flagged
at maximum probability.`,
	RunE: runAnalyzeCommand,
}

func init() {
	analyzeCmd.Flags().StringVar(&referencePath, "reference", "", "Path to the reference CSV file (required)")
	analyzeCmd.Flags().StringVar(&suspectPath, "suspect", "", "Path to the suspect CSV file (required)")
	analyzeCmd.Flags().StringVar(&strategyName, "strategy", "welch", "Numeric test strategy: welch or mannwhitney")
	analyzeCmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Significance level, exclusive between 0 and 1")
	analyzeCmd.Flags().BoolVar(&adjustPValues, "adjust", false, "Apply Bonferroni correction across analyzed fields")
	analyzeCmd.Flags().StringSliceVar(&ignoreFields, "ignore", nil, "Field names to skip (repeatable)")
	analyzeCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file; flags override its values")
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the full report as JSON")
	_ = analyzeCmd.MarkFlagRequired("reference")
	_ = analyzeCmd.MarkFlagRequired("suspect")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyzeCommand(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		if err := applyFileConfig(cmd, configPath); err != nil {
			return err
		}
	}

	strategy, err := resolveStrategy(strategyName)
	if err != nil {
		return err
	}

	reference, err := dataset.LoadCSV(referencePath)
	if err != nil {
		return fmt.Errorf("loading reference dataset: %w", err)
	}
	suspect, err := dataset.LoadCSV(suspectPath)
	if err != nil {
		return fmt.Errorf("loading suspect dataset: %w", err)
	}

	a, err := analyzer.New(
		analyzer.WithStrategy(strategy),
		analyzer.WithAlpha(alpha),
		analyzer.WithAdjustPValues(adjustPValues),
		analyzer.WithIgnoreFields(ignoreFields...),
		analyzer.WithSink(telemetry.NopSink{}),
	)
	if err != nil {
		return err
	}

	report, err := a.Analyze(context.Background(), reference, suspect)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(os.Stdout, report)
	}
	return writeTable(os.Stdout, report)
}

// applyFileConfig loads a YAML config and applies values the user did
// not set explicitly on the command line.
func applyFileConfig(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.Strategy != "" && !cmd.Flags().Changed("strategy") {
		strategyName = fc.Strategy
	}
	if fc.Alpha != 0 && !cmd.Flags().Changed("alpha") {
		alpha = fc.Alpha
	}
	if !cmd.Flags().Changed("adjust") {
		adjustPValues = adjustPValues || fc.Adjust
	}
	if len(fc.Ignore) > 0 && !cmd.Flags().Changed("ignore") {
		ignoreFields = fc.Ignore
	}
	return nil
}

func resolveStrategy(name string) (stats.Strategy, error) {
	switch name {
	case "welch", "welch_t_test":
		return stats.NewWelchTTest(), nil
	case "mannwhitney", "mann_whitney_u":
		return stats.NewMannWhitneyU(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (expected welch or mannwhitney)", name)
	}
}

func writeJSON(w *os.File, report *analyzer.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeTable(w *os.File, report *analyzer.Report) error {
	fmt.Fprintf(w, "Report %s\n", report.ID)
	fmt.Fprintf(w, "Strategy: %s  Alpha: %g  Adjusted: %t\n", report.Strategy, report.Alpha, report.Adjusted)
	fmt.Fprintf(w, "Fields: %d examined, %d analyzed, %d significant\n\n",
		len(report.Fields), report.AnalyzedFields, report.SignificantFields)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tSTATUS\tSTRATEGY\tP-VALUE\tPROBABILITY\tEFFECT\tDETAIL")
	for _, f := range report.Fields {
		pValue := "-"
		if f.Status == analyzer.StatusAnalyzed {
			pValue = fmt.Sprintf("%.6g", f.PValue)
			if report.Adjusted {
				pValue = fmt.Sprintf("%.6g (adj %.6g)", f.PValue, f.AdjustedPValue)
			}
		}
		strategy := f.Strategy
		if strategy == "" {
			strategy = "-"
		}
		effect := f.EffectCategory
		if effect == "" {
			effect = "-"
		}
		detail := f.Detail
		if detail == "" {
			detail = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f%%\t%s\t%s\n",
			f.Field, f.Status, strategy, pValue, f.Probability, effect, detail)
	}
	return tw.Flush()
}
