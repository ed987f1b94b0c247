// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command driftlens compares a reference dataset against a suspect
// dataset and attributes likely data-quality problems to fields.
//
// Usage:
//
//	driftlens analyze --reference baseline.csv --suspect latest.csv
//	driftlens analyze --reference baseline.csv --suspect latest.csv \
//	  --strategy mannwhitney --alpha 0.01 --adjust --json
//	driftlens version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "driftlens",
	Short: "Statistical drift analysis between two datasets",
	Long: `Driftlens compares a well-behaved reference dataset against a suspect
dataset and reports, per field, the probability that the field is the
source of a data-quality problem. Numeric fields are compared with a
two-sample significance test; categorical fields with a chi-squared
test of homogeneity.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
