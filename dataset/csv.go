// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// ReadCSV parses CSV data into a dataset.
//
// Description:
//
//	The first row is the header. Column types are inferred: a column is
//	numeric when every non-empty cell parses as a finite float and at least
//	one non-empty cell exists; otherwise it is categorical. Empty cells are
//	treated as missing and dropped from numeric columns; categorical
//	columns keep every cell, including empty strings, as labels.
//
// Inputs:
//   - r: CSV source. Rows may have varying lengths; short rows are padded
//     with missing cells.
//
// Outputs:
//   - *Dataset: The parsed dataset. Nil on error.
//   - error: ErrEmptyInput, ErrDuplicateField, or a csv parse error.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyInput
	}

	header := rows[0]
	cells := make([][]string, len(header))
	for _, row := range rows[1:] {
		for i := range header {
			if i < len(row) {
				cells[i] = append(cells[i], row[i])
			} else {
				cells[i] = append(cells[i], "")
			}
		}
	}

	ds := New()
	for i, name := range header {
		if numeric, ok := parseNumericColumn(cells[i]); ok {
			if err := ds.AddNumeric(name, numeric); err != nil {
				return nil, err
			}
			continue
		}
		if err := ds.AddCategorical(name, cells[i]); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// LoadCSV reads a dataset from a CSV file.
//
// Inputs:
//   - path: File path.
//
// Outputs:
//   - *Dataset: The parsed dataset. Nil on error.
//   - error: File open errors or ReadCSV errors.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return ds, nil
}

// parseNumericColumn attempts to interpret every non-empty cell as a finite
// float. Returns the parsed values and true on success.
func parseNumericColumn(cells []string) ([]float64, bool) {
	values := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if cell == "" {
			continue // missing cell
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, false
	}
	return values, true
}
