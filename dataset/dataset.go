// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dataset provides a small column-oriented in-memory table for
// two-dataset comparison. Columns are either numeric or categorical; the
// analyzer dispatches a statistical strategy based on the column kind.
package dataset

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrDuplicateField indicates a field name was added twice.
	ErrDuplicateField = errors.New("duplicate field name")

	// ErrEmptyInput indicates the input had no header or no columns.
	ErrEmptyInput = errors.New("input has no header row")
)

// -----------------------------------------------------------------------------
// Column Kinds
// -----------------------------------------------------------------------------

// Kind identifies the type of a column.
type Kind int

const (
	// KindNumeric is a column of float64 values.
	KindNumeric Kind = iota

	// KindCategorical is a column of string labels.
	KindCategorical
)

// String returns the string representation.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Columns and Datasets
// -----------------------------------------------------------------------------

// Column holds the values of one field. Exactly one of Numeric or
// Categorical is populated, according to Kind.
type Column struct {
	// Kind identifies which value slice is populated.
	Kind Kind

	// Numeric holds the values of a KindNumeric column.
	Numeric []float64

	// Categorical holds the values of a KindCategorical column.
	Categorical []string
}

// Len returns the number of observations in the column.
func (c Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Numeric)
	}
	return len(c.Categorical)
}

// Dataset is an ordered collection of named columns.
//
// Description:
//
//	Dataset preserves field insertion order so reports are stable. Columns
//	are independent: the analyzer compares column against column, so two
//	columns of one dataset need not have equal lengths (missing cells are
//	dropped at load time).
//
// Thread Safety: Not safe for concurrent mutation. Safe for concurrent
// reads once fully constructed; the analyzer treats datasets as read-only.
type Dataset struct {
	fields  []string
	columns map[string]Column
}

// New creates an empty dataset.
//
// Outputs:
//   - *Dataset: The new dataset. Never nil.
func New() *Dataset {
	return &Dataset{
		columns: make(map[string]Column),
	}
}

// AddNumeric adds a numeric column.
//
// Inputs:
//   - name: Field name. Must not already exist.
//   - values: Column values. The slice is retained, not copied.
//
// Outputs:
//   - error: ErrDuplicateField if the name exists.
func (d *Dataset) AddNumeric(name string, values []float64) error {
	if _, ok := d.columns[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateField, name)
	}
	d.fields = append(d.fields, name)
	d.columns[name] = Column{Kind: KindNumeric, Numeric: values}
	return nil
}

// AddCategorical adds a categorical column.
//
// Inputs:
//   - name: Field name. Must not already exist.
//   - values: Column values. The slice is retained, not copied.
//
// Outputs:
//   - error: ErrDuplicateField if the name exists.
func (d *Dataset) AddCategorical(name string, values []string) error {
	if _, ok := d.columns[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateField, name)
	}
	d.fields = append(d.fields, name)
	d.columns[name] = Column{Kind: KindCategorical, Categorical: values}
	return nil
}

// Fields returns the field names in insertion order.
//
// Outputs:
//   - []string: A copy; callers may modify it freely.
func (d *Dataset) Fields() []string {
	out := make([]string, len(d.fields))
	copy(out, d.fields)
	return out
}

// Column returns the column for the given field.
//
// Outputs:
//   - Column: The column, zero-valued if absent.
//   - bool: True if the field exists.
func (d *Dataset) Column(name string) (Column, bool) {
	col, ok := d.columns[name]
	return col, ok
}

// NumFields returns the number of columns.
func (d *Dataset) NumFields() int {
	return len(d.fields)
}
