// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package analyzer

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/driftlens/pkg/logging"
	"github.com/AleutianAI/driftlens/stats"
	"github.com/AleutianAI/driftlens/telemetry"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrNilStrategy indicates a nil strategy was configured.
	ErrNilStrategy = errors.New("strategy must not be nil")

	// ErrInvalidConfig indicates the configuration failed validation.
	ErrInvalidConfig = errors.New("invalid analyzer configuration")

	// ErrNilDataset indicates a nil dataset was passed to Analyze.
	ErrNilDataset = errors.New("dataset must not be nil")
)

// validate is shared across Config instances; the validator is thread-safe.
var validate = validator.New(validator.WithRequiredStructEnabled())

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

// Config configures the analyzer.
type Config struct {
	// Alpha is the significance level for flagging a field.
	// Default: 0.05
	Alpha float64 `validate:"gt=0,lt=1"`

	// Numerical is the strategy for numeric columns.
	// Default: stats.NewWelchTTest()
	Numerical stats.Strategy `validate:"-"`

	// Categorical is the strategy for categorical columns.
	// Default: stats.NewChiSquared()
	Categorical stats.CategoricalStrategy `validate:"-"`

	// IgnoreFields lists fields excluded from analysis.
	// Default: none
	IgnoreFields []string `validate:"-"`

	// AdjustPValues enables the Bonferroni correction across the analyzed
	// fields before thresholding.
	// Default: false
	AdjustPValues bool

	// Logger for operational output.
	// Default: logging.Default()
	Logger *logging.Logger `validate:"-"`

	// Sink receives analysis metrics.
	// Default: telemetry.NopSink{}
	Sink telemetry.Sink `validate:"-"`
}

// DefaultConfig returns sensible defaults.
//
// Outputs:
//   - *Config: Default configuration. Never nil.
func DefaultConfig() *Config {
	return &Config{
		Alpha:       0.05,
		Numerical:   stats.NewWelchTTest(),
		Categorical: stats.NewChiSquared(),
		Logger:      logging.Default(),
		Sink:        telemetry.NopSink{},
	}
}

// Validate checks that the configuration is usable.
//
// Outputs:
//   - error: ErrInvalidConfig or ErrNilStrategy.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Numerical == nil {
		return fmt.Errorf("%w: numerical", ErrNilStrategy)
	}
	if c.Categorical == nil {
		return fmt.Errorf("%w: categorical", ErrNilStrategy)
	}
	if c.Logger == nil {
		return fmt.Errorf("%w: logger must not be nil", ErrInvalidConfig)
	}
	if c.Sink == nil {
		return fmt.Errorf("%w: sink must not be nil", ErrInvalidConfig)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Option Functions
// -----------------------------------------------------------------------------

// Option configures the analyzer.
type Option func(*Config)

// WithAlpha sets the significance level.
func WithAlpha(alpha float64) Option {
	return func(c *Config) {
		c.Alpha = alpha
	}
}

// WithStrategy sets the strategy for numeric columns.
func WithStrategy(s stats.Strategy) Option {
	return func(c *Config) {
		c.Numerical = s
	}
}

// WithCategoricalStrategy sets the strategy for categorical columns.
func WithCategoricalStrategy(s stats.CategoricalStrategy) Option {
	return func(c *Config) {
		c.Categorical = s
	}
}

// WithIgnoreFields sets fields to exclude from analysis.
func WithIgnoreFields(fields ...string) Option {
	return func(c *Config) {
		c.IgnoreFields = append(c.IgnoreFields, fields...)
	}
}

// WithAdjustPValues enables the Bonferroni correction.
func WithAdjustPValues(enabled bool) Option {
	return func(c *Config) {
		c.AdjustPValues = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithSink sets the telemetry sink.
func WithSink(sink telemetry.Sink) Option {
	return func(c *Config) {
		if sink != nil {
			c.Sink = sink
		}
	}
}
