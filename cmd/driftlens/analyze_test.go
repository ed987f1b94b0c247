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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestResolveStrategy(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "welch alias", input: "welch", expected: "welch_t_test"},
		{name: "welch full", input: "welch_t_test", expected: "welch_t_test"},
		{name: "mannwhitney alias", input: "mannwhitney", expected: "mann_whitney_u"},
		{name: "mannwhitney full", input: "mann_whitney_u", expected: "mann_whitney_u"},
		{name: "unknown", input: "kolmogorov", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, err := resolveStrategy(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, strategy.Name())
		})
	}
}

func TestFileConfigParsing(t *testing.T) {
	raw := `
strategy: mannwhitney
alpha: 0.01
adjust: true
ignore:
  - request_id
  - timestamp
`
	var fc fileConfig
	require.NoError(t, yaml.Unmarshal([]byte(raw), &fc))
	assert.Equal(t, "mannwhitney", fc.Strategy)
	assert.InDelta(t, 0.01, fc.Alpha, 1e-12)
	assert.True(t, fc.Adjust)
	assert.Equal(t, []string{"request_id", "timestamp"}, fc.Ignore)
}
