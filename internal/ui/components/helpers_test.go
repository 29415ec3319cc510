// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"
)

func TestFmtPercent(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0.0%"},
		{50, "50.0%"},
		{75.25, "75.3%"},
		{95.0, "95.0%"},
		{100, "100.0%"},
		{-12.5, "-12.5%"},
	}
	for _, tt := range tests {
		if got := fmtPercent(tt.input); got != tt.want {
			t.Errorf("fmtPercent(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	if got := RelativeTime(time.Time{}); got != "" {
		t.Errorf("zero time = %q, want empty", got)
	}
	got := RelativeTime(time.Now().Add(-3 * time.Minute))
	if !strings.Contains(got, "minute") {
		t.Errorf("RelativeTime = %q, want a minutes phrase", got)
	}
}

func TestFreshnessLabel(t *testing.T) {
	if got := FreshnessLabel(time.Time{}); got != "no data" {
		t.Errorf("zero time = %q, want %q", got, "no data")
	}
	got := FreshnessLabel(time.Now().Add(-time.Hour))
	if !strings.HasPrefix(got, "updated ") {
		t.Errorf("FreshnessLabel = %q, want updated prefix", got)
	}
}
