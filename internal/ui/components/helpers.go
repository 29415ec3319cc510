// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the fintrack TUI.
package components

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jeranaias/fintrack-tui/internal/util"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// fmtPercent formats a percentage with one decimal place (with rounding).
func fmtPercent(p float64) string {
	negative := p < 0
	absP := p
	if negative {
		absP = -p
	}

	// Add 0.05 for proper rounding
	rounded := absP + 0.05
	whole := int(rounded)
	frac := int((rounded - float64(whole)) * 10)

	result := util.IntToString(whole) + "." + util.IntToString(frac) + "%"
	if negative {
		result = "-" + result
	}
	return result
}

// RelativeTime renders a timestamp as a short human phrase ("3 minutes
// ago"). Zero times render as an empty string instead of a nonsense age.
func RelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// FreshnessLabel describes how old a cache entry is for the status bar.
func FreshnessLabel(fetchedAt time.Time) string {
	if fetchedAt.IsZero() {
		return "no data"
	}
	return "updated " + humanize.Time(fetchedAt)
}
