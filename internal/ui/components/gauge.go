// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the fintrack TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/fintrack-tui/internal/model"
	"github.com/jeranaias/fintrack-tui/internal/ui/styles"
)

// =============================================================================
// BUDGET GAUGE
// =============================================================================

const (
	gaugeFillChar  = "#"
	gaugeTrackChar = "-"
)

// RenderBudgetGauge renders a horizontal budget bar. The fill color follows
// the budget classification: emerald on track, amber approaching the limit,
// rose near or over it. The percentage is printed next to the bar so the
// state survives monochrome terminals.
func RenderBudgetGauge(theme *styles.Theme, status model.BudgetStatus, width int) string {
	if width < 12 {
		width = 12
	}

	label := fmtPercent(status.PercentUsed) + " " + status.State.String()
	barWidth := width - lipgloss.Width(label) - 1
	if barWidth < 6 {
		barWidth = 6
	}

	pct := status.PercentUsed
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	filled := int(pct / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	var fillStyle lipgloss.Style
	switch status.State {
	case model.BudgetOverLimit:
		fillStyle = theme.GaugeOverStyle
	case model.BudgetWarning:
		fillStyle = theme.GaugeWarningStyle
	default:
		fillStyle = theme.GaugeOnTrackStyle
	}

	bar := fillStyle.Render(strings.Repeat(gaugeFillChar, filled)) +
		theme.GaugeTrackStyle.Render(strings.Repeat(gaugeTrackChar, barWidth-filled))

	return bar + " " + theme.GaugeLabel.Render(label)
}

// RenderSavingsGauge renders progress toward a savings goal. Complete goals
// always render a full bar.
func RenderSavingsGauge(theme *styles.Theme, goal model.SavingsGoal, width int) string {
	if width < 12 {
		width = 12
	}

	label := fmtPercent(goal.Progress())
	barWidth := width - lipgloss.Width(label) - 1
	if barWidth < 6 {
		barWidth = 6
	}

	filled := int(goal.Progress() / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	style := theme.GaugeOnTrackStyle
	if goal.Complete() {
		style = theme.GaugeOnTrackStyle.Bold(true)
	}

	bar := style.Render(strings.Repeat(gaugeFillChar, filled)) +
		theme.GaugeTrackStyle.Render(strings.Repeat(gaugeTrackChar, barWidth-filled))

	return bar + " " + theme.GaugeLabel.Render(label)
}
