// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme_InitializesStyles(t *testing.T) {
	theme := NewTheme()

	// Spot-check that the style sets were configured rather than left zero.
	if !theme.TabActive.GetBold() {
		t.Error("TabActive must be bold")
	}
	if !theme.AmountIncome.GetBold() {
		t.Error("AmountIncome must be bold")
	}
	if theme.LoginBox.GetPaddingLeft() == 0 {
		t.Error("LoginBox must carry padding")
	}
}

func TestTheme_SetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)
	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("size = %dx%d, want 120x40", theme.Width, theme.Height)
	}
}

func TestTheme_AmountStyle(t *testing.T) {
	theme := NewTheme()

	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"income", 25.00, theme.AmountIncome.Render("x")},
		{"expense", -25.00, theme.AmountExpense.Render("x")},
		{"zero", 0, theme.AmountNeutral.Render("x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := theme.AmountStyle(tt.amount).Render("x")
			if got != tt.want {
				t.Errorf("AmountStyle(%v) rendered %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestRenderHelpers_CarryIndicators(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"success", RenderSuccess("saved"), StatusIndicators.Success},
		{"error", RenderError("failed"), StatusIndicators.Error},
		{"warning", RenderWarning("careful"), StatusIndicators.Warning},
		{"info", RenderInfo("fyi"), StatusIndicators.Info},
		{"stale", RenderStale("cached"), StatusIndicators.Stale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("rendered %q missing indicator %q", tt.got, tt.want)
			}
		})
	}
}
