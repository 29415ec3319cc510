// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the fintrack TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/fintrack-tui/internal/ui/styles"
	"github.com/jeranaias/fintrack-tui/internal/util"
)

// =============================================================================
// HEADER
// =============================================================================

// Header renders the top brand line and the tab bar.
type Header struct {
	Width    int
	UserName string // display name of the signed-in user
	Unread   int    // unread notification count for the badge

	theme *styles.Theme
}

// NewHeader creates a header component.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Width: 80, theme: theme}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the brand line: app name on the left, user and notification
// badge on the right.
func (h *Header) View() string {
	left := h.theme.HeaderBrand.Render("fintrack")

	var rightParts []string
	if h.Unread > 0 {
		rightParts = append(rightParts, h.theme.NotifBadge.Render(util.IntToString(h.Unread)))
	}
	if h.UserName != "" {
		rightParts = append(rightParts, h.theme.HeaderSubtitle.Render(h.UserName))
	}
	right := strings.Join(rightParts, " ")

	gap := h.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	line := left + strings.Repeat(" ", gap) + right
	return h.theme.Header.Width(h.Width).Render(line)
}

// RenderTabs renders the tab bar with the active tab highlighted.
func (h *Header) RenderTabs(labels []string, active int) string {
	rendered := make([]string, 0, len(labels))
	for i, label := range labels {
		if i == active {
			rendered = append(rendered, h.theme.TabActive.Render(label))
		} else {
			rendered = append(rendered, h.theme.Tab.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Bottom, rendered...)
	return h.theme.TabBar.Width(h.Width).Render(row)
}
