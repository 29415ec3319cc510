// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the fintrack TUI.
package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/fintrack-tui/internal/ui/styles"
	"github.com/jeranaias/fintrack-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Health represents the connection health shown in the status bar.
type Health int

const (
	// HealthLive means the last fetch succeeded.
	HealthLive Health = iota
	// HealthStale means the dashboard is painting cached data it could not
	// refresh.
	HealthStale
	// HealthOffline means the backend is unreachable and nothing is cached.
	HealthOffline
)

// String returns the display string for the health state.
func (h Health) String() string {
	switch h {
	case HealthStale:
		return "stale"
	case HealthOffline:
		return "offline"
	default:
		return "live"
	}
}

// Icon returns a shape indicator for the health state.
// ACCESSIBILITY: distinct shapes alongside colors for colorblind users.
func (h Health) Icon() string {
	switch h {
	case HealthStale:
		return styles.StatusIndicators.Stale
	case HealthOffline:
		return styles.StatusIndicators.Error
	default:
		return styles.StatusIndicators.Success
	}
}

// Shortcut is one key hint shown on the right of the bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom status bar: connection health, data freshness,
// cache statistics, and key hints.
type StatusBar struct {
	Width     int
	Health    Health
	FetchedAt time.Time // when the visible data was fetched
	HitRate   float64   // cache hit rate, 0..1
	Hits      int
	Misses    int
	Shortcuts []Shortcut

	theme *styles.Theme
}

// NewStatusBar creates a status bar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width:  80,
		Health: HealthLive,
		theme:  theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetCacheStats updates the cache counters shown in the bar.
func (s *StatusBar) SetCacheStats(hits, misses int, hitRate float64) {
	s.Hits = hits
	s.Misses = misses
	s.HitRate = hitRate
}

// View renders the status bar.
func (s *StatusBar) View() string {
	var healthStyle lipgloss.Style
	switch s.Health {
	case HealthStale:
		healthStyle = s.theme.StatusStale
	case HealthOffline:
		healthStyle = s.theme.StatusError
	default:
		healthStyle = s.theme.StatusOnline
	}

	parts := []string{
		healthStyle.Render(s.Health.Icon() + " " + s.Health.String()),
		FreshnessLabel(s.FetchedAt),
	}
	if s.Hits+s.Misses > 0 {
		parts = append(parts, "cache "+fmtPercent(s.HitRate*100)+
			" ("+util.IntToString(s.Hits)+"/"+util.IntToString(s.Hits+s.Misses)+")")
	}
	left := strings.Join(parts, "  |  ")

	var hints []string
	for _, sc := range s.Shortcuts {
		hints = append(hints,
			s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	right := strings.Join(hints, "  ")

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return s.theme.StatusBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}
