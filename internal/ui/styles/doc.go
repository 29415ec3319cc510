// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the fintrack TUI.

This package defines the color palette and the Theme, the set of configured
Lip Gloss styles used throughout the application. All colors use Lip Gloss
AdaptiveColor for automatic light/dark terminal detection; the detection can
be overridden from config with ApplyThemeMode.

# Color System (colors.go)

  - Cyan - brand color, focus rings, key hints
  - Emerald - income, success, budget on track
  - Rose - expenses, errors, budget over limit
  - Amber - warnings, stale-data indicator, budget near limit
  - Purple - selections and accents

Money amounts always pair color with a sign so the direction of a
transaction survives monochrome terminals and color blindness.

# Theme (theme.go)

Theme holds one lipgloss.Style per visual element (tabs, table rows, the
status bar, the login form, the budget gauge). Components take a *Theme and
never construct ad hoc colors, so a palette change stays in one file.
*/
package styles
