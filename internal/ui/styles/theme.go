// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the fintrack TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderBrand    lipgloss.Style

	// ==========================================================================
	// TAB BAR STYLES
	// ==========================================================================

	Tab       lipgloss.Style
	TabActive lipgloss.Style
	TabBar    lipgloss.Style

	// ==========================================================================
	// TABLE STYLES
	// ==========================================================================

	TableHeader lipgloss.Style
	Row         lipgloss.Style
	RowAlt      lipgloss.Style
	RowSelected lipgloss.Style

	// ==========================================================================
	// MONEY STYLES
	// ==========================================================================

	AmountIncome  lipgloss.Style
	AmountExpense lipgloss.Style
	AmountNeutral lipgloss.Style
	BalanceBig    lipgloss.Style

	// ==========================================================================
	// BUDGET GAUGE STYLES
	// ==========================================================================

	GaugeOnTrackStyle lipgloss.Style
	GaugeWarningStyle lipgloss.Style
	GaugeOverStyle    lipgloss.Style
	GaugeTrackStyle   lipgloss.Style
	GaugeLabel        lipgloss.Style

	// ==========================================================================
	// CARD STYLES
	// ==========================================================================

	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardTitle    lipgloss.Style
	CardValue    lipgloss.Style
	CardMeta     lipgloss.Style

	// ==========================================================================
	// LOGIN FORM STYLES
	// ==========================================================================

	LoginBox     lipgloss.Style
	LoginTitle   lipgloss.Style
	LoginLabel   lipgloss.Style
	LoginError   lipgloss.Style
	LoginHint    lipgloss.Style
	InputFocused lipgloss.Style
	InputBlurred lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusOnline lipgloss.Style
	StatusStale  lipgloss.Style
	StatusError  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner     lipgloss.Style
	LoadingText lipgloss.Style

	// ==========================================================================
	// NOTIFICATION STYLES
	// ==========================================================================

	NotifUnread lipgloss.Style
	NotifRead   lipgloss.Style
	NotifBadge  lipgloss.Style

	// ==========================================================================
	// CONFIRMATION PROMPT STYLES
	// ==========================================================================

	ConfirmBox          lipgloss.Style
	ConfirmTitle        lipgloss.Style
	ConfirmButton       lipgloss.Style
	ConfirmButtonActive lipgloss.Style

	// ==========================================================================
	// ACCESSIBILITY: Status indicator styles with shapes and high contrast
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	// Detect terminal capabilities
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor
	isDark := termenv.HasDarkBackground()

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// ApplyThemeMode forces light or dark rendering regardless of terminal
// detection. Mode "auto" (or "") keeps the detected background.
func ApplyThemeMode(mode string) {
	switch mode {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Emerald)

	// Tab bar
	t.Tab = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 2)

	t.TabActive = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true).
		Underline(true).
		Padding(0, 2)

	t.TabBar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	// Tables
	t.TableHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	t.Row = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.RowAlt = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceBright)

	t.RowSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true)

	// Money
	t.AmountIncome = lipgloss.NewStyle().
		Foreground(Income).
		Bold(true)

	t.AmountExpense = lipgloss.NewStyle().
		Foreground(Expense).
		Bold(true)

	t.AmountNeutral = lipgloss.NewStyle().
		Foreground(BalanceNeutral)

	t.BalanceBig = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true).
		Padding(0, 1)

	// Budget gauge
	t.GaugeOnTrackStyle = lipgloss.NewStyle().Foreground(GaugeOnTrack)
	t.GaugeWarningStyle = lipgloss.NewStyle().Foreground(GaugeWarning)
	t.GaugeOverStyle = lipgloss.NewStyle().Foreground(GaugeOver)
	t.GaugeTrackStyle = lipgloss.NewStyle().Foreground(GaugeTrack)
	t.GaugeLabel = lipgloss.NewStyle().Foreground(TextSecondary)

	// Cards
	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2)

	t.CardSelected = t.Card.
		BorderForeground(Cyan)

	t.CardTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.CardValue = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.CardMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Login form
	t.LoginBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(1, 4)

	t.LoginTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Align(lipgloss.Center)

	t.LoginLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.LoginError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.LoginHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.InputFocused = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(FocusRing).
		Padding(0, 1)

	t.InputBlurred = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusOnline = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.StatusStale = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.StatusError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.LoadingText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Notifications
	t.NotifUnread = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.NotifRead = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.NotifBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Rose).
		Padding(0, 1).
		Bold(true)

	// Confirmation prompt
	t.ConfirmBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Amber).
		Padding(1, 3)

	t.ConfirmTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Amber)

	t.ConfirmButton = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2)

	t.ConfirmButtonActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Rose).
		Bold(true).
		Padding(0, 2)

	// Accessibility status styles
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(WarningHighContrast).
		Bold(true)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(InfoHighContrast).
		Bold(true)
}

// SetSize records the current terminal dimensions on the theme.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// AmountStyle returns the style for a signed amount: income for positive,
// expense for negative, neutral for zero.
func (t *Theme) AmountStyle(amount float64) lipgloss.Style {
	switch {
	case amount > 0:
		return t.AmountIncome
	case amount < 0:
		return t.AmountExpense
	default:
		return t.AmountNeutral
	}
}
