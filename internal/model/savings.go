// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// SAVINGS GOALS
// =============================================================================

// SavingsGoal is a savings target returned by GET /api/savings/.
type SavingsGoal struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Saved  Amount `json:"saved"`
	Target Amount `json:"target"`
}

// Progress returns the completion percentage, capped at 100.
// A goal with no target reports 0.
func (g SavingsGoal) Progress() float64 {
	if g.Target <= 0 {
		return 0
	}
	pct := float64(g.Saved) / float64(g.Target) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// Remaining returns how much is left to save, never negative.
func (g SavingsGoal) Remaining() Amount {
	if g.Saved >= g.Target {
		return 0
	}
	return g.Target - g.Saved
}

// Complete reports whether the goal has been reached.
func (g SavingsGoal) Complete() bool {
	return g.Target > 0 && g.Saved >= g.Target
}
