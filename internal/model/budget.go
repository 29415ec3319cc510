// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// BUDGET
// =============================================================================

// Budget is the monthly budget returned by GET /api/budget/current/.
type Budget struct {
	Amount Amount `json:"amount"`
	Month  string `json:"month,omitempty"`
}

// BudgetState classifies how much of the monthly budget is used.
type BudgetState int

const (
	// BudgetOnTrack means spending is comfortably under budget (<75%).
	BudgetOnTrack BudgetState = iota
	// BudgetWarning means spending is approaching the budget (>=75%).
	BudgetWarning
	// BudgetOverLimit means spending is near or over the budget (>=90%).
	BudgetOverLimit
)

// Classification thresholds, as percentages of the monthly budget.
const (
	budgetWarningPct   = 75.0
	budgetOverLimitPct = 90.0
)

// String returns the user-facing label for the state.
func (s BudgetState) String() string {
	switch s {
	case BudgetOverLimit:
		return "near/over limit"
	case BudgetWarning:
		return "approaching limit"
	default:
		return "on track"
	}
}

// BudgetStatus is the derived view of a budget against month-to-date spend.
type BudgetStatus struct {
	Budget      Amount
	Spent       Amount
	PercentUsed float64
	State       BudgetState
}

// NewBudgetStatus computes percent used and its classification.
// A zero or unset budget reports 0% used and on track.
func NewBudgetStatus(budget, spent Amount) BudgetStatus {
	st := BudgetStatus{Budget: budget, Spent: spent}
	if budget > 0 {
		st.PercentUsed = float64(spent) / float64(budget) * 100
	}
	switch {
	case st.PercentUsed >= budgetOverLimitPct:
		st.State = BudgetOverLimit
	case st.PercentUsed >= budgetWarningPct:
		st.State = BudgetWarning
	default:
		st.State = BudgetOnTrack
	}
	return st
}

// Remaining returns the unspent budget, never negative.
func (s BudgetStatus) Remaining() Amount {
	if s.Spent >= s.Budget {
		return 0
	}
	return s.Budget - s.Spent
}

// =============================================================================
// MONTHLY SUMMARY
// =============================================================================

// MonthlySummary aggregates transactions for a single calendar month.
type MonthlySummary struct {
	Month      time.Month
	Year       int
	Income     Amount
	Expenses   Amount
	ByCategory map[string]Amount
}

// Net returns income minus expenses for the month.
func (s MonthlySummary) Net() Amount { return s.Income - s.Expenses }

// Summarize computes the month's totals from a full transaction list.
// Transactions outside the given month are ignored.
func Summarize(transactions []Transaction, year int, month time.Month) MonthlySummary {
	s := MonthlySummary{
		Month:      month,
		Year:       year,
		ByCategory: make(map[string]Amount),
	}
	for _, tx := range transactions {
		if tx.Date.Year() != year || tx.Date.Month() != month {
			continue
		}
		if tx.IsExpense() {
			s.Expenses += tx.Amount
			s.ByCategory[tx.Category] += tx.Amount
		} else {
			s.Income += tx.Amount
		}
	}
	return s
}
