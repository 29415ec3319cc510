// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/fintrack-tui/internal/cache"
	"github.com/jeranaias/fintrack-tui/internal/model"
	"github.com/jeranaias/fintrack-tui/internal/session"
)

// =============================================================================
// DATA MESSAGES
// =============================================================================
// Every fetch result carries the generation it was issued under. Update
// drops messages whose generation no longer matches the model's: they
// belong to a session or refresh cycle that has since been superseded.

type balanceLoadedMsg struct {
	gen int
	res cache.Result[model.TotalBalance]
	err error
}

type accountsLoadedMsg struct {
	gen int
	res cache.Result[[]model.Account]
	err error
}

type transactionsLoadedMsg struct {
	gen int
	res cache.Result[[]model.Transaction]
	err error
}

type budgetLoadedMsg struct {
	gen int
	res cache.Result[model.Budget]
	err error
}

type savingsLoadedMsg struct {
	gen int
	res cache.Result[[]model.SavingsGoal]
	err error
}

type notificationsLoadedMsg struct {
	gen int
	res cache.Result[[]model.Notification]
	err error
}

// =============================================================================
// AUTH MESSAGES
// =============================================================================

type bootstrapDoneMsg struct {
	gen   int
	state session.State
	err   error
}

type loginDoneMsg struct {
	gen int
	ok  bool
	err error
}

type loggedOutMsg struct {
	err error
}

// sessionChangedMsg is emitted by the session subscriber when the state
// machine transitions outside a direct UI action (an expired token
// detected by the cache auth hook, for example).
type sessionChangedMsg struct {
	state session.State
}

// SessionChanged wraps a session state transition for delivery via
// Program.Send, so the auth hook can reach the update loop from outside
// the Bubble Tea event cycle.
func SessionChanged(state session.State) tea.Msg {
	return sessionChangedMsg{state: state}
}

// =============================================================================
// MUTATION MESSAGES
// =============================================================================

type transactionDeletedMsg struct {
	gen int
	id  int
	err error
}

type notificationReadMsg struct {
	gen int
	id  int
	err error
}

type contributedMsg struct {
	gen  int
	goal model.SavingsGoal
	err  error
}

type accountCreatedMsg struct {
	gen int
	err error
}

type transactionCreatedMsg struct {
	gen int
	tx  model.Transaction
	err error
}

type budgetSetMsg struct {
	gen    int
	budget model.Budget
	err    error
}

type goalCreatedMsg struct {
	gen  int
	goal model.SavingsGoal
	err  error
}

type goalDeletedMsg struct {
	gen int
	id  int
	err error
}

type notificationDeletedMsg struct {
	gen int
	id  int
	err error
}
