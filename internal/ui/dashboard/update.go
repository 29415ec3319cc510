// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/fintrack-tui/internal/cache"
	"github.com/jeranaias/fintrack-tui/internal/model"
	"github.com/jeranaias/fintrack-tui/internal/session"
	"github.com/jeranaias/fintrack-tui/internal/ui/components"
)

// Update is the Bubble Tea update loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.header.SetWidth(msg.Width)
		m.status.SetWidth(msg.Width)
		return m, nil

	case components.ToastTickMsg:
		m.toasts.TickToasts()
		return m, components.ToastTickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case bootstrapDoneMsg:
		return m.handleBootstrapDone(msg)
	case loginDoneMsg:
		return m.handleLoginDone(msg)
	case loggedOutMsg:
		return m.resetToLogin("Signed out")
	case sessionChangedMsg:
		// A transition not triggered by a UI action: the cache auth hook
		// detected a dead token.
		if msg.state == session.StateUnauthenticated && m.screen != screenLogin {
			return m.resetToLogin("Session expired, please sign in again")
		}
		return m, nil

	case balanceLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.fetchDone(msg.res.FetchedAt, msg.res.Stale, msg.err, "balance")
		if msg.err == nil || msg.res.Stale {
			m.balance = msg.res.Payload
		}
		return m, nil

	case accountsLoadedMsg:
		return m.handleAccountsLoaded(msg)

	case transactionsLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.fetchDone(msg.res.FetchedAt, msg.res.Stale, msg.err, "transactions")
		if msg.err == nil || msg.res.Stale {
			m.txs = msg.res.Payload
			m.clampCursor(tabTransactions, len(m.txs))
		}
		return m, nil

	case budgetLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.fetchDone(msg.res.FetchedAt, msg.res.Stale, msg.err, "budget")
		if msg.err == nil || msg.res.Stale {
			m.budget = msg.res.Payload
		}
		return m, nil

	case savingsLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.fetchDone(msg.res.FetchedAt, msg.res.Stale, msg.err, "savings goals")
		if msg.err == nil || msg.res.Stale {
			m.goals = msg.res.Payload
			m.clampCursor(tabSavings, len(m.goals))
		}
		return m, nil

	case notificationsLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.fetchDone(msg.res.FetchedAt, msg.res.Stale, msg.err, "notifications")
		if msg.err == nil || msg.res.Stale {
			m.notifications = msg.res.Payload
			m.header.Unread = model.UnreadCount(m.notifications)
			m.clampCursor(tabNotifications, len(m.notifications))
		}
		return m, nil

	case transactionDeletedMsg:
		return m.handleTransactionDeleted(msg)
	case notificationReadMsg:
		return m.handleNotificationRead(msg)
	case contributedMsg:
		return m.handleContributed(msg)
	case accountCreatedMsg:
		return m.handleAccountCreated(msg)
	case transactionCreatedMsg:
		return m.handleTransactionCreated(msg)
	case budgetSetMsg:
		return m.handleBudgetSet(msg)
	case goalCreatedMsg:
		return m.handleGoalCreated(msg)
	case goalDeletedMsg:
		return m.handleGoalDeleted(msg)
	case notificationDeletedMsg:
		return m.handleNotificationDeleted(msg)
	}

	// Spinner frames and other component messages.
	return m, m.spin.Update(msg)
}

// =============================================================================
// AUTH TRANSITIONS
// =============================================================================

func (m *Model) handleBootstrapDone(msg bootstrapDoneMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	m.spin.Stop()

	if msg.state == session.StateAuthenticated {
		m.enterMain()
		return m, tea.Batch(m.fetchAllCmd(), m.spin.Start("Loading dashboard"))
	}
	if msg.err != nil {
		// Network failure: the stored token is kept for next launch, but
		// this session starts at the login form.
		m.toasts.AddWarning("Could not restore session: " + msg.err.Error())
	}
	m.screen = screenLogin
	return m, nil
}

func (m *Model) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	m.spin.Stop()

	if !msg.ok {
		m.loginErr = "Login failed"
		if msg.err != nil {
			m.loginErr = msg.err.Error()
		}
		m.loginInputs[1].SetValue("")
		return m, nil
	}

	m.loginErr = ""
	m.loginInputs[1].SetValue("")
	m.gen++ // new session, new generation
	m.enterMain()
	return m, tea.Batch(m.fetchAllCmd(), m.spin.Start("Loading dashboard"))
}

// resetToLogin clears all session-scoped state and returns to the login
// form. The cache is purged so the next user never sees this user's data.
func (m *Model) resetToLogin(notice string) (tea.Model, tea.Cmd) {
	m.gateway.Clear()
	m.gen++

	m.balance = model.TotalBalance{}
	m.accounts = nil
	m.txs = nil
	m.budget = model.Budget{}
	m.goals = nil
	m.notifications = nil
	m.haveAccounts = false
	m.anyStale = false
	m.pending = 0
	m.cursors = [tabCount]int{}
	m.header.UserName = ""
	m.header.Unread = 0

	m.screen = screenLogin
	m.overlay = overlayNone
	m.tab = tabOverview
	m.loginFocus = 0
	m.loginInputs[0].Focus()
	m.loginInputs[1].Blur()
	if notice != "" {
		m.toasts.AddStatus(notice)
	}
	return m, nil
}

// enterMain switches to the dashboard after authentication.
func (m *Model) enterMain() {
	m.screen = screenMain
	m.tab = tabOverview
	if id := m.sess.CurrentIdentity(); id.User != nil {
		m.header.UserName = id.User.DisplayName()
	}
}

// =============================================================================
// DATA BOOKKEEPING
// =============================================================================

// fetchDone folds one completed fetch into the freshness bookkeeping and
// surfaces errors as toasts.
func (m *Model) fetchDone(fetchedAt time.Time, stale bool, err error, what string) {
	if m.pending > 0 {
		m.pending--
	}
	if m.pending == 0 {
		m.spin.Stop()
	}
	if stale {
		m.anyStale = true
	}
	if !stale && fetchedAt.After(m.fetchedAt) {
		m.fetchedAt = fetchedAt
	}
	if err != nil {
		if stale {
			m.toasts.AddWarning("Showing cached " + what + " (refresh failed)")
		} else {
			m.toasts.AddError("Could not load " + what + ": " + err.Error())
		}
	}
}

func (m *Model) handleAccountsLoaded(msg accountsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	m.fetchDone(msg.res.FetchedAt, msg.res.Stale, msg.err, "accounts")
	if msg.err != nil && !msg.res.Stale {
		return m, nil
	}
	m.accounts = msg.res.Payload
	m.haveAccounts = true

	// Zero linked accounts routes to setup, mirroring first-run onboarding.
	if len(m.accounts) == 0 && m.screen == screenMain {
		m.screen = screenSetup
		m.acctFocus = 0
		m.acctInputs[0].Focus()
		m.acctInputs[1].Blur()
	} else if len(m.accounts) > 0 && m.screen == screenSetup {
		m.screen = screenMain
	}
	return m, nil
}

// =============================================================================
// MUTATIONS
// =============================================================================

func (m *Model) handleTransactionDeleted(msg transactionDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	if msg.err != nil {
		m.toasts.AddError("Delete failed: " + msg.err.Error())
		return m, nil
	}
	m.toasts.AddSuccess("Transaction deleted")

	// The ledger, the balance, and the budget state all shifted.
	m.gateway.Invalidate(cache.KeyTransactions)
	m.gateway.Invalidate(cache.KeyBalance)
	m.gateway.Invalidate(cache.KeyBudget)
	m.pending += 3
	return m, tea.Batch(m.fetchTransactionsCmd(), m.fetchBalanceCmd(), m.fetchBudgetCmd())
}

func (m *Model) handleNotificationRead(msg notificationReadMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	if msg.err != nil {
		m.toasts.AddError("Could not mark read: " + msg.err.Error())
		return m, nil
	}

	for i := range m.notifications {
		if m.notifications[i].ID == msg.id {
			m.notifications[i].IsRead = true
		}
	}
	m.header.Unread = model.UnreadCount(m.notifications)
	// Push the updated list into the cache so other widgets and the next
	// read agree without a round trip.
	if err := cache.Write(m.gateway, cache.KeyNotifications, m.notifications); err != nil {
		m.toasts.AddWarning("Cache update failed: " + err.Error())
	}
	return m, nil
}

func (m *Model) handleContributed(msg contributedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	if msg.err != nil {
		m.toasts.AddError("Contribution failed: " + msg.err.Error())
		return m, nil
	}
	m.toasts.AddSuccess("Contribution saved")

	for i := range m.goals {
		if m.goals[i].ID == msg.goal.ID {
			m.goals[i] = msg.goal
		}
	}
	if err := cache.Write(m.gateway, cache.KeySavings, m.goals); err != nil {
		m.toasts.AddWarning("Cache update failed: " + err.Error())
	}
	// Moving money into savings changes the spendable balance.
	m.gateway.Invalidate(cache.KeyBalance)
	m.pending++
	return m, m.fetchBalanceCmd()
}

func (m *Model) handleAccountCreated(msg accountCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	m.spin.Stop()
	if msg.err != nil {
		m.toasts.AddError("Could not link account: " + msg.err.Error())
		return m, nil
	}
	m.toasts.AddSuccess("Account linked")
	m.acctInputs[0].SetValue("")
	m.acctInputs[1].SetValue("")

	m.gateway.Invalidate(cache.KeyAccounts)
	m.gateway.Invalidate(cache.KeyBalance)
	m.pending += 2
	return m, tea.Batch(m.fetchAccountsCmd(), m.fetchBalanceCmd())
}

func (m *Model) handleTransactionCreated(msg transactionCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	if msg.err != nil {
		m.toasts.AddError("Could not add transaction: " + msg.err.Error())
		return m, nil
	}
	m.toasts.AddSuccess("Transaction added")

	// The backend assigns the id, so the created entry goes straight to the
	// top of the ledger and into the cache.
	m.txs = append([]model.Transaction{msg.tx}, m.txs...)
	if err := cache.Write(m.gateway, cache.KeyTransactions, m.txs); err != nil {
		m.toasts.AddWarning("Cache update failed: " + err.Error())
	}

	// Balance and budget-spent both moved.
	m.gateway.Invalidate(cache.KeyBalance)
	m.gateway.Invalidate(cache.KeyBudget)
	m.pending += 2
	return m, tea.Batch(m.fetchBalanceCmd(), m.fetchBudgetCmd())
}

func (m *Model) handleBudgetSet(msg budgetSetMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	if msg.err != nil {
		m.toasts.AddError("Could not set budget: " + msg.err.Error())
		return m, nil
	}
	m.toasts.AddSuccess("Budget updated")

	m.budget = msg.budget
	if err := cache.Write(m.gateway, cache.KeyBudget, m.budget); err != nil {
		m.toasts.AddWarning("Cache update failed: " + err.Error())
	}
	return m, nil
}

func (m *Model) handleGoalCreated(msg goalCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	if msg.err != nil {
		m.toasts.AddError("Could not create goal: " + msg.err.Error())
		return m, nil
	}
	m.toasts.AddSuccess("Savings goal created")

	m.goals = append(m.goals, msg.goal)
	if err := cache.Write(m.gateway, cache.KeySavings, m.goals); err != nil {
		m.toasts.AddWarning("Cache update failed: " + err.Error())
	}
	return m, nil
}

func (m *Model) handleGoalDeleted(msg goalDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	if msg.err != nil {
		m.toasts.AddError("Could not delete goal: " + msg.err.Error())
		return m, nil
	}
	m.toasts.AddSuccess("Savings goal deleted")

	goals := m.goals[:0]
	for _, g := range m.goals {
		if g.ID != msg.id {
			goals = append(goals, g)
		}
	}
	m.goals = goals
	m.clampCursor(tabSavings, len(m.goals))
	if err := cache.Write(m.gateway, cache.KeySavings, m.goals); err != nil {
		m.toasts.AddWarning("Cache update failed: " + err.Error())
	}

	// Money parked in the goal returns to the spendable balance.
	m.gateway.Invalidate(cache.KeyBalance)
	m.pending++
	return m, m.fetchBalanceCmd()
}

func (m *Model) handleNotificationDeleted(msg notificationDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	if msg.err != nil {
		m.toasts.AddError("Could not delete notification: " + msg.err.Error())
		return m, nil
	}

	notifs := m.notifications[:0]
	for _, n := range m.notifications {
		if n.ID != msg.id {
			notifs = append(notifs, n)
		}
	}
	m.notifications = notifs
	m.header.Unread = model.UnreadCount(m.notifications)
	m.clampCursor(tabNotifications, len(m.notifications))
	if err := cache.Write(m.gateway, cache.KeyNotifications, m.notifications); err != nil {
		m.toasts.AddWarning("Cache update failed: " + err.Error())
	}
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits, whatever has focus.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case screenLogin:
		return m.handleLoginKey(msg)
	case screenSetup:
		return m.handleSetupKey(msg)
	default:
		if m.overlay != overlayNone {
			return m.handleOverlayKey(msg)
		}
		return m.handleMainKey(msg)
	}
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.loginFocus = (m.loginFocus + 1) % 2
		for i := range m.loginInputs {
			if i == m.loginFocus {
				m.loginInputs[i].Focus()
			} else {
				m.loginInputs[i].Blur()
			}
		}
		return m, nil

	case "enter":
		if m.loginFocus == 0 {
			// Move to the password field first.
			m.loginFocus = 1
			m.loginInputs[0].Blur()
			m.loginInputs[1].Focus()
			return m, nil
		}
		username := strings.TrimSpace(m.loginInputs[0].Value())
		password := m.loginInputs[1].Value()
		if username == "" || password == "" {
			m.loginErr = "Username and password are required"
			return m, nil
		}
		m.loginErr = ""
		return m, tea.Batch(
			m.loginCmd(username, password),
			m.spin.Start("Signing in"),
		)
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

func (m *Model) handleSetupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.acctFocus = (m.acctFocus + 1) % 2
		for i := range m.acctInputs {
			if i == m.acctFocus {
				m.acctInputs[i].Focus()
			} else {
				m.acctInputs[i].Blur()
			}
		}
		return m, nil

	case "enter":
		if m.acctFocus == 0 {
			m.acctFocus = 1
			m.acctInputs[0].Blur()
			m.acctInputs[1].Focus()
			return m, nil
		}
		bank := strings.TrimSpace(m.acctInputs[0].Value())
		number := strings.TrimSpace(m.acctInputs[1].Value())
		if bank == "" || number == "" {
			m.toasts.AddWarning("Bank name and account number are required")
			return m, nil
		}
		return m, tea.Batch(
			m.createAccountCmd(bank, number),
			m.spin.Start("Linking account"),
		)
	}

	if key.Matches(msg, m.keys.Logout) {
		return m, m.logoutCmd()
	}

	var cmd tea.Cmd
	m.acctInputs[m.acctFocus], cmd = m.acctInputs[m.acctFocus].Update(msg)
	return m, cmd
}

func (m *Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Logout):
		return m, m.logoutCmd()

	case key.Matches(msg, keys.NextTab):
		m.tab = (m.tab + 1) % tabCount
		return m, nil

	case key.Matches(msg, keys.PrevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount
		return m, nil

	case key.Matches(msg, keys.Up):
		if m.cursors[m.tab] > 0 {
			m.cursors[m.tab]--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		m.cursors[m.tab]++
		m.clampCursor(m.tab, m.listLen(m.tab))
		return m, nil

	case key.Matches(msg, keys.Refresh):
		return m.handleRefresh()

	case key.Matches(msg, keys.AddExpense):
		if m.tab == tabOverview || m.tab == tabTransactions {
			m.openAddTransaction(model.TransactionExpense)
		}
		return m, nil

	case key.Matches(msg, keys.AddIncome):
		if m.tab == tabOverview || m.tab == tabTransactions {
			m.openAddTransaction(model.TransactionIncome)
		}
		return m, nil

	case key.Matches(msg, keys.SetBudget):
		if m.tab == tabOverview {
			m.overlay = overlaySetBudget
			m.amountInput.SetValue("")
			m.amountInput.Focus()
		}
		return m, nil

	case key.Matches(msg, keys.NewGoal):
		if m.tab == tabSavings {
			m.overlay = overlayNewGoal
			m.goalFocus = 0
			for i := range m.goalInputs {
				m.goalInputs[i].SetValue("")
				m.goalInputs[i].Blur()
			}
			m.goalInputs[0].Focus()
		}
		return m, nil

	case key.Matches(msg, keys.Delete):
		switch {
		case m.tab == tabTransactions && len(m.txs) > 0:
			m.openConfirmDelete(confirmTransaction, m.txs[m.cursors[tabTransactions]].ID)
		case m.tab == tabSavings && len(m.goals) > 0:
			m.openConfirmDelete(confirmGoal, m.goals[m.cursors[tabSavings]].ID)
		case m.tab == tabNotifications && len(m.notifications) > 0:
			m.openConfirmDelete(confirmNotification, m.notifications[m.cursors[tabNotifications]].ID)
		}
		return m, nil

	case key.Matches(msg, keys.MarkRead):
		if m.tab == tabNotifications && len(m.notifications) > 0 {
			n := m.notifications[m.cursors[tabNotifications]]
			if !n.IsRead {
				return m, m.markReadCmd(n.ID)
			}
		}
		return m, nil

	case key.Matches(msg, keys.Contribute):
		if m.tab == tabSavings && len(m.goals) > 0 {
			m.overlay = overlayContribute
			m.contributeGoal = m.goals[m.cursors[tabSavings]].ID
			m.amountInput.SetValue("")
			m.amountInput.Focus()
		}
		return m, nil
	}
	return m, nil
}

// handleRefresh forces a full refetch, rate limited so holding the key
// cannot stampede the backend.
func (m *Model) handleRefresh() (tea.Model, tea.Cmd) {
	if !m.gateway.AllowRefresh() {
		m.toasts.AddWarning("Refreshing too fast, try again in a moment")
		return m, nil
	}
	m.gen++
	m.anyStale = false
	for _, k := range []string{
		cache.KeyBalance, cache.KeyAccounts, cache.KeyTransactions,
		cache.KeyBudget, cache.KeySavings, cache.KeyNotifications,
	} {
		m.gateway.Invalidate(k)
	}
	return m, tea.Batch(m.fetchAllCmd(), m.spin.Start("Refreshing"))
}

func (m *Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.overlay {
	case overlayConfirmDelete:
		switch msg.String() {
		case "esc", "n":
			m.overlay = overlayNone
			return m, nil
		case "left", "right", "tab", "h", "l":
			m.confirmYes = !m.confirmYes
			return m, nil
		case "y":
			m.overlay = overlayNone
			return m, m.confirmedDeleteCmd()
		case "enter":
			m.overlay = overlayNone
			if m.confirmYes {
				return m, m.confirmedDeleteCmd()
			}
			return m, nil
		}
		return m, nil

	case overlayContribute:
		switch msg.String() {
		case "esc":
			m.overlay = overlayNone
			m.amountInput.Blur()
			return m, nil
		case "enter":
			raw := strings.TrimSpace(m.amountInput.Value())
			amount, err := strconv.ParseFloat(raw, 64)
			if err != nil || amount <= 0 {
				m.toasts.AddWarning("Enter a positive amount like 25.00")
				return m, nil
			}
			m.overlay = overlayNone
			m.amountInput.Blur()
			return m, m.contributeCmd(m.contributeGoal, model.Amount(amount))
		}
		var cmd tea.Cmd
		m.amountInput, cmd = m.amountInput.Update(msg)
		return m, cmd

	case overlaySetBudget:
		switch msg.String() {
		case "esc":
			m.overlay = overlayNone
			m.amountInput.Blur()
			return m, nil
		case "enter":
			raw := strings.TrimSpace(m.amountInput.Value())
			amount, err := strconv.ParseFloat(raw, 64)
			if err != nil || amount <= 0 {
				m.toasts.AddWarning("Enter a positive amount like 1500.00")
				return m, nil
			}
			m.overlay = overlayNone
			m.amountInput.Blur()
			return m, m.setBudgetCmd(model.Amount(amount))
		}
		var cmd tea.Cmd
		m.amountInput, cmd = m.amountInput.Update(msg)
		return m, cmd

	case overlayAddTransaction:
		return m.handleAddTransactionKey(msg)

	case overlayNewGoal:
		return m.handleNewGoalKey(msg)
	}

	m.overlay = overlayNone
	return m, nil
}

func (m *Model) handleAddTransactionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.overlay = overlayNone
		return m, nil

	case "ctrl+t":
		if m.txType == model.TransactionExpense {
			m.txType = model.TransactionIncome
		} else {
			m.txType = model.TransactionExpense
		}
		return m, nil

	case "tab", "shift+tab", "up", "down":
		step := 1
		if msg.String() == "shift+tab" || msg.String() == "up" {
			step = len(m.txInputs) - 1
		}
		m.txFocus = (m.txFocus + step) % len(m.txInputs)
		for i := range m.txInputs {
			if i == m.txFocus {
				m.txInputs[i].Focus()
			} else {
				m.txInputs[i].Blur()
			}
		}
		return m, nil

	case "enter":
		if m.txFocus < len(m.txInputs)-1 {
			m.txInputs[m.txFocus].Blur()
			m.txFocus++
			m.txInputs[m.txFocus].Focus()
			return m, nil
		}
		title := strings.TrimSpace(m.txInputs[0].Value())
		amount, err := strconv.ParseFloat(strings.TrimSpace(m.txInputs[1].Value()), 64)
		if title == "" {
			m.toasts.AddWarning("Title is required")
			return m, nil
		}
		if err != nil || amount <= 0 {
			m.toasts.AddWarning("Enter a positive amount like 12.50")
			return m, nil
		}
		category := strings.TrimSpace(m.txInputs[2].Value())
		if category == "" {
			category = "Other"
		}
		m.overlay = overlayNone
		return m, m.createTransactionCmd(model.Transaction{
			Title:    title,
			Amount:   model.Amount(amount),
			Type:     m.txType,
			Category: category,
			Date:     time.Now(),
		})
	}

	var cmd tea.Cmd
	m.txInputs[m.txFocus], cmd = m.txInputs[m.txFocus].Update(msg)
	return m, cmd
}

func (m *Model) handleNewGoalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.overlay = overlayNone
		return m, nil

	case "tab", "shift+tab", "up", "down":
		m.goalFocus = (m.goalFocus + 1) % len(m.goalInputs)
		for i := range m.goalInputs {
			if i == m.goalFocus {
				m.goalInputs[i].Focus()
			} else {
				m.goalInputs[i].Blur()
			}
		}
		return m, nil

	case "enter":
		if m.goalFocus == 0 {
			m.goalInputs[0].Blur()
			m.goalFocus = 1
			m.goalInputs[1].Focus()
			return m, nil
		}
		title := strings.TrimSpace(m.goalInputs[0].Value())
		target, err := strconv.ParseFloat(strings.TrimSpace(m.goalInputs[1].Value()), 64)
		if title == "" {
			m.toasts.AddWarning("Goal title is required")
			return m, nil
		}
		if err != nil || target <= 0 {
			m.toasts.AddWarning("Enter a positive target like 500.00")
			return m, nil
		}
		m.overlay = overlayNone
		return m, m.createGoalCmd(title, model.Amount(target))
	}

	var cmd tea.Cmd
	m.goalInputs[m.goalFocus], cmd = m.goalInputs[m.goalFocus].Update(msg)
	return m, cmd
}

// =============================================================================
// HELPERS
// =============================================================================

// openAddTransaction resets the add-transaction form with the given entry
// type preselected.
func (m *Model) openAddTransaction(txType string) {
	m.overlay = overlayAddTransaction
	m.txType = txType
	m.txFocus = 0
	for i := range m.txInputs {
		m.txInputs[i].SetValue("")
		m.txInputs[i].Blur()
	}
	m.txInputs[0].Focus()
}

func (m *Model) openConfirmDelete(kind confirmTarget, id int) {
	m.overlay = overlayConfirmDelete
	m.confirmKind = kind
	m.confirmID = id
	m.confirmYes = false
}

// confirmedDeleteCmd dispatches the confirmed deletion to whatever the
// confirmation was opened for.
func (m *Model) confirmedDeleteCmd() tea.Cmd {
	switch m.confirmKind {
	case confirmGoal:
		return m.deleteGoalCmd(m.confirmID)
	case confirmNotification:
		return m.deleteNotificationCmd(m.confirmID)
	default:
		return m.deleteTransactionCmd(m.confirmID)
	}
}

// listLen returns the row count backing a tab's cursor.
func (m *Model) listLen(t tab) int {
	switch t {
	case tabTransactions:
		return len(m.txs)
	case tabSavings:
		return len(m.goals)
	case tabNotifications:
		return len(m.notifications)
	default:
		return 0
	}
}

// clampCursor keeps a tab cursor inside its list.
func (m *Model) clampCursor(t tab, length int) {
	if length == 0 {
		m.cursors[t] = 0
		return
	}
	if m.cursors[t] >= length {
		m.cursors[t] = length - 1
	}
	if m.cursors[t] < 0 {
		m.cursors[t] = 0
	}
}
