// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/fintrack-tui/internal/model"
	"github.com/jeranaias/fintrack-tui/internal/ui/components"
)

// View renders the whole terminal frame.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.screen {
	case screenLogin:
		content = m.viewLogin()
	case screenSetup:
		content = m.viewSetup()
	default:
		content = m.viewMain()
		if m.overlay != overlayNone {
			content = m.viewOverlay(content)
		}
	}

	if m.toasts.HasToasts() {
		stack := components.RenderToastStack(m.toasts.GetToasts(), m.width, m.height)
		if stack != "" {
			content = lipgloss.JoinVertical(lipgloss.Left, content, stack)
		}
	}
	return content
}

// =============================================================================
// LOGIN
// =============================================================================

func (m *Model) viewLogin() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.LoginTitle.Render("fintrack"))
	b.WriteString("\n")
	b.WriteString(t.LoginHint.Render("Sign in to your account"))
	b.WriteString("\n\n")

	labels := [2]string{"Username", "Password"}
	for i := range m.loginInputs {
		b.WriteString(t.LoginLabel.Render(labels[i]))
		b.WriteString("\n")
		style := t.InputBlurred
		if i == m.loginFocus {
			style = t.InputFocused
		}
		b.WriteString(style.Render(m.loginInputs[i].View()))
		b.WriteString("\n")
	}

	if m.loginErr != "" {
		b.WriteString("\n")
		b.WriteString(t.LoginError.Render(m.loginErr))
		b.WriteString("\n")
	}
	if m.spin.Active() {
		b.WriteString("\n")
		b.WriteString(m.spin.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.LoginHint.Render("tab: next field  enter: sign in  ctrl+c: quit"))

	box := t.LoginBox.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// =============================================================================
// FIRST-RUN SETUP
// =============================================================================

func (m *Model) viewSetup() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.LoginTitle.Render("Link your first account"))
	b.WriteString("\n")
	b.WriteString(t.LoginHint.Render("No accounts yet. Add one to start tracking."))
	b.WriteString("\n\n")

	labels := [2]string{"Bank name", "Account number"}
	for i := range m.acctInputs {
		b.WriteString(t.LoginLabel.Render(labels[i]))
		b.WriteString("\n")
		style := t.InputBlurred
		if i == m.acctFocus {
			style = t.InputFocused
		}
		b.WriteString(style.Render(m.acctInputs[i].View()))
		b.WriteString("\n")
	}

	if m.spin.Active() {
		b.WriteString("\n")
		b.WriteString(m.spin.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.LoginHint.Render("tab: next field  enter: link account  ctrl+l: sign out"))

	box := t.LoginBox.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// =============================================================================
// MAIN DASHBOARD
// =============================================================================

func (m *Model) viewMain() string {
	labels := make([]string, tabCount)
	for i := tab(0); i < tabCount; i++ {
		labels[i] = i.Label()
	}

	header := m.header.View()
	tabs := m.header.RenderTabs(labels, int(m.tab))

	var body string
	switch m.tab {
	case tabTransactions:
		body = m.viewTransactions()
	case tabSavings:
		body = m.viewSavings()
	case tabNotifications:
		body = m.viewNotifications()
	default:
		body = m.viewOverview()
	}

	if m.spin.Active() {
		body = m.spin.View() + "\n\n" + body
	}

	status := m.renderStatus()

	// Pin the status bar to the bottom of the terminal.
	chromeH := lipgloss.Height(header) + lipgloss.Height(tabs) + lipgloss.Height(status)
	bodyH := m.height - chromeH
	if bodyH < 1 {
		bodyH = 1
	}
	body = lipgloss.NewStyle().Width(m.width).Height(bodyH).Padding(0, 1).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, body, status)
}

func (m *Model) renderStatus() string {
	stats := m.gateway.Stats()
	m.status.SetCacheStats(stats.Hits, stats.Misses, stats.HitRate)
	m.status.FetchedAt = m.fetchedAt

	switch {
	case m.anyStale:
		m.status.Health = components.HealthStale
	case m.fetchedAt.IsZero() && m.pending == 0:
		m.status.Health = components.HealthOffline
	default:
		m.status.Health = components.HealthLive
	}

	m.status.Shortcuts = m.shortcuts()
	return m.status.View()
}

// shortcuts returns the key hints for the active tab.
func (m *Model) shortcuts() []components.Shortcut {
	base := []components.Shortcut{
		{Key: "tab", Desc: "switch"},
		{Key: "r", Desc: "refresh"},
	}
	switch m.tab {
	case tabTransactions:
		base = append(base,
			components.Shortcut{Key: "a/i", Desc: "add"},
			components.Shortcut{Key: "d", Desc: "delete"})
	case tabSavings:
		base = append(base,
			components.Shortcut{Key: "n", Desc: "new goal"},
			components.Shortcut{Key: "c", Desc: "contribute"},
			components.Shortcut{Key: "d", Desc: "delete"})
	case tabNotifications:
		base = append(base,
			components.Shortcut{Key: "enter", Desc: "mark read"},
			components.Shortcut{Key: "d", Desc: "delete"})
	default:
		base = append(base,
			components.Shortcut{Key: "a/i", Desc: "add"},
			components.Shortcut{Key: "b", Desc: "budget"})
	}
	return append(base,
		components.Shortcut{Key: "ctrl+l", Desc: "sign out"},
		components.Shortcut{Key: "q", Desc: "quit"},
	)
}

// =============================================================================
// OVERVIEW TAB
// =============================================================================

func (m *Model) viewOverview() string {
	t := m.theme
	var sections []string

	// Total balance, big and first.
	balCard := t.Card.Render(
		t.CardTitle.Render("Total Balance") + "\n" +
			t.BalanceBig.Render(model.FormatUSD(m.balance.TotalBalance)) + "\n" +
			t.CardMeta.Render(components.FreshnessLabel(m.fetchedAt)),
	)

	// Linked accounts.
	var acctLines []string
	for _, a := range m.accounts {
		acctLines = append(acctLines,
			a.BankName+" "+t.CardMeta.Render(a.MaskedNumber())+"  "+
				t.AmountNeutral.Render(model.FormatUSD(a.Balance)))
	}
	acctCard := t.Card.Render(
		t.CardTitle.Render("Accounts") + "\n" + strings.Join(acctLines, "\n"),
	)
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, balCard, acctCard))

	// Monthly budget gauge, spent derived from this month's ledger.
	now := time.Now()
	summary := model.Summarize(m.txs, now.Year(), now.Month())
	if m.budget.Amount > 0 {
		status := model.NewBudgetStatus(m.budget.Amount, summary.Expenses)
		gaugeW := m.width - 8
		if gaugeW > 60 {
			gaugeW = 60
		}
		sections = append(sections, t.Card.Render(
			t.CardTitle.Render("Monthly Budget")+"\n"+
				components.RenderBudgetGauge(t, status, gaugeW),
		))
	}

	// This month in and out.
	monthCard := t.Card.Render(
		t.CardTitle.Render("This Month") + "\n" +
			t.AmountIncome.Render("+"+model.FormatUSD(summary.Income)) + "  in\n" +
			t.AmountExpense.Render("-"+model.FormatUSD(summary.Expenses)) + "  out",
	)
	sections = append(sections, monthCard)

	// Five most recent ledger entries.
	var recent []string
	for i, tx := range m.txs {
		if i >= 5 {
			break
		}
		recent = append(recent, m.renderTxLine(tx, false))
	}
	if len(recent) > 0 {
		sections = append(sections, t.Card.Render(
			t.CardTitle.Render("Recent Activity")+"\n"+strings.Join(recent, "\n"),
		))
	}

	return strings.Join(sections, "\n")
}

// =============================================================================
// TRANSACTIONS TAB
// =============================================================================

func (m *Model) viewTransactions() string {
	t := m.theme
	if len(m.txs) == 0 {
		return t.CardMeta.Render("No transactions yet.")
	}

	var rows []string
	rows = append(rows, t.TableHeader.Render(m.padTxRow("Date", "Title", "Category", "Amount")))
	for i, tx := range m.txs {
		rows = append(rows, m.renderTxLine(tx, i == m.cursors[tabTransactions]))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderTxLine(tx model.Transaction, selected bool) string {
	t := m.theme

	amountStyle := t.AmountIncome
	sign := "+"
	if tx.IsExpense() {
		amountStyle = t.AmountExpense
		sign = "-"
	}
	amount := amountStyle.Render(sign + model.FormatUSD(tx.Amount))

	line := m.padTxRow(
		tx.Date.Format(m.cfg.UI.DateFormat),
		runewidth.Truncate(tx.Label(), 28, "…"),
		tx.Category,
		"",
	) + amount

	if selected {
		return t.RowSelected.Render(line)
	}
	return t.Row.Render(line)
}

// padTxRow lines the first three columns up at fixed widths.
func (m *Model) padTxRow(date, title, category, amount string) string {
	return runewidth.FillRight(date, 14) +
		runewidth.FillRight(title, 30) +
		runewidth.FillRight(category, 14) +
		amount
}

// =============================================================================
// SAVINGS TAB
// =============================================================================

func (m *Model) viewSavings() string {
	t := m.theme
	if len(m.goals) == 0 {
		return t.CardMeta.Render("No savings goals yet.")
	}

	gaugeW := m.width - 8
	if gaugeW > 60 {
		gaugeW = 60
	}

	var sections []string
	for i, g := range m.goals {
		gauge := components.RenderSavingsGauge(t, g, gaugeW)
		if i == m.cursors[tabSavings] {
			sections = append(sections, t.CardSelected.Render(gauge))
		} else {
			sections = append(sections, t.Card.Render(gauge))
		}
	}
	return strings.Join(sections, "\n")
}

// =============================================================================
// NOTIFICATIONS TAB
// =============================================================================

func (m *Model) viewNotifications() string {
	t := m.theme
	if len(m.notifications) == 0 {
		return t.CardMeta.Render("No notifications.")
	}

	var rows []string
	for i, n := range m.notifications {
		style := t.NotifRead
		marker := "  "
		if !n.IsRead {
			style = t.NotifUnread
			marker = "* "
		}
		line := marker + n.Title + "  " +
			t.CardMeta.Render(components.RelativeTime(n.CreatedAt)) + "\n  " +
			n.Message
		if i == m.cursors[tabNotifications] {
			rows = append(rows, t.RowSelected.Render(line))
		} else {
			rows = append(rows, style.Render(line))
		}
	}
	return strings.Join(rows, "\n")
}

// =============================================================================
// OVERLAYS
// =============================================================================

// viewOverlay renders the active modal centered over dimmed content.
func (m *Model) viewOverlay(background string) string {
	t := m.theme
	var box string

	switch m.overlay {
	case overlayConfirmDelete:
		yes, no := t.ConfirmButton, t.ConfirmButton
		if m.confirmYes {
			yes = t.ConfirmButtonActive
		} else {
			no = t.ConfirmButtonActive
		}
		title := "Delete this transaction?"
		switch m.confirmKind {
		case confirmGoal:
			title = "Delete this savings goal?"
		case confirmNotification:
			title = "Delete this notification?"
		}
		box = t.ConfirmBox.Render(
			t.ConfirmTitle.Render(title) + "\n\n" +
				yes.Render("Yes") + "  " + no.Render("No") + "\n\n" +
				t.LoginHint.Render("y/n or enter  esc: cancel"),
		)

	case overlayContribute:
		box = t.ConfirmBox.Render(
			t.ConfirmTitle.Render("Contribute to goal") + "\n\n" +
				t.InputFocused.Render(m.amountInput.View()) + "\n\n" +
				t.LoginHint.Render("enter: save  esc: cancel"),
		)

	case overlaySetBudget:
		box = t.ConfirmBox.Render(
			t.ConfirmTitle.Render("Set monthly budget") + "\n\n" +
				t.InputFocused.Render(m.amountInput.View()) + "\n\n" +
				t.LoginHint.Render("enter: save  esc: cancel"),
		)

	case overlayAddTransaction:
		var b strings.Builder
		title := "Add expense"
		if m.txType == model.TransactionIncome {
			title = "Add income"
		}
		b.WriteString(t.ConfirmTitle.Render(title))
		b.WriteString("\n\n")
		labels := [3]string{"Title", "Amount", "Category"}
		for i := range m.txInputs {
			b.WriteString(t.LoginLabel.Render(labels[i]))
			b.WriteString("\n")
			style := t.InputBlurred
			if i == m.txFocus {
				style = t.InputFocused
			}
			b.WriteString(style.Render(m.txInputs[i].View()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(t.LoginHint.Render("tab: next field  ctrl+t: toggle type  enter: save  esc: cancel"))
		box = t.ConfirmBox.Render(b.String())

	case overlayNewGoal:
		var b strings.Builder
		b.WriteString(t.ConfirmTitle.Render("New savings goal"))
		b.WriteString("\n\n")
		labels := [2]string{"Title", "Target"}
		for i := range m.goalInputs {
			b.WriteString(t.LoginLabel.Render(labels[i]))
			b.WriteString("\n")
			style := t.InputBlurred
			if i == m.goalFocus {
				style = t.InputFocused
			}
			b.WriteString(style.Render(m.goalInputs[i].View()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(t.LoginHint.Render("tab: next field  enter: save  esc: cancel"))
		box = t.ConfirmBox.Render(b.String())

	default:
		return background
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
