// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/fintrack-tui/internal/api"
	"github.com/jeranaias/fintrack-tui/internal/cache"
	"github.com/jeranaias/fintrack-tui/internal/config"
	"github.com/jeranaias/fintrack-tui/internal/model"
	"github.com/jeranaias/fintrack-tui/internal/session"
)

// newTestModel builds a dashboard wired to a throwaway backend URL. Tests
// here only exercise the update loop with synthesized messages; nothing
// touches the network.
func newTestModel(t *testing.T) *Model {
	t.Helper()
	cfg := config.Default()
	client := api.NewClient("http://127.0.0.1:0")
	sess := session.NewManager(client, session.NewKeystore(t.TempDir()))
	gateway := cache.New(nil)

	m := New(cfg, client, sess, gateway)
	m.width = 100
	m.height = 30
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestUpdate_DropsSupersededMessages(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain
	m.gen = 5
	m.balance = model.TotalBalance{TotalBalance: 100}

	// A response stamped with an older generation must not land.
	m.Update(balanceLoadedMsg{
		gen: 4,
		res: cache.Result[model.TotalBalance]{
			Payload:   model.TotalBalance{TotalBalance: 999},
			FetchedAt: time.Now(),
		},
	})
	if m.balance.TotalBalance != 100 {
		t.Fatalf("stale-generation balance applied: got %v", m.balance.TotalBalance)
	}

	// The current generation lands normally.
	m.Update(balanceLoadedMsg{
		gen: 5,
		res: cache.Result[model.TotalBalance]{
			Payload:   model.TotalBalance{TotalBalance: 250},
			FetchedAt: time.Now(),
		},
	})
	if m.balance.TotalBalance != 250 {
		t.Fatalf("current-generation balance dropped: got %v", m.balance.TotalBalance)
	}
}

func TestUpdate_TabCycling(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain

	if m.tab != tabOverview {
		t.Fatalf("initial tab = %v, want overview", m.tab)
	}
	m.Update(keyMsg("tab"))
	if m.tab != tabTransactions {
		t.Fatalf("after tab: %v, want transactions", m.tab)
	}
	m.Update(keyMsg("shift+tab"))
	if m.tab != tabOverview {
		t.Fatalf("after shift+tab: %v, want overview", m.tab)
	}
	// Wraps backward past the first tab.
	m.Update(keyMsg("shift+tab"))
	if m.tab != tabNotifications {
		t.Fatalf("backward wrap: %v, want notifications", m.tab)
	}
}

func TestAccountsLoaded_RoutesThroughSetup(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain

	// Zero linked accounts sends the user to first-run setup.
	m.Update(accountsLoadedMsg{
		gen: m.gen,
		res: cache.Result[[]model.Account]{Payload: nil, FetchedAt: time.Now()},
	})
	if m.screen != screenSetup {
		t.Fatalf("screen = %v, want setup", m.screen)
	}

	// Once accounts exist the dashboard comes back.
	m.Update(accountsLoadedMsg{
		gen: m.gen,
		res: cache.Result[[]model.Account]{
			Payload:   []model.Account{{ID: 1, BankName: "Chase"}},
			FetchedAt: time.Now(),
		},
	})
	if m.screen != screenMain {
		t.Fatalf("screen = %v, want main", m.screen)
	}
}

func TestRefresh_RateLimited(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain

	// Burn through the refresh burst.
	allowed := 0
	for i := 0; i < 10; i++ {
		if m.gateway.AllowRefresh() {
			allowed++
		}
	}
	if allowed == 10 {
		t.Fatal("refresh limiter never engaged")
	}

	genBefore := m.gen
	m.Update(keyMsg("r"))
	if m.gen != genBefore {
		t.Fatalf("rate-limited refresh bumped generation: %d -> %d", genBefore, m.gen)
	}
	if !m.toasts.HasToasts() {
		t.Fatal("rate-limited refresh produced no feedback")
	}
}

func TestLoginDone_FailureKeepsLoginScreen(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenLogin
	m.loginInputs[1].SetValue("hunter2")

	m.Update(loginDoneMsg{gen: m.gen, ok: false, err: nil})

	if m.screen != screenLogin {
		t.Fatalf("screen = %v, want login", m.screen)
	}
	if m.loginErr == "" {
		t.Fatal("no error shown after failed login")
	}
	if m.loginInputs[1].Value() != "" {
		t.Fatal("password field not cleared after failed login")
	}
}

func TestLoggedOut_ClearsEverything(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain
	m.tab = tabSavings
	m.balance = model.TotalBalance{TotalBalance: 500}
	m.txs = []model.Transaction{{ID: 1, Title: "Coffee", Amount: 4}}
	m.notifications = []model.Notification{{ID: 1, Title: "Hi"}}
	m.header.UserName = "alice"
	genBefore := m.gen

	m.Update(loggedOutMsg{})

	if m.screen != screenLogin {
		t.Fatalf("screen = %v, want login", m.screen)
	}
	if m.gen == genBefore {
		t.Fatal("logout did not advance the generation")
	}
	if m.balance.TotalBalance != 0 || m.txs != nil || m.notifications != nil {
		t.Fatal("session data survived logout")
	}
	if m.header.UserName != "" {
		t.Fatal("header still names the signed-out user")
	}
	if m.tab != tabOverview {
		t.Fatalf("tab = %v, want overview reset", m.tab)
	}
}

func TestSessionExpiry_ReturnsToLogin(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain
	m.txs = []model.Transaction{{ID: 1, Title: "Rent", Amount: 1200}}

	m.Update(sessionChangedMsg{state: session.StateUnauthenticated})

	if m.screen != screenLogin {
		t.Fatalf("screen = %v, want login", m.screen)
	}
	if m.txs != nil {
		t.Fatal("cached data survived session expiry")
	}
	if !m.toasts.HasToasts() {
		t.Fatal("no notice shown on session expiry")
	}
}

func TestNotificationRead_UpdatesBadge(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain
	m.notifications = []model.Notification{
		{ID: 1, Title: "a", IsRead: false},
		{ID: 2, Title: "b", IsRead: false},
	}
	m.header.Unread = 2

	m.Update(notificationReadMsg{gen: m.gen, id: 1})

	if !m.notifications[0].IsRead {
		t.Fatal("notification 1 not marked read")
	}
	if m.notifications[1].IsRead {
		t.Fatal("notification 2 marked read by mistake")
	}
	if m.header.Unread != 1 {
		t.Fatalf("unread badge = %d, want 1", m.header.Unread)
	}
}

func TestDeleteOverlay_ConfirmAndCancel(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain
	m.tab = tabTransactions
	m.txs = []model.Transaction{{ID: 7, Title: "Lunch", Amount: 12}}

	m.Update(keyMsg("d"))
	if m.overlay != overlayConfirmDelete {
		t.Fatalf("overlay = %v, want confirm", m.overlay)
	}
	if m.confirmID != 7 {
		t.Fatalf("confirmID = %d, want 7", m.confirmID)
	}

	// Esc cancels without firing the delete.
	m.Update(keyMsg("esc"))
	if m.overlay != overlayNone {
		t.Fatalf("overlay still open after esc: %v", m.overlay)
	}

	// 'y' dismisses the overlay and emits the delete command.
	m.Update(keyMsg("d"))
	_, cmd := m.Update(keyMsg("y"))
	if m.overlay != overlayNone {
		t.Fatal("overlay still open after confirm")
	}
	if cmd == nil {
		t.Fatal("confirm produced no delete command")
	}
}

func TestContributeOverlay_RejectsBadAmount(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain
	m.tab = tabSavings
	m.goals = []model.SavingsGoal{{ID: 3, Title: "Vacation", Saved: 100, Target: 1000}}

	m.Update(keyMsg("c"))
	if m.overlay != overlayContribute {
		t.Fatalf("overlay = %v, want contribute", m.overlay)
	}

	m.amountInput.SetValue("not-a-number")
	m.Update(keyMsg("enter"))
	if m.overlay != overlayContribute {
		t.Fatal("overlay closed on invalid amount")
	}
	if !m.toasts.HasToasts() {
		t.Fatal("no feedback for invalid amount")
	}

	m.amountInput.SetValue("25.50")
	_, cmd := m.Update(keyMsg("enter"))
	if m.overlay != overlayNone {
		t.Fatal("overlay still open after valid amount")
	}
	if cmd == nil {
		t.Fatal("valid amount produced no contribute command")
	}
}

func TestAddTransactionOverlay_SubmitAndValidate(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain
	m.tab = tabTransactions

	m.Update(keyMsg("a"))
	if m.overlay != overlayAddTransaction {
		t.Fatalf("overlay = %v, want add transaction", m.overlay)
	}
	if m.txType != model.TransactionExpense {
		t.Fatalf("txType = %q, want expense", m.txType)
	}

	// A bad amount keeps the form open with feedback.
	m.txInputs[0].SetValue("Groceries")
	m.txInputs[1].SetValue("twelve")
	m.txFocus = len(m.txInputs) - 1
	m.Update(keyMsg("enter"))
	if m.overlay != overlayAddTransaction {
		t.Fatal("overlay closed on invalid amount")
	}
	if !m.toasts.HasToasts() {
		t.Fatal("no feedback for invalid amount")
	}

	m.txInputs[1].SetValue("42.10")
	_, cmd := m.Update(keyMsg("enter"))
	if m.overlay != overlayNone {
		t.Fatal("overlay still open after valid submit")
	}
	if cmd == nil {
		t.Fatal("valid submit produced no create command")
	}
}

func TestAddIncomeKey_PreselectsType(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain

	m.Update(keyMsg("i"))
	if m.overlay != overlayAddTransaction {
		t.Fatalf("overlay = %v, want add transaction", m.overlay)
	}
	if m.txType != model.TransactionIncome {
		t.Fatalf("txType = %q, want income", m.txType)
	}
}

func TestTransactionCreated_PrependsAndRefetches(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain
	m.txs = []model.Transaction{{ID: 1, Title: "Rent", Amount: 1200}}

	_, cmd := m.Update(transactionCreatedMsg{
		gen: m.gen,
		tx:  model.Transaction{ID: 9, Title: "Coffee", Amount: 4, Type: model.TransactionExpense},
	})

	if len(m.txs) != 2 || m.txs[0].ID != 9 {
		t.Fatalf("txs = %+v, want new entry first", m.txs)
	}
	if cmd == nil {
		t.Fatal("created transaction triggered no balance/budget refetch")
	}
	if m.pending != 2 {
		t.Fatalf("pending = %d, want 2", m.pending)
	}
}

func TestBudgetOverlay_SetsBudget(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain
	m.tab = tabOverview

	m.Update(keyMsg("b"))
	if m.overlay != overlaySetBudget {
		t.Fatalf("overlay = %v, want set budget", m.overlay)
	}

	m.amountInput.SetValue("1500")
	_, cmd := m.Update(keyMsg("enter"))
	if m.overlay != overlayNone {
		t.Fatal("overlay still open after valid amount")
	}
	if cmd == nil {
		t.Fatal("valid amount produced no set-budget command")
	}

	m.Update(budgetSetMsg{gen: m.gen, budget: model.Budget{Amount: 1500, Month: "2026-09"}})
	if m.budget.Amount != 1500 {
		t.Fatalf("budget = %v, want 1500", m.budget.Amount)
	}
}

func TestNewGoalOverlay_CreatesGoal(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain
	m.tab = tabSavings

	m.Update(keyMsg("n"))
	if m.overlay != overlayNewGoal {
		t.Fatalf("overlay = %v, want new goal", m.overlay)
	}

	// Empty title is rejected, form stays open.
	m.goalFocus = 1
	m.goalInputs[1].SetValue("5000")
	m.Update(keyMsg("enter"))
	if m.overlay != overlayNewGoal {
		t.Fatal("overlay closed without a title")
	}

	m.goalInputs[0].SetValue("Car")
	_, cmd := m.Update(keyMsg("enter"))
	if m.overlay != overlayNone {
		t.Fatal("overlay still open after valid submit")
	}
	if cmd == nil {
		t.Fatal("valid submit produced no create command")
	}

	m.Update(goalCreatedMsg{gen: m.gen, goal: model.SavingsGoal{ID: 4, Title: "Car", Target: 5000}})
	if len(m.goals) != 1 || m.goals[0].ID != 4 {
		t.Fatalf("goals = %+v, want the created goal", m.goals)
	}
}

func TestDeleteKey_TargetsActiveTab(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain
	m.goals = []model.SavingsGoal{{ID: 3, Title: "Vacation", Target: 1000}}
	m.notifications = []model.Notification{{ID: 8, Title: "Budget alert"}}

	m.tab = tabSavings
	m.Update(keyMsg("d"))
	if m.overlay != overlayConfirmDelete || m.confirmKind != confirmGoal || m.confirmID != 3 {
		t.Fatalf("overlay=%v kind=%v id=%d, want goal 3 confirmation", m.overlay, m.confirmKind, m.confirmID)
	}
	m.Update(keyMsg("esc"))

	m.tab = tabNotifications
	m.Update(keyMsg("d"))
	if m.confirmKind != confirmNotification || m.confirmID != 8 {
		t.Fatalf("kind=%v id=%d, want notification 8 confirmation", m.confirmKind, m.confirmID)
	}
	_, cmd := m.Update(keyMsg("y"))
	if cmd == nil {
		t.Fatal("confirm produced no delete command")
	}
}

func TestGoalDeleted_RemovesFromList(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain
	m.goals = []model.SavingsGoal{
		{ID: 3, Title: "Vacation", Target: 1000},
		{ID: 4, Title: "Car", Target: 5000},
	}
	m.cursors[tabSavings] = 1

	_, cmd := m.Update(goalDeletedMsg{gen: m.gen, id: 4})

	if len(m.goals) != 1 || m.goals[0].ID != 3 {
		t.Fatalf("goals = %+v, want goal 3 only", m.goals)
	}
	if got := m.cursors[tabSavings]; got != 0 {
		t.Fatalf("cursor = %d, want clamped to 0", got)
	}
	if cmd == nil {
		t.Fatal("deleted goal triggered no balance refetch")
	}
}

func TestNotificationDeleted_RecountsBadge(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain
	m.notifications = []model.Notification{
		{ID: 1, Title: "a", IsRead: false},
		{ID: 2, Title: "b", IsRead: false},
	}
	m.header.Unread = 2

	m.Update(notificationDeletedMsg{gen: m.gen, id: 1})

	if len(m.notifications) != 1 || m.notifications[0].ID != 2 {
		t.Fatalf("notifications = %+v, want id 2 only", m.notifications)
	}
	if m.header.Unread != 1 {
		t.Fatalf("unread badge = %d, want 1", m.header.Unread)
	}
}

func TestCursor_StaysInsideList(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenMain
	m.tab = tabTransactions
	m.txs = []model.Transaction{{ID: 1}, {ID: 2}}

	m.Update(keyMsg("j"))
	m.Update(keyMsg("j"))
	m.Update(keyMsg("j"))
	if got := m.cursors[tabTransactions]; got != 1 {
		t.Fatalf("cursor = %d, want clamped to 1", got)
	}

	m.Update(keyMsg("k"))
	m.Update(keyMsg("k"))
	m.Update(keyMsg("k"))
	if got := m.cursors[tabTransactions]; got != 0 {
		t.Fatalf("cursor = %d, want 0", got)
	}
}
