// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/fintrack-tui/internal/api"
	"github.com/jeranaias/fintrack-tui/internal/cache"
	"github.com/jeranaias/fintrack-tui/internal/config"
	"github.com/jeranaias/fintrack-tui/internal/model"
	"github.com/jeranaias/fintrack-tui/internal/session"
	"github.com/jeranaias/fintrack-tui/internal/ui/components"
	"github.com/jeranaias/fintrack-tui/internal/ui/styles"
)

// =============================================================================
// SCREENS AND TABS
// =============================================================================

// screen selects which top-level view is shown.
type screen int

const (
	screenLogin screen = iota
	screenSetup
	screenMain
)

// tab identifies a dashboard tab.
type tab int

const (
	tabOverview tab = iota
	tabTransactions
	tabSavings
	tabNotifications
	tabCount
)

// Label returns the tab bar label.
func (t tab) Label() string {
	switch t {
	case tabTransactions:
		return "Transactions"
	case tabSavings:
		return "Savings"
	case tabNotifications:
		return "Notifications"
	default:
		return "Overview"
	}
}

// overlay selects a modal drawn over the main screen.
type overlay int

const (
	overlayNone overlay = iota
	overlayConfirmDelete
	overlayContribute
	overlayAddTransaction
	overlaySetBudget
	overlayNewGoal
)

// confirmTarget says what the delete confirmation is about.
type confirmTarget int

const (
	confirmTransaction confirmTarget = iota
	confirmGoal
	confirmNotification
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model.
type Model struct {
	cfg     *config.Config
	theme   *styles.Theme
	client  *api.Client
	sess    *session.Manager
	gateway *cache.Gateway

	width  int
	height int

	screen  screen
	tab     tab
	overlay overlay

	// gen invalidates in-flight fetches across login/logout/refresh. Only
	// messages stamped with the current value are applied.
	gen int

	// Components
	header *components.Header
	status *components.StatusBar
	spin   components.Spinner
	toasts *components.ToastManager
	keys   keyMap

	// Login form
	loginInputs [2]textinput.Model
	loginFocus  int
	loginErr    string

	// Add-account form
	acctInputs [2]textinput.Model
	acctFocus  int

	// Contribute and set-budget prompts share the amount field.
	amountInput    textinput.Model
	contributeGoal int

	// Add-transaction form
	txInputs [3]textinput.Model // title, amount, category
	txFocus  int
	txType   string

	// New-goal form
	goalInputs [2]textinput.Model // title, target
	goalFocus  int

	// Delete confirmation
	confirmKind confirmTarget
	confirmID   int
	confirmYes  bool

	// Data
	balance       model.TotalBalance
	accounts      []model.Account
	txs           []model.Transaction
	budget        model.Budget
	goals         []model.SavingsGoal
	notifications []model.Notification

	haveAccounts bool // accounts fetched at least once
	fetchedAt    time.Time
	anyStale     bool
	pending      int // in-flight fetches

	cursors [tabCount]int
}

// New wires the dashboard model.
func New(cfg *config.Config, client *api.Client, sess *session.Manager, gateway *cache.Gateway) *Model {
	theme := styles.NewTheme()

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 150
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 128

	bankName := textinput.New()
	bankName.Placeholder = "bank name"
	bankName.CharLimit = 100
	bankName.Focus()

	acctNumber := textinput.New()
	acctNumber.Placeholder = "account number"
	acctNumber.CharLimit = 34

	amount := textinput.New()
	amount.Placeholder = "amount (e.g. 25.00)"
	amount.CharLimit = 12

	txTitle := textinput.New()
	txTitle.Placeholder = "title"
	txTitle.CharLimit = 100

	txAmount := textinput.New()
	txAmount.Placeholder = "amount (e.g. 12.50)"
	txAmount.CharLimit = 12

	txCategory := textinput.New()
	txCategory.Placeholder = "category (optional)"
	txCategory.CharLimit = 50

	goalTitle := textinput.New()
	goalTitle.Placeholder = "goal title"
	goalTitle.CharLimit = 100

	goalTarget := textinput.New()
	goalTarget.Placeholder = "target amount"
	goalTarget.CharLimit = 12

	m := &Model{
		cfg:         cfg,
		theme:       theme,
		client:      client,
		sess:        sess,
		gateway:     gateway,
		screen:      screenLogin,
		header:      components.NewHeader(theme),
		status:      components.NewStatusBar(theme),
		spin:        components.NewSpinner(theme),
		toasts:      components.NewToastManager(),
		keys:        defaultKeyMap(),
		loginInputs: [2]textinput.Model{username, password},
		acctInputs:  [2]textinput.Model{bankName, acctNumber},
		amountInput: amount,
		txInputs:    [3]textinput.Model{txTitle, txAmount, txCategory},
		txType:      model.TransactionExpense,
		goalInputs:  [2]textinput.Model{goalTitle, goalTarget},
	}
	return m
}

// Init restores a persisted session and starts the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.bootstrapCmd(),
		m.spin.Start("Restoring session"),
		components.ToastTickCmd(),
	)
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m *Model) bootstrapCmd() tea.Cmd {
	gen := m.gen
	sess := m.sess
	return func() tea.Msg {
		err := sess.Bootstrap(context.Background())
		return bootstrapDoneMsg{gen: gen, state: sess.State(), err: err}
	}
}

func (m *Model) loginCmd(username, password string) tea.Cmd {
	gen := m.gen
	sess := m.sess
	return func() tea.Msg {
		ok, err := sess.Login(context.Background(), username, password)
		return loginDoneMsg{gen: gen, ok: ok, err: err}
	}
}

func (m *Model) logoutCmd() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		return loggedOutMsg{err: sess.Logout()}
	}
}

// fetchAllCmd kicks off every dashboard fetch in parallel.
func (m *Model) fetchAllCmd() tea.Cmd {
	m.pending = 6
	return tea.Batch(
		m.fetchBalanceCmd(),
		m.fetchAccountsCmd(),
		m.fetchTransactionsCmd(),
		m.fetchBudgetCmd(),
		m.fetchSavingsCmd(),
		m.fetchNotificationsCmd(),
	)
}

func (m *Model) fetchBalanceCmd() tea.Cmd {
	gen, gw, c := m.gen, m.gateway, m.client
	window := m.cfg.Freshness(cache.KeyBalance)
	return func() tea.Msg {
		res, err := cache.Read(context.Background(), gw, cache.KeyBalance, window, c.TotalBalance)
		return balanceLoadedMsg{gen: gen, res: res, err: err}
	}
}

func (m *Model) fetchAccountsCmd() tea.Cmd {
	gen, gw, c := m.gen, m.gateway, m.client
	window := m.cfg.Freshness(cache.KeyAccounts)
	return func() tea.Msg {
		res, err := cache.Read(context.Background(), gw, cache.KeyAccounts, window, c.Accounts)
		return accountsLoadedMsg{gen: gen, res: res, err: err}
	}
}

func (m *Model) fetchTransactionsCmd() tea.Cmd {
	gen, gw, c := m.gen, m.gateway, m.client
	window := m.cfg.Freshness(cache.KeyTransactions)
	return func() tea.Msg {
		res, err := cache.Read(context.Background(), gw, cache.KeyTransactions, window, c.Transactions)
		return transactionsLoadedMsg{gen: gen, res: res, err: err}
	}
}

func (m *Model) fetchBudgetCmd() tea.Cmd {
	gen, gw, c := m.gen, m.gateway, m.client
	window := m.cfg.Freshness(cache.KeyBudget)
	return func() tea.Msg {
		res, err := cache.Read(context.Background(), gw, cache.KeyBudget, window, c.CurrentBudget)
		return budgetLoadedMsg{gen: gen, res: res, err: err}
	}
}

func (m *Model) fetchSavingsCmd() tea.Cmd {
	gen, gw, c := m.gen, m.gateway, m.client
	window := m.cfg.Freshness(cache.KeySavings)
	return func() tea.Msg {
		res, err := cache.Read(context.Background(), gw, cache.KeySavings, window, c.SavingsGoals)
		return savingsLoadedMsg{gen: gen, res: res, err: err}
	}
}

func (m *Model) fetchNotificationsCmd() tea.Cmd {
	gen, gw, c := m.gen, m.gateway, m.client
	window := m.cfg.Freshness(cache.KeyNotifications)
	return func() tea.Msg {
		res, err := cache.Read(context.Background(), gw, cache.KeyNotifications, window, c.Notifications)
		return notificationsLoadedMsg{gen: gen, res: res, err: err}
	}
}

func (m *Model) deleteTransactionCmd(id int) tea.Cmd {
	gen, c := m.gen, m.client
	return func() tea.Msg {
		err := c.DeleteTransaction(context.Background(), id)
		return transactionDeletedMsg{gen: gen, id: id, err: err}
	}
}

func (m *Model) markReadCmd(id int) tea.Cmd {
	gen, c := m.gen, m.client
	return func() tea.Msg {
		err := c.MarkNotificationRead(context.Background(), id)
		return notificationReadMsg{gen: gen, id: id, err: err}
	}
}

func (m *Model) contributeCmd(goalID int, amount model.Amount) tea.Cmd {
	gen, c := m.gen, m.client
	return func() tea.Msg {
		goal, err := c.Contribute(context.Background(), goalID, amount)
		return contributedMsg{gen: gen, goal: goal, err: err}
	}
}

func (m *Model) createAccountCmd(bankName, number string) tea.Cmd {
	gen, c := m.gen, m.client
	return func() tea.Msg {
		err := c.CreateAccount(context.Background(), model.Account{
			BankName:      bankName,
			AccountNumber: number,
		})
		return accountCreatedMsg{gen: gen, err: err}
	}
}

func (m *Model) createTransactionCmd(tx model.Transaction) tea.Cmd {
	gen, c := m.gen, m.client
	return func() tea.Msg {
		created, err := c.CreateTransaction(context.Background(), tx)
		return transactionCreatedMsg{gen: gen, tx: created, err: err}
	}
}

func (m *Model) setBudgetCmd(amount model.Amount) tea.Cmd {
	gen, c := m.gen, m.client
	return func() tea.Msg {
		budget, err := c.SetBudget(context.Background(), amount)
		return budgetSetMsg{gen: gen, budget: budget, err: err}
	}
}

func (m *Model) createGoalCmd(title string, target model.Amount) tea.Cmd {
	gen, c := m.gen, m.client
	return func() tea.Msg {
		goal, err := c.CreateSavingsGoal(context.Background(), model.SavingsGoal{
			Title:  title,
			Target: target,
		})
		return goalCreatedMsg{gen: gen, goal: goal, err: err}
	}
}

func (m *Model) deleteGoalCmd(id int) tea.Cmd {
	gen, c := m.gen, m.client
	return func() tea.Msg {
		err := c.DeleteSavingsGoal(context.Background(), id)
		return goalDeletedMsg{gen: gen, id: id, err: err}
	}
}

func (m *Model) deleteNotificationCmd(id int) tea.Cmd {
	gen, c := m.gen, m.client
	return func() tea.Msg {
		err := c.DeleteNotification(context.Background(), id)
		return notificationDeletedMsg{gen: gen, id: id, err: err}
	}
}
