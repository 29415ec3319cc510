// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jeranaias/fintrack-tui/internal/model"
)

// =============================================================================
// AUTH TYPES
// =============================================================================

// LoginResponse is the body of a successful POST /api/login/.
type LoginResponse struct {
	Token string `json:"token"`
}

// GoogleLoginResponse is the body of POST /api/auth/google/.
type GoogleLoginResponse struct {
	Success        bool        `json:"success"`
	Token          string      `json:"token"`
	User           *model.User `json:"user"`
	HasBankAccount bool        `json:"has_bank_account"`
}

// RegisterRequest is the body of POST /api/register/.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// =============================================================================
// AUTHENTICATION
// =============================================================================

// Login exchanges username/password for a token. It does not install the
// token; the session manager owns that decision.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	var resp LoginResponse
	if strings.TrimSpace(username) == "" || password == "" {
		return resp, &Error{Kind: KindValidation, Message: "username and password are required"}
	}
	body := map[string]string{"username": username, "password": password}
	err := c.do(ctx, requestOpts{method: http.MethodPost, path: "/api/login/", body: body}, &resp)
	if err != nil {
		return LoginResponse{}, err
	}
	if resp.Token == "" {
		return LoginResponse{}, decodeErr(fmt.Errorf("login response missing token"))
	}
	return resp, nil
}

// GoogleLogin exchanges a third-party credential for a first-party token.
// The response carries the user profile and whether any financial account
// is linked, so no extra identity round trip is needed.
func (c *Client) GoogleLogin(ctx context.Context, credential string) (GoogleLoginResponse, error) {
	var resp GoogleLoginResponse
	if strings.TrimSpace(credential) == "" {
		return resp, &Error{Kind: KindValidation, Message: "credential is required"}
	}
	body := map[string]string{"token": credential}
	err := c.do(ctx, requestOpts{method: http.MethodPost, path: "/api/auth/google/", body: body}, &resp)
	if err != nil {
		return GoogleLoginResponse{}, err
	}
	return resp, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return &Error{Kind: KindValidation, Message: "username and password are required"}
	}
	return c.do(ctx, requestOpts{method: http.MethodPost, path: "/api/register/", body: req}, nil)
}

// CurrentUser fetches the identity record for the installed token.
func (c *Client) CurrentUser(ctx context.Context) (model.User, error) {
	var user model.User
	err := c.do(ctx, requestOpts{method: http.MethodGet, path: "/api/user/", authed: true, retry: true}, &user)
	return user, err
}

// =============================================================================
// ACCOUNTS & BALANCE
// =============================================================================

// Accounts lists the user's linked financial accounts.
func (c *Client) Accounts(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	err := c.do(ctx, requestOpts{method: http.MethodGet, path: "/api/accounts/", authed: true, retry: true}, &accounts)
	return accounts, err
}

// CreateAccount links a new financial account.
func (c *Client) CreateAccount(ctx context.Context, account model.Account) error {
	return c.do(ctx, requestOpts{method: http.MethodPost, path: "/api/accounts/", body: account, authed: true}, nil)
}

// DeleteAccount removes a linked account.
func (c *Client) DeleteAccount(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/accounts/%d/", id)
	return c.do(ctx, requestOpts{method: http.MethodDelete, path: path, authed: true}, nil)
}

// TotalBalance fetches the aggregate balance across all accounts.
func (c *Client) TotalBalance(ctx context.Context) (model.TotalBalance, error) {
	var balance model.TotalBalance
	err := c.do(ctx, requestOpts{method: http.MethodGet, path: "/api/total-balance/", authed: true, retry: true}, &balance)
	return balance, err
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// Transactions lists all transactions, newest first per the backend.
func (c *Client) Transactions(ctx context.Context) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := c.do(ctx, requestOpts{method: http.MethodGet, path: "/api/transactions/", authed: true, retry: true}, &transactions)
	return transactions, err
}

// CreateTransaction records a new transaction and returns the stored copy.
func (c *Client) CreateTransaction(ctx context.Context, tx model.Transaction) (model.Transaction, error) {
	var created model.Transaction
	if tx.Amount <= 0 {
		return created, &Error{Kind: KindValidation, Message: "amount must be positive"}
	}
	err := c.do(ctx, requestOpts{method: http.MethodPost, path: "/api/transactions/", body: tx, authed: true}, &created)
	return created, err
}

// DeleteTransaction removes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/transactions/%d/", id)
	return c.do(ctx, requestOpts{method: http.MethodDelete, path: path, authed: true}, nil)
}

// =============================================================================
// BUDGET
// =============================================================================

// CurrentBudget fetches the monthly budget.
func (c *Client) CurrentBudget(ctx context.Context) (model.Budget, error) {
	var budget model.Budget
	err := c.do(ctx, requestOpts{method: http.MethodGet, path: "/api/budget/current/", authed: true, retry: true}, &budget)
	return budget, err
}

// SetBudget sets the monthly budget.
func (c *Client) SetBudget(ctx context.Context, amount model.Amount) (model.Budget, error) {
	var budget model.Budget
	if amount <= 0 {
		return budget, &Error{Kind: KindValidation, Message: "budget must be positive"}
	}
	body := model.Budget{Amount: amount}
	err := c.do(ctx, requestOpts{method: http.MethodPost, path: "/api/budget/current/", body: body, authed: true}, &budget)
	return budget, err
}

// =============================================================================
// SAVINGS GOALS
// =============================================================================

// SavingsGoals lists all savings goals.
func (c *Client) SavingsGoals(ctx context.Context) ([]model.SavingsGoal, error) {
	var goals []model.SavingsGoal
	err := c.do(ctx, requestOpts{method: http.MethodGet, path: "/api/savings/", authed: true, retry: true}, &goals)
	return goals, err
}

// CreateSavingsGoal creates a new savings goal.
func (c *Client) CreateSavingsGoal(ctx context.Context, goal model.SavingsGoal) (model.SavingsGoal, error) {
	var created model.SavingsGoal
	if goal.Target <= 0 {
		return created, &Error{Kind: KindValidation, Message: "target must be positive"}
	}
	err := c.do(ctx, requestOpts{method: http.MethodPost, path: "/api/savings/", body: goal, authed: true}, &created)
	return created, err
}

// contributeRequest is the body of POST /api/savings/contribute/.
type contributeRequest struct {
	GoalID int          `json:"goal_id"`
	Amount model.Amount `json:"amount"`
}

// Contribute adds money to a savings goal and returns the updated goal.
func (c *Client) Contribute(ctx context.Context, goalID int, amount model.Amount) (model.SavingsGoal, error) {
	var updated model.SavingsGoal
	if amount <= 0 {
		return updated, &Error{Kind: KindValidation, Message: "contribution must be positive"}
	}
	body := contributeRequest{GoalID: goalID, Amount: amount}
	err := c.do(ctx, requestOpts{method: http.MethodPost, path: "/api/savings/contribute/", body: body, authed: true}, &updated)
	return updated, err
}

// DeleteSavingsGoal removes a savings goal.
func (c *Client) DeleteSavingsGoal(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/savings/%d/", id)
	return c.do(ctx, requestOpts{method: http.MethodDelete, path: path, authed: true}, nil)
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// Notifications lists the user's notifications.
func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	var notifications []model.Notification
	err := c.do(ctx, requestOpts{method: http.MethodGet, path: "/api/notifications/", authed: true, retry: true}, &notifications)
	return notifications, err
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/notifications/%d/read/", id)
	return c.do(ctx, requestOpts{method: http.MethodPost, path: path, authed: true}, nil)
}

// DeleteNotification removes a notification.
func (c *Client) DeleteNotification(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/notifications/%d/", id)
	return c.do(ctx, requestOpts{method: http.MethodDelete, path: path, authed: true}, nil)
}

// =============================================================================
// PROFILE
// =============================================================================

// Profile fetches the editable profile record.
func (c *Client) Profile(ctx context.Context) (model.User, error) {
	var user model.User
	err := c.do(ctx, requestOpts{method: http.MethodGet, path: "/api/profile/", authed: true, retry: true}, &user)
	return user, err
}

// UpdateProfile updates the profile record.
func (c *Client) UpdateProfile(ctx context.Context, user model.User) (model.User, error) {
	var updated model.User
	err := c.do(ctx, requestOpts{method: http.MethodPut, path: "/api/profile/", body: user, authed: true}, &updated)
	return updated, err
}
