// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// IDENTITY
// =============================================================================

// User is the identity record returned by GET /api/user/.
type User struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// DisplayName returns the best label available for the user.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// =============================================================================
// ACCOUNTS & BALANCE
// =============================================================================

// Account is a linked financial account.
type Account struct {
	ID            int    `json:"id"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	Balance       Amount `json:"balance"`
}

// MaskedNumber returns the account number with all but the last four
// digits hidden.
func (a Account) MaskedNumber() string {
	n := a.AccountNumber
	if len(n) <= 4 {
		return n
	}
	return "•••• " + n[len(n)-4:]
}

// TotalBalance is the aggregate returned by GET /api/total-balance/.
type TotalBalance struct {
	TotalBalance Amount `json:"total_balance"`
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// Transaction kinds as the backend encodes them.
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction is a single ledger entry.
type Transaction struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Amount      Amount    `json:"amount"`
	Type        string    `json:"type"`
	Category    string    `json:"category,omitempty"`
	Date        time.Time `json:"date"`
}

// Label returns the display title, falling back to the description.
func (t Transaction) Label() string {
	if t.Title != "" {
		return t.Title
	}
	if t.Description != "" {
		return t.Description
	}
	return "Untitled Transaction"
}

// IsExpense reports whether the transaction reduces the balance.
func (t Transaction) IsExpense() bool {
	return t.Type != TransactionIncome
}

// Signed returns the amount with expenses negated.
func (t Transaction) Signed() Amount {
	if t.IsExpense() {
		return -t.Amount
	}
	return t.Amount
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// Notification is a backend-generated alert for the user.
type Notification struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// UnreadCount counts notifications not yet marked read.
func UnreadCount(notifications []Notification) int {
	n := 0
	for _, notif := range notifications {
		if !notif.IsRead {
			n++
		}
	}
	return n
}
