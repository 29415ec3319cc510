// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the finance domain types exchanged with the backend
// and the client-side arithmetic the dashboard views need.
//
// Wire types (User, Account, Transaction, Budget, SavingsGoal, Notification)
// mirror the backend's JSON exactly; monetary fields use the Amount type,
// which tolerates both JSON numbers and decimal strings since the backend
// serializes decimals inconsistently across endpoints.
//
// Derived values that the backend does not compute live here too: budget
// usage classification, monthly income/expense summaries, and savings goal
// progress. Views render these results; they never compute them inline.
package model
