// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package dashboard is the root Bubble Tea model for the fintrack TUI.

The model owns three screens:

  - login: username/password form shown while unauthenticated
  - setup: shown when the account has no linked financial accounts yet
  - main: the tabbed dashboard (Overview, Transactions, Savings,
    Notifications)

All data flows through the cache gateway: widgets never call the API
directly, so repeated tab switches paint instantly from cache and a manual
refresh is the only way to force a round trip.

Every fetch command captures the model's generation counter and stamps it
on the result message. The counter is bumped on login, logout, and refresh,
so a response that raced a session change is recognized and dropped instead
of painting another user's (or a superseded) snapshot.
*/
package dashboard
