// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual UI components for the fintrack TUI.

Each component is a small, self-contained renderer that takes a
*styles.Theme and returns a string; stateful components (spinner, toasts)
follow the Bubble Tea update cycle. Components never talk to the network:
the dashboard model fetches and hands them plain data.

Components:

  - Header - brand line with the signed-in user and tab bar
  - StatusBar - bottom bar with session state, cache stats, and key hints
  - Gauge - budget progress bar with threshold coloring
  - Toast - non-blocking corner notifications that auto-dismiss
  - Spinner - loading indicator for in-flight fetches
*/
package components
