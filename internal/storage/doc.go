// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable client-side persistence for fintrack.
//
// A single SQLite database under ~/.fintrack/ holds the per-resource cache
// entries (payload plus fetch timestamp, keyed by resource name) so cached
// dashboard data survives process restarts. Corrupt or missing rows degrade
// to cache misses; the store never turns a read into a hard failure unless
// the database itself is unusable.
package storage
