// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache implements the resource cache gateway every dashboard
// widget reads through.
//
// The gateway generalizes one pattern: consult a per-resource cached entry,
// fall back to a network fetch when the entry is missing or older than its
// freshness window, repopulate on success, and serve the previous entry
// tagged stale when a refresh fails. Entries are whole-payload JSON blobs;
// a failed refresh never partially updates one.
//
// Guarantees:
//
//   - Freshness: a Read inside the window returns the cached payload with
//     zero network calls; outside the window it fetches exactly once.
//   - Dedupe: concurrent Reads of the same key share one in-flight fetch
//     (singleflight), so N readers cost one network call.
//   - Ordering: each key carries a monotone sequence number; a fetch that
//     resolves after the key was invalidated or written is discarded
//     rather than clobbering the newer entry.
//   - Serve-stale-on-error: a failed refresh returns the previous payload
//     tagged Stale together with the typed error, so a backend outage
//     degrades to slightly old data instead of a blank screen.
//
// Entries also persist to a durable store so the dashboard paints from the
// last session's data on startup. The gateway never retries: retry policy
// belongs to the caller.
package cache
