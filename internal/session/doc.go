// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the authentication lifecycle: exchanging credentials
// for an API token, installing it on the HTTP client, persisting it across
// restarts, and tearing everything down on logout.
//
// The manager is a small state machine:
//
//	Unauthenticated -> Authenticating -> Authenticated
//	        ^                |                 |
//	        +----------------+----- logout ----+
//
// A login attempt always moves through Authenticating, even when it fails,
// so the UI can render a consistent spinner. Any credential error lands back
// in Unauthenticated with the previous token cleared: a failed login never
// leaves a half-valid session behind.
//
// The persisted token is sealed with AES-256-GCM under a machine-local key
// (see Keystore). SECURITY: raw token values never appear in logs; use the
// client's fingerprint instead.
package session
