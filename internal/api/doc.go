// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the typed HTTP client for the fintrack backend.
//
// The backend is a REST API; every protected endpoint authenticates with a
// "Authorization: Token <value>" header. One Client instance is shared by
// the whole process: the session manager installs and clears the token, and
// every view reads through it (usually via the cache gateway).
//
// # Errors
//
// All failures surface as *Error with a Kind from the client's taxonomy:
//
//   - KindNetwork: transport failure or timeout
//   - KindAuth: 401, missing or rejected token
//   - KindDecode: unparseable response body
//   - KindServer: any other non-2xx response
//   - KindValidation: request rejected before submission
//
// Callers dispatch with errors.As and Error.Kind, or the IsAuth/IsNetwork
// helpers. GET requests retry transient failures with exponential backoff;
// mutations never retry.
//
// The token is never logged. Log lines carry only method, path, status and
// duration, plus a SHA-256 fingerprint of the token where identification
// is needed.
package api
