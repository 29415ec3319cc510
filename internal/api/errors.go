// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// Kind classifies a client error.
type Kind int

const (
	// KindNetwork is a transport failure: connection refused, DNS, timeout.
	KindNetwork Kind = iota
	// KindAuth is a 401 or a missing/rejected token.
	KindAuth
	// KindDecode is a response body that could not be parsed.
	KindDecode
	// KindServer is any other non-2xx response.
	KindServer
	// KindValidation is a request rejected client-side before submission.
	KindValidation
)

// String returns the taxonomy name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindDecode:
		return "decode"
	case KindServer:
		return "server"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error variables for common client states.
var (
	// ErrNoToken indicates a protected endpoint was called while
	// unauthenticated.
	ErrNoToken = errors.New("no auth token set")
)

// Error is the typed error returned by all Client operations.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 for transport failures
	Message string // server-provided detail, if any
	Err     error  // wrapped cause
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		if e.Message != "" {
			return fmt.Sprintf("api %s error (HTTP %d): %s", e.Kind, e.Status, e.Message)
		}
		return fmt.Sprintf("api %s error (HTTP %d)", e.Kind, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("api %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("api %s error", e.Kind)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

// =============================================================================
// HELPERS
// =============================================================================

// IsAuth reports whether err is an authentication failure. A true result
// means the token must be treated as invalid, not just the one request.
func IsAuth(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == KindAuth
	}
	return errors.Is(err, ErrNoToken)
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNetwork
}

func networkErr(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

func decodeErr(err error) *Error {
	return &Error{Kind: KindDecode, Err: err}
}
