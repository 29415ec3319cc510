// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the fintrack application.
//
// This package contains common helper functions used throughout the
// application for string display, type conversion, and file operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: display-width-aware truncation with ellipsis
//   - PadRight: column padding for table rendering
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long strings safely for a table cell
//	cell := util.TruncateWidth(description, 32)
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0600)
package util
