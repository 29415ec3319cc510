// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// =============================================================================
// AMOUNT
// =============================================================================

// Amount is a monetary value in dollars.
//
// The backend serializes decimal fields inconsistently: some endpoints emit
// JSON numbers, others emit quoted decimal strings. Amount accepts both.
type Amount float64

// UnmarshalJSON accepts both `12.34` and `"12.34"`.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*a = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", string(data), err)
	}
	*a = Amount(v)
	return nil
}

// MarshalJSON emits a plain JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(a), 'f', 2, 64)), nil
}

// Float returns the amount as a float64.
func (a Amount) Float() float64 { return float64(a) }

// usdPrinter applies en-US grouping, matching the web client's
// Intl.NumberFormat("en-US") rendering.
var usdPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders an amount as a US dollar string: $1,234.56.
// Negative amounts render as -$1,234.56.
func FormatUSD(a Amount) string {
	v := float64(a)
	if v < 0 {
		return usdPrinter.Sprintf("-$%.2f", -v)
	}
	return usdPrinter.Sprintf("$%.2f", v)
}
