// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency is the suffix of every displayed amount.
const Currency = "CFA"

var (
	frPrinter = message.NewPrinter(language.French)
	// Older CLDR data groups with U+00A0; browsers use U+202F.
	groupSeparator = strings.NewReplacer("\u00a0", "\u202f")
)

// FormatAmount formats an amount the French way, "1 500 CFA" or
// "12,5 CFA". The group separator is the narrow no-break space used by the
// fr locale.
func FormatAmount(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	formatted := frPrinter.Sprint(number.Decimal(amount, number.MaxFractionDigits(2)))
	return groupSeparator.Replace(formatted) + " " + Currency
}

// TotalAmount returns price × places, rounded to two decimals.
func TotalAmount(price float64, places int) float64 {
	return math.Round(price*float64(places)*100) / 100
}
