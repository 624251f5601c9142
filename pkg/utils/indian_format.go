// Package utils holds the small Indian-market formatting helpers shared by
// the chart renderer, the document layer and the CLI.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatINR formats a number in Indian Rupee format (₹12,34,567.89).
// Uses the Indian numbering system: last 3 digits, then groups of 2.
func FormatINR(amount float64) string {
	negative := amount < 0
	amount = math.Round(math.Abs(amount)*100) / 100

	intPart := int64(amount)
	decPart := amount - float64(intPart)

	formatted := formatIndianNumber(intPart) + fmt.Sprintf("%.2f", decPart)[1:]
	if negative {
		return "-₹" + formatted
	}
	return "₹" + formatted
}

// FormatINRWhole rounds to the rupee: 2887.4 → "₹2,887".
func FormatINRWhole(amount float64) string {
	n := int64(math.Round(math.Abs(amount)))
	if amount < 0 && n != 0 {
		return "-₹" + formatIndianNumber(n)
	}
	return "₹" + formatIndianNumber(n)
}

// FormatCrores formats a value already expressed in crores, the unit
// Indian filings report in: 16539 → "₹16,539 Cr", 98.6 → "₹98.6 Cr".
func FormatCrores(crores float64) string {
	negative := crores < 0
	crores = math.Round(math.Abs(crores)*100) / 100

	whole := int64(crores)
	frac := formatWithDecimals(crores - float64(whole))
	s := formatIndianNumber(whole)
	if frac != "0" {
		s += frac[1:]
	}

	if negative {
		return "-₹" + s + " Cr"
	}
	return "₹" + s + " Cr"
}

// FormatINRCompact formats a raw rupee amount in compact Indian notation.
// e.g., 1927345 → "₹19.27 L", 192734500000 → "₹19273.45 Cr"
func FormatINRCompact(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	prefix := "₹"
	if negative {
		prefix = "-₹"
	}

	switch {
	case amount >= 1e12:
		return fmt.Sprintf("%s%s L Cr", prefix, formatWithDecimals(amount/1e12))
	case amount >= 1e7:
		return fmt.Sprintf("%s%s Cr", prefix, formatWithDecimals(amount/1e7))
	case amount >= 1e5:
		return fmt.Sprintf("%s%s L", prefix, formatWithDecimals(amount/1e5))
	case amount >= 1e3:
		return fmt.Sprintf("%s%s K", prefix, formatWithDecimals(amount/1e3))
	default:
		return fmt.Sprintf("%s%.2f", prefix, amount)
	}
}

// FormatPct formats a percentage value with sign and suffix.
// e.g., 2.45 → "+2.45%", -1.23 → "-1.23%"
func FormatPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// formatIndianNumber formats an integer with Indian grouping (last 3, then 2s).
func formatIndianNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	result := s[len(s)-3:]
	remaining := s[:len(s)-3]
	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	return remaining + "," + result
}

// formatWithDecimals formats a number with up to 2 decimal places,
// removing trailing zeros.
func formatWithDecimals(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
