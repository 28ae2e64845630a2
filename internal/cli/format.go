// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// FormatAmount formats a budget amount with two decimals and thousands
// separators, e.g. 1234.5 -> "1,234.50".
func FormatAmount(v float64) string {
	return humanize.FormatFloat("#,###.##", settle(v, 0.005))
}

// FormatWhole formats an amount rounded to a whole number, e.g. 300 -> "300".
func FormatWhole(v float64) string {
	return humanize.FormatFloat("#,###.", settle(v, 0.5))
}

// FormatMoney appends the unit label, e.g. FormatMoney(12.5, "B") -> "12.50 B".
func FormatMoney(v float64, unit string) string {
	if unit == "" {
		return FormatAmount(v)
	}
	return FormatAmount(v) + " " + unit
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatCount pluralizes a count, e.g. FormatCount(1, "proposal") -> "1 proposal".
func FormatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return FormatNumber(int64(n)) + " " + noun + "s"
}

// settle maps values that would round to zero onto zero so they never
// print with a minus sign.
func settle(v, half float64) float64 {
	if math.Abs(v) < half {
		return 0
	}
	return v
}
