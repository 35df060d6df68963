// utils/format.go - display formatting for dates and currency amounts
package utils

import (
	"strconv"
	"strings"
	"time"
)

const exportDateTimeLayout = "2006-01-02 15:04"

// FormatDateTime renders a timestamp as "YYYY-MM-DD HH:MM", blank when nil.
func FormatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(exportDateTimeLayout)
}

// FormatAmount renders an amount with two decimals and no grouping.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// FormatAmountGrouped renders an amount with two decimals and thousand
// separators ("1,234,567.89"). Search matching uses both representations.
func FormatAmountGrouped(amount float64) string {
	plain := FormatAmount(amount)

	sign := ""
	if strings.HasPrefix(plain, "-") {
		sign = "-"
		plain = plain[1:]
	}

	intPart := plain
	fracPart := ""
	if idx := strings.IndexByte(plain, '.'); idx >= 0 {
		intPart = plain[:idx]
		fracPart = plain[idx:]
	}

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	return sign + grouped.String() + fracPart
}

// EpochMillis converts a timestamp to epoch milliseconds for sort keys.
// Missing timestamps sort as 0 (the epoch).
func EpochMillis(t *time.Time) int64 {
	if t == nil || t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
