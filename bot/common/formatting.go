package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatCount formats a count with thousand separators
func FormatCount(count int64) string {
	sign := ""
	if count < 0 {
		sign = "-"
		count = -count
	}

	str := fmt.Sprintf("%d", count)
	n := len(str)
	if n <= 3 {
		return sign + str
	}

	var result strings.Builder
	result.WriteString(sign)
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatPercent formats a proportion in [0, 1] as a percentage with one decimal
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// FormatDuration formats a run duration for display
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
