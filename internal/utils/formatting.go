package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// CreatedAtLayout is how creation times are shown in the list
const CreatedAtLayout = "2006-01-02 15:04:05"

// FormatCreatedAt renders a unix millisecond timestamp in local time
func FormatCreatedAt(ms int64) string {
	if ms <= 0 {
		return "unknown"
	}
	return time.UnixMilli(ms).Local().Format(CreatedAtLayout)
}

// FormatCount pluralises a count: "1 contact", "3 contacts"
func FormatCount(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// TruncateString truncates a string to a maximum number of runes with ellipsis
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}

	return string(runes[:maxLen-3]) + "..."
}

// PadString pads a string to a specific width
func PadString(s string, width int, padChar rune) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}

	return s + strings.Repeat(string(padChar), width-n)
}
