package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// formatTime renders a relative timestamp for list and comment displays.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// cleanTitle strips markdown headers and collapses whitespace so list rows
// show "Intro to Go" instead of "# Intro to Go".
func cleanTitle(raw string) string {
	s := strings.ReplaceAll(raw, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")

	for strings.HasPrefix(s, "#") {
		s = strings.TrimLeft(s, "#")
		s = strings.TrimLeft(s, " ")
	}

	parts := strings.Fields(s)
	s = strings.Join(parts, " ")

	return strings.TrimSpace(s)
}

// excerpt returns the first line of content worth showing as a preview.
func excerpt(content string, maxLen int) string {
	for _, line := range strings.Split(content, "\n") {
		line = cleanTitle(line)
		if line != "" {
			return truncStr(line, maxLen)
		}
	}
	return ""
}

// formatNum formats counts as 1.2k etc.
func formatNum(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	}
	return fmt.Sprintf("%d", n)
}

// plural returns "1 comment" / "3 comments".
func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return formatNum(n) + " " + word + "s"
}
