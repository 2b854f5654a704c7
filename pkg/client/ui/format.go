// ABOUTME: Text formatting helpers for the terminal views
// ABOUTME: Message timestamps, wrapping and truncation

package ui

import (
	"fmt"
	"strings"
	"time"
)

// FormatRelativeTime formats a timestamp relative to now
// Returns strings like "just now", "5m ago", "2h ago", "3d ago"
func FormatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	}
	if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
}

// formatMessageTime renders the card timestamp, e.g. "3:04 PM · 2h ago".
// Messages older than a day also get their date.
func formatMessageTime(t, now time.Time) string {
	layout := "3:04 PM"
	if now.Sub(t) >= 24*time.Hour {
		layout = "Jan 2 3:04 PM"
	}
	return t.Local().Format(layout) + " · " + FormatRelativeTime(t, now)
}

// wrapText wraps text on word boundaries to fit within width
func wrapText(text string, width int) string {
	if len(text) <= width {
		return text
	}

	var wrapped []string
	var line string
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+len(word)+1 <= width:
			line += " " + word
		default:
			wrapped = append(wrapped, line)
			line = word
		}
	}
	if line != "" {
		wrapped = append(wrapped, line)
	}
	return strings.Join(wrapped, "\n")
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
