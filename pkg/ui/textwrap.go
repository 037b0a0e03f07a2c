package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapPlain hard-wraps text to the given display width, CJK-aware.
func wrapPlain(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if raw == "" {
			lines = append(lines, "")
			continue
		}
		var sb strings.Builder
		current := 0
		for _, r := range raw {
			rw := runewidth.RuneWidth(r)
			if current+rw > width && current > 0 {
				lines = append(lines, sb.String())
				sb.Reset()
				current = 0
			}
			sb.WriteRune(r)
			current += rw
		}
		lines = append(lines, sb.String())
	}

	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// trimToWidth cuts text to at most width display columns.
func trimToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	var sb strings.Builder
	current := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if current+rw > width {
			break
		}
		sb.WriteRune(r)
		current += rw
	}
	return sb.String()
}

// truncateToWidth cuts text to width, marking the cut with an ellipsis.
func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	if width <= 3 {
		return trimToWidth(text, width)
	}
	return trimToWidth(text, width-3) + "..."
}

// padToWidth right-pads text with spaces to exactly width columns.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	tw := runewidth.StringWidth(text)
	if tw >= width {
		return text
	}
	return text + strings.Repeat(" ", width-tw)
}
