package ui

import (
	"github.com/mattn/go-runewidth"

	"ai4edu_cli/pkg/ui/styles"
)

// StatusBar is the single-line bar at the bottom of the screen.
type StatusBar struct {
	width     int
	theme     styles.Theme
	title     string
	model     string
	streaming bool
	notice    string
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme styles.Theme) *StatusBar {
	return &StatusBar{theme: theme}
}

// SetWidth sets the render width.
func (sb *StatusBar) SetWidth(width int) { sb.width = width }

// SetTheme switches palettes.
func (sb *StatusBar) SetTheme(theme styles.Theme) { sb.theme = theme }

// SetState updates the displayed conversation title, model and streaming
// indicator.
func (sb *StatusBar) SetState(title, model string, streaming bool) {
	sb.title = title
	sb.model = model
	sb.streaming = streaming
}

// SetNotice shows a transient message (export result, copy confirmation).
// It takes render priority over the model name.
func (sb *StatusBar) SetNotice(notice string) { sb.notice = notice }

// View renders the bar padded to the full width.
func (sb *StatusBar) View() string {
	left := "AI4Edu"
	if sb.title != "" {
		left += " | " + sb.title
	}

	right := sb.model
	if sb.notice != "" {
		right = sb.notice
	}
	if sb.streaming {
		right = "生成中... Esc 停止"
	}

	width := sb.width
	if width <= 0 {
		width = 80
	}
	// Account for the bar style's horizontal padding.
	inner := width - 2
	if inner < 1 {
		inner = 1
	}

	leftWidth := runewidth.StringWidth(left)
	rightWidth := runewidth.StringWidth(right)
	if leftWidth+rightWidth+1 > inner {
		left = truncateToWidth(left, inner-rightWidth-1)
	}

	line := padToWidth(left, inner-rightWidth) + right
	return sb.theme.StatusBarStyle().Render(trimToWidth(line, inner))
}
