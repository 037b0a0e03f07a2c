// Package styles provides the theme and style system for the ai4edu_cli UI.
// Two palettes exist, light and dark; the active one is persisted and every
// component derives its styles from the Theme it is handed.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Theme is a named color palette.
type Theme struct {
	Name string

	Accent     color.Color
	Text       color.Color
	TextMuted  color.Color
	TextBright color.Color
	Error      color.Color
	Success    color.Color
	Border     color.Color
	CodeBg     color.Color
	BarBg      color.Color
	BarFg      color.Color
}

// Dark is the default palette, ANSI 256 colors.
func Dark() Theme {
	return Theme{
		Name:       "dark",
		Accent:     lipgloss.Color("141"),
		Text:       lipgloss.Color("252"),
		TextMuted:  lipgloss.Color("245"),
		TextBright: lipgloss.Color("15"),
		Error:      lipgloss.Color("196"),
		Success:    lipgloss.Color("42"),
		Border:     lipgloss.Color("141"),
		CodeBg:     lipgloss.Color("235"),
		BarBg:      lipgloss.Color("#7D56F4"),
		BarFg:      lipgloss.Color("#FAFAFA"),
	}
}

// Light is the palette for light terminal backgrounds.
func Light() Theme {
	return Theme{
		Name:       "light",
		Accent:     lipgloss.Color("92"),
		Text:       lipgloss.Color("235"),
		TextMuted:  lipgloss.Color("243"),
		TextBright: lipgloss.Color("0"),
		Error:      lipgloss.Color("160"),
		Success:    lipgloss.Color("28"),
		Border:     lipgloss.Color("92"),
		CodeBg:     lipgloss.Color("254"),
		BarBg:      lipgloss.Color("#5F5FD7"),
		BarFg:      lipgloss.Color("#FFFFFF"),
	}
}

// ByName resolves a persisted theme name; unknown names fall back to dark.
func ByName(name string) Theme {
	if name == "light" {
		return Light()
	}
	return Dark()
}

// Toggle returns the other palette.
func (t Theme) Toggle() Theme {
	if t.Name == "light" {
		return Dark()
	}
	return Light()
}

func (t Theme) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}

func (t Theme) TextStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text)
}

func (t Theme) BoldStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text).Bold(true)
}

func (t Theme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.TextMuted).Italic(true)
}

func (t Theme) LabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.TextMuted).Width(20)
}

func (t Theme) SelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.TextBright).Background(t.Accent).Bold(true)
}

func (t Theme) EditStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}

func (t Theme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error)
}

func (t Theme) SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success)
}

func (t Theme) FooterStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.TextMuted).Italic(true)
}

func (t Theme) BoxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
}

func (t Theme) StatusBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.BarFg).
		Background(t.BarBg).
		Padding(0, 1).
		Bold(true)
}
