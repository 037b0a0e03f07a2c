package ui

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"ai4edu_cli/pkg/ui/styles"
)

// Field types. "cycle" fields flip through Options on enter, "action"
// fields emit a command instead of editing.
const (
	fieldString = "string"
	fieldInt    = "int"
	fieldFloat  = "float"
	fieldCycle  = "cycle"
	fieldAction = "action"
)

// FormField is a single editable entry in a settings-style panel.
type FormField struct {
	Label   string
	Key     string
	Value   string
	Type    string
	Masked  bool
	Options []string
}

// fieldForm carries the shared navigation and inline-edit state for
// field-list panels.
type fieldForm struct {
	fields     []FormField
	selected   int
	editing    bool
	editValue  string
	editCursor int
	errorMsg   string
}

func (f *fieldForm) reset(fields []FormField) {
	f.fields = fields
	f.selected = 0
	f.editing = false
	f.errorMsg = ""
}

func (f *fieldForm) current() *FormField {
	if f.selected < 0 || f.selected >= len(f.fields) {
		return nil
	}
	return &f.fields[f.selected]
}

func (f *fieldForm) value(key string) string {
	for i := range f.fields {
		if f.fields[i].Key == key {
			return f.fields[i].Value
		}
	}
	return ""
}

func (f *fieldForm) moveUp() {
	if f.selected > 0 {
		f.selected--
	}
}

func (f *fieldForm) moveDown() {
	if f.selected < len(f.fields)-1 {
		f.selected++
	}
}

// activate starts editing or cycles the current field. It reports whether
// the field value changed (cycle fields change immediately).
func (f *fieldForm) activate() bool {
	field := f.current()
	if field == nil {
		return false
	}

	switch field.Type {
	case fieldCycle:
		if len(field.Options) == 0 {
			return false
		}
		next := 0
		for i, opt := range field.Options {
			if opt == field.Value {
				next = (i + 1) % len(field.Options)
				break
			}
		}
		field.Value = field.Options[next]
		return true

	case fieldAction:
		return false

	default:
		f.editing = true
		f.editValue = field.Value
		f.editCursor = len([]rune(f.editValue))
		return false
	}
}

// handleEditKey processes one key in edit mode. It reports whether the
// edit was committed.
func (f *fieldForm) handleEditKey(msg tea.KeyPressMsg) bool {
	switch msg.String() {
	case "enter":
		field := f.current()
		if field == nil {
			f.editing = false
			return false
		}
		if !validFieldValue(field.Type, f.editValue) {
			f.errorMsg = "无效的值：" + field.Label
			f.editing = false
			return false
		}
		field.Value = strings.TrimSpace(f.editValue)
		f.errorMsg = ""
		f.editing = false
		return true

	case "esc":
		f.editing = false
		f.errorMsg = ""
		return false

	case "backspace":
		runes := []rune(f.editValue)
		if f.editCursor > len(runes) {
			f.editCursor = len(runes)
		}
		if f.editCursor > 0 {
			runes = append(runes[:f.editCursor-1], runes[f.editCursor:]...)
			f.editCursor--
			f.editValue = string(runes)
		}
		return false

	case "delete":
		runes := []rune(f.editValue)
		if f.editCursor < len(runes) {
			runes = append(runes[:f.editCursor], runes[f.editCursor+1:]...)
			f.editValue = string(runes)
		}
		return false

	case "left":
		if f.editCursor > 0 {
			f.editCursor--
		}
		return false

	case "right":
		if f.editCursor < len([]rune(f.editValue)) {
			f.editCursor++
		}
		return false

	case "home":
		f.editCursor = 0
		return false

	case "end":
		f.editCursor = len([]rune(f.editValue))
		return false

	default:
		if text := msg.Key().Text; text != "" {
			insert := make([]rune, 0, len(text))
			for _, r := range text {
				if r != '\n' && r != '\r' {
					insert = append(insert, r)
				}
			}
			if len(insert) == 0 {
				return false
			}
			runes := []rune(f.editValue)
			if f.editCursor > len(runes) {
				f.editCursor = len(runes)
			}
			runes = append(runes[:f.editCursor], append(insert, runes[f.editCursor:]...)...)
			f.editCursor += len(insert)
			f.editValue = string(runes)
		}
		return false
	}
}

func validFieldValue(fieldType, value string) bool {
	value = strings.TrimSpace(value)
	switch fieldType {
	case fieldInt:
		_, err := strconv.Atoi(value)
		return err == nil
	case fieldFloat:
		_, err := strconv.ParseFloat(value, 64)
		return err == nil
	default:
		return true
	}
}

// renderFields draws the field list with selection and edit cursor.
func (f *fieldForm) renderFields(theme styles.Theme) string {
	var content strings.Builder

	for i, field := range f.fields {
		var value string
		switch {
		case f.editing && i == f.selected:
			value = theme.EditStyle().Render(renderEditValue(f.editValue, f.editCursor))
		case field.Masked && field.Value != "":
			value = strings.Repeat("•", len(field.Value))
		default:
			value = field.Value
		}

		var line string
		if i == f.selected {
			if f.editing {
				line = "▶ " + theme.LabelStyle().Render(field.Label+":") + " " + value
			} else {
				line = theme.SelectedStyle().Render("  " + padToWidth(field.Label+":", 20) + " " + value + " ")
			}
		} else {
			line = "  " + theme.LabelStyle().Render(field.Label+":") + " " + theme.TextStyle().Render(value)
		}
		content.WriteString(line + "\n")
	}

	if f.errorMsg != "" {
		content.WriteString("\n" + theme.ErrorStyle().Render("⚠ "+f.errorMsg))
	}

	return content.String()
}

func renderEditValue(value string, cursor int) string {
	runes := []rune(value)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	withCursor := make([]rune, 0, len(runes)+1)
	withCursor = append(withCursor, runes[:cursor]...)
	withCursor = append(withCursor, '█')
	withCursor = append(withCursor, runes[cursor:]...)
	return string(withCursor)
}
