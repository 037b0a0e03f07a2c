package ui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"ai4edu_cli/pkg/ui/styles"
)

func testForm() fieldForm {
	var f fieldForm
	f.reset([]FormField{
		{Label: "名称", Key: "name", Value: "初始", Type: fieldString},
		{Label: "数量", Key: "count", Value: "3", Type: fieldInt},
		{Label: "主题", Key: "theme", Value: "dark", Type: fieldCycle, Options: []string{"dark", "light"}},
		{Label: "动作", Key: "go", Value: "Enter", Type: fieldAction},
	})
	return f
}

func TestFieldFormEditCommit(t *testing.T) {
	f := testForm()

	if changed := f.activate(); changed {
		t.Error("activating a string field should not report a change yet")
	}
	if !f.editing {
		t.Fatal("expected edit mode after activate")
	}

	for _, r := range "abc" {
		f.handleEditKey(pressRune(r))
	}
	if !f.handleEditKey(pressKey(tea.KeyEnter)) {
		t.Error("enter should commit the edit")
	}
	if got := f.value("name"); got != "初始abc" {
		t.Errorf("value = %q, want %q", got, "初始abc")
	}
	if f.editing {
		t.Error("edit mode should end on commit")
	}
}

func TestFieldFormEditCancel(t *testing.T) {
	f := testForm()
	f.activate()
	f.handleEditKey(pressRune('x'))

	if f.handleEditKey(pressKey(tea.KeyEscape)) {
		t.Error("esc should not report a commit")
	}
	if got := f.value("name"); got != "初始" {
		t.Errorf("value = %q, want untouched %q", got, "初始")
	}
}

func TestFieldFormInvalidIntRejected(t *testing.T) {
	f := testForm()
	f.moveDown()
	f.activate()

	f.handleEditKey(pressKey(tea.KeyBackspace))
	f.handleEditKey(pressRune('x'))
	if f.handleEditKey(pressKey(tea.KeyEnter)) {
		t.Error("invalid int should not commit")
	}
	if got := f.value("count"); got != "3" {
		t.Errorf("value = %q, want untouched %q", got, "3")
	}
	if f.errorMsg == "" {
		t.Error("expected a validation error message")
	}
	if out := f.renderFields(styles.Dark()); !strings.Contains(out, "无效的值") {
		t.Error("rendered form should surface the validation error")
	}
}

func TestFieldFormCursorEditing(t *testing.T) {
	f := testForm()
	f.activate()

	f.handleEditKey(pressKey(tea.KeyHome))
	f.handleEditKey(pressRune('A'))
	f.handleEditKey(pressKey(tea.KeyEnd))
	f.handleEditKey(pressRune('Z'))
	f.handleEditKey(pressKey(tea.KeyEnter))

	if got := f.value("name"); got != "A初始Z" {
		t.Errorf("value = %q, want %q", got, "A初始Z")
	}
}

func TestFieldFormCycle(t *testing.T) {
	f := testForm()
	f.selected = 2

	if !f.activate() {
		t.Error("cycle fields change on activate")
	}
	if got := f.value("theme"); got != "light" {
		t.Errorf("theme = %q, want %q", got, "light")
	}
	f.activate()
	if got := f.value("theme"); got != "dark" {
		t.Errorf("theme = %q, want wrap-around to %q", got, "dark")
	}
}

func TestFieldFormActionDoesNotEdit(t *testing.T) {
	f := testForm()
	f.selected = 3

	if f.activate() {
		t.Error("action fields never report a value change")
	}
	if f.editing {
		t.Error("action fields must not enter edit mode")
	}
}

func TestFieldFormMaskedRender(t *testing.T) {
	var f fieldForm
	f.reset([]FormField{
		{Label: "API Key", Key: "key", Value: "secret", Type: fieldString, Masked: true},
	})

	out := f.renderFields(styles.Dark())
	if strings.Contains(out, "secret") {
		t.Error("masked value must not appear in the render")
	}
	if !strings.Contains(out, strings.Repeat("•", len("secret"))) {
		t.Error("masked value should render as dots")
	}
}
