package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"ai4edu_cli/pkg/profile"
	"ai4edu_cli/pkg/storage"
	"ai4edu_cli/pkg/ui/styles"
)

// OnboardingDoneMsg is sent once the first-run profile has been saved.
type OnboardingDoneMsg struct{}

// Onboarding is the first-run teacher profile form. It shows once, gated
// on the persisted initialized flag, and writes the profile on completion.
type Onboarding struct {
	form    fieldForm
	kv      *storage.Store
	theme   styles.Theme
	visible bool
	width   int
	height  int
}

// NewOnboarding creates a hidden onboarding form.
func NewOnboarding(theme styles.Theme) *Onboarding {
	return &Onboarding{theme: theme}
}

// NeedsOnboarding reports whether the first-run form should be shown.
func NeedsOnboarding(kv *storage.Store) bool {
	var initialized bool
	if ok, err := kv.Get(storage.KeyInitialized, &initialized); ok && err == nil && initialized {
		return false
	}
	return !profile.Has(kv)
}

// Show opens the form prefilled with profile defaults.
func (ob *Onboarding) Show(kv *storage.Store) {
	ob.kv = kv
	ob.visible = true

	defaults := profile.Default()
	subjectOptions := make([]string, len(profile.Subjects))
	for i, s := range profile.Subjects {
		subjectOptions[i] = s.Name()
	}

	ob.form.reset([]FormField{
		{Label: "姓名", Key: "name", Value: "", Type: fieldString},
		{Label: "学校", Key: "school", Value: "", Type: fieldString},
		{Label: "职位", Key: "position", Value: defaults.Position, Type: fieldString},
		{Label: "学科", Key: "subject", Value: defaults.Subject.Name(), Type: fieldCycle, Options: subjectOptions},
		{Label: "年级", Key: "grade", Value: defaults.GradeLevel, Type: fieldString},
		{Label: "班级人数", Key: "class_size", Value: fmt.Sprintf("%d", defaults.ClassSize), Type: fieldInt},
		{Label: "带班数量", Key: "class_count", Value: fmt.Sprintf("%d", defaults.ClassCount), Type: fieldInt},
		{Label: "教材版本", Key: "textbook", Value: defaults.TextbookVersion, Type: fieldString},
		{Label: "考区/卷型", Key: "exam_region", Value: defaults.ExamRegion, Type: fieldString},
	})
}

// IsVisible reports whether the form is open.
func (ob *Onboarding) IsVisible() bool { return ob.visible }

// SetSize sets the form dimensions.
func (ob *Onboarding) SetSize(width, height int) {
	ob.width = width
	ob.height = height
}

// SetTheme switches palettes.
func (ob *Onboarding) SetTheme(theme styles.Theme) { ob.theme = theme }

// Update handles keyboard input. "s" finishes; esc skips the form
// entirely, both mark the app initialized so the form never reappears.
func (ob *Onboarding) Update(msg tea.KeyPressMsg) tea.Cmd {
	if ob.form.editing {
		ob.form.handleEditKey(msg)
		return nil
	}

	switch msg.String() {
	case "up":
		ob.form.moveUp()
		return nil

	case "down":
		ob.form.moveDown()
		return nil

	case "enter":
		ob.form.activate()
		return nil

	case "s":
		return ob.finish(true)

	case "esc":
		return ob.finish(false)
	}

	return nil
}

// finish optionally saves the profile, marks the app initialized and
// closes the form.
func (ob *Onboarding) finish(save bool) tea.Cmd {
	if save {
		prof := profile.TeacherProfile{
			Name:            ob.form.value("name"),
			School:          ob.form.value("school"),
			Position:        ob.form.value("position"),
			Subject:         subjectByName(ob.form.value("subject")),
			GradeLevel:      ob.form.value("grade"),
			TextbookVersion: ob.form.value("textbook"),
			ExamRegion:      ob.form.value("exam_region"),
		}
		if v, err := strconv.Atoi(ob.form.value("class_size")); err == nil {
			prof.ClassSize = v
		}
		if v, err := strconv.Atoi(ob.form.value("class_count")); err == nil {
			prof.ClassCount = v
		}
		_, _ = profile.Save(ob.kv, prof)
	}

	_ = ob.kv.Set(storage.KeyInitialized, true)
	ob.visible = false
	return func() tea.Msg { return OnboardingDoneMsg{} }
}

// View renders the onboarding form.
func (ob *Onboarding) View() string {
	if !ob.visible {
		return ""
	}

	boxWidth := ob.width - 2
	if boxWidth > 70 {
		boxWidth = 70
	}
	if boxWidth < 40 {
		boxWidth = 40
	}

	var content strings.Builder
	content.WriteString(ob.theme.TitleStyle().Render("👋 欢迎使用 AI4Edu 教学助手"))
	content.WriteString("\n")
	content.WriteString(ob.theme.MutedStyle().Render("填写教师画像，AI 会按你的学段和教材定制回答"))
	content.WriteString("\n\n")
	content.WriteString(ob.form.renderFields(ob.theme))
	content.WriteString("\n\n")
	if ob.form.editing {
		content.WriteString(ob.theme.FooterStyle().Render("Enter 确认 | Esc 取消"))
	} else {
		content.WriteString(ob.theme.FooterStyle().Render("↑↓ 选择 | Enter 编辑 | s 完成 | Esc 跳过"))
	}

	return ob.theme.BoxStyle().Width(boxWidth).Render(content.String())
}
