package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"ai4edu_cli/pkg/config"
	"ai4edu_cli/pkg/profile"
	"ai4edu_cli/pkg/storage"
	"ai4edu_cli/pkg/ui/styles"
)

// SettingsSavedMsg is sent after settings were written through to storage.
type SettingsSavedMsg struct{ Theme string }

// SettingsClosedMsg is sent when the panel closes without changes.
type SettingsClosedMsg struct{}

// TestConnectionMsg asks the root model to probe the configured endpoint.
type TestConnectionMsg struct {
	BaseURL string
	APIKey  string
}

// SettingsPanel edits the API configuration and the teacher profile. All
// values are read from and written through the key-value store; nothing is
// cached between Show calls.
type SettingsPanel struct {
	form    fieldForm
	kv      *storage.Store
	theme   styles.Theme
	visible bool
	changed bool
	width   int
	height  int
	status  string
}

// NewSettingsPanel creates a hidden settings panel.
func NewSettingsPanel(theme styles.Theme) *SettingsPanel {
	return &SettingsPanel{theme: theme}
}

// Show opens the panel with current values from storage.
func (sp *SettingsPanel) Show(kv *storage.Store) {
	sp.kv = kv
	sp.visible = true
	sp.changed = false
	sp.status = ""

	cfg, err := config.Resolve(kv)
	if err != nil {
		cfg = &config.Config{
			Model:       config.DefaultModel,
			BaseURL:     config.DefaultBaseURL,
			Temperature: config.DefaultTemperature,
			MaxTokens:   config.DefaultMaxTokens,
			TopP:        config.DefaultTopP,
		}
	}

	prof := profile.Load(kv)
	if prof == nil {
		p := profile.Default()
		prof = &p
	}

	subjectOptions := make([]string, len(profile.Subjects))
	for i, s := range profile.Subjects {
		subjectOptions[i] = s.Name()
	}

	sp.form.reset([]FormField{
		{Label: "API Key", Key: "api_key", Value: cfg.APIKey, Type: fieldString, Masked: true},
		{Label: "模型", Key: "api_model", Value: cfg.Model, Type: fieldString},
		{Label: "API 地址", Key: "api_base", Value: cfg.BaseURL, Type: fieldString},
		{Label: "Temperature", Key: "temperature", Value: fmt.Sprintf("%.1f", cfg.Temperature), Type: fieldFloat},
		{Label: "Max Tokens", Key: "max_tokens", Value: fmt.Sprintf("%d", cfg.MaxTokens), Type: fieldInt},
		{Label: "Top P", Key: "top_p", Value: fmt.Sprintf("%.1f", cfg.TopP), Type: fieldFloat},
		{Label: "主题", Key: "theme", Value: sp.theme.Name, Type: fieldCycle, Options: []string{"dark", "light"}},
		{Label: "连接测试", Key: "test_connection", Value: "Enter 测试", Type: fieldAction},
		{Label: "姓名", Key: "profile_name", Value: prof.Name, Type: fieldString},
		{Label: "学校", Key: "profile_school", Value: prof.School, Type: fieldString},
		{Label: "职位", Key: "profile_position", Value: prof.Position, Type: fieldString},
		{Label: "学科", Key: "profile_subject", Value: prof.Subject.Name(), Type: fieldCycle, Options: subjectOptions},
		{Label: "年级", Key: "profile_grade", Value: prof.GradeLevel, Type: fieldString},
		{Label: "班级人数", Key: "profile_class_size", Value: fmt.Sprintf("%d", prof.ClassSize), Type: fieldInt},
		{Label: "带班数量", Key: "profile_class_count", Value: fmt.Sprintf("%d", prof.ClassCount), Type: fieldInt},
		{Label: "教材版本", Key: "profile_textbook", Value: prof.TextbookVersion, Type: fieldString},
		{Label: "考区/卷型", Key: "profile_exam_region", Value: prof.ExamRegion, Type: fieldString},
	})
}

// Hide closes the panel without saving.
func (sp *SettingsPanel) Hide() {
	sp.visible = false
	sp.form.editing = false
}

// IsVisible reports whether the panel is open.
func (sp *SettingsPanel) IsVisible() bool { return sp.visible }

// SetSize sets the panel dimensions.
func (sp *SettingsPanel) SetSize(width, height int) {
	sp.width = width
	sp.height = height
}

// SetTheme switches palettes.
func (sp *SettingsPanel) SetTheme(theme styles.Theme) { sp.theme = theme }

// SetStatus shows a transient status line (connection test result).
func (sp *SettingsPanel) SetStatus(status string) { sp.status = status }

// Update handles keyboard input for the settings panel.
func (sp *SettingsPanel) Update(msg tea.KeyPressMsg) tea.Cmd {
	if sp.form.editing {
		if sp.form.handleEditKey(msg) {
			sp.changed = true
		}
		return nil
	}

	switch msg.String() {
	case "up":
		sp.form.moveUp()
		return nil

	case "down":
		sp.form.moveDown()
		return nil

	case "enter":
		field := sp.form.current()
		if field != nil && field.Key == "test_connection" {
			baseURL := sp.form.value("api_base")
			apiKey := sp.form.value("api_key")
			sp.status = "正在测试连接..."
			return func() tea.Msg {
				return TestConnectionMsg{BaseURL: baseURL, APIKey: apiKey}
			}
		}
		if sp.form.activate() {
			sp.changed = true
		}
		return nil

	case "esc":
		if sp.changed {
			return sp.saveAndClose()
		}
		sp.Hide()
		return func() tea.Msg { return SettingsClosedMsg{} }

	case "s":
		if sp.changed {
			return sp.saveAndClose()
		}
		return nil
	}

	return nil
}

// saveAndClose writes every field through to storage and the profile
// record, then closes the panel.
func (sp *SettingsPanel) saveAndClose() tea.Cmd {
	kv := sp.kv

	_ = kv.Set(storage.KeyAPIKey, strings.TrimSpace(sp.form.value("api_key")))
	_ = kv.Set(storage.KeyAPIModel, strings.TrimSpace(sp.form.value("api_model")))
	_ = kv.Set(storage.KeyAPIBaseURL, strings.TrimSpace(sp.form.value("api_base")))

	if v, err := strconv.ParseFloat(sp.form.value("temperature"), 64); err == nil {
		_ = kv.Set(storage.KeyTemperature, v)
	}
	if v, err := strconv.Atoi(sp.form.value("max_tokens")); err == nil {
		_ = kv.Set(storage.KeyMaxTokens, v)
	}
	if v, err := strconv.ParseFloat(sp.form.value("top_p"), 64); err == nil {
		_ = kv.Set(storage.KeyTopP, v)
	}

	themeName := sp.form.value("theme")
	_ = kv.Set(storage.KeyTheme, themeName)

	prof := profile.TeacherProfile{
		Name:            sp.form.value("profile_name"),
		School:          sp.form.value("profile_school"),
		Position:        sp.form.value("profile_position"),
		Subject:         subjectByName(sp.form.value("profile_subject")),
		GradeLevel:      sp.form.value("profile_grade"),
		TextbookVersion: sp.form.value("profile_textbook"),
		ExamRegion:      sp.form.value("profile_exam_region"),
	}
	if v, err := strconv.Atoi(sp.form.value("profile_class_size")); err == nil {
		prof.ClassSize = v
	}
	if v, err := strconv.Atoi(sp.form.value("profile_class_count")); err == nil {
		prof.ClassCount = v
	}
	_, _ = profile.Save(kv, prof)

	sp.Hide()
	return func() tea.Msg { return SettingsSavedMsg{Theme: themeName} }
}

func subjectByName(name string) profile.Subject {
	for _, s := range profile.Subjects {
		if s.Name() == name {
			return s
		}
	}
	return profile.SubjectMath
}

// View renders the settings panel.
func (sp *SettingsPanel) View() string {
	if !sp.visible {
		return ""
	}

	boxWidth := sp.width - 2
	if boxWidth > 90 {
		boxWidth = 90
	}
	if boxWidth < 40 {
		boxWidth = 40
	}

	var content strings.Builder
	content.WriteString(sp.theme.TitleStyle().Render("⚙ 设置"))
	content.WriteString("\n\n")
	content.WriteString(sp.form.renderFields(sp.theme))

	if sp.status != "" {
		content.WriteString("\n" + sp.theme.MutedStyle().Render(sp.status))
	}

	content.WriteString("\n\n")
	if sp.form.editing {
		content.WriteString(sp.theme.FooterStyle().Render("Enter 确认 | Esc 取消"))
	} else if sp.changed {
		content.WriteString(sp.theme.FooterStyle().Render("↑↓ 选择 | Enter 编辑 | s 保存 | Esc 保存并关闭"))
	} else {
		content.WriteString(sp.theme.FooterStyle().Render("↑↓ 选择 | Enter 编辑 | Esc 关闭"))
	}

	return sp.theme.BoxStyle().Width(boxWidth).Render(content.String())
}
