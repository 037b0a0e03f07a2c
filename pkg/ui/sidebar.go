package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"ai4edu_cli/pkg/chat"
	"ai4edu_cli/pkg/ui/styles"
)

const sidebarFooterLabel = "↑↓ 选择 | Enter 打开 | n 新建 | d 删除 | Esc 关闭"

// SelectConversationMsg asks the root model to activate a conversation.
type SelectConversationMsg struct{ ID string }

// DeleteConversationMsg asks the root model to delete a conversation.
type DeleteConversationMsg struct{ ID string }

// NewConversationMsg asks the root model to create a conversation.
type NewConversationMsg struct{}

// ConversationList is the toggleable sidebar showing all conversations,
// newest first.
type ConversationList struct {
	visible  bool
	width    int
	height   int
	theme    styles.Theme
	items    []chat.Conversation
	activeID string
	selected int
}

// NewConversationList creates a hidden conversation list.
func NewConversationList(theme styles.Theme) *ConversationList {
	return &ConversationList{theme: theme}
}

// Show opens the sidebar with the cursor on the active conversation.
func (cl *ConversationList) Show() {
	cl.visible = true
	cl.selected = 0
	for i, c := range cl.items {
		if c.ID == cl.activeID {
			cl.selected = i
			break
		}
	}
}

// Hide closes the sidebar.
func (cl *ConversationList) Hide() { cl.visible = false }

// IsVisible reports whether the sidebar is open.
func (cl *ConversationList) IsVisible() bool { return cl.visible }

// SetSize sets the sidebar dimensions.
func (cl *ConversationList) SetSize(width, height int) {
	cl.width = width
	cl.height = height
}

// SetTheme switches palettes.
func (cl *ConversationList) SetTheme(theme styles.Theme) { cl.theme = theme }

// SetItems replaces the conversation snapshot.
func (cl *ConversationList) SetItems(items []chat.Conversation, activeID string) {
	cl.items = items
	cl.activeID = activeID
	if cl.selected >= len(items) {
		cl.selected = len(items) - 1
	}
	if cl.selected < 0 {
		cl.selected = 0
	}
}

// Update handles keyboard input while the sidebar is open.
func (cl *ConversationList) Update(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q":
		cl.Hide()
		return nil

	case "up":
		if cl.selected > 0 {
			cl.selected--
		}
		return nil

	case "down":
		if cl.selected < len(cl.items)-1 {
			cl.selected++
		}
		return nil

	case "enter":
		if cl.selected < len(cl.items) {
			id := cl.items[cl.selected].ID
			cl.Hide()
			return func() tea.Msg { return SelectConversationMsg{ID: id} }
		}
		return nil

	case "n":
		cl.Hide()
		return func() tea.Msg { return NewConversationMsg{} }

	case "d":
		if cl.selected < len(cl.items) {
			id := cl.items[cl.selected].ID
			return func() tea.Msg { return DeleteConversationMsg{ID: id} }
		}
		return nil
	}

	return nil
}

// View renders the sidebar box.
func (cl *ConversationList) View() string {
	if !cl.visible {
		return ""
	}

	contentWidth := cl.width - 4
	if contentWidth < 8 {
		contentWidth = 8
	}
	contentHeight := cl.height - 2
	if contentHeight < 3 {
		contentHeight = 3
	}

	lines := make([]string, 0, contentHeight)
	lines = append(lines, padToWidth(cl.theme.TitleStyle().Render(trimToWidth("对话列表", contentWidth)), contentWidth))

	bodyHeight := contentHeight - 2
	if len(cl.items) == 0 {
		lines = append(lines, cl.theme.MutedStyle().Render(truncateToWidth("还没有对话，n 新建", contentWidth)))
	}

	start := 0
	if cl.selected >= bodyHeight {
		start = cl.selected - bodyHeight + 1
	}
	for i := start; i < len(cl.items) && i-start < bodyHeight; i++ {
		conv := cl.items[i]

		marker := "  "
		if conv.ID == cl.activeID {
			marker = "● "
		}
		title := conv.Title
		if title == "" {
			title = "未命名对话"
		}
		label := truncateToWidth(marker+title, contentWidth)

		if i == cl.selected {
			lines = append(lines, cl.theme.SelectedStyle().Render(padToWidth(label, contentWidth)))
		} else {
			lines = append(lines, cl.theme.TextStyle().Render(padToWidth(label, contentWidth)))
		}
	}

	for len(lines) < contentHeight-1 {
		lines = append(lines, strings.Repeat(" ", contentWidth))
	}
	lines = append(lines, cl.theme.FooterStyle().Render(truncateToWidth(sidebarFooterLabel, contentWidth)))

	return cl.theme.BoxStyle().Width(cl.width - 2).Render(strings.Join(lines, "\n"))
}
