package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"ai4edu_cli/pkg/chat"
	"ai4edu_cli/pkg/ui/styles"
)

// streamingCursor marks the message still receiving deltas.
const streamingCursor = "▍"

// MessageList renders the active conversation as scrollable lines.
// Assistant messages go through the markdown renderer; user messages are
// wrapped plainly. While a message is streaming it is rendered raw with a
// trailing cursor so partial markdown never flickers through the renderer.
type MessageList struct {
	width    int
	height   int
	theme    styles.Theme
	renderer *glamour.TermRenderer

	lines   []string
	scrollY int
	follow  bool
}

// NewMessageList creates an empty message list.
func NewMessageList(theme styles.Theme) *MessageList {
	ml := &MessageList{theme: theme, follow: true}
	ml.rebuildRenderer()
	return ml
}

// SetSize updates the drawing area and rebuilds the markdown renderer for
// the new wrap width.
func (ml *MessageList) SetSize(width, height int) {
	if width == ml.width && height == ml.height {
		return
	}
	ml.width = width
	ml.height = height
	ml.rebuildRenderer()
}

// SetTheme switches palettes.
func (ml *MessageList) SetTheme(theme styles.Theme) {
	ml.theme = theme
	ml.rebuildRenderer()
}

func (ml *MessageList) rebuildRenderer() {
	width := ml.width
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(ml.theme.Name),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		ml.renderer = nil
		return
	}
	ml.renderer = r
}

// SetConversation re-renders the lines from the conversation snapshot.
func (ml *MessageList) SetConversation(conv *chat.Conversation) {
	if conv == nil || len(conv.Messages) == 0 {
		ml.lines = ml.emptyState()
		ml.scrollY = 0
		return
	}

	var lines []string
	for i, msg := range conv.Messages {
		if msg.Role == chat.RoleSystem {
			continue
		}
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, ml.headerLine(msg))
		lines = append(lines, ml.bodyLines(msg)...)
	}
	ml.lines = lines

	if ml.follow {
		ml.scrollY = ml.maxScroll()
	} else if ml.scrollY > ml.maxScroll() {
		ml.scrollY = ml.maxScroll()
	}
}

func (ml *MessageList) emptyState() []string {
	hint := ml.theme.MutedStyle().Render("输入问题开始对话，Enter 发送")
	return []string{"", hint}
}

func (ml *MessageList) headerLine(msg chat.Message) string {
	if msg.Role == chat.RoleUser {
		return ml.theme.BoldStyle().Render("👤 你")
	}
	return ml.theme.TitleStyle().Render("🤖 助手")
}

func (ml *MessageList) bodyLines(msg chat.Message) []string {
	content := msg.Content

	if msg.IsStreaming {
		if content == "" {
			return []string{ml.theme.MutedStyle().Render("思考中" + streamingCursor)}
		}
		return wrapPlain(content+streamingCursor, ml.contentWidth())
	}

	if msg.Role == chat.RoleAssistant && ml.renderer != nil {
		if rendered, err := ml.renderer.Render(content); err == nil {
			return strings.Split(strings.Trim(rendered, "\n"), "\n")
		}
	}
	return wrapPlain(content, ml.contentWidth())
}

func (ml *MessageList) contentWidth() int {
	if ml.width < 1 {
		return 80
	}
	return ml.width
}

// ScrollUp moves one line up and stops following the stream tail.
func (ml *MessageList) ScrollUp() {
	if ml.scrollY > 0 {
		ml.scrollY--
		ml.follow = false
	}
}

// ScrollDown moves one line down; reaching the bottom resumes following.
func (ml *MessageList) ScrollDown() {
	if ml.scrollY < ml.maxScroll() {
		ml.scrollY++
	}
	ml.follow = ml.scrollY >= ml.maxScroll()
}

// PageUp scrolls a page up.
func (ml *MessageList) PageUp() {
	ml.scrollY -= ml.pageSize()
	if ml.scrollY < 0 {
		ml.scrollY = 0
	}
	ml.follow = false
}

// PageDown scrolls a page down.
func (ml *MessageList) PageDown() {
	ml.scrollY += ml.pageSize()
	if ml.scrollY > ml.maxScroll() {
		ml.scrollY = ml.maxScroll()
	}
	ml.follow = ml.scrollY >= ml.maxScroll()
}

func (ml *MessageList) pageSize() int {
	if ml.height > 1 {
		return ml.height - 1
	}
	return 1
}

func (ml *MessageList) maxScroll() int {
	max := len(ml.lines) - ml.height
	if max < 0 {
		return 0
	}
	return max
}

// View renders exactly height lines.
func (ml *MessageList) View() string {
	height := ml.height
	if height < 1 {
		height = 1
	}

	start := ml.scrollY
	if start > ml.maxScroll() {
		start = ml.maxScroll()
	}
	end := start + height
	if end > len(ml.lines) {
		end = len(ml.lines)
	}

	out := make([]string, 0, height)
	for i := start; i < end; i++ {
		out = append(out, ml.lines[i])
	}
	for len(out) < height {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}
