// Package ui is the bubbletea front-end: a message viewport, a textarea
// input, a conversation sidebar, a settings panel and the first-run
// onboarding form. All conversation state lives in the chat store; the UI
// only renders snapshots and issues commands.
package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	osc52 "github.com/aymanbagabas/go-osc52/v2"

	"ai4edu_cli/pkg/chat"
	"ai4edu_cli/pkg/export"
	"ai4edu_cli/pkg/questions"
	"ai4edu_cli/pkg/storage"
	"ai4edu_cli/pkg/ui/styles"
)

const (
	inputHeight      = 3
	sidebarWidth     = 34
	newConversation  = "新对话"
	mainFooterHints  = "Enter 发送 | Ctrl+N 新对话 | Ctrl+B 列表 | Ctrl+S 设置 | Ctrl+Y 复制 | Ctrl+E 导出 | Ctrl+C 退出"
	defaultExportDir = "."
)

type storeEventMsg struct{ event chat.Event }

type sendFinishedMsg struct{ err error }

type connectionTestedMsg struct{ err error }

// Model is the bubbletea root model.
type Model struct {
	kv    *storage.Store
	store *chat.Store

	theme      styles.Theme
	input      textarea.Model
	messages   *MessageList
	convList   *ConversationList
	settings   *SettingsPanel
	onboarding *Onboarding
	statusBar  *StatusBar

	width  int
	height int
	ready  bool
}

// NewModel builds the root model over an already-loaded store.
func NewModel(kv *storage.Store, store *chat.Store) Model {
	theme := styles.ByName(kv.GetString(storage.KeyTheme))

	input := textarea.New()
	input.Placeholder = "输入消息，Enter 发送..."
	input.SetHeight(inputHeight)
	input.Focus()

	m := Model{
		kv:         kv,
		store:      store,
		theme:      theme,
		input:      input,
		messages:   NewMessageList(theme),
		convList:   NewConversationList(theme),
		settings:   NewSettingsPanel(theme),
		onboarding: NewOnboarding(theme),
		statusBar:  NewStatusBar(theme),
	}

	if NeedsOnboarding(kv) {
		m.onboarding.Show(kv)
	}

	m.refresh()
	return m
}

// Init starts listening on the store's event channel.
func (m Model) Init() tea.Cmd {
	return listenStore(m.store)
}

// listenStore blocks on the next store event; the handler re-issues it so
// the subscription stays alive for the program's lifetime.
func listenStore(store *chat.Store) tea.Cmd {
	return func() tea.Msg {
		return storeEventMsg{event: <-store.Events()}
	}
}

// Update handles messages (bubbletea lifecycle).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case storeEventMsg:
		m.refresh()
		return m, listenStore(m.store)

	case sendFinishedMsg:
		m.refresh()
		return m, nil

	case SelectConversationMsg:
		m.store.SetActiveConversation(msg.ID)
		m.layout()
		m.refresh()
		return m, nil

	case DeleteConversationMsg:
		m.store.DeleteConversation(msg.ID)
		m.refresh()
		return m, nil

	case NewConversationMsg:
		m.store.CreateConversation(newConversation)
		m.layout()
		m.refresh()
		return m, nil

	case SettingsSavedMsg:
		m.setTheme(styles.ByName(msg.Theme))
		m.refresh()
		return m, nil

	case SettingsClosedMsg:
		return m, nil

	case TestConnectionMsg:
		return m, testConnection(msg)

	case connectionTestedMsg:
		if msg.err != nil {
			m.settings.SetStatus("连接失败: " + msg.err.Error())
		} else {
			m.settings.SetStatus("连接成功")
		}
		return m, nil

	case OnboardingDoneMsg:
		m.refresh()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	m.statusBar.SetNotice("")

	switch {
	case m.onboarding.IsVisible():
		return m, m.onboarding.Update(msg)
	case m.settings.IsVisible():
		return m, m.settings.Update(msg)
	case m.convList.IsVisible():
		return m, m.convList.Update(msg)
	}

	switch msg.String() {
	case "esc":
		if m.store.IsStreaming() {
			m.store.StopStreaming()
			return m, nil
		}
		m.store.ClearError()
		m.refresh()
		return m, nil

	case "enter":
		return m, m.submit()

	case "alt+enter":
		m.input.InsertString("\n")
		return m, nil

	case "ctrl+n":
		m.store.CreateConversation(newConversation)
		m.refresh()
		return m, nil

	case "ctrl+b":
		if m.convList.IsVisible() {
			m.convList.Hide()
		} else {
			m.convList.SetItems(m.store.Conversations(), m.store.ActiveID())
			m.convList.Show()
		}
		m.layout()
		return m, nil

	case "ctrl+s":
		m.settings.Show(m.kv)
		return m, nil

	case "ctrl+t":
		m.setTheme(m.theme.Toggle())
		_ = m.kv.Set(storage.KeyTheme, m.theme.Name)
		m.refresh()
		return m, nil

	case "ctrl+y":
		return m, m.copyLastReply()

	case "ctrl+e":
		m.exportActive()
		return m, nil

	case "pgup":
		m.messages.PageUp()
		return m, nil

	case "pgdown":
		m.messages.PageDown()
		return m, nil

	case "ctrl+up":
		m.messages.ScrollUp()
		return m, nil

	case "ctrl+down":
		m.messages.ScrollDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a chat turn. The blocking SendMessage runs inside the
// command goroutine; the store reports progress through its event channel.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.store.IsStreaming() {
		return nil
	}

	if m.store.ActiveID() == "" {
		m.store.CreateConversation(text)
	}
	m.input.Reset()
	m.refresh()

	store := m.store
	return func() tea.Msg {
		return sendFinishedMsg{err: store.SendMessage(text)}
	}
}

func (m *Model) copyLastReply() tea.Cmd {
	conv, ok := m.store.ActiveConversation()
	if !ok {
		return nil
	}
	var text string
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		msg := conv.Messages[i]
		if msg.Role == chat.RoleAssistant && msg.Content != "" && !msg.IsStreaming {
			text = msg.Content
			break
		}
	}
	if text == "" {
		return nil
	}

	m.statusBar.SetNotice("已复制最后一条回复")
	return func() tea.Msg {
		_, _ = fmt.Fprint(os.Stdout, osc52.New(text))
		return nil
	}
}

func (m *Model) exportActive() {
	conv, ok := m.store.ActiveConversation()
	if !ok || len(conv.Messages) == 0 {
		m.statusBar.SetNotice("没有可导出的对话")
		return
	}

	name := conv.Title
	if name == "" {
		name = conv.ID
	}
	path := fmt.Sprintf("%s/%s.md", defaultExportDir, sanitizeFilename(name))
	if err := export.WriteMarkdown(conv, path); err != nil {
		m.statusBar.SetNotice("导出失败: " + err.Error())
		return
	}
	m.statusBar.SetNotice("已导出 " + path)
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

func testConnection(msg TestConnectionMsg) tea.Cmd {
	return func() tea.Msg {
		return connectionTestedMsg{err: questions.TestConnection(
			context.Background(), msg.BaseURL, msg.APIKey)}
	}
}

// setTheme propagates the palette to every component.
func (m *Model) setTheme(theme styles.Theme) {
	m.theme = theme
	m.messages.SetTheme(theme)
	m.convList.SetTheme(theme)
	m.settings.SetTheme(theme)
	m.onboarding.SetTheme(theme)
	m.statusBar.SetTheme(theme)
}

// layout recomputes component sizes from the window size.
func (m *Model) layout() {
	if !m.ready {
		return
	}

	mainWidth := m.width
	if m.convList.IsVisible() {
		mainWidth -= sidebarWidth
	}
	if mainWidth < 20 {
		mainWidth = 20
	}

	// messages + separator + input + info line + status bar
	messagesHeight := m.height - inputHeight - 3
	if messagesHeight < 3 {
		messagesHeight = 3
	}

	m.messages.SetSize(mainWidth, messagesHeight)
	m.input.SetWidth(mainWidth)
	m.convList.SetSize(sidebarWidth, messagesHeight)
	m.settings.SetSize(m.width, m.height)
	m.onboarding.SetSize(m.width, m.height)
	m.statusBar.SetWidth(m.width)
}

// refresh re-reads store snapshots into the view components.
func (m *Model) refresh() {
	conv, ok := m.store.ActiveConversation()
	if ok {
		m.messages.SetConversation(&conv)
		m.statusBar.SetState(conv.Title, conv.Model, m.store.IsStreaming())
	} else {
		m.messages.SetConversation(nil)
		m.statusBar.SetState("", "", m.store.IsStreaming())
	}
	m.convList.SetItems(m.store.Conversations(), m.store.ActiveID())
}

// View renders the UI (bubbletea lifecycle).
func (m Model) View() tea.View {
	if !m.ready {
		return tea.NewView("加载中...")
	}
	if m.onboarding.IsVisible() {
		return tea.NewView(m.onboarding.View())
	}
	if m.settings.IsVisible() {
		return tea.NewView(m.settings.View())
	}

	body := m.messages.View()
	if m.convList.IsVisible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.convList.View(), body)
	}

	sections := []string{
		body,
		m.theme.MutedStyle().Render(strings.Repeat("─", m.width)),
		m.input.View(),
		m.infoLine(),
		m.statusBar.View(),
	}

	return tea.NewView(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// infoLine shows the store-level error when present, the key hints
// otherwise.
func (m Model) infoLine() string {
	if errMsg := m.store.LastError(); errMsg != "" {
		return m.theme.ErrorStyle().Render(truncateToWidth("⚠ "+errMsg, m.width))
	}
	return m.theme.FooterStyle().Render(truncateToWidth(mainFooterHints, m.width))
}
