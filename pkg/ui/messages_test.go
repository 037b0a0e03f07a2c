package ui

import (
	"fmt"
	"strings"
	"testing"

	"ai4edu_cli/pkg/chat"
	"ai4edu_cli/pkg/ui/styles"
)

func TestMessageListStreamingCursor(t *testing.T) {
	ml := NewMessageList(styles.Dark())
	ml.SetSize(60, 10)

	conv := &chat.Conversation{
		ID:    "c1",
		Title: "测试",
		Messages: []chat.Message{
			{ID: "m1", Role: chat.RoleUser, Content: "你好"},
			{ID: "m2", Role: chat.RoleAssistant, Content: "你好，我", IsStreaming: true},
		},
	}
	ml.SetConversation(conv)

	out := ml.View()
	if !strings.Contains(out, "你好，我"+streamingCursor) {
		t.Error("streaming message should render raw with the trailing cursor")
	}
}

func TestMessageListThinkingPlaceholder(t *testing.T) {
	ml := NewMessageList(styles.Dark())
	ml.SetSize(60, 10)

	conv := &chat.Conversation{
		ID: "c1",
		Messages: []chat.Message{
			{ID: "m1", Role: chat.RoleUser, Content: "你好"},
			{ID: "m2", Role: chat.RoleAssistant, Content: "", IsStreaming: true},
		},
	}
	ml.SetConversation(conv)

	if out := ml.View(); !strings.Contains(out, "思考中") {
		t.Error("empty streaming message should show the thinking placeholder")
	}
}

func TestMessageListSkipsSystemMessages(t *testing.T) {
	ml := NewMessageList(styles.Dark())
	ml.SetSize(60, 10)

	conv := &chat.Conversation{
		ID: "c1",
		Messages: []chat.Message{
			{ID: "m0", Role: chat.RoleSystem, Content: "系统提示不应显示"},
			{ID: "m1", Role: chat.RoleUser, Content: "问题"},
		},
	}
	ml.SetConversation(conv)

	if out := ml.View(); strings.Contains(out, "系统提示不应显示") {
		t.Error("system messages must not render")
	}
}

func TestMessageListEmptyState(t *testing.T) {
	ml := NewMessageList(styles.Dark())
	ml.SetSize(60, 10)
	ml.SetConversation(nil)

	if out := ml.View(); !strings.Contains(out, "输入问题开始对话") {
		t.Error("empty conversation should show the start hint")
	}
}

func TestMessageListFollowsTail(t *testing.T) {
	ml := NewMessageList(styles.Dark())
	ml.SetSize(40, 4)

	conv := &chat.Conversation{ID: "c1"}
	for i := range 20 {
		conv.Messages = append(conv.Messages, chat.Message{
			ID:      fmt.Sprintf("m%d", i),
			Role:    chat.RoleUser,
			Content: fmt.Sprintf("第%d条", i),
		})
	}
	ml.SetConversation(conv)

	if !strings.Contains(ml.View(), "第19条") {
		t.Error("view should follow the newest message")
	}

	ml.PageUp()
	if strings.Contains(ml.View(), "第19条") {
		t.Error("paging up should leave the tail")
	}

	conv.Messages = append(conv.Messages, chat.Message{ID: "m20", Role: chat.RoleUser, Content: "第20条"})
	ml.SetConversation(conv)
	if strings.Contains(ml.View(), "第20条") {
		t.Error("scrolled-up view must not jump to new messages")
	}

	for range 10 {
		ml.PageDown()
	}
	if !strings.Contains(ml.View(), "第20条") {
		t.Error("paging back to the bottom should reach the newest message")
	}
}

func TestMessageListViewHeight(t *testing.T) {
	ml := NewMessageList(styles.Dark())
	ml.SetSize(40, 6)
	ml.SetConversation(nil)

	if got := len(strings.Split(ml.View(), "\n")); got != 6 {
		t.Errorf("view lines = %d, want exactly 6", got)
	}
}
