package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ai4edu_cli/pkg/chat"
)

func sampleConversation() chat.Conversation {
	return chat.Conversation{
		ID:    "c1",
		Title: "导数练习",
		Model: "test-model",
		Messages: []chat.Message{
			{ID: "m1", Role: chat.RoleUser, Content: "出一道导数题"},
			{ID: "m2", Role: chat.RoleAssistant, Content: "已知 $f(x) = x^2$，求 $f'(x)$。"},
		},
	}
}

func TestMarkdown(t *testing.T) {
	got := Markdown(sampleConversation())

	for _, want := range []string{
		"# 导数练习",
		"模型：test-model",
		"**用户**",
		"出一道导数题",
		"**助手**",
		"$f(x) = x^2$",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Markdown() missing %q", want)
		}
	}
}

func TestMarkdown_SkipsSystemMessages(t *testing.T) {
	conv := sampleConversation()
	conv.Messages = append([]chat.Message{
		{ID: "s", Role: chat.RoleSystem, Content: "system prompt text"},
	}, conv.Messages...)

	if got := Markdown(conv); strings.Contains(got, "system prompt text") {
		t.Error("Markdown() leaked the system message")
	}
}

func TestMarkdown_UntitledFallback(t *testing.T) {
	conv := sampleConversation()
	conv.Title = ""
	if got := Markdown(conv); !strings.Contains(got, "# 未命名对话") {
		t.Errorf("Markdown() = %q, want untitled fallback", got)
	}
}

func TestWriteMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conv.md")
	if err := WriteMarkdown(sampleConversation(), path); err != nil {
		t.Fatalf("WriteMarkdown() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "# 导数练习") {
		t.Errorf("exported file missing title: %q", data)
	}
}

func TestWriteWord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.doc")
	if err := WriteWord("测试标题", "第一行\n第二行", path); err != nil {
		t.Fatalf("WriteWord() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "\ufeff") {
		t.Error("word export missing UTF-8 BOM")
	}
	if !strings.Contains(text, "测试标题") || !strings.Contains(text, "第一行<br/>第二行") {
		t.Errorf("word export content = %q", text)
	}
}

func TestWritePPT_NotImplemented(t *testing.T) {
	err := WritePPT("t", "c", filepath.Join(t.TempDir(), "out.pptx"))
	if !errors.Is(err, ErrNotImplemented) {
		t.Errorf("WritePPT() error = %v, want ErrNotImplemented", err)
	}
}
