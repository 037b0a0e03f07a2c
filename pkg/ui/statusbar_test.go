package ui

import (
	"strings"
	"testing"

	"ai4edu_cli/pkg/ui/styles"
)

func TestStatusBarShowsTitleAndModel(t *testing.T) {
	sb := NewStatusBar(styles.Dark())
	sb.SetWidth(80)
	sb.SetState("函数的单调性", "Pro/moonshotai/Kimi-K2.5", false)

	out := sb.View()
	if !strings.Contains(out, "AI4Edu | 函数的单调性") {
		t.Error("bar should show the app name and conversation title")
	}
	if !strings.Contains(out, "Kimi-K2.5") {
		t.Error("bar should show the model name")
	}
}

func TestStatusBarStreamingOverridesModel(t *testing.T) {
	sb := NewStatusBar(styles.Dark())
	sb.SetWidth(80)
	sb.SetState("对话", "some-model", true)

	out := sb.View()
	if !strings.Contains(out, "生成中") {
		t.Error("streaming indicator missing")
	}
	if strings.Contains(out, "some-model") {
		t.Error("streaming indicator should replace the model name")
	}
}

func TestStatusBarNotice(t *testing.T) {
	sb := NewStatusBar(styles.Dark())
	sb.SetWidth(80)
	sb.SetState("对话", "some-model", false)
	sb.SetNotice("已导出 对话.md")

	out := sb.View()
	if !strings.Contains(out, "已导出") {
		t.Error("notice missing")
	}
	if strings.Contains(out, "some-model") {
		t.Error("notice should take priority over the model name")
	}
}
