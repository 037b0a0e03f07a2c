// Package export writes conversations and generated content to files.
package export

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"ai4edu_cli/pkg/chat"
)

// ErrNotImplemented marks export formats that exist in the UI but have no
// backend yet.
var ErrNotImplemented = errors.New("export format is not implemented")

var roleLabels = map[string]string{
	chat.RoleUser:      "用户",
	chat.RoleAssistant: "助手",
	chat.RoleSystem:    "系统",
}

// Markdown renders the conversation as a markdown transcript.
func Markdown(conv chat.Conversation) string {
	var b strings.Builder

	title := conv.Title
	if title == "" {
		title = "未命名对话"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if conv.Model != "" {
		fmt.Fprintf(&b, "模型：%s\n\n", conv.Model)
	}
	fmt.Fprintf(&b, "导出时间：%s\n\n---\n", time.Now().Format("2006-01-02 15:04"))

	for _, m := range conv.Messages {
		if m.Role == chat.RoleSystem {
			continue
		}
		label := roleLabels[m.Role]
		if label == "" {
			label = m.Role
		}
		fmt.Fprintf(&b, "\n**%s**\n\n%s\n", label, strings.TrimSpace(m.Content))
	}

	return b.String()
}

// WriteMarkdown exports the conversation to path as markdown.
func WriteMarkdown(conv chat.Conversation, path string) error {
	if err := os.WriteFile(path, []byte(Markdown(conv)), 0600); err != nil {
		return fmt.Errorf("write markdown export: %w", err)
	}
	return nil
}

// WriteWord exports content as a Word-compatible HTML document. The .doc
// wrapper with the UTF-8 BOM is what Word expects from the legacy HTML
// import path.
func WriteWord(title, content, path string) error {
	if title == "" {
		title = "导出内容"
	}

	html := fmt.Sprintf(`<html xmlns:o='urn:schemas-microsoft-com:office:office' xmlns:w='urn:schemas-microsoft-com:office:word' xmlns='http://www.w3.org/TR/REC-html40'>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: "SimSun", "宋体", serif; font-size: 12pt; line-height: 1.5; }
.title { font-size: 16pt; font-weight: bold; text-align: center; margin-bottom: 20px; }
.content { margin: 10px 0; }
</style>
</head>
<body>
<div class="title">%s</div>
<div class="content">%s</div>
</body>
</html>`, title, title, strings.ReplaceAll(content, "\n", "<br/>"))

	if err := os.WriteFile(path, []byte("\ufeff"+html), 0600); err != nil {
		return fmt.Errorf("write word export: %w", err)
	}
	return nil
}

// WritePPT always fails; PPT export has no backend yet.
func WritePPT(title, content, path string) error {
	return fmt.Errorf("export ppt: %w", ErrNotImplemented)
}
