package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message roles mirror the wire protocol.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// titleRuneLimit caps generated conversation titles.
const titleRuneLimit = 30

// Message is one chat turn. Content is mutated while IsStreaming is true
// and frozen once the stream ends, is cancelled or errors. JSON tags match
// the desktop app's storage layout.
type Message struct {
	ID          string `json:"id"`
	Role        string `json:"role"`
	Content     string `json:"content"`
	Timestamp   int64  `json:"timestamp"`
	IsStreaming bool   `json:"isStreaming,omitempty"`
}

// Conversation is an ordered message sequence with metadata. The list is
// persisted newest-first under a single storage key.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt int64     `json:"createdAt"`
	UpdatedAt int64     `json:"updatedAt"`
	Model     string    `json:"model"`
}

func newMessage(role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	}
}

// generateTitle derives a conversation title from its first user message:
// newlines collapse to spaces, the result is trimmed and truncated to at
// most titleRuneLimit runes including the trailing ellipsis marker.
func generateTitle(content string) string {
	cleaned := strings.TrimSpace(strings.ReplaceAll(content, "\n", " "))
	runes := []rune(cleaned)
	if len(runes) <= titleRuneLimit {
		return cleaned
	}
	return string(runes[:titleRuneLimit-3]) + "..."
}
