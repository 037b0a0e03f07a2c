package chat

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestGenerateTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short passthrough", "hello", "hello"},
		{"trims whitespace", "  hello  ", "hello"},
		{"collapses newlines", "line one\nline two", "line one line two"},
		{"exactly at limit", strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{"truncates over limit", strings.Repeat("a", 31), strings.Repeat("a", 27) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := generateTitle(tt.content); got != tt.want {
				t.Errorf("generateTitle(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestGenerateTitle_RuneLimit(t *testing.T) {
	// Truncation counts runes, not bytes, and the result including the
	// ellipsis marker stays within the limit.
	long := strings.Repeat("请给我出一道数学题", 10)
	got := generateTitle(long)

	if n := utf8.RuneCountInString(got); n > 30 {
		t.Errorf("title is %d runes, want <= 30", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("title %q does not end with ellipsis marker", got)
	}
}

func TestNewMessage(t *testing.T) {
	a := newMessage(RoleUser, "x")
	b := newMessage(RoleUser, "x")

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("message ids not unique: %q, %q", a.ID, b.ID)
	}
	if a.Timestamp == 0 {
		t.Error("timestamp not set")
	}
	if a.IsStreaming {
		t.Error("new message must not start streaming")
	}
}
