package ui

import (
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"

	"ai4edu_cli/pkg/storage"
)

// pressRune builds a printable-character key press.
func pressRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: r, Text: string(r)})
}

// pressKey builds a special key press (tea.KeyEnter, tea.KeyEscape, ...).
func pressKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: code})
}

// pressCtrl builds a ctrl+<char> key press.
func pressCtrl(char rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: char, Mod: tea.ModCtrl})
}

// runCmd executes a command and returns its message, nil-safe.
func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func tempKV(t *testing.T) *storage.Store {
	t.Helper()
	kv, err := storage.Open(filepath.Join(t.TempDir(), "storage.json"))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	return kv
}
