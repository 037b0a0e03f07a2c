package version

import (
	"strings"
	"testing"
)

func TestSummary(t *testing.T) {
	if got := Summary(); got == "" {
		t.Error("Summary should not be empty")
	}

	orig := Commit
	defer func() { Commit = orig }()

	Commit = "abcdef1234567890"
	if got := Summary(); !strings.Contains(got, "abcdef1") {
		t.Errorf("Summary should include the short commit, got: %s", got)
	}
	if got := Summary(); strings.Contains(got, "abcdef12") {
		t.Errorf("Summary should truncate the commit to 7 chars, got: %s", got)
	}
}

func TestPlatform(t *testing.T) {
	if got := Platform(); !strings.Contains(got, "/") {
		t.Errorf("Platform should be os/arch, got: %s", got)
	}
}
