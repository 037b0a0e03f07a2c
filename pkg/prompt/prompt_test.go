package prompt

import (
	"strings"
	"testing"

	"ai4edu_cli/pkg/profile"
)

func TestBuildTeacherPromptPrefix_NilProfile(t *testing.T) {
	got := BuildTeacherPromptPrefix(nil)

	if !strings.Contains(got, "经验丰富的教师助手") {
		t.Error("Expected generic preamble for nil profile")
	}
	if !strings.Contains(got, "交互规则") {
		t.Error("Expected interaction rules block")
	}
	if !strings.Contains(got, "2-4 个具体的澄清问题") {
		t.Error("Expected clarifying-question rule")
	}
}

func TestBuildTeacherPromptPrefix_UnnamedProfile(t *testing.T) {
	p := &profile.TeacherProfile{School: "实验中学"}
	got := BuildTeacherPromptPrefix(p)

	if !strings.Contains(got, "经验丰富的教师助手") {
		t.Error("Expected generic preamble when name is empty")
	}
	if strings.Contains(got, "实验中学") {
		t.Error("Unnamed profile must not be interpolated")
	}
}

func TestBuildTeacherPromptPrefix_FullProfile(t *testing.T) {
	p := &profile.TeacherProfile{
		Name:            "李明",
		School:          "实验中学",
		Position:        "数学教师",
		Subject:         profile.SubjectPhysics,
		GradeLevel:      "高二",
		ClassSize:       50,
		ClassCount:      3,
		TextbookVersion: "人教版",
		ExamRegion:      "全国甲卷",
	}
	got := BuildTeacherPromptPrefix(p)

	for _, want := range []string{
		"实验中学", "数学教师李明", "物理", "高二", "人教版",
		"3个班，每班50人", "全国甲卷", "交互规则",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}

func TestBuildTaskPrompt(t *testing.T) {
	got := BuildTaskPrompt(TaskQuestionGenerator, "出5道导数题", nil)
	if !strings.Contains(got, "命题规范") {
		t.Error("Expected question-generator requirements")
	}
	if !strings.Contains(got, "出5道导数题") {
		t.Error("Expected user input to be embedded")
	}
	if !strings.Contains(got, "交互规则") {
		t.Error("Expected prefix to be embedded")
	}
}

func TestBuildTaskPrompt_UnknownTaskFallsBack(t *testing.T) {
	got := BuildTaskPrompt(TaskType("mystery"), "帮我排课", nil)
	if !strings.Contains(got, "【任务要求】\n帮我排课") {
		t.Error("Expected general template for unknown task type")
	}
}
