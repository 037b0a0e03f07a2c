// Package prompt renders system prompts from the teacher profile. The
// interaction-rules block is product behavior: the model must ask
// clarifying questions before acting on underspecified requests.
package prompt

import (
	"fmt"

	"ai4edu_cli/pkg/profile"
)

const interactionRules = `
【交互规则 — 严格遵守】
1. 当用户的请求缺少关键信息时，你必须**先提出 2-4 个具体的澄清问题**，等用户回答后再执行任务。
2. 关键信息包括但不限于：知识点/章节、难度、题目数量和类型、年级、教材版本、课时安排、学生水平等。
3. 用编号列表的形式提问，让用户容易逐条回答。
4. 如果用户已经给出了足够详细的要求（包含知识点、难度、数量等），可以直接执行，无需再问。
5. 提问时语气友好专业，体现教学经验。
6. 每次最多问 4 个问题，不要一次问太多。`

// BuildTeacherPromptPrefix renders the system prompt for the given profile.
// A nil or unnamed profile yields the generic assistant preamble; either
// way the interaction-rules block is appended.
func BuildTeacherPromptPrefix(p *profile.TeacherProfile) string {
	if p == nil || p.Name == "" {
		return "你是一位经验丰富的教师助手，请协助完成教学相关任务。" + interactionRules
	}

	subjectName := p.Subject.Name()

	return fmt.Sprintf(`你是%s的%s%s的AI教学助手，专业协助%s教学。

【教学背景】
- 主要教授：%s%s
- 使用教材：%s
- 班级规模：%d个班，每班%d人
- 考试地区：%s
%s

请基于以上背景，为教学工作提供专业协助。`,
		p.School, p.Position, p.Name, subjectName,
		p.GradeLevel, subjectName,
		p.TextbookVersion,
		p.ClassCount, p.ClassSize,
		p.ExamRegion,
		interactionRules)
}

// TaskType selects a task-specific prompt template.
type TaskType string

const (
	TaskQuestionGenerator TaskType = "question-generator"
	TaskPPTGenerator      TaskType = "ppt-generator"
	TaskLessonPlanner     TaskType = "lesson-planner"
	TaskGeneral           TaskType = "general"
)

var taskRequirements = map[TaskType]string{
	TaskQuestionGenerator: `请根据用户的描述生成符合教学要求的题目，要求：
1. 题目难度符合年级水平
2. 知识点覆盖准确
3. 解答步骤详细清晰
4. 符合考试命题规范`,
	TaskPPTGenerator: `请根据用户的描述制作PPT课件，要求：
1. 内容结构清晰
2. 重点突出，易于理解
3. 适合课堂教学使用
4. 符合学科特点`,
	TaskLessonPlanner: `请根据用户的描述制作教案，要求：
1. 教学目标明确
2. 教学过程完整
3. 重点难点突出
4. 符合新课标要求`,
}

// BuildTaskPrompt wraps the profile prefix with task-specific requirements.
// Unknown task types fall back to the general template.
func BuildTaskPrompt(task TaskType, userInput string, p *profile.TeacherProfile) string {
	prefix := BuildTeacherPromptPrefix(p)

	requirements, ok := taskRequirements[task]
	if !ok {
		return fmt.Sprintf("%s\n\n【任务要求】\n%s", prefix, userInput)
	}

	return fmt.Sprintf("%s\n\n【任务要求】\n%s\n\n【用户需求】\n%s", prefix, requirements, userInput)
}
