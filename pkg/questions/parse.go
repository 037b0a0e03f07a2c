package questions

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Question is one generated exam question.
type Question struct {
	ID              string   `json:"id"`
	Content         string   `json:"content"`
	Answer          string   `json:"answer"`
	Explanation     string   `json:"explanation"`
	Difficulty      string   `json:"difficulty"`
	QuestionType    string   `json:"questionType"`
	KnowledgePoints []string `json:"knowledgePoints"`
	LatexFormulas   []string `json:"latexFormulas,omitempty"`
}

var (
	questionHeaderRe = regexp.MustCompile(`【第\d+题】`)
	formulaRe        = regexp.MustCompile(`\$([^$]+)\$`)
)

// ParseQuestions splits the model output into questions. Blocks are
// delimited by 【第N题】 headers; within a block the 题目：/解答：/答案：
// markers switch the section lines accumulate into. When nothing parses,
// the whole response becomes a single question so no content is lost.
func ParseQuestions(content string, params Params) []Question {
	var questions []Question

	for _, block := range questionHeaderRe.Split(content, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if q, ok := parseBlock(block, params); ok {
			questions = append(questions, q)
		}
	}

	if len(questions) == 0 {
		questions = append(questions, Question{
			ID:              uuid.NewString(),
			Content:         content,
			Answer:          "详见上述内容",
			Explanation:     content,
			Difficulty:      params.Difficulty,
			QuestionType:    "essay",
			KnowledgePoints: []string{params.Topic},
			LatexFormulas:   extractFormulas(content),
		})
	}

	return questions
}

func parseBlock(block string, params Params) (Question, bool) {
	var content, answer, explanation strings.Builder
	current := &content

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "---" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "题目："):
			current = &content
			content.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "题目：")))
		case strings.HasPrefix(line, "解答："):
			current = &explanation
			explanation.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "解答：")))
		case strings.HasPrefix(line, "答案："):
			current = &answer
			answer.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "答案：")))
		default:
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}

	text := strings.TrimSpace(content.String())
	if text == "" {
		return Question{}, false
	}

	q := Question{
		ID:              uuid.NewString(),
		Content:         text,
		Answer:          strings.TrimSpace(answer.String()),
		Explanation:     strings.TrimSpace(explanation.String()),
		Difficulty:      params.Difficulty,
		QuestionType:    "essay",
		KnowledgePoints: []string{params.Topic},
		LatexFormulas:   extractFormulas(text),
	}
	if q.Answer == "" {
		q.Answer = "详见解答"
	}
	if q.Explanation == "" {
		q.Explanation = text
	}
	return q, true
}

func extractFormulas(text string) []string {
	var formulas []string
	for _, m := range formulaRe.FindAllStringSubmatch(text, -1) {
		formulas = append(formulas, m[1])
	}
	return formulas
}
