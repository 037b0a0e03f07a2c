// Package questions generates exam questions through a non-streaming
// completion call. Unlike the chat turn loop it retries once after a fixed
// delay; the retry policy is deliberately local to this helper.
package questions

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"ai4edu_cli/pkg/ai"
	"ai4edu_cli/pkg/config"
	"ai4edu_cli/pkg/profile"
)

const baseSystemPrompt = `你是高中数学特级教师，请根据要求生成数学题。

【输出格式】
请按以下格式输出每道题：

【第1题】
题目：（题目内容，使用LaTeX公式用$包裹）

解答：（详细解题步骤）

答案：（最终答案）

---

【第2题】
...

【要求】
1. 符合高考命题风格
2. 包含完整题目、详细解答和答案
3. 使用LaTeX格式编写数学公式（用$包裹）`

// retryDelay is the pause before the single retry. Tests shorten it.
var retryDelay = 2 * time.Second

var topicNames = map[string]string{
	"functions":         "函数",
	"derivatives":       "导数",
	"trigonometry":      "三角函数",
	"sequences":         "数列",
	"geometry":          "立体几何",
	"analytic-geometry": "解析几何",
	"probability":       "概率统计",
}

var difficultyNames = map[string]string{
	"basic":  "基础",
	"medium": "中档",
	"hard":   "困难",
}

// TopicName returns the localized topic label, falling back to the raw id.
func TopicName(topic string) string {
	if name, ok := topicNames[topic]; ok {
		return name
	}
	return topic
}

// DifficultyName returns the localized difficulty label.
func DifficultyName(difficulty string) string {
	if name, ok := difficultyNames[difficulty]; ok {
		return name
	}
	return difficulty
}

// Params describes one generation request.
type Params struct {
	Topic      string
	Difficulty string
	Count      int
}

// Generator produces exam questions via the chat-completion API.
type Generator struct {
	client  openai.Client
	model   string
	profile *profile.TeacherProfile
}

// NewGenerator builds a generator over the resolved API configuration.
// Reasoning models get a longer request timeout and a lower temperature.
func NewGenerator(cfg *config.Config, prof *profile.TeacherProfile) *Generator {
	timeout := 90 * time.Second
	if isReasoningModel(cfg.Model) {
		timeout = 5 * time.Minute
	}

	// The SDK's built-in retries are disabled; the one documented retry
	// lives in Generate.
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
		option.WithMaxRetries(0),
	)

	return &Generator{
		client:  client,
		model:   cfg.Model,
		profile: prof,
	}
}

func isReasoningModel(model string) bool {
	return strings.Contains(strings.ToLower(model), "r1")
}

// Generate requests count questions and parses the response. A failed first
// attempt is retried exactly once after retryDelay.
func (g *Generator) Generate(ctx context.Context, params Params) ([]Question, error) {
	userPrompt := fmt.Sprintf("请为%s出%d道%s难度的数学题。",
		TopicName(params.Topic), params.Count, DifficultyName(params.Difficulty))

	slog.Info("question_generate", "topic", params.Topic, "difficulty", params.Difficulty, "count", params.Count)

	content, err := g.complete(ctx, userPrompt)
	if err != nil {
		slog.Warn("question_generate_retry", "error", err)
		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		content, err = g.complete(ctx, userPrompt)
		if err != nil {
			return nil, fmt.Errorf("generate questions: %w", err)
		}
	}

	return ParseQuestions(content, params), nil
}

func (g *Generator) complete(ctx context.Context, userPrompt string) (string, error) {
	temperature := config.DefaultTemperature
	if isReasoningModel(g.model) {
		temperature = 0.2
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(g.systemPrompt()),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(config.DefaultMaxTokens)),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("completion returned no content")
	}
	return resp.Choices[0].Message.Content, nil
}

// systemPrompt appends the teacher context to the base prompt when a
// profile exists, so generated questions match the teacher's grade,
// textbook and exam region.
func (g *Generator) systemPrompt() string {
	p := g.profile
	if p == nil {
		return baseSystemPrompt
	}

	context := strings.Join([]string{
		"【教师画像】",
		"姓名：" + orUnset(p.Name),
		"学校：" + orUnset(p.School),
		"职位：" + orUnset(p.Position),
		"学科：" + p.Subject.Name(),
		"年级：" + orUnset(p.GradeLevel),
		"教材版本：" + orUnset(p.TextbookVersion),
		fmt.Sprintf("带班情况：%d个班，每班约%d人", p.ClassCount, p.ClassSize),
		"考试地区/卷型：" + orUnset(p.ExamRegion),
		"",
		"【行为要求】",
		"1. 题目风格要匹配该教师学段、教材和考区。",
		"2. 如果用户未说明关键条件（知识点、难度、题量），先给出最短的澄清问题，再生成题目。",
		"3. 不要重复追问已经在教师画像中给出的信息。",
	}, "\n")

	return baseSystemPrompt + "\n\n" + context
}

func orUnset(s string) string {
	if strings.TrimSpace(s) == "" {
		return "未填写"
	}
	return s
}

// TestConnection probes the /models endpoint with the given credentials.
// A nil error means the endpoint accepted the key.
func TestConnection(ctx context.Context, baseURL, apiKey string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(baseURL, "/")+"/models", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("connection test failed (%d): %s", resp.StatusCode, ai.ExtractErrorMessage(string(body)))
	}
	return nil
}
