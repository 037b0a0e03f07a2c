package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"

	"ai4edu_cli/pkg/ai"
	"ai4edu_cli/pkg/chat"
	"ai4edu_cli/pkg/config"
	"ai4edu_cli/pkg/export"
	"ai4edu_cli/pkg/logging"
	"ai4edu_cli/pkg/profile"
	"ai4edu_cli/pkg/prompt"
	"ai4edu_cli/pkg/questions"
	"ai4edu_cli/pkg/storage"
	"ai4edu_cli/pkg/ui"
	"ai4edu_cli/pkg/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	storePath := flag.String("store", "", "path to the storage file (default ~/.ai4edu_cli/storage.json)")

	genTopic := flag.String("questions", "", "generate questions for the given topic (functions, derivatives, ...) instead of starting the UI")
	difficulty := flag.String("difficulty", "medium", "question difficulty for -questions (basic, medium, hard)")
	count := flag.Int("count", 3, "number of questions for -questions")
	task := flag.String("task", "", "run a one-shot task (question-generator, ppt-generator, lesson-planner) with -input")
	input := flag.String("input", "", "task description for -task")
	outPath := flag.String("out", "", "write the -questions or -task result to a Word-compatible .doc file")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ai4edu_cli %s %s\n", version.Summary(), version.Platform())
		return
	}

	if _, err := logging.Init(logging.Options{Level: *logLevel}); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	slog.Info("app_start", "version", version.Summary())

	path := *storePath
	if path == "" {
		path = storage.DefaultPath()
	}
	kv, err := storage.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}

	if *genTopic != "" {
		if err := runQuestions(kv, *genTopic, *difficulty, *count, *outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *task != "" {
		if err := runTask(kv, prompt.TaskType(*task), *input, *outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	store := chat.NewStore(kv)
	store.LoadConversations()

	p := tea.NewProgram(ui.NewModel(kv, store))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running UI: %v\n", err)
		os.Exit(1)
	}

	slog.Info("app_exit")
}

// runQuestions generates an exam question set and prints it, optionally
// writing a Word-compatible file alongside.
func runQuestions(kv *storage.Store, topic, difficulty string, count int, outPath string) error {
	cfg, err := config.Resolve(kv)
	if err != nil {
		return err
	}

	gen := questions.NewGenerator(cfg, profile.Load(kv))
	qs, err := gen.Generate(context.Background(), questions.Params{
		Topic:      topic,
		Difficulty: difficulty,
		Count:      count,
	})
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s练习（%s难度）", questions.TopicName(topic), questions.DifficultyName(difficulty))
	var sb strings.Builder
	for i, q := range qs {
		fmt.Fprintf(&sb, "【第%d题】\n题目：%s\n\n解答：%s\n\n答案：%s\n\n", i+1, q.Content, q.Explanation, q.Answer)
	}

	fmt.Println(title)
	fmt.Println()
	fmt.Print(sb.String())

	if outPath != "" {
		if err := export.WriteWord(title, sb.String(), outPath); err != nil {
			return err
		}
		fmt.Printf("已导出 %s\n", outPath)
	}
	return nil
}

// runTask performs a one-shot completion with a task-specific prompt.
func runTask(kv *storage.Store, task prompt.TaskType, input, outPath string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("-task requires -input")
	}

	cfg, err := config.Resolve(kv)
	if err != nil {
		return err
	}

	client := ai.NewClient(cfg.BaseURL, cfg.APIKey)
	content, err := client.ChatCompletion(context.Background(), ai.Request{
		Model: cfg.Model,
		Messages: []ai.ChatMessage{
			{Role: ai.RoleSystem, Content: prompt.BuildTaskPrompt(task, input, profile.Load(kv))},
			{Role: ai.RoleUser, Content: input},
		},
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		TopP:        cfg.TopP,
	})
	if err != nil {
		return err
	}

	fmt.Println(content)

	if outPath != "" {
		if err := export.WriteWord(string(task), content, outPath); err != nil {
			return err
		}
		fmt.Printf("已导出 %s\n", outPath)
	}
	return nil
}
