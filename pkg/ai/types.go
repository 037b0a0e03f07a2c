// Package ai implements the OpenAI-compatible chat-completion client,
// including the streaming SSE consumer.
package ai

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single message in a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the chat-completion request body.
type Request struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
	Stream      bool          `json:"stream"`
}

// ChunkFunc receives each streamed delta together with the running
// accumulated text.
type ChunkFunc func(delta, accumulated string)

// DoneFunc receives the full accumulated text exactly once per stream.
type DoneFunc func(fullText string)

// ErrNoStream indicates the platform could not provide a readable
// response body. Defensive; net/http always returns a non-nil body.
var ErrNoStream = errors.New("response stream unavailable")

// HTTPError is a non-2xx response from the API. Body carries the raw
// response text for user display; never retried at this layer.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Body)
}

// streamChunk is one parsed SSE frame payload.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// apiErrorBody is the best-effort shape of an error response body.
type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ExtractErrorMessage pulls a human-readable message out of an error
// response body, falling back to the raw text.
func ExtractErrorMessage(body string) string {
	var parsed apiErrorBody
	if err := json.Unmarshal([]byte(body), &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return body
}
