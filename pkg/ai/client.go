package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultTimeout = 5 * time.Minute

// Client talks to an OpenAI-compatible chat-completion endpoint.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a client for the given endpoint.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// SetTimeout configures the HTTP client timeout. A zero timeout disables
// it, leaving cancellation to the caller's context.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// ChatCompletion sends a non-streaming request and returns the first
// choice's message content.
func (c *Client) ChatCompletion(ctx context.Context, req Request) (string, error) {
	req.Stream = false

	resp, err := c.post(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed completionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// ChatCompletionStream sends a streaming request, invoking onChunk for
// every delta and onDone exactly once with the full text. It returns the
// accumulated text; on cancellation the error satisfies
// errors.Is(err, context.Canceled) and the partial text is still returned.
func (c *Client) ChatCompletionStream(ctx context.Context, req Request, onChunk ChunkFunc, onDone DoneFunc) (string, error) {
	req.Stream = true

	slog.Info("stream_start", "model", req.Model, "message_count", len(req.Messages))

	resp, err := c.post(ctx, req)
	if err != nil {
		return "", err
	}
	if resp.Body == nil {
		return "", ErrNoStream
	}
	defer resp.Body.Close()

	parser := newStreamParser(onChunk, onDone)
	buf := make([]byte, 4096)

	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if parser.Feed(buf[:n]) {
				slog.Info("stream_done", "chars", len(parser.Accumulated()))
				return parser.Accumulated(), nil
			}
		}
		if err == io.EOF {
			// Upstream closed without a [DONE] sentinel.
			parser.Finish()
			slog.Info("stream_done", "chars", len(parser.Accumulated()), "sentinel", false)
			return parser.Accumulated(), nil
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				slog.Info("stream_cancelled", "chars", len(parser.Accumulated()))
				return parser.Accumulated(), ctxErr
			}
			slog.Error("stream_read_error", "error", err)
			return parser.Accumulated(), fmt.Errorf("read stream: %w", err)
		}
	}
}

func (c *Client) post(ctx context.Context, req Request) (*http.Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("send request: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		slog.Error("api_error_status", "status", resp.StatusCode, "body_len", len(body))
		return nil, &HTTPError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	return resp, nil
}
