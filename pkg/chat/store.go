// Package chat owns the conversation state: message mutation, persistence
// and the streaming turn lifecycle. All mutation funnels through Store
// methods; the transport runs in the caller's goroutine and reports back
// through callbacks applied under the store lock, in arrival order.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ai4edu_cli/pkg/ai"
	"ai4edu_cli/pkg/config"
	"ai4edu_cli/pkg/profile"
	"ai4edu_cli/pkg/prompt"
	"ai4edu_cli/pkg/storage"
)

// Streamer is the slice of the transport the store depends on. Satisfied
// by *ai.Client; tests substitute a scripted fake.
type Streamer interface {
	ChatCompletionStream(ctx context.Context, req ai.Request, onChunk ai.ChunkFunc, onDone ai.DoneFunc) (string, error)
}

// EventKind classifies store events published to the UI.
type EventKind int

const (
	EventChunk EventKind = iota
	EventDone
	EventCancelled
	EventError
)

// Event notifies the UI that store state changed.
type Event struct {
	Kind           EventKind
	ConversationID string
}

// Store is the single mutable state container for conversations.
type Store struct {
	mu sync.Mutex

	kv             *storage.Store
	conversations  []*Conversation
	activeID       string
	streaming      bool
	lastError      string
	cancel         context.CancelFunc
	events         chan Event
	newStreamer    func(cfg *config.Config) Streamer
	resolveConfig  func() (*config.Config, error)
	loadProfile    func() *profile.TeacherProfile
}

// NewStore creates a store over the given key-value storage.
func NewStore(kv *storage.Store) *Store {
	return &Store{
		kv:     kv,
		events: make(chan Event, 32),
		newStreamer: func(cfg *config.Config) Streamer {
			return ai.NewClient(cfg.BaseURL, cfg.APIKey)
		},
		resolveConfig: func() (*config.Config, error) { return config.Resolve(kv) },
		loadProfile:   func() *profile.TeacherProfile { return profile.Load(kv) },
	}
}

// Events returns the channel the UI listens on for repaint triggers.
func (s *Store) Events() <-chan Event { return s.events }

// LoadConversations hydrates the list from storage. An absent or corrupt
// record yields an empty list.
func (s *Store) LoadConversations() {
	var convs []*Conversation
	if ok, err := s.kv.Get(storage.KeyConversations, &convs); !ok || err != nil {
		if err != nil {
			slog.Warn("conversations_load_failed", "error", err)
		}
		convs = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = convs
}

// Conversations returns a snapshot of all conversations, newest first.
func (s *Store) Conversations() []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		out = append(out, s.copyConversationLocked(c))
	}
	return out
}

// ActiveConversation returns a snapshot of the active conversation.
func (s *Store) ActiveConversation() (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findLocked(s.activeID)
	if c == nil {
		return Conversation{}, false
	}
	return s.copyConversationLocked(c), true
}

// ActiveID returns the active conversation id, "" when none.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// IsStreaming reports whether a turn is in flight.
func (s *Store) IsStreaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}

// LastError returns the user-facing error from the last failed turn.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// ClearError clears the store-level error.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
}

// CreateConversation prepends a new conversation titled from the initial
// prompt, makes it active and persists. Returns the new id.
func (s *Store) CreateConversation(initialPrompt string) string {
	model := config.DefaultModel
	if cfg, err := s.resolveConfig(); err == nil {
		model = cfg.Model
	}

	now := time.Now().UnixMilli()
	conv := &Conversation{
		ID:        uuid.NewString(),
		Title:     generateTitle(initialPrompt),
		CreatedAt: now,
		UpdatedAt: now,
		Model:     model,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = append([]*Conversation{conv}, s.conversations...)
	s.activeID = conv.ID
	s.persistLocked()
	return conv.ID
}

// DeleteConversation removes the conversation and persists. Deleting the
// active conversation clears the active pointer.
func (s *Store) DeleteConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.conversations[:0]
	for _, c := range s.conversations {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.conversations = kept
	if s.activeID == id {
		s.activeID = ""
	}
	s.persistLocked()
}

// SetActiveConversation selects the conversation and clears any error.
func (s *Store) SetActiveConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = id
	s.lastError = ""
}

// StopStreaming cancels the in-flight turn; no-op when idle.
func (s *Store) StopStreaming() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// SendMessage runs one complete chat turn: it appends the user message and
// the streaming assistant placeholder, issues the request and applies
// every delta to the placeholder until the turn completes, is cancelled or
// fails. It blocks until the turn is over and is meant to be called from
// a background goroutine (a bubbletea command). Empty input and
// double-sends while a turn is streaming are no-ops.
func (s *Store) SendMessage(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	if s.streaming {
		s.mu.Unlock()
		return nil
	}
	conv := s.findLocked(s.activeID)
	if conv == nil {
		s.mu.Unlock()
		return nil
	}
	convID := conv.ID

	// The turn is claimed while still holding the lock so a concurrent
	// send can never pass the check above, even while the config is being
	// resolved below.
	s.streaming = true

	userMsg := newMessage(RoleUser, text)
	assistantMsg := newMessage(RoleAssistant, "")
	assistantMsg.IsStreaming = true
	assistantID := assistantMsg.ID

	if len(conv.Messages) == 0 {
		conv.Title = generateTitle(text)
	}
	conv.Messages = append(conv.Messages, userMsg, assistantMsg)
	conv.UpdatedAt = time.Now().UnixMilli()
	s.persistLocked()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.streaming = false
		s.cancel = nil
		s.mu.Unlock()
	}()

	// Config is resolved per turn, never cached. A missing key aborts
	// before any network I/O.
	cfg, err := s.resolveConfig()
	if err != nil {
		s.failTurn(convID, assistantID, err)
		return err
	}

	s.mu.Lock()
	conv = s.findLocked(convID)
	if conv == nil {
		s.mu.Unlock()
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.lastError = ""
	s.cancel = cancel

	outgoing := s.buildOutgoingLocked(conv)
	streamer := s.newStreamer(cfg)
	s.mu.Unlock()

	defer cancel()

	req := ai.Request{
		Model:       cfg.Model,
		Messages:    outgoing,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		TopP:        cfg.TopP,
	}

	slog.Info("chat_send", "conversation", convID, "history", len(outgoing))

	_, err = streamer.ChatCompletionStream(ctx, req,
		func(delta, accumulated string) {
			s.applyChunk(convID, assistantID, accumulated)
		},
		func(fullText string) {
			s.completeTurn(convID, assistantID, fullText)
		},
	)

	switch {
	case err == nil:
		// onDone already finalized the message.
		return nil

	case errors.Is(err, context.Canceled):
		s.cancelTurn(convID, assistantID)
		return nil

	default:
		s.failTurn(convID, assistantID, err)
		return err
	}
}

// applyChunk overwrites the placeholder content with the accumulated text.
// A deleted conversation or missing placeholder makes this a no-op.
func (s *Store) applyChunk(convID, msgID, accumulated string) {
	s.mu.Lock()
	conv := s.findLocked(convID)
	if conv == nil {
		s.mu.Unlock()
		return
	}
	msg := findMessage(conv, msgID)
	if msg == nil || !msg.IsStreaming {
		s.mu.Unlock()
		return
	}
	msg.Content = accumulated
	conv.UpdatedAt = time.Now().UnixMilli()
	s.persistLocked()
	s.mu.Unlock()

	s.publishKind(EventChunk, convID)
}

// completeTurn freezes the placeholder with the final text.
func (s *Store) completeTurn(convID, msgID, fullText string) {
	s.mu.Lock()
	conv := s.findLocked(convID)
	if conv == nil {
		s.mu.Unlock()
		return
	}
	msg := findMessage(conv, msgID)
	if msg == nil {
		s.mu.Unlock()
		return
	}
	msg.Content = fullText
	msg.IsStreaming = false
	conv.UpdatedAt = time.Now().UnixMilli()
	s.persistLocked()
	s.mu.Unlock()

	s.publishKind(EventDone, convID)
}

// cancelTurn freezes the placeholder keeping whatever partial content
// accumulated. Cancellation is not an error.
func (s *Store) cancelTurn(convID, msgID string) {
	s.mu.Lock()
	if conv := s.findLocked(convID); conv != nil {
		if msg := findMessage(conv, msgID); msg != nil {
			msg.IsStreaming = false
		}
		s.persistLocked()
	}
	s.mu.Unlock()

	s.publishKind(EventCancelled, convID)
}

// failTurn discards a never-filled placeholder and records a user-facing
// error message.
func (s *Store) failTurn(convID, msgID string, err error) {
	s.mu.Lock()
	if conv := s.findLocked(convID); conv != nil {
		for i, m := range conv.Messages {
			if m.ID == msgID && m.Content == "" {
				conv.Messages = append(conv.Messages[:i], conv.Messages[i+1:]...)
				break
			}
		}
		if msg := findMessage(conv, msgID); msg != nil {
			msg.IsStreaming = false
		}
		s.persistLocked()
	}
	s.lastError = userErrorMessage(err)
	s.mu.Unlock()

	slog.Error("chat_turn_failed", "conversation", convID, "error", err)
	s.publishKind(EventError, convID)
}

// buildOutgoingLocked assembles the request messages: the system prompt
// built from the teacher profile, then the conversation history minus
// system messages and empty streaming placeholders.
func (s *Store) buildOutgoingLocked(conv *Conversation) []ai.ChatMessage {
	system := prompt.BuildTeacherPromptPrefix(s.loadProfile())

	out := make([]ai.ChatMessage, 0, len(conv.Messages)+1)
	out = append(out, ai.ChatMessage{Role: ai.RoleSystem, Content: system})
	for _, m := range conv.Messages {
		if m.Role == RoleSystem {
			continue
		}
		if m.Role == RoleAssistant && m.Content == "" && m.IsStreaming {
			continue
		}
		out = append(out, ai.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

func userErrorMessage(err error) string {
	var httpErr *ai.HTTPError
	switch {
	case errors.Is(err, config.ErrNoAPIKey):
		return "未配置 API Key，请在设置中配置 AI 服务"
	case errors.As(err, &httpErr):
		return fmt.Sprintf("API 请求失败 (%d): %s", httpErr.Status, ai.ExtractErrorMessage(httpErr.Body))
	case errors.Is(err, ai.ErrNoStream):
		return "无法获取响应流"
	default:
		return "请求失败，请检查网络和API配置"
	}
}

func (s *Store) persistLocked() {
	if err := s.kv.Set(storage.KeyConversations, s.conversations); err != nil {
		slog.Error("conversations_persist_failed", "error", err)
	}
}

func (s *Store) publishKind(kind EventKind, convID string) {
	s.publish(Event{Kind: kind, ConversationID: convID})
}

// publish never blocks; the UI repaints on the next event it does see.
func (s *Store) publish(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}

func (s *Store) findLocked(id string) *Conversation {
	for _, c := range s.conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *Store) copyConversationLocked(c *Conversation) Conversation {
	out := *c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return out
}

func findMessage(conv *Conversation, id string) *Message {
	for i := range conv.Messages {
		if conv.Messages[i].ID == id {
			return &conv.Messages[i]
		}
	}
	return nil
}
