package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nachoal/lingo-tutor-go/llm"
)

// Transcript is a saved tutor chat
type Transcript struct {
	ID        string    `json:"id"`
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `json:"title"`
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
}

// Message is a stored chat turn
type Message struct {
	Role       string     `json:"role"`
	Content    *string    `json:"content,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a stored tool invocation; arguments are kept as the raw JSON text
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewTranscript starts an empty transcript
func NewTranscript(model string) *Transcript {
	now := time.Now()
	return &Transcript{
		ID:        newID(now),
		Version:   "1.0",
		CreatedAt: now,
		UpdatedAt: now,
		Model:     model,
	}
}

// SaveTranscript writes t and marks it as the most recent transcript
func (s *FileStore) SaveTranscript(t *Transcript) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.UpdatedAt = time.Now()
	if t.Title == "" {
		t.Title = t.generateTitle()
	}

	if err := writeJSON(s.transcriptPath(t.ID), t); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}

	meta, err := s.loadMeta()
	if err != nil {
		return fmt.Errorf("failed to load meta: %w", err)
	}
	meta.LastTranscript = t.ID
	return s.saveMeta(meta)
}

// LoadTranscript reads a transcript by ID
func (s *FileStore) LoadTranscript(id string) (*Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t Transcript
	if err := readJSON(s.transcriptPath(id), &t); err != nil {
		return nil, fmt.Errorf("failed to read transcript %s: %w", id, err)
	}
	return &t, nil
}

// LastTranscript returns the most recently saved transcript
func (s *FileStore) LastTranscript() (*Transcript, error) {
	s.mu.RLock()
	meta, err := s.loadMeta()
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to load meta: %w", err)
	}
	if meta.LastTranscript == "" {
		return nil, ErrNotFound
	}
	return s.LoadTranscript(meta.LastTranscript)
}

// FromLLMMessages converts chat turns for storage. System turns are skipped.
func FromLLMMessages(msgs []llm.Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Role == llm.RoleSystem {
			continue
		}
		m := Message{
			Role:       string(msg.Role),
			Content:    msg.Content,
			Name:       msg.Name,
			ToolCallID: msg.ToolCallID,
		}
		for _, tc := range msg.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: string(tc.Function.Arguments),
			})
		}
		out = append(out, m)
	}
	return out
}

// ToLLMMessages converts stored turns back into chat turns
func ToLLMMessages(msgs []Message) []llm.Message {
	out := make([]llm.Message, len(msgs))
	for i, msg := range msgs {
		out[i] = llm.Message{
			Role:       llm.Role(msg.Role),
			Content:    msg.Content,
			Name:       msg.Name,
			ToolCallID: msg.ToolCallID,
		}
		for _, tc := range msg.ToolCalls {
			out[i].ToolCalls = append(out[i].ToolCalls, llm.ToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: llm.FunctionCall{
					Name:      tc.Name,
					Arguments: json.RawMessage(tc.Arguments),
				},
			})
		}
	}
	return out
}

func (t *Transcript) generateTitle() string {
	for _, msg := range t.Messages {
		if msg.Role == string(llm.RoleUser) && msg.Content != nil {
			content := *msg.Content
			if idx := strings.IndexByte(content, '\n'); idx != -1 {
				content = content[:idx]
			}
			if r := []rune(content); len(r) > 50 {
				content = string(r[:47]) + "..."
			}
			return content
		}
	}
	return fmt.Sprintf("Session %s", t.CreatedAt.Format("Jan 02 15:04"))
}
