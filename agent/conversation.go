package agent

import (
	"context"
	"sync"

	"github.com/nachoal/lingo-tutor-go/llm"
)

// Conversation keeps the running transcript of an interactive session and
// sends it through an Orchestrator one user turn at a time. A failed
// exchange leaves the transcript as it was.
type Conversation struct {
	orchestrator *Orchestrator
	systemPrompt string
	toolsEnabled bool

	mu       sync.RWMutex
	messages []llm.Message
}

// NewConversation creates an empty conversation
func NewConversation(o *Orchestrator, systemPrompt string, toolsEnabled bool) *Conversation {
	return &Conversation{
		orchestrator: o,
		systemPrompt: systemPrompt,
		toolsEnabled: toolsEnabled,
	}
}

// Send appends the user turn, runs an exchange and records the final reply
func (c *Conversation) Send(ctx context.Context, text string) (*Reply, error) {
	c.mu.RLock()
	prior := append([]llm.Message{}, c.messages...)
	prompt := c.systemPrompt
	c.mu.RUnlock()

	prior = append(prior, llm.NewTextMessage(llm.RoleUser, text))

	reply, err := c.orchestrator.Converse(ctx, prior, prompt, c.toolsEnabled)
	if err != nil {
		return nil, err
	}

	final := reply.Message
	// Unexecuted tool calls would leave the transcript unanswerable.
	final.ToolCalls = nil
	if final.Content == nil {
		final.Content = llm.StringPtr("")
	}

	c.mu.Lock()
	c.messages = append(prior, final)
	c.mu.Unlock()

	return reply, nil
}

// Messages returns a copy of the transcript
func (c *Conversation) Messages() []llm.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]llm.Message{}, c.messages...)
}

// SetSystemPrompt replaces the system prompt for later exchanges
func (c *Conversation) SetSystemPrompt(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.systemPrompt = prompt
}

// Clear empties the transcript
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}

// Restore replaces the transcript, e.g. with a saved one being resumed
func (c *Conversation) Restore(msgs []llm.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append([]llm.Message{}, msgs...)
}
