// Package mock provides a deterministic llm.Client that answers from a fixed
// table of canned tutor turns. It backs the demo mode of the HTTP API and the
// terminal client when no credential is configured.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/nachoal/lingo-tutor-go/llm"
)

// Call is a synthetic tool invocation attached to a canned turn
type Call struct {
	Name      string
	Arguments string
}

// Turn is one canned assistant reply. Calls are only emitted when the
// request declares tools; otherwise Content is returned.
type Turn struct {
	Keywords []string
	Content  string
	Calls    []Call
}

// DefaultTurns is the keyword table, matched in order against the last user message
var DefaultTurns = []Turn{
	{
		Keywords: []string{"bye", "goodbye", "au revoir", "tschüss", "auf wiedersehen"},
		Content: "Au revoir ! It was a pleasure talking with you.\n\n" +
			"Assessment:\nFluency: 7/10\nVocabulary: 6/10\nGrammar: 7/10\nSpeed: 8/10\n\n" +
			"Tips for improvement:\n" +
			"1. Practice using past tense verbs in everyday situations\n" +
			"2. Try to expand your food and shopping vocabulary\n" +
			"3. Focus on gender agreement between nouns and adjectives",
	},
	{
		Keywords: []string{"start", "practice", "commencer", "anfangen"},
		Content:  "Très bien, commençons ! Imaginez que vous êtes dans une boulangerie.",
		Calls: []Call{{
			Name:      "startConversation",
			Arguments: `{"scenarioID":"bakery","language":"french","difficulty":"beginner"}`,
		}},
	},
	{
		Keywords: []string{"word", "vocab", "vocabulary", "mot", "wort"},
		Content:  "Bonne idée ! « Merci » veut dire « thank you ».",
		Calls: []Call{{
			Name:      "addToVocab",
			Arguments: `{"word":"merci","translation":"thank you","context":"Said when receiving something"}`,
		}},
	},
	{
		Keywords: []string{"hint", "help", "aide", "hilfe"},
		Content:  "Petit conseil : on dit « je voudrais » pour commander poliment.",
		Calls: []Call{{
			Name:      "addHint",
			Arguments: `{"type":"grammar","content":"Use 'je voudrais' to order politely","timing":"immediate"}`,
		}},
	},
	{
		Keywords: []string{"mistake", "correct", "correction", "erreur", "fehler"},
		Content:  "On dit « une baguette », pas « un baguette ».",
		Calls: []Call{{
			Name:      "createCorrectionDialogueBox",
			Arguments: `{"items":[{"original":"un baguette","correction":"une baguette","explanation":"Baguette is feminine"}]}`,
		}},
	},
	{
		Keywords: []string{"hello", "hi", "bonjour", "salut", "hallo", "guten tag"},
		Content:  "Bonjour ! Bienvenue à notre boulangerie. Comment puis-je vous aider aujourd'hui ?",
	},
}

// DefaultSmallTalk is cycled through when no keyword matches
var DefaultSmallTalk = []string{
	"Très bien ! Et ensuite, qu'est-ce que vous aimeriez ?",
	"Intéressant ! Pouvez-vous m'en dire un peu plus ?",
	"D'accord. Autre chose pour vous aujourd'hui ?",
}

// Client replays canned turns
type Client struct {
	mu        sync.Mutex
	turns     []Turn
	smallTalk []string
	nextTalk  int
	callSeq   int
	requests  int
}

// Option configures the mock client
type Option func(*Client)

// WithTurns replaces the keyword table
func WithTurns(turns []Turn) Option {
	return func(c *Client) {
		c.turns = turns
	}
}

// WithSmallTalk replaces the fallback replies
func WithSmallTalk(lines []string) Option {
	return func(c *Client) {
		if len(lines) > 0 {
			c.smallTalk = lines
		}
	}
}

// NewClient creates a mock client with the default table
func NewClient(opts ...Option) *Client {
	c := &Client{
		turns:     DefaultTurns,
		smallTalk: DefaultSmallTalk,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chat answers from the canned table
func (c *Client) Chat(ctx context.Context, request *llm.ChatRequest) (*llm.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests++

	msg := c.reply(request)
	finish := "stop"
	if len(msg.ToolCalls) > 0 {
		finish = "tool_calls"
	}

	return &llm.ChatResponse{
		ID:     fmt.Sprintf("mock-%d", c.requests),
		Object: "chat.completion",
		Model:  "mock",
		Choices: []llm.Choice{{
			Index:        0,
			Message:      msg,
			FinishReason: finish,
		}},
	}, nil
}

// Requests returns how many completions have been served
func (c *Client) Requests() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests
}

// Close is a no-op
func (c *Client) Close() error {
	return nil
}

func (c *Client) reply(request *llm.ChatRequest) llm.Message {
	if n := len(request.Messages); n > 0 && request.Messages[n-1].Role == llm.RoleTool {
		return llm.NewTextMessage(llm.RoleAssistant, acknowledge(request.Messages))
	}

	text := normalize(lastUserText(request.Messages))
	for _, turn := range c.turns {
		if !matches(text, turn.Keywords) {
			continue
		}
		if len(turn.Calls) > 0 && len(request.Tools) > 0 {
			return llm.Message{Role: llm.RoleAssistant, ToolCalls: c.toolCalls(turn.Calls)}
		}
		return llm.NewTextMessage(llm.RoleAssistant, turn.Content)
	}

	line := c.smallTalk[c.nextTalk%len(c.smallTalk)]
	c.nextTalk++
	return llm.NewTextMessage(llm.RoleAssistant, line)
}

func (c *Client) toolCalls(calls []Call) []llm.ToolCall {
	out := make([]llm.ToolCall, 0, len(calls))
	for _, call := range calls {
		c.callSeq++
		out = append(out, llm.ToolCall{
			ID:   fmt.Sprintf("call_mock_%d", c.callSeq),
			Type: "function",
			Function: llm.FunctionCall{
				Name:      call.Name,
				Arguments: json.RawMessage(call.Arguments),
			},
		})
	}
	return out
}

// acknowledge summarises the tool results that trail the conversation
func acknowledge(messages []llm.Message) string {
	var failures []string
	for i := len(messages) - 1; i >= 0 && messages[i].Role == llm.RoleTool; i-- {
		var result struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal([]byte(llm.GetStringValue(messages[i].Content)), &result); err != nil {
			continue
		}
		if !result.Success {
			failures = append(failures, result.Error)
		}
	}
	if len(failures) > 0 {
		return "Hmm, je n'ai pas pu faire ça : " + strings.Join(failures, "; ")
	}
	return "Parfait, c'est noté ! Continuons."
}

func lastUserText(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleUser {
			return llm.GetStringValue(messages[i].Content)
		}
	}
	return ""
}

// normalize lower-cases and pads the words of s so keywords match on word boundaries
func normalize(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return " " + strings.Join(words, " ") + " "
}

func matches(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, " "+kw+" ") {
			return true
		}
	}
	return false
}
