package mock

import (
	"context"
	"strings"
	"testing"

	"github.com/nachoal/lingo-tutor-go/llm"
)

func userTurn(text string) []llm.Message {
	return []llm.Message{llm.NewTextMessage(llm.RoleUser, text)}
}

func TestChat_KeywordWithToolsEmitsToolCall(t *testing.T) {
	c := NewClient()
	resp, err := c.Chat(context.Background(), &llm.ChatRequest{
		Messages: userTurn("Can you save this word for me?"),
		Tools:    []map[string]interface{}{{"type": "function"}},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	msg, _ := resp.FirstMessage()
	if len(msg.ToolCalls) != 1 || msg.ToolCalls[0].Function.Name != "addToVocab" {
		t.Fatalf("expected addToVocab call, got %+v", msg.ToolCalls)
	}
	if resp.Choices[0].FinishReason != "tool_calls" {
		t.Fatalf("expected finish reason tool_calls, got %s", resp.Choices[0].FinishReason)
	}
	if msg.ToolCalls[0].ID == "" {
		t.Fatalf("tool call must carry an id")
	}
}

func TestChat_KeywordWithoutToolsReturnsText(t *testing.T) {
	c := NewClient()
	resp, _ := c.Chat(context.Background(), &llm.ChatRequest{Messages: userTurn("save this word")})

	msg, _ := resp.FirstMessage()
	if len(msg.ToolCalls) != 0 {
		t.Fatalf("no tool calls expected without tools, got %+v", msg.ToolCalls)
	}
	if !strings.Contains(llm.GetStringValue(msg.Content), "Merci") {
		t.Fatalf("unexpected content %q", llm.GetStringValue(msg.Content))
	}
}

func TestChat_KeywordsMatchWholeWords(t *testing.T) {
	c := NewClient()
	// "this" must not match the "hi" greeting
	resp, _ := c.Chat(context.Background(), &llm.ChatRequest{Messages: userTurn("this is nice")})
	msg, _ := resp.FirstMessage()
	if llm.GetStringValue(msg.Content) != DefaultSmallTalk[0] {
		t.Fatalf("expected first small talk line, got %q", llm.GetStringValue(msg.Content))
	}
}

func TestChat_SmallTalkCycles(t *testing.T) {
	c := NewClient(WithSmallTalk([]string{"a", "b"}))
	var got []string
	for i := 0; i < 3; i++ {
		resp, _ := c.Chat(context.Background(), &llm.ChatRequest{Messages: userTurn("zzz")})
		msg, _ := resp.FirstMessage()
		got = append(got, llm.GetStringValue(msg.Content))
	}
	if strings.Join(got, ",") != "a,b,a" {
		t.Fatalf("unexpected cycle %v", got)
	}
	if c.Requests() != 3 {
		t.Fatalf("expected 3 requests, got %d", c.Requests())
	}
}

func TestChat_AcknowledgesToolResults(t *testing.T) {
	c := NewClient()
	messages := append(userTurn("word"),
		llm.Message{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{{ID: "1", Type: "function"}}},
		llm.Message{Role: llm.RoleTool, ToolCallID: "1", Content: llm.StringPtr(`{"success":false,"error":"No active conversation to add hint to"}`)},
	)
	resp, _ := c.Chat(context.Background(), &llm.ChatRequest{Messages: messages})
	msg, _ := resp.FirstMessage()
	if !strings.Contains(llm.GetStringValue(msg.Content), "No active conversation") {
		t.Fatalf("expected failure to be echoed, got %q", llm.GetStringValue(msg.Content))
	}
}

func TestChat_GoodbyeCarriesAssessment(t *testing.T) {
	c := NewClient()
	resp, _ := c.Chat(context.Background(), &llm.ChatRequest{Messages: userTurn("Merci, au revoir!")})
	msg, _ := resp.FirstMessage()
	if !strings.Contains(llm.GetStringValue(msg.Content), "Fluency: 7/10") {
		t.Fatalf("expected assessment text, got %q", llm.GetStringValue(msg.Content))
	}
}
