package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/nachoal/lingo-tutor-go/llm"
)

func TestConversation_RecordsTurns(t *testing.T) {
	client := &scriptedClient{responses: []*llm.ChatResponse{textResponse("Bonjour !"), textResponse("Très bien.")}}
	c := NewConversation(New(client, nil), "sys", false)

	if _, err := c.Send(context.Background(), "Salut"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := c.Send(context.Background(), "Ça va ?"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	msgs := c.Messages()
	if len(msgs) != 4 {
		t.Fatalf("expected 4 transcript messages, got %d", len(msgs))
	}
	if len(client.requests[1].Messages) != 4 {
		t.Fatalf("second exchange should send system + 3 prior turns, got %d", len(client.requests[1].Messages))
	}
}

func TestConversation_RollsBackOnFailure(t *testing.T) {
	client := &scriptedClient{err: errors.New("timeout")}
	c := NewConversation(New(client, nil), "sys", false)

	if _, err := c.Send(context.Background(), "Salut"); err == nil {
		t.Fatalf("expected error")
	}
	if len(c.Messages()) != 0 {
		t.Fatalf("transcript should be unchanged after a failed exchange")
	}
}

func TestConversation_Restore(t *testing.T) {
	client := &scriptedClient{responses: []*llm.ChatResponse{textResponse("Oui.")}}
	c := NewConversation(New(client, nil), "sys", false)
	c.Restore([]llm.Message{
		llm.NewTextMessage(llm.RoleUser, "Bonjour"),
		llm.NewTextMessage(llm.RoleAssistant, "Bonjour !"),
	})

	if _, err := c.Send(context.Background(), "Encore"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := len(client.requests[0].Messages); got != 4 {
		t.Fatalf("expected system + 2 restored + 1 new turn, got %d", got)
	}
}
