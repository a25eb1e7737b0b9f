package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Client defines the interface for chat completion providers
type Client interface {
	// Chat sends a chat request and returns the response
	Chat(ctx context.Context, request *ChatRequest) (*ChatResponse, error)

	// Close cleans up any resources
	Close() error
}

// ErrInvalidCredential is matched by errors caused by a rejected API key
var ErrInvalidCredential = errors.New("invalid API key")

// APIError is a non-2xx answer from a completion provider
type APIError struct {
	Provider   string
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error: status %d", e.Provider, e.StatusCode)
}

// InvalidCredential reports whether the provider rejected the credential
func (e *APIError) InvalidCredential() bool {
	return e.StatusCode == http.StatusUnauthorized || e.Code == "invalid_api_key"
}

// Is lets errors.Is(err, ErrInvalidCredential) see through an APIError
func (e *APIError) Is(target error) bool {
	return target == ErrInvalidCredential && e.InvalidCredential()
}

// FirstMessage returns the first choice's message
func (r *ChatResponse) FirstMessage() (Message, error) {
	if r == nil || len(r.Choices) == 0 {
		return Message{}, fmt.Errorf("no response from LLM")
	}
	return r.Choices[0].Message, nil
}
