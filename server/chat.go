package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nachoal/lingo-tutor-go/llm"
	"github.com/nachoal/lingo-tutor-go/prompt"
	"github.com/nachoal/lingo-tutor-go/vault"
)

// scenarioMaxTokens keeps role-play replies short
const scenarioMaxTokens = 500

type scenarioChatRequest struct {
	Messages    []llm.Message `json:"messages"`
	Language    string        `json:"language"`
	Scenario    string        `json:"scenario"`
	EnableTools bool          `json:"enableTools,omitempty"`
}

func (s *Server) handleScenarioChat(w http.ResponseWriter, r *http.Request) {
	var req scenarioChatRequest
	if !decodeBody(w, r, &req) {
		return
	}

	client, err := s.chatClient()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to process your request", err)
		return
	}

	systemPrompt := prompt.ForScenario(s.opts.Catalog, req.Scenario, req.Language)
	reply, err := s.orchestrator(client, scenarioMaxTokens).Converse(r.Context(), req.Messages, systemPrompt, req.EnableTools)
	if err != nil {
		respondAgentError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Message: reply.Message, ToolResults: reply.ToolResults})
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Catalog.List())
}

func (s *Server) handleSetupEnv(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"apiKey"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		respondWithError(w, http.StatusBadRequest, "API key is required", nil)
		return
	}

	s.SetAPIKey(key)
	if s.opts.Vault != nil && !s.mockMode(key) {
		if err := s.opts.Vault.Set(vault.APIKeyName, key); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to store API key", err)
			return
		}
	}

	client, err := s.liveClient()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to verify API key. Please try again.", err)
		return
	}
	if err := s.verify(r.Context(), client); err != nil {
		if errors.Is(err, llm.ErrInvalidCredential) {
			respondInvalidKey(w, "Invalid API key. Please check your OpenAI API key and try again.", err)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to verify API key. Please try again.", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "API key configured successfully",
	})
}

// verify makes the smallest possible completion request with client
func (s *Server) verify(ctx context.Context, client llm.Client) error {
	_, err := client.Chat(ctx, &llm.ChatRequest{
		Model:     s.opts.Model,
		Messages:  []llm.Message{llm.NewTextMessage(llm.RoleUser, "Hello")},
		MaxTokens: 5,
	})
	return err
}
