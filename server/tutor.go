package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/nachoal/lingo-tutor-go/llm"
	"github.com/nachoal/lingo-tutor-go/prompt"
	"github.com/nachoal/lingo-tutor-go/tools"
)

type tutorChatRequest struct {
	Messages     []llm.Message `json:"messages"`
	CustomPrompt string        `json:"customPrompt,omitempty"`
}

type chatResponse struct {
	Message     llm.Message        `json:"message"`
	ToolResults []tools.ToolResult `json:"toolResults,omitempty"`
}

func (s *Server) handleTutorChat(w http.ResponseWriter, r *http.Request) {
	var req tutorChatRequest
	if !decodeBody(w, r, &req) {
		return
	}

	client, err := s.liveClient()
	if err != nil {
		if errors.Is(err, errNoCredential) {
			respondWithError(w, http.StatusBadRequest, errNoCredential.Error(), nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to process your request", err)
		return
	}

	systemPrompt := req.CustomPrompt
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = s.TutorPrompt()
	}

	reply, err := s.orchestrator(client, 0).Converse(r.Context(), req.Messages, systemPrompt, true)
	if err != nil {
		respondAgentError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Message: reply.Message, ToolResults: reply.ToolResults})
}

func (s *Server) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"prompt": s.TutorPrompt()})
}

func (s *Server) handleSetPrompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		respondWithError(w, http.StatusBadRequest, "Prompt is required", nil)
		return
	}

	s.SetTutorPrompt(req.Prompt)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Tutor prompt updated successfully",
	})
}

func (s *Server) handleTutorConfig(w http.ResponseWriter, r *http.Request) {
	var cfg prompt.TutorConfig
	if !decodeBody(w, r, &cfg) {
		return
	}

	p, err := prompt.Compose(cfg)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	s.SetTutorPrompt(p)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"config":  cfg.Normalize(),
		"prompt":  p,
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Store.Snapshot())
}
