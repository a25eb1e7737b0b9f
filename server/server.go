// Package server exposes the tutor, scenario chat and learner records
// over HTTP.
package server

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/nachoal/lingo-tutor-go/agent"
	"github.com/nachoal/lingo-tutor-go/history"
	"github.com/nachoal/lingo-tutor-go/llm"
	"github.com/nachoal/lingo-tutor-go/llm/mock"
	"github.com/nachoal/lingo-tutor-go/prompt"
	"github.com/nachoal/lingo-tutor-go/scenario"
	"github.com/nachoal/lingo-tutor-go/session"
	"github.com/nachoal/lingo-tutor-go/tools/registry"
	"github.com/nachoal/lingo-tutor-go/vault"
)

// ClientFactory builds a completion client for an API key
type ClientFactory func(apiKey string) (llm.Client, error)

// Options wires the server's collaborators. Store, Registry and
// NewClient are required.
type Options struct {
	Store    *session.Store
	Registry *registry.Registry
	Catalog  *scenario.Catalog
	History  history.Store
	Vault    *vault.Vault

	NewClient ClientFactory
	Mock      llm.Client

	// APIKey is the credential at startup, possibly empty
	APIKey string
	// SentinelKey is a placeholder credential that selects mock replies
	SentinelKey string
	// TutorPrompt overrides prompt.DefaultTutorPrompt
	TutorPrompt string

	Model       string
	Temperature float32
	MaxTokens   int
	Verbose     bool
}

var errNoCredential = errors.New("OpenAI API key is not configured")

// Server holds process-wide state: the credential, the cached client
// built from it and the tutor prompt.
type Server struct {
	opts Options
	mux  *http.ServeMux

	mu          sync.RWMutex
	apiKey      string
	client      llm.Client
	tutorPrompt string
}

// New creates a server
func New(opts Options) *Server {
	if opts.Catalog == nil {
		opts.Catalog = scenario.Default()
	}
	if opts.Mock == nil {
		opts.Mock = mock.NewClient()
	}

	s := &Server{
		opts:        opts,
		mux:         http.NewServeMux(),
		apiKey:      opts.APIKey,
		tutorPrompt: opts.TutorPrompt,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/tutor/chat", s.handleTutorChat)
	s.mux.HandleFunc("GET /api/tutor/prompt", s.handleGetPrompt)
	s.mux.HandleFunc("POST /api/tutor/prompt", s.handleSetPrompt)
	s.mux.HandleFunc("POST /api/tutor/config", s.handleTutorConfig)
	s.mux.HandleFunc("GET /api/tutor/state", s.handleState)

	s.mux.HandleFunc("GET /api/scenarios", s.handleScenarios)
	s.mux.HandleFunc("POST /api/chat", s.handleScenarioChat)
	s.mux.HandleFunc("POST /api/setup-env", s.handleSetupEnv)

	s.mux.HandleFunc("POST /api/assessment", s.handleAssessment)
	s.mux.HandleFunc("GET /api/history", s.handleHistory)
	s.mux.HandleFunc("GET /api/vocabulary", s.handleVocabulary)
	s.mux.HandleFunc("GET /api/vocabulary/export", s.handleVocabularyExport)
}

// Handler returns the routes wrapped in CORS handling
func (s *Server) Handler() http.Handler {
	return cors(s.mux)
}

// TutorPrompt is the prompt used when a request carries none
func (s *Server) TutorPrompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tutorPrompt == "" {
		return prompt.DefaultTutorPrompt
	}
	return s.tutorPrompt
}

// SetTutorPrompt replaces the process-wide tutor prompt. An empty prompt
// restores the default.
func (s *Server) SetTutorPrompt(p string) {
	s.mu.Lock()
	s.tutorPrompt = p
	s.mu.Unlock()
}

// SetAPIKey replaces the credential and drops the cached client
func (s *Server) SetAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key == s.apiKey {
		return
	}
	s.apiKey = key
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
}

// Close releases the cached client
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func (s *Server) mockMode(key string) bool {
	return key == "" || (s.opts.SentinelKey != "" && key == s.opts.SentinelKey)
}

// liveClient returns the client for the configured credential, or the mock
// client for the sentinel key. An empty credential is an error.
func (s *Server) liveClient() (llm.Client, error) {
	s.mu.RLock()
	key, client := s.apiKey, s.client
	s.mu.RUnlock()

	if key == "" {
		return nil, errNoCredential
	}
	if s.mockMode(key) {
		return s.opts.Mock, nil
	}
	if client != nil {
		return client, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil && s.apiKey == key {
		return s.client, nil
	}
	client, err := s.opts.NewClient(key)
	if err != nil {
		return nil, err
	}
	s.client = client
	return client, nil
}

// chatClient is liveClient with mock replies instead of an error when no
// credential is configured.
func (s *Server) chatClient() (llm.Client, error) {
	s.mu.RLock()
	key := s.apiKey
	s.mu.RUnlock()

	if s.mockMode(key) {
		if s.opts.Verbose {
			log.Printf("[server] no usable API key, answering with mock replies")
		}
		return s.opts.Mock, nil
	}
	return s.liveClient()
}

func (s *Server) orchestrator(client llm.Client, maxTokens int) *agent.Orchestrator {
	opts := []agent.Option{agent.WithVerbose(s.opts.Verbose)}
	if s.opts.Model != "" {
		opts = append(opts, agent.WithModel(s.opts.Model))
	}
	if s.opts.Temperature > 0 {
		opts = append(opts, agent.WithTemperature(s.opts.Temperature))
	}
	if maxTokens > 0 {
		opts = append(opts, agent.WithMaxTokens(maxTokens))
	} else if s.opts.MaxTokens > 0 {
		opts = append(opts, agent.WithMaxTokens(s.opts.MaxTokens))
	}
	return agent.New(client, s.opts.Registry, opts...)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
