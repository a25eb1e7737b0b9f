package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/nachoal/lingo-tutor-go/agent"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg string, err error) {
	if err != nil {
		log.Printf("%s: %v", userMsg, err)
	}
	writeJSON(w, status, errorBody{Error: userMsg})
}

func respondInvalidKey(w http.ResponseWriter, userMsg string, err error) {
	log.Printf("%s: %v", userMsg, err)
	writeJSON(w, http.StatusUnauthorized, errorBody{Error: userMsg, Code: "invalid_api_key"})
}

// respondAgentError maps orchestrator failures to 401 or 500
func respondAgentError(w http.ResponseWriter, err error) {
	if agent.IsInvalidCredential(err) {
		respondInvalidKey(w, "Invalid API key. Please update your OpenAI API key.", err)
		return
	}
	respondWithError(w, http.StatusInternalServerError, "Failed to process your request", err)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body", nil)
		return false
	}
	return true
}
