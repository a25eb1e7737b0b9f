package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/nachoal/lingo-tutor-go/history"
	"github.com/nachoal/lingo-tutor-go/llm"
	"github.com/nachoal/lingo-tutor-go/prompt"
	"github.com/nachoal/lingo-tutor-go/session"
	"github.com/nachoal/lingo-tutor-go/tools"
	"github.com/nachoal/lingo-tutor-go/tools/registry"
	"github.com/nachoal/lingo-tutor-go/vault"
)

// fakeClient replays responses in order and records requests
type fakeClient struct {
	mu        sync.Mutex
	responses []*llm.ChatResponse
	err       error
	requests  []*llm.ChatRequest
}

func (c *fakeClient) Chat(_ context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.err
	}
	if len(c.responses) == 0 {
		return nil, errors.New("no scripted response left")
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

func (c *fakeClient) Close() error { return nil }

func text(content string) *llm.ChatResponse {
	return &llm.ChatResponse{Choices: []llm.Choice{{Message: llm.NewTextMessage(llm.RoleAssistant, content)}}}
}

func toolCall(id, name, args string) *llm.ChatResponse {
	return &llm.ChatResponse{Choices: []llm.Choice{{Message: llm.Message{
		Role: llm.RoleAssistant,
		ToolCalls: []llm.ToolCall{{
			ID: id, Type: "function",
			Function: llm.FunctionCall{Name: name, Arguments: json.RawMessage(args)},
		}},
	}}}}
}

type fixture struct {
	srv     *Server
	store   *session.Store
	client  *fakeClient
	keys    []string
	handler http.Handler
}

func newFixture(t *testing.T, apiKey string, client *fakeClient, hist history.Store) *fixture {
	t.Helper()
	f := &fixture{store: session.New(), client: client}
	f.srv = New(Options{
		Store:       f.store,
		Registry:    registry.NewDefault(f.store),
		History:     hist,
		APIKey:      apiKey,
		SentinelKey: "your_openai_api_key_here",
		NewClient: func(key string) (llm.Client, error) {
			f.keys = append(f.keys, key)
			return client, nil
		},
	})
	f.handler = f.srv.Handler()
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func userTurn(s string) map[string]interface{} {
	return map[string]interface{}{
		"messages": []map[string]string{{"role": "user", "content": s}},
	}
}

func TestTutorChat_NoCredential(t *testing.T) {
	f := newFixture(t, "", &fakeClient{}, nil)
	rec := f.do(t, http.MethodPost, "/api/tutor/chat", userTurn("hello"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body errorBody
	decode(t, rec, &body)
	if body.Error != "OpenAI API key is not configured" {
		t.Fatalf("unexpected error %q", body.Error)
	}
}

func TestTutorChat_RunsTools(t *testing.T) {
	client := &fakeClient{responses: []*llm.ChatResponse{
		toolCall("call_1", "addToVocab", `{"word":"merci","translation":"thank you"}`),
		text("Added merci to your list."),
	}}
	f := newFixture(t, "sk-live", client, nil)

	rec := f.do(t, http.MethodPost, "/api/tutor/chat", userTurn("Please remember merci"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Message     llm.Message        `json:"message"`
		ToolResults []tools.ToolResult `json:"toolResults"`
	}
	decode(t, rec, &body)
	if llm.GetStringValue(body.Message.Content) != "Added merci to your list." {
		t.Fatalf("unexpected message %+v", body.Message)
	}
	if len(body.ToolResults) != 1 || !body.ToolResults[0].Result.Success || body.ToolResults[0].Result.Data["wordID"] != "merci" {
		t.Fatalf("unexpected tool results %+v", body.ToolResults)
	}

	if len(f.keys) != 1 || f.keys[0] != "sk-live" {
		t.Fatalf("expected one client built for sk-live, got %v", f.keys)
	}
	if got := llm.GetStringValue(client.requests[0].Messages[0].Content); got != prompt.DefaultTutorPrompt {
		t.Fatalf("expected default tutor prompt, got %q", got)
	}
	if len(f.store.Vocabulary()) != 1 {
		t.Fatalf("expected merci in the store")
	}
}

func TestTutorChat_ErrorMapping(t *testing.T) {
	invalid := &fakeClient{err: &llm.APIError{Provider: "OpenAI", StatusCode: 401, Message: "bad key"}}
	rec := newFixture(t, "sk-bad", invalid, nil).do(t, http.MethodPost, "/api/tutor/chat", userTurn("hi"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body errorBody
	decode(t, rec, &body)
	if body.Code != "invalid_api_key" {
		t.Fatalf("expected invalid_api_key code, got %+v", body)
	}

	down := &fakeClient{err: errors.New("connection refused")}
	rec = newFixture(t, "sk-live", down, nil).do(t, http.MethodPost, "/api/tutor/chat", userTurn("hi"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestTutorPromptAndConfig(t *testing.T) {
	client := &fakeClient{responses: []*llm.ChatResponse{text("ok")}}
	f := newFixture(t, "sk-live", client, nil)

	if rec := f.do(t, http.MethodPost, "/api/tutor/prompt", map[string]string{"prompt": ""}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty prompt, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/api/tutor/prompt", map[string]string{"prompt": "Be terse."}); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got map[string]string
	decode(t, f.do(t, http.MethodGet, "/api/tutor/prompt", nil), &got)
	if got["prompt"] != "Be terse." {
		t.Fatalf("expected updated prompt, got %q", got["prompt"])
	}

	f.do(t, http.MethodPost, "/api/tutor/chat", userTurn("hi"))
	if p := llm.GetStringValue(client.requests[0].Messages[0].Content); p != "Be terse." {
		t.Fatalf("chat did not use the updated prompt: %q", p)
	}

	rec := f.do(t, http.MethodPost, "/api/tutor/config", prompt.TutorConfig{Mode: prompt.ModeChallenger, HintFrequency: 9, Strictness: 2, FeedbackDepth: 5})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if p := f.srv.TutorPrompt(); !strings.Contains(p, "through challenges") || !strings.Contains(p, "very frequently") || !strings.Contains(p, "very lenient") {
		t.Fatalf("unexpected composed prompt:\n%s", p)
	}

	if rec := f.do(t, http.MethodPost, "/api/tutor/config", map[string]string{"mode": "sergeant"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown mode, got %d", rec.Code)
	}
}

func TestScenarioChat_MockModeWithoutCredential(t *testing.T) {
	f := newFixture(t, "", &fakeClient{}, nil)

	body := userTurn("Bonjour !")
	body["language"] = "french"
	body["scenario"] = "bakery"
	rec := f.do(t, http.MethodPost, "/api/chat", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp chatResponse
	decode(t, rec, &resp)
	if !strings.HasPrefix(llm.GetStringValue(resp.Message.Content), "Bonjour ! Bienvenue") {
		t.Fatalf("unexpected mock greeting %q", llm.GetStringValue(resp.Message.Content))
	}
	if len(f.keys) != 0 {
		t.Fatalf("mock mode must not build a live client")
	}
}

func TestScenarioChat_SentinelKeyRunsMockTools(t *testing.T) {
	f := newFixture(t, "your_openai_api_key_here", &fakeClient{}, nil)

	body := userTurn("Let's start practice")
	body["language"] = "french"
	body["scenario"] = "bakery"
	body["enableTools"] = true
	rec := f.do(t, http.MethodPost, "/api/chat", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp chatResponse
	decode(t, rec, &resp)
	if len(resp.ToolResults) != 1 || resp.ToolResults[0].Name != "startConversation" || !resp.ToolResults[0].Result.Success {
		t.Fatalf("unexpected tool results %+v", resp.ToolResults)
	}
	if _, ok := f.store.Active(); !ok {
		t.Fatalf("expected an active conversation after mock startConversation")
	}
}

func TestScenarioChat_UsesScenarioPrompt(t *testing.T) {
	client := &fakeClient{responses: []*llm.ChatResponse{text("Guten Tag!")}}
	f := newFixture(t, "sk-live", client, nil)

	body := userTurn("Hallo")
	body["language"] = "german"
	body["scenario"] = "hotel"
	if rec := f.do(t, http.MethodPost, "/api/chat", body); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req := client.requests[0]
	if !strings.Contains(llm.GetStringValue(req.Messages[0].Content), "hotel receptionist who speaks German") {
		t.Fatalf("unexpected system prompt")
	}
	if req.MaxTokens != scenarioMaxTokens || len(req.Tools) != 0 {
		t.Fatalf("expected %d max tokens and no tools, got %d / %d", scenarioMaxTokens, req.MaxTokens, len(req.Tools))
	}
}

func TestSetupEnv(t *testing.T) {
	client := &fakeClient{responses: []*llm.ChatResponse{text("Hi")}}
	f := newFixture(t, "", client, nil)
	v, err := vault.NewWithKeyring(nil, t.TempDir())
	if err != nil {
		t.Fatalf("vault: %v", err)
	}
	f.srv.opts.Vault = v

	if rec := f.do(t, http.MethodPost, "/api/setup-env", map[string]string{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without apiKey, got %d", rec.Code)
	}

	rec := f.do(t, http.MethodPost, "/api/setup-env", map[string]string{"apiKey": "sk-new"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if req := client.requests[0]; req.MaxTokens != 5 || len(req.Messages) != 1 {
		t.Fatalf("unexpected verification request %+v", req)
	}
	if stored, err := v.Get(vault.APIKeyName); err != nil || stored != "sk-new" {
		t.Fatalf("expected key in vault, got %q (%v)", stored, err)
	}

	client.err = &llm.APIError{Provider: "OpenAI", StatusCode: 401}
	rec = f.do(t, http.MethodPost, "/api/setup-env", map[string]string{"apiKey": "sk-wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAssessmentAndHistory(t *testing.T) {
	hist, err := history.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	f := newFixture(t, "", &fakeClient{}, hist)

	rec := f.do(t, http.MethodPost, "/api/assessment", map[string]string{
		"text":     "Fluency: 7/10\nVocabulary: 6/10\nGrammar: 8/10\nSpeed: 7/10",
		"language": "french",
		"scenario": "bakery",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var saved assessmentResponse
	decode(t, rec, &saved)
	if saved.Fluency != 7 || saved.Vocabulary != 6 || saved.Grammar != 8 || saved.Speed != 7 {
		t.Fatalf("unexpected scores %+v", saved.Scores)
	}
	if saved.ScenarioName != "Bakery" || saved.Grades["grammar"] != "B" || saved.ID == "" {
		t.Fatalf("unexpected assessment %+v", saved)
	}

	if rec := f.do(t, http.MethodPost, "/api/assessment", map[string]string{"text": " "}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty text, got %d", rec.Code)
	}

	var listed historyResponse
	decode(t, f.do(t, http.MethodGet, "/api/history?language=french", nil), &listed)
	if len(listed.Results) != 1 || listed.Averages.Grammar != 8 || len(listed.Progress) != 1 {
		t.Fatalf("unexpected history %+v", listed)
	}

	decode(t, f.do(t, http.MethodGet, "/api/history?language=german", nil), &listed)
	if len(listed.Results) != 0 || listed.Averages.Count != 0 {
		t.Fatalf("expected empty german history, got %+v", listed)
	}
}

func TestVocabularyExport(t *testing.T) {
	f := newFixture(t, "", &fakeClient{}, nil)
	f.store.AddVocab(session.VocabInput{Word: "Merci", Translation: "thank you"})
	f.store.AddVocab(session.VocabInput{Word: "pain", Translation: "bread"})

	var entries []session.VocabularyEntry
	decode(t, f.do(t, http.MethodGet, "/api/vocabulary", nil), &entries)
	if len(entries) != 2 || entries[0].Word != "merci" {
		t.Fatalf("unexpected vocabulary %+v", entries)
	}

	rec := f.do(t, http.MethodGet, "/api/vocabulary/export", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != xlsxContentType {
		t.Fatalf("unexpected export response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	wb, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer wb.Close()
	rows, err := wb.GetRows("Sheet1")
	if err != nil || len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d (%v)", len(rows), err)
	}
}

func TestScenariosStateAndCORS(t *testing.T) {
	f := newFixture(t, "", &fakeClient{}, nil)

	var list []map[string]string
	decode(t, f.do(t, http.MethodGet, "/api/scenarios", nil), &list)
	if len(list) != 6 || list[0]["id"] != "bakery" || list[0]["image"] != "🥐" {
		t.Fatalf("unexpected scenarios %+v", list)
	}
	if _, leaked := list[0]["role"]; leaked {
		t.Fatalf("prompt fields must not be served")
	}

	var state session.State
	decode(t, f.do(t, http.MethodGet, "/api/tutor/state", nil), &state)
	if state.ActiveConversation != nil {
		t.Fatalf("expected no active conversation")
	}

	rec := f.do(t, http.MethodOptions, "/api/chat", nil)
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("unexpected preflight response %d", rec.Code)
	}
}
