package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nachoal/lingo-tutor-go/llm"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = 60 * time.Second
	defaultModel   = "gpt-4o"
)

// ProviderBaseURLs maps the OpenAI-compatible providers the tutor can talk to
var ProviderBaseURLs = map[string]string{
	"openai":   "https://api.openai.com/v1",
	"deepseek": "https://api.deepseek.com/v1",
	"groq":     "https://api.groq.com/openai/v1",
}

// BaseURLForProvider resolves a provider name to its chat completions base URL
func BaseURLForProvider(provider string) (string, error) {
	if provider == "" {
		return defaultBaseURL, nil
	}
	url, ok := ProviderBaseURLs[strings.ToLower(provider)]
	if !ok {
		return "", fmt.Errorf("unknown provider: %s", provider)
	}
	return url, nil
}

// Client implements llm.Client against an OpenAI-compatible chat completions API
type Client struct {
	options    llm.ClientOptions
	httpClient *http.Client
}

// NewClient creates a new OpenAI client
func NewClient(opts ...llm.ClientOption) (*Client, error) {
	options := llm.ClientOptions{
		BaseURL:      defaultBaseURL,
		Timeout:      defaultTimeout,
		DefaultModel: defaultModel,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.APIKey == "" {
		options.APIKey = os.Getenv("OPENAI_API_KEY")
		if options.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key not provided")
		}
	}

	return &Client{
		options:    options,
		httpClient: &http.Client{Timeout: options.Timeout},
	}, nil
}

// Model returns the model used when a request leaves it empty
func (c *Client) Model() string {
	return c.options.DefaultModel
}

// Chat sends a chat request. Failures are returned as-is; callers decide
// whether a turn is worth repeating.
func (c *Client) Chat(ctx context.Context, request *llm.ChatRequest) (*llm.ChatResponse, error) {
	if request.Model == "" {
		request.Model = c.options.DefaultModel
	}

	body, err := json.Marshal(c.buildOpenAIRequest(request))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.options.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.StatusCode, respBody)
	}

	response := &llm.ChatResponse{}
	if err := json.Unmarshal(respBody, response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if response.Error != nil {
		return nil, &llm.APIError{
			Provider:   "OpenAI",
			StatusCode: resp.StatusCode,
			Code:       response.Error.Code,
			Message:    response.Error.Message,
		}
	}

	return response, nil
}

// Close cleans up resources
func (c *Client) Close() error {
	return nil
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &llm.APIError{Provider: "OpenAI", StatusCode: status}

	var errResp struct {
		Error llm.ErrorResponse `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		apiErr.Code = errResp.Error.Code
		apiErr.Message = errResp.Error.Message
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.options.APIKey)
	req.Header.Set("User-Agent", "lingo-tutor-go/1.0")

	if c.options.Organization != "" {
		req.Header.Set("OpenAI-Organization", c.options.Organization)
	}
}

// buildOpenAIRequest handles the parameter differences of the o-series models:
// they take max_completion_tokens and only the default temperature.
func (c *Client) buildOpenAIRequest(request *llm.ChatRequest) map[string]interface{} {
	reqMap := map[string]interface{}{
		"model":    request.Model,
		"messages": request.Messages,
	}

	modelLower := strings.ToLower(request.Model)
	isReasoningModel := strings.HasPrefix(modelLower, "o1") || strings.HasPrefix(modelLower, "o3")

	if request.Temperature > 0 && !isReasoningModel {
		reqMap["temperature"] = request.Temperature
	}
	if len(request.Tools) > 0 {
		reqMap["tools"] = request.Tools
		if request.ToolChoice != nil {
			reqMap["tool_choice"] = request.ToolChoice
		}
	}

	if request.MaxTokens > 0 {
		if isReasoningModel {
			reqMap["max_completion_tokens"] = request.MaxTokens
		} else {
			reqMap["max_tokens"] = request.MaxTokens
		}
	}

	return reqMap
}
