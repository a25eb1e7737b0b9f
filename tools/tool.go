package tools

import (
	"context"
	"encoding/json"
)

// Name identifies one of the tutor tools
type Name string

const (
	StartConversation               Name = "startConversation"
	EndConversation                 Name = "endConversation"
	AddHint                         Name = "addHint"
	AddChallenge                    Name = "addChallenge"
	AddToVocab                      Name = "addToVocab"
	AdjustVocabPriority             Name = "adjustVocabPriority"
	GeneratePostConversationSummary Name = "generatePostConversationSummary"
	CreateCorrectionDialogueBox     Name = "createCorrectionDialogueBox"
)

// Names lists every tool in declaration order
var Names = []Name{
	StartConversation,
	EndConversation,
	AddHint,
	AddChallenge,
	AddToVocab,
	AdjustVocabPriority,
	GeneratePostConversationSummary,
	CreateCorrectionDialogueBox,
}

// Tool defines the interface that all tutor tools implement
type Tool interface {
	// Name returns the unique name of the tool
	Name() Name

	// Description returns a brief description of what the tool does
	Description() string

	// Parameters returns a fresh pointer to the tool's parameter struct.
	// The struct drives both schema generation and argument decoding.
	Parameters() interface{}

	// Execute runs the tool with decoded, validated parameters and returns
	// the payload merged into a successful Result.
	Execute(ctx context.Context, params interface{}) (map[string]interface{}, error)
}

type baseTool struct {
	name Name
	desc string
}

func (b baseTool) Name() Name {
	return b.name
}

func (b baseTool) Description() string {
	return b.desc
}

// Error codes carried by ToolError
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidParams    = "INVALID_PARAMS"
	CodeStateConflict    = "STATE_CONFLICT"
	CodeUnknownTool      = "UNKNOWN_TOOL"
	CodeInternal         = "INTERNAL"
)

// ToolError represents a structured error from a tool
type ToolError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

// NewToolError creates a new tool error
func NewToolError(code, message string) *ToolError {
	return &ToolError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WithDetail adds a detail to the error
func (e *ToolError) WithDetail(key string, value interface{}) *ToolError {
	e.Details[key] = value
	return e
}

// ToolCall represents a request to execute a tool
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult pairs a tool call with its outcome
type ToolResult struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Result Result `json:"result"`
}

// Result is what a dispatched tool reports back to the model. On the wire
// it is a flat object: {"success":true, ...data} or {"success":false,"error":"..."}.
type Result struct {
	Success bool
	Error   string
	Code    string
	Data    map[string]interface{}
}

// Succeed builds a successful result
func Succeed(data map[string]interface{}) Result {
	return Result{Success: true, Data: data}
}

// Fail builds a failed result from a tool error
func Fail(err *ToolError) Result {
	return Result{Success: false, Error: err.Message, Code: err.Code}
}

// MarshalJSON flattens Data next to the success flag
func (r Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Data)+2)
	for k, v := range r.Data {
		out[k] = v
	}
	out["success"] = r.Success
	if !r.Success {
		out["error"] = r.Error
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the flat form back. Code is not carried on the wire.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Result{}
	if v, ok := raw["success"].(bool); ok {
		r.Success = v
	}
	if v, ok := raw["error"].(string); ok {
		r.Error = v
	}
	delete(raw, "success")
	delete(raw, "error")
	if len(raw) > 0 {
		r.Data = raw
	}
	return nil
}

// String renders the result as the JSON content of a tool turn
func (r Result) String() string {
	data, err := json.Marshal(r)
	if err != nil {
		return `{"success":false,"error":"failed to encode tool result"}`
	}
	return string(data)
}
