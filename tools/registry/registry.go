package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"reflect"
	"strings"

	"github.com/nachoal/lingo-tutor-go/internal/schema"
	"github.com/nachoal/lingo-tutor-go/internal/validator"
	"github.com/nachoal/lingo-tutor-go/llm"
	"github.com/nachoal/lingo-tutor-go/session"
	"github.com/nachoal/lingo-tutor-go/tools"
)

// Registry is the fixed mapping from tool name to tool. It is immutable
// after construction, so lookups need no locking; the tools themselves
// serialise on the session store.
type Registry struct {
	tools     map[tools.Name]tools.Tool
	order     []tools.Name
	schemas   []map[string]interface{}
	validator *validator.Validator
}

// New builds a registry from tools, keeping their order for the schema list
func New(list ...tools.Tool) (*Registry, error) {
	r := &Registry{
		tools:     make(map[tools.Name]tools.Tool, len(list)),
		validator: validator.New(),
	}
	generator := schema.NewGenerator()

	for _, t := range list {
		if _, exists := r.tools[t.Name()]; exists {
			return nil, fmt.Errorf("tool '%s' is already registered", t.Name())
		}

		fn, err := generator.GenerateFunctionSchema(string(t.Name()), t.Description(), t.Parameters())
		if err != nil {
			return nil, err
		}

		r.tools[t.Name()] = t
		r.order = append(r.order, t.Name())
		r.schemas = append(r.schemas, fn)
	}

	return r, nil
}

// NewDefault builds the registry of all tutor tools bound to store
func NewDefault(store *session.Store) *Registry {
	r, err := New(tools.All(store)...)
	if err != nil {
		// The tutor tool set is static; a failure here is a programming error.
		panic(err)
	}
	return r
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (tools.Tool, error) {
	t, ok := r.tools[tools.Name(name)]
	if !ok {
		return nil, tools.NewToolError(tools.CodeUnknownTool, fmt.Sprintf("Tool '%s' not found", name))
	}
	return t, nil
}

// List returns the registered tool names in declaration order
func (r *Registry) List() []tools.Name {
	return append([]tools.Name{}, r.order...)
}

// Schemas returns the function declarations sent to the model, in declaration order
func (r *Registry) Schemas() []map[string]interface{} {
	return append([]map[string]interface{}{}, r.schemas...)
}

// Dispatch decodes, validates and runs one tool call. It never panics and
// never returns an error: every failure becomes a failed Result.
func (r *Registry) Dispatch(ctx context.Context, name string, arguments json.RawMessage) (result tools.Result) {
	tool, err := r.Get(name)
	if err != nil {
		return tools.Fail(tools.AsToolError(err))
	}

	defer func() {
		if p := recover(); p != nil {
			log.Printf("[registry] tool %s panicked: %v", name, p)
			result = tools.Fail(tools.NewToolError(tools.CodeInternal, fmt.Sprintf("tool '%s' failed unexpectedly", name)))
		}
	}()

	_, normalized, err := llm.ParseToolArguments(arguments)
	if err != nil {
		return tools.Fail(tools.NewToolError(tools.CodeInvalidParams, "arguments must be a JSON object").
			WithDetail("error", err.Error()))
	}

	params := tool.Parameters()
	if err := decodeParams(normalized, params); err != nil {
		return tools.Fail(err)
	}

	if err := r.validator.Prepare(params); err != nil {
		return tools.Fail(tools.NewToolError(tools.CodeValidationFailed, err.Error()))
	}

	data, err := tool.Execute(ctx, params)
	if err != nil {
		return tools.Fail(tools.AsToolError(err))
	}

	if os.Getenv("LINGO_DEBUG") == "true" {
		log.Printf("[registry] %s(%s) ok", name, normalized)
	}

	return tools.Succeed(data)
}

// ExecuteToolCall executes a tool call
func (r *Registry) ExecuteToolCall(ctx context.Context, call tools.ToolCall) tools.ToolResult {
	return tools.ToolResult{
		ID:     call.ID,
		Name:   call.Name,
		Result: r.Dispatch(ctx, call.Name, call.Arguments),
	}
}

// ExecuteToolCalls executes tool calls one after another in the order
// given. Calls in a batch may touch the same session, so they are never
// run concurrently.
func (r *Registry) ExecuteToolCalls(ctx context.Context, calls []tools.ToolCall) []tools.ToolResult {
	results := make([]tools.ToolResult, 0, len(calls))
	for _, call := range calls {
		results = append(results, r.ExecuteToolCall(ctx, call))
	}
	return results
}

func decodeParams(data []byte, params interface{}) *tools.ToolError {
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(params); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "arguments"
			}
			return tools.NewToolError(tools.CodeValidationFailed,
				fmt.Sprintf("field '%s' must be %s", field, describeType(typeErr.Type)))
		}
		return tools.NewToolError(tools.CodeInvalidParams, "Failed to parse parameters").
			WithDetail("error", err.Error())
	}
	return nil
}

func describeType(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Struct, reflect.Map:
		return "an object"
	}
	return "a " + strings.ToLower(t.Kind().String())
}
