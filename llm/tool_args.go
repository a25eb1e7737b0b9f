package llm

import (
	"bytes"
	"encoding/json"
	"errors"
)

var emptyToolArgs = json.RawMessage(`{}`)

// ErrToolArgumentsNotObject is returned when tool arguments are not a JSON object
var ErrToolArgumentsNotObject = errors.New("tool arguments must be a JSON object")

// ParseToolArguments converts raw tool arguments into a canonical JSON object.
// It accepts either a JSON object or a JSON-encoded string containing an object;
// empty input and null become {}.
func ParseToolArguments(raw json.RawMessage) (map[string]interface{}, json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]interface{}{}, emptyToolArgs, nil
	}

	// Providers send arguments as a JSON string. Unquote once first.
	if trimmed[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(trimmed, &unquoted); err != nil {
			return nil, nil, err
		}
		trimmed = bytes.TrimSpace([]byte(unquoted))
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			return map[string]interface{}{}, emptyToolArgs, nil
		}
	}

	var v interface{}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, nil, err
	}

	args, ok := v.(map[string]interface{})
	if !ok {
		return nil, nil, ErrToolArgumentsNotObject
	}

	normalized, err := json.Marshal(args)
	if err != nil {
		return nil, nil, err
	}

	return args, json.RawMessage(normalized), nil
}

// NormalizeToolArguments is the lenient form of ParseToolArguments:
// invalid or non-object values are normalized to an empty object.
func NormalizeToolArguments(raw json.RawMessage) (map[string]interface{}, json.RawMessage) {
	args, normalized, err := ParseToolArguments(raw)
	if err != nil {
		return map[string]interface{}{}, emptyToolArgs
	}
	return args, normalized
}
