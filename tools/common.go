package tools

import (
	"errors"

	"github.com/nachoal/lingo-tutor-go/internal/validator"
	"github.com/nachoal/lingo-tutor-go/session"
)

// Validate is a convenience function that validates a struct using the default validator
func Validate(s interface{}) error {
	return validator.Validate(s)
}

// AsToolError converts a handler or store error into a ToolError with the matching code
func AsToolError(err error) *ToolError {
	var te *ToolError
	if errors.As(err, &te) {
		return te
	}
	if session.IsStateConflict(err) {
		return NewToolError(CodeStateConflict, err.Error())
	}
	return NewToolError(CodeValidationFailed, err.Error())
}

func paramsError(want string) *ToolError {
	return NewToolError(CodeInternal, "unexpected parameter type, want "+want)
}

func boolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func intValue(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func stringValue(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
