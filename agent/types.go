package agent

import (
	"errors"

	"github.com/nachoal/lingo-tutor-go/llm"
	"github.com/nachoal/lingo-tutor-go/tools"
)

// Config contains orchestrator configuration
type Config struct {
	Model       string
	Temperature float32
	MaxTokens   int
	Verbose     bool
}

// DefaultConfig returns a default orchestrator configuration
func DefaultConfig() Config {
	return Config{
		Temperature: 0.7,
		MaxTokens:   1000,
	}
}

// Option is a functional option for configuring the orchestrator
type Option func(*Config)

// WithModel sets the model sent with every request
func WithModel(model string) Option {
	return func(c *Config) {
		c.Model = model
	}
}

// WithTemperature sets the temperature
func WithTemperature(temp float32) Option {
	return func(c *Config) {
		c.Temperature = temp
	}
}

// WithMaxTokens sets the max tokens
func WithMaxTokens(max int) Option {
	return func(c *Config) {
		c.MaxTokens = max
	}
}

// WithVerbose enables request logging
func WithVerbose(verbose bool) Option {
	return func(c *Config) {
		c.Verbose = verbose
	}
}

// Reply is the outcome of one caller-visible exchange
type Reply struct {
	// Message is the final assistant turn
	Message llm.Message `json:"message"`
	// ToolResults holds the tools run between the two rounds, in call order
	ToolResults []tools.ToolResult `json:"toolResults,omitempty"`
	// Rounds is the number of completion requests made (1 or 2)
	Rounds int        `json:"-"`
	Usage  *llm.Usage `json:"-"`
}

// Content returns the text of the final turn
func (r *Reply) Content() string {
	return llm.GetStringValue(r.Message.Content)
}

// ErrorKind classifies orchestrator failures
type ErrorKind int

const (
	// KindUpstreamFailure is any completion-service failure other than a bad credential
	KindUpstreamFailure ErrorKind = iota
	// KindInvalidCredential means the completion service rejected the API key
	KindInvalidCredential
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidCredential:
		return "invalid_credential"
	default:
		return "upstream_failure"
	}
}

// Error is returned by Converse when a completion round fails
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return "tutor exchange failed (" + e.Kind.String() + "): " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsInvalidCredential reports whether err came from a rejected API key
func IsInvalidCredential(err error) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == KindInvalidCredential
	}
	return errors.Is(err, llm.ErrInvalidCredential)
}
