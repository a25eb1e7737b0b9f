// Package agent drives the tutor's tool-calling exchange with the model.
//
// One call to Converse makes at most two completion requests: the first
// reply may ask for tools, which are run in order, and a single follow-up
// request turns their results into the final reply. There is no open-ended
// tool loop.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/nachoal/lingo-tutor-go/llm"
	"github.com/nachoal/lingo-tutor-go/tools"
	"github.com/nachoal/lingo-tutor-go/tools/registry"
)

type state int

const (
	awaitingInitialReply state = iota
	executingTools
	awaitingFinalReply
	done
)

func (s state) String() string {
	switch s {
	case awaitingInitialReply:
		return "awaiting_initial_reply"
	case executingTools:
		return "executing_tools"
	case awaitingFinalReply:
		return "awaiting_final_reply"
	default:
		return "done"
	}
}

// Orchestrator runs conversation exchanges against a completion client
type Orchestrator struct {
	client   llm.Client
	registry *registry.Registry
	config   Config
}

// New creates an orchestrator. reg may be nil when tools are never enabled.
func New(client llm.Client, reg *registry.Registry, opts ...Option) *Orchestrator {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &Orchestrator{
		client:   client,
		registry: reg,
		config:   config,
	}
}

// exchange is the per-call state of Converse
type exchange struct {
	messages []llm.Message
	tools    []map[string]interface{}
	pending  llm.Message
	reply    Reply
}

// Converse sends [system, prior...] to the model and returns the final turn.
// prior is not modified.
func (o *Orchestrator) Converse(ctx context.Context, prior []llm.Message, systemPrompt string, toolsEnabled bool) (*Reply, error) {
	ex := &exchange{
		messages: make([]llm.Message, 0, len(prior)+1),
	}
	ex.messages = append(ex.messages, llm.NewTextMessage(llm.RoleSystem, systemPrompt))
	ex.messages = append(ex.messages, prior...)

	if toolsEnabled {
		if o.registry == nil {
			return nil, fmt.Errorf("tools enabled without a tool registry")
		}
		ex.tools = o.registry.Schemas()
	}

	st := awaitingInitialReply
	for st != done {
		if o.config.Verbose {
			log.Printf("[agent] state=%s messages=%d", st, len(ex.messages))
		}

		switch st {
		case awaitingInitialReply:
			msg, err := o.complete(ctx, ex)
			if err != nil {
				return nil, err
			}
			if !toolsEnabled || len(msg.ToolCalls) == 0 {
				ex.reply.Message = msg
				st = done
				continue
			}
			ex.pending = msg
			st = executingTools

		case executingTools:
			ex.messages = append(ex.messages, ex.pending)
			ex.reply.ToolResults = o.registry.ExecuteToolCalls(ctx, toToolCalls(ex.pending.ToolCalls))
			for _, result := range ex.reply.ToolResults {
				ex.messages = append(ex.messages, llm.Message{
					Role:       llm.RoleTool,
					Content:    llm.StringPtr(result.Result.String()),
					ToolCallID: result.ID,
					Name:       result.Name,
				})
			}
			st = awaitingFinalReply

		case awaitingFinalReply:
			// Tool calls in this reply are returned to the caller unexecuted.
			msg, err := o.complete(ctx, ex)
			if err != nil {
				return nil, err
			}
			ex.reply.Message = msg
			st = done
		}
	}

	return &ex.reply, nil
}

func (o *Orchestrator) complete(ctx context.Context, ex *exchange) (llm.Message, error) {
	request := &llm.ChatRequest{
		Model:       o.config.Model,
		Messages:    append([]llm.Message{}, ex.messages...),
		Temperature: o.config.Temperature,
		MaxTokens:   o.config.MaxTokens,
	}
	if len(ex.tools) > 0 {
		request.Tools = ex.tools
		request.ToolChoice = "auto"
	}

	ex.reply.Rounds++
	response, err := o.client.Chat(ctx, request)
	if err != nil {
		return llm.Message{}, classify(err)
	}

	if response.Usage != nil {
		if ex.reply.Usage == nil {
			ex.reply.Usage = &llm.Usage{}
		}
		ex.reply.Usage.PromptTokens += response.Usage.PromptTokens
		ex.reply.Usage.CompletionTokens += response.Usage.CompletionTokens
		ex.reply.Usage.TotalTokens += response.Usage.TotalTokens
	}

	msg, err := response.FirstMessage()
	if err != nil {
		return llm.Message{}, &Error{Kind: KindUpstreamFailure, Err: err}
	}
	if msg.Role == "" {
		msg.Role = llm.RoleAssistant
	}
	return msg, nil
}

func classify(err error) error {
	if errors.Is(err, llm.ErrInvalidCredential) {
		return &Error{Kind: KindInvalidCredential, Err: err}
	}
	return &Error{Kind: KindUpstreamFailure, Err: err}
}

func toToolCalls(calls []llm.ToolCall) []tools.ToolCall {
	out := make([]tools.ToolCall, len(calls))
	for i, tc := range calls {
		out[i] = tools.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}
	}
	return out
}
