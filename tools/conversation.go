package tools

import (
	"context"

	"github.com/nachoal/lingo-tutor-go/session"
)

// StartConversationParams are the arguments of startConversation
type StartConversationParams struct {
	ScenarioID string   `json:"scenarioID" schema:"required" description:"ID of the scenario to practise, e.g. bakery or restaurant"`
	Language   *string  `json:"language,omitempty" schema:"enum:french|german,default:french" description:"Target language"`
	Difficulty *string  `json:"difficulty,omitempty" schema:"enum:beginner|intermediate|advanced,default:beginner" description:"Difficulty level"`
	FocusAreas []string `json:"focusAreas,omitempty" description:"Skills to focus on, e.g. greetings or past tense"`
}

// StartConversationTool opens a new learning conversation
type StartConversationTool struct {
	baseTool
	store *session.Store
}

// Parameters returns the parameter struct
func (t *StartConversationTool) Parameters() interface{} {
	return &StartConversationParams{}
}

// Execute starts the conversation
func (t *StartConversationTool) Execute(ctx context.Context, params interface{}) (map[string]interface{}, error) {
	p, ok := params.(*StartConversationParams)
	if !ok {
		return nil, paramsError("*StartConversationParams")
	}

	id, err := t.store.Start(session.StartInput{
		ScenarioID: p.ScenarioID,
		Language:   stringValue(p.Language, ""),
		Difficulty: stringValue(p.Difficulty, ""),
		FocusAreas: p.FocusAreas,
	})
	if err != nil {
		return nil, AsToolError(err)
	}

	return map[string]interface{}{"conversationID": id}, nil
}

// EndConversationParams are the arguments of endConversation
type EndConversationParams struct {
	SaveToHistory    *bool `json:"saveToHistory,omitempty" schema:"default:true" description:"Archive the conversation for later summaries"`
	GenerateFeedback *bool `json:"generateFeedback,omitempty" schema:"default:true" description:"Attach fluency, vocabulary, grammar and speed scores"`
}

// EndConversationTool closes the active conversation
type EndConversationTool struct {
	baseTool
	store *session.Store
}

// Parameters returns the parameter struct
func (t *EndConversationTool) Parameters() interface{} {
	return &EndConversationParams{}
}

// Execute ends the conversation
func (t *EndConversationTool) Execute(ctx context.Context, params interface{}) (map[string]interface{}, error) {
	p, ok := params.(*EndConversationParams)
	if !ok {
		return nil, paramsError("*EndConversationParams")
	}

	summary, err := t.store.End(boolValue(p.SaveToHistory, true), boolValue(p.GenerateFeedback, true))
	if err != nil {
		return nil, AsToolError(err)
	}

	return map[string]interface{}{"summary": summary}, nil
}
