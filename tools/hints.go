package tools

import (
	"context"

	"github.com/nachoal/lingo-tutor-go/session"
)

// AddHintParams are the arguments of addHint
type AddHintParams struct {
	Type                 string  `json:"type" schema:"required,enum:vocabulary|grammar|pronunciation|cultural" description:"Kind of hint"`
	Content              string  `json:"content" schema:"required" description:"Hint text shown to the learner"`
	Timing               *string `json:"timing,omitempty" schema:"enum:immediate|nextUserTurn|endOfConversation,default:immediate" description:"When to show the hint"`
	HighlightRelatedText *bool   `json:"highlightRelatedText,omitempty" schema:"default:false" description:"Highlight the text the hint refers to"`
}

// AddHintTool attaches a hint to the active conversation
type AddHintTool struct {
	baseTool
	store *session.Store
}

// Parameters returns the parameter struct
func (t *AddHintTool) Parameters() interface{} {
	return &AddHintParams{}
}

// Execute adds the hint
func (t *AddHintTool) Execute(ctx context.Context, params interface{}) (map[string]interface{}, error) {
	p, ok := params.(*AddHintParams)
	if !ok {
		return nil, paramsError("*AddHintParams")
	}

	id, err := t.store.AddHint(session.HintInput{
		Type:                 p.Type,
		Content:              p.Content,
		Timing:               stringValue(p.Timing, ""),
		HighlightRelatedText: boolValue(p.HighlightRelatedText, false),
	})
	if err != nil {
		return nil, AsToolError(err)
	}

	return map[string]interface{}{"hintID": id}, nil
}

// AddChallengeParams are the arguments of addChallenge
type AddChallengeParams struct {
	Level             string  `json:"level" schema:"required,enum:easy|medium|hard" description:"Challenge difficulty"`
	Content           string  `json:"content" schema:"required" description:"What the learner is asked to do"`
	ExpectedResponse  *string `json:"expectedResponse,omitempty" description:"A model answer, if there is one"`
	TimeLimit         *int    `json:"timeLimit,omitempty" schema:"min:0,default:0" description:"Seconds allowed; 0 means unlimited"`
	ShowAfterMessages *int    `json:"showAfterMessages,omitempty" schema:"min:0,default:0" description:"Number of messages to wait before showing"`
}

// AddChallengeTool attaches a challenge to the active conversation
type AddChallengeTool struct {
	baseTool
	store *session.Store
}

// Parameters returns the parameter struct
func (t *AddChallengeTool) Parameters() interface{} {
	return &AddChallengeParams{}
}

// Execute adds the challenge
func (t *AddChallengeTool) Execute(ctx context.Context, params interface{}) (map[string]interface{}, error) {
	p, ok := params.(*AddChallengeParams)
	if !ok {
		return nil, paramsError("*AddChallengeParams")
	}

	id, err := t.store.AddChallenge(session.ChallengeInput{
		Level:             p.Level,
		Content:           p.Content,
		ExpectedResponse:  p.ExpectedResponse,
		TimeLimit:         intValue(p.TimeLimit, 0),
		ShowAfterMessages: intValue(p.ShowAfterMessages, 0),
	})
	if err != nil {
		return nil, AsToolError(err)
	}

	return map[string]interface{}{"challengeID": id}, nil
}
