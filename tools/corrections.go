package tools

import (
	"context"

	"github.com/nachoal/lingo-tutor-go/session"
)

// CorrectionItemParams is one correction inside createCorrectionDialogueBox
type CorrectionItemParams struct {
	Original    string `json:"original" schema:"required" description:"What the learner said"`
	Correction  string `json:"correction" schema:"required" description:"The corrected form"`
	Explanation string `json:"explanation,omitempty" description:"Why it was wrong"`
}

// CreateCorrectionDialogueBoxParams are the arguments of createCorrectionDialogueBox
type CreateCorrectionDialogueBoxParams struct {
	Items           []CorrectionItemParams `json:"items" schema:"required" description:"Corrections to show"`
	ShowImmediately *bool                  `json:"showImmediately,omitempty" schema:"default:true" description:"Show the box now; requires a conversation in progress"`
}

// CreateCorrectionDialogueBoxTool groups corrections into a dialogue box
type CreateCorrectionDialogueBoxTool struct {
	baseTool
	store *session.Store
}

// Parameters returns the parameter struct
func (t *CreateCorrectionDialogueBoxTool) Parameters() interface{} {
	return &CreateCorrectionDialogueBoxParams{}
}

// Execute creates the box
func (t *CreateCorrectionDialogueBoxTool) Execute(ctx context.Context, params interface{}) (map[string]interface{}, error) {
	p, ok := params.(*CreateCorrectionDialogueBoxParams)
	if !ok {
		return nil, paramsError("*CreateCorrectionDialogueBoxParams")
	}

	items := make([]session.CorrectionItem, len(p.Items))
	for i, item := range p.Items {
		items[i] = session.CorrectionItem{
			Original:    item.Original,
			Correction:  item.Correction,
			Explanation: item.Explanation,
		}
	}

	id, err := t.store.AddCorrectionBox(items, boolValue(p.ShowImmediately, true))
	if err != nil {
		return nil, AsToolError(err)
	}

	return map[string]interface{}{"boxID": id}, nil
}
