package tools

import (
	"context"

	"github.com/nachoal/lingo-tutor-go/session"
)

// AddToVocabParams are the arguments of addToVocab
type AddToVocabParams struct {
	Word        string `json:"word" schema:"required" description:"Word or phrase to save"`
	Translation string `json:"translation,omitempty" description:"Translation in the learner's language"`
	Context     string `json:"context,omitempty" description:"Sentence or situation the word came up in"`
	Notes       string `json:"notes,omitempty" description:"Extra notes"`
	Priority    *int   `json:"priority,omitempty" schema:"default:3" description:"Review priority from 1 (low) to 5 (high)"`
}

// AddToVocabTool saves a word to the learner's vocabulary
type AddToVocabTool struct {
	baseTool
	store *session.Store
}

// Parameters returns the parameter struct
func (t *AddToVocabTool) Parameters() interface{} {
	return &AddToVocabParams{}
}

// Execute adds the word
func (t *AddToVocabTool) Execute(ctx context.Context, params interface{}) (map[string]interface{}, error) {
	p, ok := params.(*AddToVocabParams)
	if !ok {
		return nil, paramsError("*AddToVocabParams")
	}

	wordID, exists, err := t.store.AddVocab(session.VocabInput{
		Word:        p.Word,
		Translation: p.Translation,
		Context:     p.Context,
		Notes:       p.Notes,
		Priority:    intValue(p.Priority, 3),
	})
	if err != nil {
		return nil, AsToolError(err)
	}

	return map[string]interface{}{"wordID": wordID, "alreadyExists": exists}, nil
}

// AdjustVocabPriorityParams are the arguments of adjustVocabPriority
type AdjustVocabPriorityParams struct {
	Word  string   `json:"word" schema:"required" description:"Word already in the vocabulary"`
	Delta *float64 `json:"delta" schema:"required" description:"Amount to add to the priority; negative lowers it"`
}

// AdjustVocabPriorityTool changes a word's review priority
type AdjustVocabPriorityTool struct {
	baseTool
	store *session.Store
}

// Parameters returns the parameter struct
func (t *AdjustVocabPriorityTool) Parameters() interface{} {
	return &AdjustVocabPriorityParams{}
}

// Execute adjusts the priority
func (t *AdjustVocabPriorityTool) Execute(ctx context.Context, params interface{}) (map[string]interface{}, error) {
	p, ok := params.(*AdjustVocabPriorityParams)
	if !ok {
		return nil, paramsError("*AdjustVocabPriorityParams")
	}

	priority, err := t.store.AdjustVocabPriority(p.Word, *p.Delta)
	if err != nil {
		return nil, AsToolError(err)
	}

	return map[string]interface{}{"newPriority": priority}, nil
}
