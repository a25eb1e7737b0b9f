package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/nachoal/lingo-tutor-go/session"
)

const (
	defaultFluencyScore = 7
	struggledPriority   = 4
)

// GeneratePostConversationSummaryParams are the arguments of generatePostConversationSummary
type GeneratePostConversationSummaryParams struct {
	IncludeVocabulary *bool   `json:"includeVocabulary,omitempty" schema:"default:true" description:"Include a vocabulary section"`
	IncludeGrammar    *bool   `json:"includeGrammar,omitempty" schema:"default:true" description:"Include a grammar section"`
	IncludeFluency    *bool   `json:"includeFluency,omitempty" schema:"default:true" description:"Include a fluency section"`
	IncludeNextSteps  *bool   `json:"includeNextSteps,omitempty" schema:"default:true" description:"Include suggested next steps"`
	DetailLevel       *string `json:"detailLevel,omitempty" schema:"enum:brief|standard|detailed,default:standard" description:"How much detail to include"`
}

// PostConversationSummary describes the most recently archived conversation
type PostConversationSummary struct {
	Overview   string             `json:"overview"`
	Vocabulary *VocabularySection `json:"vocabulary,omitempty"`
	Grammar    *GrammarSection    `json:"grammar,omitempty"`
	Fluency    *FluencySection    `json:"fluency,omitempty"`
	NextSteps  []string           `json:"nextSteps,omitempty"`
	Activity   *ActivityCounts    `json:"activity,omitempty"`
}

// VocabularySection lists the words met during the conversation
type VocabularySection struct {
	NewWords        []string `json:"newWords"`
	StruggledWith   []string `json:"struggledWith"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// GrammarSection reports the corrections made during the conversation
type GrammarSection struct {
	Strengths           []string         `json:"strengths"`
	AreasForImprovement []string         `json:"areas_for_improvement"`
	Examples            []GrammarExample `json:"examples"`
}

// GrammarExample is a corrected mistake
type GrammarExample struct {
	Error       string `json:"error"`
	Correction  string `json:"correction"`
	Explanation string `json:"explanation,omitempty"`
}

// FluencySection carries the fluency score with a short comment
type FluencySection struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// ActivityCounts is added at the detailed level
type ActivityCounts struct {
	Hints       int `json:"hints"`
	Challenges  int `json:"challenges"`
	Corrections int `json:"corrections"`
}

// GeneratePostConversationSummaryTool summarises the last archived conversation
type GeneratePostConversationSummaryTool struct {
	baseTool
	store *session.Store
}

// Parameters returns the parameter struct
func (t *GeneratePostConversationSummaryTool) Parameters() interface{} {
	return &GeneratePostConversationSummaryParams{}
}

// Execute builds the summary
func (t *GeneratePostConversationSummaryTool) Execute(ctx context.Context, params interface{}) (map[string]interface{}, error) {
	p, ok := params.(*GeneratePostConversationSummaryParams)
	if !ok {
		return nil, paramsError("*GeneratePostConversationSummaryParams")
	}

	record, err := t.store.LastRecord()
	if err != nil {
		return nil, AsToolError(err)
	}

	summary := BuildSummary(record, t.store.Vocabulary(), SummaryOptions{
		IncludeVocabulary: boolValue(p.IncludeVocabulary, true),
		IncludeGrammar:    boolValue(p.IncludeGrammar, true),
		IncludeFluency:    boolValue(p.IncludeFluency, true),
		IncludeNextSteps:  boolValue(p.IncludeNextSteps, true),
		DetailLevel:       stringValue(p.DetailLevel, "standard"),
	})

	return map[string]interface{}{"summary": summary}, nil
}

// SummaryOptions selects the sections of a PostConversationSummary
type SummaryOptions struct {
	IncludeVocabulary bool
	IncludeGrammar    bool
	IncludeFluency    bool
	IncludeNextSteps  bool
	DetailLevel       string
}

// BuildSummary composes a summary from an archived record and the current vocabulary
func BuildSummary(record session.HistoryRecord, vocab []session.VocabularyEntry, opts SummaryOptions) PostConversationSummary {
	minutes := record.Summary.Duration / 1000 / 60
	summary := PostConversationSummary{
		Overview: fmt.Sprintf(
			"You completed a %s level conversation in the \"%s\" scenario using %s. The conversation lasted %d minutes and included %d messages.",
			record.Difficulty, record.ScenarioID, record.Language, minutes, record.Summary.MessageCount,
		),
	}
	brief := opts.DetailLevel == "brief"

	var struggled []string
	if opts.IncludeVocabulary {
		section := &VocabularySection{NewWords: []string{}, StruggledWith: []string{}}
		for _, e := range vocab {
			if !e.Added.Before(record.StartTime) && !e.Added.After(record.EndTime) {
				section.NewWords = append(section.NewWords, e.Word)
			}
			if e.Priority >= struggledPriority {
				section.StruggledWith = append(section.StruggledWith, e.Word)
			}
		}
		struggled = section.StruggledWith
		if !brief {
			section.Recommendations = vocabularyRecommendations(section)
		}
		summary.Vocabulary = section
	}

	if opts.IncludeGrammar {
		summary.Grammar = grammarSection(record, brief)
	}

	if opts.IncludeFluency {
		score := defaultFluencyScore
		if record.Summary.FluencyScore != nil {
			score = *record.Summary.FluencyScore
		}
		summary.Fluency = &FluencySection{Score: score, Feedback: fluencyFeedback(score)}
	}

	if opts.IncludeNextSteps {
		summary.NextSteps = nextSteps(record, struggled, brief)
	}

	if opts.DetailLevel == "detailed" {
		corrections := 0
		for _, box := range record.CorrectionBoxes {
			corrections += len(box.Items)
		}
		summary.Activity = &ActivityCounts{
			Hints:       len(record.Hints),
			Challenges:  len(record.Challenges),
			Corrections: corrections,
		}
	}

	return summary
}

func vocabularyRecommendations(section *VocabularySection) []string {
	var recs []string
	if len(section.StruggledWith) > 0 {
		recs = append(recs, "Review the words you found difficult: "+strings.Join(section.StruggledWith, ", "))
	}
	if len(section.NewWords) > 0 {
		recs = append(recs, "Use your new words in your next conversation")
	}
	if len(recs) == 0 {
		recs = append(recs, "Save useful words to your vocabulary list as you meet them")
	}
	return recs
}

func grammarSection(record session.HistoryRecord, brief bool) *GrammarSection {
	section := &GrammarSection{
		Strengths:           []string{},
		AreasForImprovement: []string{},
		Examples:            []GrammarExample{},
	}

	for _, box := range record.CorrectionBoxes {
		for _, item := range box.Items {
			section.Examples = append(section.Examples, GrammarExample{
				Error:       item.Original,
				Correction:  item.Correction,
				Explanation: item.Explanation,
			})
		}
	}
	for _, h := range record.Hints {
		if h.Type == "grammar" {
			section.AreasForImprovement = append(section.AreasForImprovement, h.Content)
		}
	}

	if len(section.Examples) == 0 {
		section.Strengths = append(section.Strengths, "No grammar mistakes were flagged during the conversation")
	} else if len(section.AreasForImprovement) == 0 {
		section.AreasForImprovement = append(section.AreasForImprovement, "Review the corrected sentences below")
	}

	if brief && len(section.Examples) > 2 {
		section.Examples = section.Examples[:2]
	}

	return section
}

func fluencyFeedback(score int) string {
	switch {
	case score >= 9:
		return "Your responses were fluent and natural. Keep challenging yourself with harder scenarios."
	case score >= 7:
		return "Your responses were generally clear but sometimes hesitant. Try to practice more fluid sentence construction."
	default:
		return "Focus on answering in complete sentences without long pauses. Short daily practice will help."
	}
}

func nextSteps(record session.HistoryRecord, struggled []string, brief bool) []string {
	steps := []string{"Review the grammar points highlighted in this summary"}
	if len(struggled) > 0 {
		steps = append(steps, "Review your high-priority vocabulary before the next conversation")
	}
	if record.Difficulty != "advanced" {
		steps = append(steps, "Try increasing the difficulty level for your next conversation")
	}
	steps = append(steps, "Practice a different scenario to broaden your vocabulary")

	if brief {
		return steps[:1]
	}
	return steps
}
