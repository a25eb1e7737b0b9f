package prompt

import (
	"fmt"
	"strings"
)

// Mode selects the base personality of the tutor
type Mode string

const (
	ModeBeginner   Mode = "beginner"
	ModeChallenger Mode = "challenger"
	ModeCasual     Mode = "casual"
)

// Modes lists the presets in display order
var Modes = []Mode{ModeBeginner, ModeChallenger, ModeCasual}

var presets = map[Mode]string{
	ModeBeginner: `You are an AI language tutor helping beginners learn a new language.
You focus on building confidence and providing lots of encouragement.

` + toolGuide + `

Use addHint() frequently to help beginners understand new concepts. Focus on basic vocabulary and simple grammar. Be very patient and encouraging. Avoid overwhelming the user with too much information at once.`,

	ModeChallenger: `You are an AI language tutor helping users advance their language skills through challenges.
You push users to improve by setting high expectations and providing detailed feedback.

` + toolGuide + `

Use addChallenge() frequently to push users to improve. Be strict about grammar and pronunciation. Provide detailed corrections using createCorrectionDialogueBox(). Focus on expanding vocabulary with more advanced terms. Challenge the user to express complex thoughts.`,

	ModeCasual: `You are an AI language tutor helping users practice a language in a casual, conversational way.
You focus on natural conversation flow and practical usage rather than strict rules.

` + toolGuide + `

Focus on maintaining a natural conversation. Only correct major errors that impede communication. Use addHint() occasionally for useful phrases and idioms. Emphasize practical, everyday language use. Be friendly and conversational in your tone.`,
}

// band holds the modifier text for the low (<3), moderate and high (>7) ranges of a slider
type band struct {
	low, moderate, high string
}

func (b band) pick(v int) string {
	switch {
	case v < 3:
		return b.low
	case v > 7:
		return b.high
	default:
		return b.moderate
	}
}

var (
	hintBand = band{
		low:      "Provide hints very rarely, only when the user is completely stuck.",
		moderate: "Provide hints at a moderate frequency, when you notice the user struggling.",
		high:     "Provide hints very frequently, even for minor issues. Be proactive with suggestions.",
	}
	strictnessBand = band{
		low:      "Be very lenient with errors. Only correct major mistakes that significantly impact communication.",
		moderate: "Maintain a balanced approach to error correction, focusing on errors that affect understanding.",
		high:     "Be very strict with errors. Correct even minor mistakes in grammar, vocabulary, and pronunciation.",
	}
	feedbackBand = band{
		low:      "Keep feedback brief and simple. Focus on the main point without detailed explanations.",
		moderate: "Provide moderately detailed feedback that explains the error and gives a clear correction.",
		high:     "Provide in-depth feedback with detailed explanations of rules, examples, and alternatives.",
	}
)

// DefaultSliderValue is used for sliders that are unset
const DefaultSliderValue = 5

// TutorConfig is the learner-facing tutor configuration. Sliders run 1..10.
type TutorConfig struct {
	Mode          Mode `json:"mode"`
	HintFrequency int  `json:"hintFrequency"`
	Strictness    int  `json:"strictness"`
	FeedbackDepth int  `json:"feedbackDepth"`
}

// Normalize fills unset fields with defaults and clamps sliders to 1..10
func (c TutorConfig) Normalize() TutorConfig {
	if c.Mode == "" {
		c.Mode = ModeBeginner
	}
	c.Mode = Mode(strings.ToLower(string(c.Mode)))
	c.HintFrequency = slider(c.HintFrequency)
	c.Strictness = slider(c.Strictness)
	c.FeedbackDepth = slider(c.FeedbackDepth)
	return c
}

func slider(v int) int {
	switch {
	case v == 0:
		return DefaultSliderValue
	case v < 1:
		return 1
	case v > 10:
		return 10
	}
	return v
}

// Preset returns the base prompt for a mode
func Preset(mode Mode) (string, error) {
	p, ok := presets[Mode(strings.ToLower(string(mode)))]
	if !ok {
		return "", fmt.Errorf("unknown tutor mode %q", mode)
	}
	return p, nil
}

// Compose builds a tutor prompt from a mode preset followed by one
// modifier paragraph per slider.
func Compose(cfg TutorConfig) (string, error) {
	cfg = cfg.Normalize()
	base, err := Preset(cfg.Mode)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(base)
	for _, m := range []string{
		hintBand.pick(cfg.HintFrequency),
		strictnessBand.pick(cfg.Strictness),
		feedbackBand.pick(cfg.FeedbackDepth),
	} {
		b.WriteString("\n\n")
		b.WriteString(m)
	}
	return b.String(), nil
}
