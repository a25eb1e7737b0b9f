package prompt

import (
	"fmt"
	"strings"

	"github.com/nachoal/lingo-tutor-go/scenario"
)

const assessmentInstruction = "After the conversation ends (when both parties have said goodbye), provide a language assessment in English with scores out of 10 for: fluency, vocabulary, grammar, and response speed. Also include 2-3 specific tips for improvement."

// ForScenario builds the role-play system prompt for a scenario and
// language. Unknown scenarios get a generic practice-partner prompt.
func ForScenario(catalog *scenario.Catalog, scenarioID, language string) string {
	lang := catalog.LanguageName(language)

	s, ok := catalog.Get(scenarioID)
	if !ok {
		return fmt.Sprintf("You are a friendly %s speaker helping someone practice their language skills. "+
			"Your first message should be in %s. After the conversation ends, provide a language assessment in English "+
			"with scores out of 10 for: fluency, vocabulary, grammar, and response speed. Also include 2-3 specific tips for improvement.",
			lang, lang)
	}

	lines := []string{
		fmt.Sprintf("You are %s.", strings.ReplaceAll(s.Role, "{language}", lang)),
		fmt.Sprintf("The user is practicing their %s language skills.", lang),
		fmt.Sprintf("Respond in %s and keep your responses simple and appropriate for a language learner.", lang),
		"If the user makes mistakes, occasionally provide gentle corrections.",
		s.Setting,
	}
	if greeting := s.Greeting(language); greeting != "" {
		lines = append(lines, fmt.Sprintf("Your first message should be: %q", greeting))
	}
	if s.Task != "" {
		lines = append(lines, s.Task)
	}
	lines = append(lines,
		"End the conversation naturally when the interaction is complete.",
		assessmentInstruction,
	)
	return strings.Join(lines, "\n")
}
