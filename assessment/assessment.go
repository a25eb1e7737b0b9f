// Package assessment mines the end-of-conversation assessment the model
// writes in free text. Every extractor degrades to a default instead of
// failing: missing scores are 5, missing feedback is a stock sentence.
package assessment

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultScore is used for any score the text does not mention
	DefaultScore = 5
	// DefaultFeedback is used when no personalised sentence survives filtering
	DefaultFeedback = "You did well in this conversation!"

	maxRecommendations = 3
	maxFeedbackLines   = 2
)

var (
	fluencyRe    = regexp.MustCompile(`(?i)fluency:\s*(\d+)`)
	vocabularyRe = regexp.MustCompile(`(?i)vocabulary:\s*(\d+)`)
	grammarRe    = regexp.MustCompile(`(?i)grammar:\s*(\d+)`)
	speedRe      = regexp.MustCompile(`(?i)speed:\s*(\d+)`)

	scoreLineRe     = regexp.MustCompile(`(?i)(?:fluency|vocabulary|grammar|speed):\s*\d+/10`)
	recommendRe     = regexp.MustCompile(`(?is)(?:tips for improvement|recommendations|suggestions)(?::|\.)(.*?)(?:\n\n|\n$|$)`)
	itemSeparatorRe = regexp.MustCompile(`\n|•|\d+\.`)
	sentenceRe      = regexp.MustCompile(`[.!?]`)

	recommendationKeywords = []string{"should", "try", "practice", "focus", "improve", "work on", "consider"}
	greetingKeywords       = []string{"thank", "goodbye", "well done", "great job"}
)

// Scores are the four sub-scores of an assessment, each 1..10
type Scores struct {
	Fluency    int `json:"fluency"`
	Vocabulary int `json:"vocabulary"`
	Grammar    int `json:"grammar"`
	Speed      int `json:"speed"`
}

// Result is a parsed assessment as stored in the learner's history
type Result struct {
	ID string `json:"id,omitempty"`
	Scores
	Text            string    `json:"text"`
	Date            time.Time `json:"date"`
	Language        string    `json:"language"`
	Scenario        string    `json:"scenario"`
	ScenarioName    string    `json:"scenarioName,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
	Feedback        string    `json:"feedback,omitempty"`
}

// Meta describes the conversation an assessment belongs to
type Meta struct {
	Language     string
	Scenario     string
	ScenarioName string
	Date         time.Time
}

// Analyze runs every extractor over text
func Analyze(text string, meta Meta) Result {
	date := meta.Date
	if date.IsZero() {
		date = time.Now()
	}
	return Result{
		Scores:          Extract(text),
		Text:            text,
		Date:            date,
		Language:        meta.Language,
		Scenario:        meta.Scenario,
		ScenarioName:    meta.ScenarioName,
		Recommendations: Recommendations(text),
		Feedback:        PersonalizedFeedback(text),
	}
}

// Extract reads the "fluency: N" style scores from text
func Extract(text string) Scores {
	return Scores{
		Fluency:    findScore(fluencyRe, text),
		Vocabulary: findScore(vocabularyRe, text),
		Grammar:    findScore(grammarRe, text),
		Speed:      findScore(speedRe, text),
	}
}

func findScore(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return DefaultScore
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultScore
	}
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

// Recommendations returns up to three tips, taken from a "tips for
// improvement" style section when there is one and otherwise from
// sentences that sound like advice.
func Recommendations(text string) []string {
	if m := recommendRe.FindStringSubmatch(text); m != nil && m[1] != "" {
		var out []string
		for _, item := range itemSeparatorRe.Split(m[1], -1) {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			out = append(out, item)
			if len(out) == maxRecommendations {
				break
			}
		}
		return out
	}

	var out []string
	for _, s := range sentences(text) {
		if containsAny(strings.ToLower(s), recommendationKeywords) {
			out = append(out, s)
			if len(out) == maxRecommendations {
				break
			}
		}
	}
	return out
}

// PersonalizedFeedback returns one or two sentences that are neither
// scores, tips nor pleasantries.
func PersonalizedFeedback(text string) string {
	cleaned := scoreLineRe.ReplaceAllString(text, "")
	if loc := recommendRe.FindStringIndex(cleaned); loc != nil {
		cleaned = cleaned[:loc[0]] + cleaned[loc[1]:]
	}

	var picked []string
	for _, s := range sentences(cleaned) {
		if containsAny(strings.ToLower(s), greetingKeywords) {
			continue
		}
		picked = append(picked, s)
		if len(picked) == maxFeedbackLines {
			break
		}
	}

	if len(picked) == 0 {
		return DefaultFeedback
	}
	return strings.Join(picked, ". ")
}

// LetterGrade maps a 1..10 score to A-F
func LetterGrade(score float64) string {
	switch {
	case score >= 9:
		return "A"
	case score >= 8:
		return "B"
	case score >= 7:
		return "C"
	case score >= 6:
		return "D"
	case score >= 5:
		return "E"
	default:
		return "F"
	}
}

// Averages are mean scores rounded to one decimal
type Averages struct {
	Fluency    float64 `json:"fluency"`
	Vocabulary float64 `json:"vocabulary"`
	Grammar    float64 `json:"grammar"`
	Speed      float64 `json:"speed"`
	Count      int     `json:"count"`
}

// Average computes mean scores over results. An empty language or "all"
// includes every result.
func Average(results []Result, language string) Averages {
	var totals Scores
	var avg Averages
	for _, r := range Filter(results, language) {
		totals.Fluency += r.Fluency
		totals.Vocabulary += r.Vocabulary
		totals.Grammar += r.Grammar
		totals.Speed += r.Speed
		avg.Count++
	}
	if avg.Count == 0 {
		return avg
	}

	n := float64(avg.Count)
	avg.Fluency = round1(float64(totals.Fluency) / n)
	avg.Vocabulary = round1(float64(totals.Vocabulary) / n)
	avg.Grammar = round1(float64(totals.Grammar) / n)
	avg.Speed = round1(float64(totals.Speed) / n)
	return avg
}

// Filter keeps the results for language; "" and "all" keep everything
func Filter(results []Result, language string) []Result {
	if language == "" || language == "all" {
		return results
	}
	var out []Result
	for _, r := range results {
		if r.Language == language {
			out = append(out, r)
		}
	}
	return out
}

// Progress returns up to n of the newest results, oldest first, for
// charting. results must be ordered newest first.
func Progress(results []Result, n int) []Result {
	if n > len(results) {
		n = len(results)
	}
	out := make([]Result, n)
	for i := 0; i < n; i++ {
		out[i] = results[n-1-i]
	}
	return out
}

func sentences(text string) []string {
	var out []string
	for _, s := range sentenceRe.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
