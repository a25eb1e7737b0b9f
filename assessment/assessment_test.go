package assessment

import (
	"reflect"
	"testing"
	"time"
)

const sampleAssessment = "Au revoir ! Thank you for visiting the bakery.\n\n" +
	"You ordered confidently and kept the conversation going. Your pronunciation of nasal vowels is improving.\n\n" +
	"Fluency: 7/10\nVocabulary: 6/10\nGrammar: 8/10\nSpeed: 7/10\n\n" +
	"Tips for improvement:\n1. Practice the partitive articles\n2. Learn more pastry names\n3. Focus on polite question forms\n4. Read menus aloud"

func TestExtract_Scores(t *testing.T) {
	got := Extract(sampleAssessment)
	want := Scores{Fluency: 7, Vocabulary: 6, Grammar: 8, Speed: 7}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestExtract_DefaultsWhenMissing(t *testing.T) {
	got := Extract("Merci beaucoup, à bientôt !")
	want := Scores{Fluency: 5, Vocabulary: 5, Grammar: 5, Speed: 5}
	if got != want {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestExtract_ClampsAndIgnoresCase(t *testing.T) {
	got := Extract("FLUENCY: 12, vocabulary:0, Response speed:9")
	if got.Fluency != 10 || got.Vocabulary != 1 || got.Speed != 9 || got.Grammar != 5 {
		t.Fatalf("unexpected scores %+v", got)
	}
}

func TestRecommendations_FromSection(t *testing.T) {
	got := Recommendations(sampleAssessment)
	want := []string{
		"Practice the partitive articles",
		"Learn more pastry names",
		"Focus on polite question forms",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRecommendations_BulletsEndAtBlankLine(t *testing.T) {
	text := "Suggestions:\n• Use more connectors\n• Slow down\n\nSee you next time!"
	got := Recommendations(text)
	want := []string{"Use more connectors", "Slow down"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRecommendations_KeywordFallback(t *testing.T) {
	text := "Nice chat. You should review numbers! Try to speak in full sentences. The weather was lovely."
	got := Recommendations(text)
	want := []string{"You should review numbers", "Try to speak in full sentences"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPersonalizedFeedback(t *testing.T) {
	got := PersonalizedFeedback(sampleAssessment)
	want := "Au revoir. You ordered confidently and kept the conversation going"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPersonalizedFeedback_Default(t *testing.T) {
	if got := PersonalizedFeedback("Thank you! Goodbye! Fluency: 7/10"); got != DefaultFeedback {
		t.Fatalf("expected default feedback, got %q", got)
	}
}

func TestLetterGrade(t *testing.T) {
	cases := map[float64]string{10: "A", 9: "A", 8.5: "B", 7: "C", 6.9: "D", 5: "E", 4.9: "F", 1: "F"}
	for score, want := range cases {
		if got := LetterGrade(score); got != want {
			t.Fatalf("LetterGrade(%v) = %s, want %s", score, got, want)
		}
	}
}

func TestAverage_FilterAndRounding(t *testing.T) {
	results := []Result{
		{Scores: Scores{Fluency: 7, Vocabulary: 6, Grammar: 8, Speed: 7}, Language: "french"},
		{Scores: Scores{Fluency: 8, Vocabulary: 6, Grammar: 7, Speed: 9}, Language: "french"},
		{Scores: Scores{Fluency: 5, Vocabulary: 5, Grammar: 5, Speed: 5}, Language: "german"},
	}

	all := Average(results, "all")
	if all.Count != 3 || all.Fluency != 6.7 || all.Speed != 7 {
		t.Fatalf("unexpected overall averages %+v", all)
	}

	french := Average(results, "french")
	if french.Count != 2 || french.Fluency != 7.5 || french.Grammar != 7.5 {
		t.Fatalf("unexpected french averages %+v", french)
	}

	if none := Average(results, "spanish"); none.Count != 0 || none.Fluency != 0 {
		t.Fatalf("expected empty averages, got %+v", none)
	}
}

func TestProgress_OldestFirst(t *testing.T) {
	var newestFirst []Result
	for i := 7; i >= 1; i-- {
		newestFirst = append(newestFirst, Result{Scores: Scores{Fluency: i}})
	}
	got := Progress(newestFirst, 5)
	if len(got) != 5 || got[0].Fluency != 3 || got[4].Fluency != 7 {
		t.Fatalf("unexpected progress %+v", got)
	}
}

func TestAnalyze(t *testing.T) {
	date := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := Analyze(sampleAssessment, Meta{Language: "french", Scenario: "bakery", ScenarioName: "Bakery", Date: date})
	if r.Grammar != 8 || r.Language != "french" || !r.Date.Equal(date) || len(r.Recommendations) != 3 || r.Feedback == "" {
		t.Fatalf("unexpected analysis %+v", r)
	}
}
