package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	seq := 0
	s := New(
		WithClock(clock.Now),
		WithScoreSource(func() int { return 8 }),
		WithIDGenerator(func(prefix string) string {
			seq++
			return fmt.Sprintf("%s_%d", prefix, seq)
		}),
	)
	return s, clock
}

func TestStart_Defaults(t *testing.T) {
	s, _ := newTestStore()
	id, err := s.Start(StartInput{ScenarioID: "bakery"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if id != "conv_1" {
		t.Fatalf("unexpected id %s", id)
	}

	active, ok := s.Active()
	if !ok {
		t.Fatalf("expected active session")
	}
	if active.Language != "french" || active.Difficulty != "beginner" {
		t.Fatalf("defaults not applied: %+v", active)
	}
}

func TestStart_TwiceIsStateConflict(t *testing.T) {
	s, _ := newTestStore()
	first, _ := s.Start(StartInput{ScenarioID: "bakery"})

	_, err := s.Start(StartInput{ScenarioID: "hotel"})
	if !errors.Is(err, ErrSessionActive) {
		t.Fatalf("expected ErrSessionActive, got %v", err)
	}
	if !IsStateConflict(err) {
		t.Fatalf("expected state conflict classification")
	}

	active, _ := s.Active()
	if active.ID != first || active.ScenarioID != "bakery" {
		t.Fatalf("first session was replaced: %+v", active)
	}
}

func TestStart_RequiresScenario(t *testing.T) {
	s, _ := newTestStore()
	if _, err := s.Start(StartInput{ScenarioID: "  "}); !errors.Is(err, ErrMissingScenario) {
		t.Fatalf("expected ErrMissingScenario, got %v", err)
	}
	if _, ok := s.Active(); ok {
		t.Fatalf("no session should be active")
	}
}

func TestEnd_ArchivesAndClears(t *testing.T) {
	s, clock := newTestStore()
	_, _ = s.Start(StartInput{ScenarioID: "bakery"})
	clock.Advance(3 * time.Minute)

	summary, err := s.End(true, true)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if summary.Duration != (3 * time.Minute).Milliseconds() {
		t.Fatalf("unexpected duration %d", summary.Duration)
	}
	if summary.FluencyScore == nil || *summary.FluencyScore != 8 {
		t.Fatalf("expected fluency score 8, got %v", summary.FluencyScore)
	}

	if _, ok := s.Active(); ok {
		t.Fatalf("session should be cleared")
	}

	record, err := s.LastRecord()
	if err != nil {
		t.Fatalf("LastRecord: %v", err)
	}
	if record.ScenarioID != "bakery" || record.Summary.MessageCount != 0 {
		t.Fatalf("unexpected record %+v", record)
	}

	_, err = s.AddHint(HintInput{Type: "grammar", Content: "x"})
	if !errors.Is(err, ErrNoActiveSession) || err.Error() != "no active conversation to add hint to" {
		t.Fatalf("expected no active conversation error, got %v", err)
	}
}

func TestEnd_WithoutSaveOrFeedback(t *testing.T) {
	s, _ := newTestStore()
	_, _ = s.Start(StartInput{ScenarioID: "bakery"})

	summary, err := s.End(false, false)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if summary.FluencyScore != nil || summary.GrammarScore != nil {
		t.Fatalf("scores must be omitted without feedback: %+v", summary)
	}
	if _, err := s.LastRecord(); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
	if _, ok := s.Active(); ok {
		t.Fatalf("session should be cleared even when not archived")
	}
}

func TestEnd_NoActiveSession(t *testing.T) {
	s, _ := newTestStore()
	_, err := s.End(true, true)
	if err == nil || err.Error() != "no active conversation to end" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDefaultScoresInRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		if v := randomScore(); v < 5 || v > 10 {
			t.Fatalf("score %d out of range", v)
		}
	}
}

func TestAddHint_LogsGlobally(t *testing.T) {
	s, _ := newTestStore()
	convID, _ := s.Start(StartInput{ScenarioID: "bakery"})

	id, err := s.AddHint(HintInput{Type: "vocabulary", Content: "pain = bread"})
	if err != nil {
		t.Fatalf("AddHint: %v", err)
	}

	st := s.Snapshot()
	if len(st.ActiveConversation.Hints) != 1 || st.ActiveConversation.Hints[0].ID != id {
		t.Fatalf("hint not attached to session")
	}
	if st.ActiveConversation.Hints[0].Timing != "immediate" {
		t.Fatalf("timing default not applied")
	}
	if len(st.Hints) != 1 || st.Hints[0].ConversationID != convID {
		t.Fatalf("hint not logged globally: %+v", st.Hints)
	}
}

func TestAddHint_BlankContentLeavesStoreUntouched(t *testing.T) {
	s, _ := newTestStore()
	_, _ = s.Start(StartInput{ScenarioID: "bakery"})

	if _, err := s.AddHint(HintInput{Type: "grammar", Content: "   "}); !errors.Is(err, ErrMissingContent) {
		t.Fatalf("expected ErrMissingContent, got %v", err)
	}
	if st := s.Snapshot(); len(st.Hints) != 0 || len(st.ActiveConversation.Hints) != 0 {
		t.Fatalf("store modified on validation failure")
	}
}

func TestAddChallenge(t *testing.T) {
	s, _ := newTestStore()
	if _, err := s.AddChallenge(ChallengeInput{Level: "easy", Content: "Order a croissant"}); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}

	_, _ = s.Start(StartInput{ScenarioID: "bakery"})
	id, err := s.AddChallenge(ChallengeInput{Level: "easy", Content: "Order a croissant", TimeLimit: 30})
	if err != nil {
		t.Fatalf("AddChallenge: %v", err)
	}

	st := s.Snapshot()
	if len(st.Challenges) != 1 || st.Challenges[0].ID != id || st.Challenges[0].TimeLimit != 30 {
		t.Fatalf("challenge not logged: %+v", st.Challenges)
	}
}

func TestAddVocab_DuplicateKey(t *testing.T) {
	s, _ := newTestStore()

	id, exists, err := s.AddVocab(VocabInput{Word: "Bonjour", Translation: "hello"})
	if err != nil || exists || id != "bonjour" {
		t.Fatalf("first insert: id=%s exists=%v err=%v", id, exists, err)
	}

	id, exists, err = s.AddVocab(VocabInput{Word: " bonjour ", Translation: "good day"})
	if err != nil || !exists || id != "bonjour" {
		t.Fatalf("second insert: id=%s exists=%v err=%v", id, exists, err)
	}

	vocab := s.Vocabulary()
	if len(vocab) != 1 {
		t.Fatalf("expected one entry, got %d", len(vocab))
	}
	if vocab[0].Translation != "hello" || vocab[0].Priority != 3 {
		t.Fatalf("existing entry was overwritten: %+v", vocab[0])
	}
}

func TestAddVocab_ClampsPriority(t *testing.T) {
	s, _ := newTestStore()
	_, _, _ = s.AddVocab(VocabInput{Word: "merci", Priority: 9})
	if got := s.Vocabulary()[0].Priority; got != 5 {
		t.Fatalf("expected clamped priority 5, got %d", got)
	}
}

func TestAddVocab_SurvivesEnd(t *testing.T) {
	s, _ := newTestStore()
	_, _ = s.Start(StartInput{ScenarioID: "bakery"})
	_, _, _ = s.AddVocab(VocabInput{Word: "pain"})
	_, _ = s.End(true, true)

	if len(s.Vocabulary()) != 1 {
		t.Fatalf("vocabulary must persist across sessions")
	}
}

func TestAdjustVocabPriority_Clamps(t *testing.T) {
	s, _ := newTestStore()
	_, _, _ = s.AddVocab(VocabInput{Word: "bonjour"})

	p, err := s.AdjustVocabPriority("bonjour", 10)
	if err != nil || p != 5 {
		t.Fatalf("expected 5, got %d (err=%v)", p, err)
	}

	p, err = s.AdjustVocabPriority("BONJOUR", -10)
	if err != nil || p != 1 {
		t.Fatalf("expected 1, got %d (err=%v)", p, err)
	}

	p, _ = s.AdjustVocabPriority("bonjour", 1.6)
	if p != 3 {
		t.Fatalf("expected fractional delta to round to 3, got %d", p)
	}
}

func TestAdjustVocabPriority_UnknownWord(t *testing.T) {
	s, _ := newTestStore()
	_, err := s.AdjustVocabPriority("Chat", 1)
	if !errors.Is(err, ErrWordNotFound) {
		t.Fatalf("expected ErrWordNotFound, got %v", err)
	}
	if err.Error() != `word "chat" not found in vocabulary` {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAddCorrectionBox(t *testing.T) {
	s, _ := newTestStore()
	items := []CorrectionItem{{Original: "un baguette", Correction: "une baguette"}}

	if _, err := s.AddCorrectionBox(items, true); err == nil || err.Error() != "no active conversation to show corrections in" {
		t.Fatalf("expected no active error, got %v", err)
	}

	id, err := s.AddCorrectionBox(items, false)
	if err != nil || id == "" {
		t.Fatalf("deferred box without session should succeed: %v", err)
	}

	_, _ = s.Start(StartInput{ScenarioID: "bakery"})
	if _, err := s.AddCorrectionBox(items, true); err != nil {
		t.Fatalf("AddCorrectionBox: %v", err)
	}
	active, _ := s.Active()
	if len(active.CorrectionBoxes) != 1 {
		t.Fatalf("box not attached to session")
	}

	if _, err := s.AddCorrectionBox(nil, true); !errors.Is(err, ErrNoCorrectionItems) {
		t.Fatalf("expected ErrNoCorrectionItems, got %v", err)
	}
	if _, err := s.AddCorrectionBox([]CorrectionItem{{Original: "x"}}, true); !errors.Is(err, ErrIncompleteCorrection) {
		t.Fatalf("expected ErrIncompleteCorrection, got %v", err)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	s, _ := newTestStore()
	_, _ = s.Start(StartInput{ScenarioID: "bakery", FocusAreas: []string{"greetings"}})

	st := s.Snapshot()
	st.ActiveConversation.FocusAreas[0] = "mutated"

	active, _ := s.Active()
	if active.FocusAreas[0] != "greetings" {
		t.Fatalf("snapshot shares memory with the store")
	}
}

func TestStart_ConcurrentCallersOnlyOneWins(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Start(StartInput{ScenarioID: "bakery"}); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one successful start, got %d", wins)
	}
}
