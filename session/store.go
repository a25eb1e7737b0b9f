// Package session holds the in-memory learning state the tutor tools mutate:
// the single active conversation, the global vocabulary and the archive of
// finished conversations. Every method serialises on one mutex.
package session

import (
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultLanguage   = "french"
	defaultDifficulty = "beginner"
	defaultTiming     = "immediate"
	defaultPriority   = 3
	minPriority       = 1
	maxPriority       = 5
)

// Store is the session state store
type Store struct {
	mu sync.Mutex

	now   func() time.Time
	score func() int
	newID func(prefix string) string

	active     *Session
	vocabulary map[string]*VocabularyEntry
	history    []HistoryRecord
	hints      []LoggedHint
	challenges []LoggedChallenge
}

// Option configures a Store
type Option func(*Store)

// WithClock sets the time source
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithScoreSource sets the generator for placeholder feedback scores
func WithScoreSource(score func() int) Option {
	return func(s *Store) {
		s.score = score
	}
}

// WithIDGenerator sets the generator for conversation, hint, challenge and correction IDs
func WithIDGenerator(newID func(prefix string) string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// New creates an empty store
func New(opts ...Option) *Store {
	s := &Store{
		now:        time.Now,
		score:      randomScore,
		newID:      uuidID,
		vocabulary: make(map[string]*VocabularyEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func randomScore() int {
	return 5 + rand.IntN(6)
}

func uuidID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Start opens a new conversation and returns its ID
func (s *Store) Start(in StartInput) (string, error) {
	if strings.TrimSpace(in.ScenarioID) == "" {
		return "", ErrMissingScenario
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return "", ErrSessionActive
	}

	sess := &Session{
		ID:              s.newID("conv"),
		ScenarioID:      in.ScenarioID,
		Language:        orDefault(in.Language, defaultLanguage),
		Difficulty:      orDefault(in.Difficulty, defaultDifficulty),
		FocusAreas:      append([]string{}, in.FocusAreas...),
		StartTime:       s.now(),
		Messages:        []Turn{},
		Hints:           []Hint{},
		Challenges:      []Challenge{},
		CorrectionBoxes: []CorrectionBox{},
	}
	s.active = sess

	return sess.ID, nil
}

// End closes the active conversation. The slot is cleared whether or not the
// conversation is archived.
func (s *Store) End(saveToHistory, generateFeedback bool) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return Summary{}, noActive("end")
	}

	end := s.now()
	sess := s.active
	summary := Summary{
		Duration:     end.Sub(sess.StartTime).Milliseconds(),
		MessageCount: len(sess.Messages),
	}

	if generateFeedback {
		summary.FluencyScore = intPtr(s.score())
		summary.VocabularyScore = intPtr(s.score())
		summary.GrammarScore = intPtr(s.score())
		summary.ResponseSpeedScore = intPtr(s.score())
	}

	if saveToHistory {
		s.history = append(s.history, HistoryRecord{
			Session: *sess,
			Summary: summary,
			EndTime: end,
		})
	}

	s.active = nil

	return summary, nil
}

// AddHint attaches a hint to the active conversation
func (s *Store) AddHint(in HintInput) (string, error) {
	if strings.TrimSpace(in.Content) == "" {
		return "", ErrMissingContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return "", noActive("add hint to")
	}

	hint := Hint{
		ID:                   s.newID("hint"),
		Type:                 in.Type,
		Content:              in.Content,
		Timing:               orDefault(in.Timing, defaultTiming),
		HighlightRelatedText: in.HighlightRelatedText,
		Created:              s.now(),
	}
	s.active.Hints = append(s.active.Hints, hint)
	s.hints = append(s.hints, LoggedHint{Hint: hint, ConversationID: s.active.ID})

	return hint.ID, nil
}

// AddChallenge attaches a challenge to the active conversation
func (s *Store) AddChallenge(in ChallengeInput) (string, error) {
	if strings.TrimSpace(in.Content) == "" {
		return "", ErrMissingContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return "", noActive("add challenge to")
	}

	challenge := Challenge{
		ID:                s.newID("challenge"),
		Level:             in.Level,
		Content:           in.Content,
		ExpectedResponse:  in.ExpectedResponse,
		TimeLimit:         in.TimeLimit,
		ShowAfterMessages: in.ShowAfterMessages,
		Created:           s.now(),
	}
	s.active.Challenges = append(s.active.Challenges, challenge)
	s.challenges = append(s.challenges, LoggedChallenge{Challenge: challenge, ConversationID: s.active.ID})

	return challenge.ID, nil
}

// AddVocab inserts a word unless its key already exists. Existing entries
// are never overwritten.
func (s *Store) AddVocab(in VocabInput) (wordID string, alreadyExists bool, err error) {
	key := VocabKey(in.Word)
	if key == "" {
		return "", false, ErrMissingWord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vocabulary[key]; ok {
		return key, true, nil
	}

	priority := in.Priority
	if priority == 0 {
		priority = defaultPriority
	}

	s.vocabulary[key] = &VocabularyEntry{
		Word:        key,
		Translation: in.Translation,
		Context:     in.Context,
		Notes:       in.Notes,
		Priority:    clampPriority(priority),
		Added:       s.now(),
	}

	return key, false, nil
}

// AdjustVocabPriority shifts a word's priority by delta, clamped to 1..5
func (s *Store) AdjustVocabPriority(word string, delta float64) (int, error) {
	key := VocabKey(word)
	if key == "" {
		return 0, ErrMissingWord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.vocabulary[key]
	if !ok {
		return 0, wordNotFound(key)
	}

	next := math.Round(float64(entry.Priority) + delta)
	if next < minPriority {
		next = minPriority
	}
	if next > maxPriority {
		next = maxPriority
	}
	entry.Priority = int(next)

	return entry.Priority, nil
}

// AddCorrectionBox records a set of corrections. When showImmediately is set
// a conversation must be in progress; otherwise the box is only attached if
// one happens to be.
func (s *Store) AddCorrectionBox(items []CorrectionItem, showImmediately bool) (string, error) {
	if len(items) == 0 {
		return "", ErrNoCorrectionItems
	}
	for _, item := range items {
		if strings.TrimSpace(item.Original) == "" || strings.TrimSpace(item.Correction) == "" {
			return "", ErrIncompleteCorrection
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if showImmediately && s.active == nil {
		return "", noActive("show corrections in")
	}

	box := CorrectionBox{
		ID:      s.newID("correction"),
		Items:   append([]CorrectionItem{}, items...),
		Created: s.now(),
	}
	if s.active != nil {
		s.active.CorrectionBoxes = append(s.active.CorrectionBoxes, box)
	}

	return box.ID, nil
}

// LastRecord returns the most recently archived conversation
func (s *Store) LastRecord() (HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return HistoryRecord{}, ErrNoHistory
	}
	return cloneRecord(s.history[len(s.history)-1]), nil
}

// Active returns a copy of the conversation in progress, if any
func (s *Store) Active() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return Session{}, false
	}
	return cloneSession(*s.active), true
}

// Vocabulary returns all entries ordered by word
func (s *Store) Vocabulary() []VocabularyEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]VocabularyEntry, 0, len(s.vocabulary))
	for _, e := range s.vocabulary {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Word < entries[j].Word
	})
	return entries
}

// Snapshot returns a deep copy of the whole store
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Vocabulary:          make(map[string]VocabularyEntry, len(s.vocabulary)),
		ConversationHistory: make([]HistoryRecord, 0, len(s.history)),
		Hints:               append([]LoggedHint{}, s.hints...),
		Challenges:          append([]LoggedChallenge{}, s.challenges...),
	}
	if s.active != nil {
		active := cloneSession(*s.active)
		st.ActiveConversation = &active
	}
	for k, e := range s.vocabulary {
		st.Vocabulary[k] = *e
	}
	for _, r := range s.history {
		st.ConversationHistory = append(st.ConversationHistory, cloneRecord(r))
	}
	return st
}

// VocabKey is the normalised vocabulary key for word
func VocabKey(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

func clampPriority(p int) int {
	if p < minPriority {
		return minPriority
	}
	if p > maxPriority {
		return maxPriority
	}
	return p
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func intPtr(v int) *int {
	return &v
}

func cloneSession(s Session) Session {
	s.FocusAreas = append([]string{}, s.FocusAreas...)
	s.Messages = append([]Turn{}, s.Messages...)
	s.Hints = append([]Hint{}, s.Hints...)
	s.Challenges = append([]Challenge{}, s.Challenges...)
	boxes := make([]CorrectionBox, len(s.CorrectionBoxes))
	for i, b := range s.CorrectionBoxes {
		b.Items = append([]CorrectionItem{}, b.Items...)
		boxes[i] = b
	}
	s.CorrectionBoxes = boxes
	return s
}

func cloneRecord(r HistoryRecord) HistoryRecord {
	r.Session = cloneSession(r.Session)
	return r
}
