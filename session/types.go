package session

import "time"

// Turn is one chat message recorded against a session
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the single in-progress learning conversation
type Session struct {
	ID              string          `json:"id"`
	ScenarioID      string          `json:"scenarioID"`
	Language        string          `json:"language"`
	Difficulty      string          `json:"difficulty"`
	FocusAreas      []string        `json:"focusAreas"`
	StartTime       time.Time       `json:"startTime"`
	Messages        []Turn          `json:"messages"`
	Hints           []Hint          `json:"hints"`
	Challenges      []Challenge     `json:"challenges"`
	CorrectionBoxes []CorrectionBox `json:"correctionBoxes"`
}

// VocabularyEntry is a word the learner collected; keyed by its lower-cased form
type VocabularyEntry struct {
	Word         string     `json:"word"`
	Translation  string     `json:"translation"`
	Context      string     `json:"context"`
	Notes        string     `json:"notes"`
	Priority     int        `json:"priority"`
	Added        time.Time  `json:"added"`
	LastReviewed *time.Time `json:"lastReviewed"`
	ReviewCount  int        `json:"reviewCount"`
}

// Hint is a contextual tip shown during a conversation
type Hint struct {
	ID                   string    `json:"id"`
	Type                 string    `json:"type"`
	Content              string    `json:"content"`
	Timing               string    `json:"timing"`
	HighlightRelatedText bool      `json:"highlightRelatedText"`
	Created              time.Time `json:"created"`
	Shown                bool      `json:"shown"`
}

// Challenge is a task the learner is asked to complete
type Challenge struct {
	ID                string    `json:"id"`
	Level             string    `json:"level"`
	Content           string    `json:"content"`
	ExpectedResponse  *string   `json:"expectedResponse"`
	TimeLimit         int       `json:"timeLimit"`
	ShowAfterMessages int       `json:"showAfterMessages"`
	Created           time.Time `json:"created"`
	Shown             bool      `json:"shown"`
	Completed         bool      `json:"completed"`
	UserResponse      *string   `json:"userResponse"`
}

// CorrectionItem pairs a learner mistake with its correction
type CorrectionItem struct {
	Original    string `json:"original"`
	Correction  string `json:"correction"`
	Explanation string `json:"explanation,omitempty"`
}

// CorrectionBox groups corrections shown together
type CorrectionBox struct {
	ID      string           `json:"id"`
	Items   []CorrectionItem `json:"items"`
	Created time.Time        `json:"created"`
	Shown   bool             `json:"shown"`
}

// LoggedHint is a hint in the global log, tagged with its conversation
type LoggedHint struct {
	Hint
	ConversationID string `json:"conversationID"`
}

// LoggedChallenge is a challenge in the global log, tagged with its conversation
type LoggedChallenge struct {
	Challenge
	ConversationID string `json:"conversationID"`
}

// Summary is computed when a conversation ends. Scores are nil when
// feedback generation was disabled.
type Summary struct {
	Duration           int64 `json:"duration"` // milliseconds
	MessageCount       int   `json:"messageCount"`
	FluencyScore       *int  `json:"fluencyScore,omitempty"`
	VocabularyScore    *int  `json:"vocabularyScore,omitempty"`
	GrammarScore       *int  `json:"grammarScore,omitempty"`
	ResponseSpeedScore *int  `json:"responseSpeedScore,omitempty"`
}

// HistoryRecord is an archived session with its summary
type HistoryRecord struct {
	Session
	Summary Summary   `json:"summary"`
	EndTime time.Time `json:"endTime"`
}

// StartInput describes a conversation to start
type StartInput struct {
	ScenarioID string
	Language   string
	Difficulty string
	FocusAreas []string
}

// HintInput describes a hint to add
type HintInput struct {
	Type                 string
	Content              string
	Timing               string
	HighlightRelatedText bool
}

// ChallengeInput describes a challenge to add
type ChallengeInput struct {
	Level             string
	Content           string
	ExpectedResponse  *string
	TimeLimit         int
	ShowAfterMessages int
}

// VocabInput describes a vocabulary entry to add
type VocabInput struct {
	Word        string
	Translation string
	Context     string
	Notes       string
	Priority    int
}

// State is a full copy of the store for introspection
type State struct {
	ActiveConversation  *Session                   `json:"activeConversation"`
	Vocabulary          map[string]VocabularyEntry `json:"vocabulary"`
	ConversationHistory []HistoryRecord            `json:"conversationHistory"`
	Hints               []LoggedHint               `json:"hints"`
	Challenges          []LoggedChallenge          `json:"challenges"`
}
