package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/nachoal/lingo-tutor-go/agent"
	"github.com/nachoal/lingo-tutor-go/history"
	"github.com/nachoal/lingo-tutor-go/session"
	"github.com/nachoal/lingo-tutor-go/tools"
)

// Focus is the panel that receives scroll keys
type Focus int

const (
	FocusChat Focus = iota
	FocusLearner
)

// TranscriptSaver persists a chat so it can be resumed later
type TranscriptSaver interface {
	SaveTranscript(t *history.Transcript) error
}

// Model is the terminal tutor state
type Model struct {
	textarea    textarea.Model
	chatView    viewport.Model
	learnerView viewport.Model
	spinner     spinner.Model
	renderer    *glamour.TermRenderer
	focus       Focus

	conv         *agent.Conversation
	store        *session.Store
	transcripts  TranscriptSaver
	transcript   *history.Transcript
	messages     []ChatMessage
	lastTools    []tools.ToolResult
	isProcessing bool
	err          error
	status       string

	width        int
	height       int
	showLearner  bool
	learnerWidth int
	initialized  bool

	provider string
	model    string
	theme    Theme

	keys KeyMap
}

// ChatMessage is one rendered chat entry
type ChatMessage struct {
	Role      string
	Content   string
	Timestamp time.Time
	Tools     []tools.ToolResult
}

// KeyMap defines key bindings
type KeyMap struct {
	Quit          key.Binding
	Send          key.Binding
	Clear         key.Binding
	Save          key.Binding
	ToggleLearner key.Binding
	SwitchFocus   key.Binding
}

// DefaultKeyMap returns default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		ToggleLearner: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "learner panel"),
		),
		SwitchFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch panel"),
		),
	}
}

type (
	// ReplyMsg carries the outcome of one exchange
	ReplyMsg struct {
		Reply *agent.Reply
		Err   error
	}

	// SavedMsg reports a transcript save
	SavedMsg struct {
		ID  string
		Err error
	}
)
