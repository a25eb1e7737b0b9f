// Package tui is the interactive terminal client of the tutor.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/nachoal/lingo-tutor-go/agent"
	"github.com/nachoal/lingo-tutor-go/history"
	"github.com/nachoal/lingo-tutor-go/llm"
	"github.com/nachoal/lingo-tutor-go/session"
	"github.com/nachoal/lingo-tutor-go/tui/styles"
)

// Theme type alias for convenience
type Theme = styles.Theme

// Options configures New
type Options struct {
	Provider    string
	Model       string
	Theme       string
	Transcripts TranscriptSaver
	// Resume continues a saved transcript
	Resume *history.Transcript
}

// New creates the terminal tutor around a conversation
func New(conv *agent.Conversation, store *session.Store, opts Options) *Model {
	ta := textarea.New()
	ta.Placeholder = "Écrivez votre message..."
	ta.Focus()
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		textarea:     ta,
		chatView:     viewport.New(80, 20),
		learnerView:  viewport.New(34, 20),
		spinner:      sp,
		conv:         conv,
		store:        store,
		transcripts:  opts.Transcripts,
		showLearner:  true,
		learnerWidth: 34,
		provider:     orDefault(opts.Provider, "openai"),
		model:        orDefault(opts.Model, "gpt-4o"),
		theme:        styles.GetTheme(opts.Theme),
		keys:         DefaultKeyMap(),
	}

	if opts.Resume != nil {
		m.transcript = opts.Resume
		restored := history.ToLLMMessages(opts.Resume.Messages)
		conv.Restore(restored)
		for _, msg := range restored {
			if msg.Role != llm.RoleUser && msg.Role != llm.RoleAssistant {
				continue
			}
			m.messages = append(m.messages, ChatMessage{
				Role:      string(msg.Role),
				Content:   llm.GetStringValue(msg.Content),
				Timestamp: opts.Resume.UpdatedAt,
			})
		}
	} else {
		m.transcript = history.NewTranscript(m.model)
	}

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Clear):
			m.messages = nil
			m.lastTools = nil
			m.conv.Clear()
			m.transcript = history.NewTranscript(m.model)
			m.updateChatView()
			m.updateLearnerView()
			return m, nil

		case key.Matches(msg, m.keys.Save):
			return m, m.saveTranscript()

		case key.Matches(msg, m.keys.ToggleLearner):
			m.showLearner = !m.showLearner
			m.updateLayout()
			return m, nil

		case key.Matches(msg, m.keys.SwitchFocus):
			if m.focus == FocusChat {
				m.focus = FocusLearner
			} else {
				m.focus = FocusChat
			}
			return m, nil

		case key.Matches(msg, m.keys.Send):
			if m.isProcessing {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.SetValue("")
			return m, m.sendMessage(input)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.initialized = true
		m.updateChatView()
		m.updateLearnerView()
		return m, nil

	case ReplyMsg:
		m.isProcessing = false
		if msg.Err != nil {
			m.err = msg.Err
			content := fmt.Sprintf("Error: %v", msg.Err)
			if agent.IsInvalidCredential(msg.Err) {
				content = "Invalid API key. Run `lingo auth set-key` to update it."
			}
			m.messages = append(m.messages, ChatMessage{Role: "error", Content: content, Timestamp: time.Now()})
		} else {
			m.err = nil
			m.lastTools = msg.Reply.ToolResults
			m.messages = append(m.messages, ChatMessage{
				Role:      "assistant",
				Content:   msg.Reply.Content(),
				Timestamp: time.Now(),
				Tools:     msg.Reply.ToolResults,
			})
		}
		m.updateChatView()
		m.updateLearnerView()
		return m, nil

	case SavedMsg:
		if msg.Err != nil {
			m.status = "save failed: " + msg.Err.Error()
		} else {
			m.status = "saved " + msg.ID
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if !m.isProcessing {
		ta, cmd := m.textarea.Update(msg)
		m.textarea = ta
		cmds = append(cmds, cmd)
	}

	switch m.focus {
	case FocusChat:
		vp, cmd := m.chatView.Update(msg)
		m.chatView = vp
		cmds = append(cmds, cmd)
	case FocusLearner:
		vp, cmd := m.learnerView.Update(msg)
		m.learnerView = vp
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the application
func (m Model) View() string {
	if !m.initialized {
		return "Initializing..."
	}

	s := styles.NewStyles(m.theme)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(s),
		m.renderMainContent(s),
		m.renderInputArea(s),
		m.renderFooter(s),
	)
}

func (m *Model) updateLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	headerHeight := 1
	footerHeight := 1
	inputHeight := 6
	mainHeight := m.height - headerHeight - footerHeight - inputHeight
	if mainHeight < 4 {
		mainHeight = 4
	}

	// Each bordered panel spends 4 columns on border and padding.
	if m.showLearner {
		m.chatView.Width = m.width - m.learnerWidth - 8
		m.learnerView.Width = m.learnerWidth
	} else {
		m.chatView.Width = m.width - 4
	}
	if m.chatView.Width < 10 {
		m.chatView.Width = 10
	}

	m.chatView.Height = mainHeight - 2
	m.learnerView.Height = mainHeight - 2
	m.textarea.SetWidth(m.width - 4)
	m.renderer = newRenderer(m.chatView.Width - 2)
}

// newRenderer renders tutor markdown without colors so it reads on any theme
func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m *Model) renderContent(msg ChatMessage) string {
	width := m.chatView.Width - 2
	if msg.Role == "assistant" && m.renderer != nil {
		if out, err := m.renderer.Render(msg.Content); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return wordwrap.String(msg.Content, width)
}

func (m *Model) updateChatView() {
	s := styles.NewStyles(m.theme)

	var content strings.Builder
	for _, msg := range m.messages {
		content.WriteString(s.RenderRole(msg.Role))
		content.WriteString(" ")
		content.WriteString(s.Timestamp.Render(msg.Timestamp.Format("15:04")))
		content.WriteString("\n")

		for _, line := range strings.Split(m.renderContent(msg), "\n") {
			content.WriteString("  ")
			content.WriteString(line)
			content.WriteString("\n")
		}

		for _, tr := range msg.Tools {
			content.WriteString("  ")
			content.WriteString(s.RenderToolOutcome(tr.Name, tr.Result.Success, toolDetail(tr)))
			content.WriteString("\n")
		}
		content.WriteString("\n")
	}

	m.chatView.SetContent(content.String())
	m.chatView.GotoBottom()
}

func (m *Model) updateLearnerView() {
	s := styles.NewStyles(m.theme)
	m.learnerView.SetContent(renderLearnerPanel(s, m.store.Snapshot(), m.lastTools, m.learnerView.Width))
}

func (m *Model) sendMessage(input string) tea.Cmd {
	m.isProcessing = true
	m.status = ""
	m.messages = append(m.messages, ChatMessage{
		Role:      "user",
		Content:   input,
		Timestamp: time.Now(),
	})
	m.updateChatView()

	conv := m.conv
	return func() tea.Msg {
		reply, err := conv.Send(context.Background(), input)
		return ReplyMsg{Reply: reply, Err: err}
	}
}

func (m *Model) saveTranscript() tea.Cmd {
	if m.transcripts == nil {
		return nil
	}
	t := m.transcript
	t.Messages = history.FromLLMMessages(m.conv.Messages())
	saver := m.transcripts
	return func() tea.Msg {
		err := saver.SaveTranscript(t)
		return SavedMsg{ID: t.ID, Err: err}
	}
}

func (m Model) renderHeader(s *styles.Styles) string {
	title := fmt.Sprintf("Lingo Tutor | %s | %s", m.provider, m.model)
	status := "◉ Ready"
	switch {
	case m.isProcessing:
		status = m.spinner.View() + " Thinking..."
	case m.err != nil:
		status = "◈ Error"
	case m.status != "":
		status = m.status
	}

	left := s.Title.Render(title)
	right := s.Label.Render(status)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 0 {
		gap = 0
	}

	return s.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderMainContent(s *styles.Styles) string {
	chat := s.ChatPanel.
		Width(m.chatView.Width + 2).
		Render(m.chatView.View())

	if !m.showLearner {
		return chat
	}

	learner := s.LearnerPanel.
		Width(m.learnerView.Width + 2).
		Render(m.learnerView.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, chat, learner)
}

func (m Model) renderInputArea(s *styles.Styles) string {
	return s.InputArea.Width(m.width - 2).Render(m.textarea.View())
}

func (m Model) renderFooter(s *styles.Styles) string {
	bindings := []key.Binding{m.keys.Send, m.keys.Save, m.keys.Clear, m.keys.ToggleLearner, m.keys.Quit}
	help := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		help = append(help, h.Key+": "+h.Desc)
	}
	return s.Footer.Width(m.width).Render(strings.Join(help, " • "))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
