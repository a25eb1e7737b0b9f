// Package styles holds the lipgloss styles of the terminal tutor.
package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds all the styles for the application
type Styles struct {
	Theme Theme

	Header       lipgloss.Style
	Footer       lipgloss.Style
	ChatPanel    lipgloss.Style
	LearnerPanel lipgloss.Style
	InputArea    lipgloss.Style

	UserMessage  lipgloss.Style
	TutorMessage lipgloss.Style
	ErrorMessage lipgloss.Style
	Timestamp    lipgloss.Style

	ToolName    lipgloss.Style
	ToolSuccess lipgloss.Style
	ToolError   lipgloss.Style

	Title lipgloss.Style
	Label lipgloss.Style
	Word  lipgloss.Style
	Hint  lipgloss.Style
}

// NewStyles builds the styles for theme
func NewStyles(theme Theme) *Styles {
	s := &Styles{Theme: theme}

	s.Header = lipgloss.NewStyle().
		Background(theme.Surface).
		Foreground(theme.Text).
		Padding(0, 2).
		Bold(true)

	s.Footer = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Padding(0, 2)

	s.ChatPanel = lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)

	s.LearnerPanel = lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent)

	s.InputArea = lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary)

	s.UserMessage = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	s.TutorMessage = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	s.ErrorMessage = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	s.Timestamp = lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)

	s.ToolName = lipgloss.NewStyle().Foreground(theme.Accent)
	s.ToolSuccess = lipgloss.NewStyle().Foreground(theme.Success)
	s.ToolError = lipgloss.NewStyle().Foreground(theme.Error)

	s.Title = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Underline(true)
	s.Label = lipgloss.NewStyle().Foreground(theme.TextDim)
	s.Word = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s.Hint = lipgloss.NewStyle().Foreground(theme.Warning).Italic(true)

	return s
}

// RenderRole returns a styled speaker label
func (s *Styles) RenderRole(role string) string {
	switch role {
	case "user":
		return s.UserMessage.Render("You")
	case "assistant":
		return s.TutorMessage.Render("Lingo")
	case "error":
		return s.ErrorMessage.Render("Error")
	default:
		return s.Label.Render(role)
	}
}

// RenderToolOutcome renders one tool invocation line
func (s *Styles) RenderToolOutcome(name string, ok bool, detail string) string {
	mark := s.ToolSuccess.Render("✓")
	if !ok {
		mark = s.ToolError.Render("✗")
	}
	line := fmt.Sprintf("%s %s", mark, s.ToolName.Render(name))
	if detail != "" {
		line += " " + s.Label.Render(detail)
	}
	return line
}

// RenderPriority draws a 1..5 priority as filled dots
func (s *Styles) RenderPriority(p int) string {
	dots := ""
	for i := 1; i <= 5; i++ {
		if i <= p {
			dots += "●"
		} else {
			dots += "○"
		}
	}
	if p >= 4 {
		return s.ToolError.Render(dots)
	}
	return s.Label.Render(dots)
}
