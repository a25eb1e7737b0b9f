package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nachoal/lingo-tutor-go/session"
	"github.com/nachoal/lingo-tutor-go/tools"
	"github.com/nachoal/lingo-tutor-go/tui/styles"
)

const panelVocabLimit = 8

// renderLearnerPanel shows the active conversation, the vocabulary list
// (highest priority first) and the tools run by the last exchange.
func renderLearnerPanel(s *styles.Styles, state session.State, last []tools.ToolResult, width int) string {
	var b strings.Builder

	b.WriteString(s.Title.Render("Conversation"))
	b.WriteString("\n")
	if c := state.ActiveConversation; c != nil {
		fmt.Fprintf(&b, "%s %s\n", s.Label.Render("scenario"), s.Word.Render(c.ScenarioID))
		fmt.Fprintf(&b, "%s %s\n", s.Label.Render("language"), c.Language)
		fmt.Fprintf(&b, "%s %s\n", s.Label.Render("level"), c.Difficulty)
		if len(c.Hints) > 0 {
			hint := c.Hints[len(c.Hints)-1]
			b.WriteString(s.Hint.Render(truncate("» "+hint.Content, width)))
			b.WriteString("\n")
		}
		for _, box := range lastBox(c.CorrectionBoxes) {
			b.WriteString(truncate(fmt.Sprintf("%s → %s", box.Original, box.Correction), width))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(s.Label.Render("none active"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.Title.Render(fmt.Sprintf("Vocabulary (%d)", len(state.Vocabulary))))
	b.WriteString("\n")
	for _, e := range sortedVocab(state.Vocabulary, panelVocabLimit) {
		word := truncate(e.Word, width-6)
		line := s.Word.Render(word)
		if room := width - 7 - len([]rune(word)); e.Translation != "" && room > 2 {
			line += " " + s.Label.Render(truncate(e.Translation, room))
		}
		b.WriteString(s.RenderPriority(e.Priority))
		b.WriteString(" ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(last) > 0 {
		b.WriteString("\n")
		b.WriteString(s.Title.Render("Last tools"))
		b.WriteString("\n")
		for _, tr := range last {
			b.WriteString(s.RenderToolOutcome(tr.Name, tr.Result.Success, toolDetail(tr)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func sortedVocab(vocab map[string]session.VocabularyEntry, limit int) []session.VocabularyEntry {
	out := make([]session.VocabularyEntry, 0, len(vocab))
	for _, e := range vocab {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func lastBox(boxes []session.CorrectionBox) []session.CorrectionItem {
	if len(boxes) == 0 {
		return nil
	}
	return boxes[len(boxes)-1].Items
}

// toolDetail picks the identifier a successful tool returned, or its error
func toolDetail(tr tools.ToolResult) string {
	if !tr.Result.Success {
		return tr.Result.Error
	}
	for _, k := range []string{"conversationID", "wordID", "hintID", "challengeID", "boxID"} {
		if v, ok := tr.Result.Data[k]; ok {
			return fmt.Sprint(v)
		}
	}
	return ""
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
