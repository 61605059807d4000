package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pymaster/internal/ui/theme"
)

// NoChoice means no option has been picked.
const NoChoice = -1

// MultiChoice renders a question with lettered options. Moving the cursor
// picks the option under it, as does space or a digit. Nothing is chosen
// until the first key, and the owner decides when the answer is submitted.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int

	Cursor    int
	Chosen    int
	Submitted bool
}

// NewMultiChoice creates a component with nothing chosen.
func NewMultiChoice(question string, options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		Chosen:       NoChoice,
	}
}

// Update moves the cursor and records tentative choices. It ignores input
// after submission.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || m.Submitted {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		m.Chosen = m.Cursor
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
		m.Chosen = m.Cursor
	case "space", " ":
		m.Chosen = m.Cursor
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Cursor, m.Chosen = i, i
			}
		}
	}
	return m, nil
}

// View renders the question and options. After submission the correct
// option is green and a wrong choice red.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		cursor := "  "
		if i == m.Cursor && !m.Submitted {
			cursor = "▸ "
		}
		mark := "( )"
		if i == m.Chosen {
			mark = "(●)"
		}
		line := fmt.Sprintf("%s%s %c) %s", cursor, mark, 'A'+i, opt)

		style := theme.Unselected
		switch {
		case m.Submitted && i == m.CorrectIndex:
			style = theme.Correct
		case m.Submitted && i == m.Chosen:
			style = theme.Incorrect
		case m.Submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// IsCorrect reports whether the submitted choice is the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.Chosen == m.CorrectIndex
}
