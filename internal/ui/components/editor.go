package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pymaster/internal/ui/theme"
)

// Editor is the code input of the lesson screen, a textarea with line
// numbers. Tab inserts four spaces.
type Editor struct {
	area textarea.Model
}

// NewEditor creates an unfocused editor holding code.
func NewEditor(code string) Editor {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetValue(code)
	ta.Blur()
	return Editor{area: ta}
}

// Value returns the code.
func (e Editor) Value() string { return e.area.Value() }

// SetValue replaces the code.
func (e *Editor) SetValue(code string) { e.area.SetValue(code) }

// Focus gives the editor keyboard focus.
func (e *Editor) Focus() tea.Cmd { return e.area.Focus() }

// Blur removes keyboard focus.
func (e *Editor) Blur() { e.area.Blur() }

// Focused reports whether the editor has focus.
func (e Editor) Focused() bool { return e.area.Focused() }

// SetSize sets the editing area size, excluding the border.
func (e *Editor) SetSize(width, height int) {
	e.area.SetWidth(max(width, 10))
	e.area.SetHeight(max(height, 3))
}

// Update forwards input to the textarea while focused.
func (e Editor) Update(msg tea.Msg) (Editor, tea.Cmd) {
	if !e.area.Focused() {
		return e, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "tab" {
		e.area.InsertString("    ")
		return e, nil
	}
	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	return e, cmd
}

// View renders the editor inside a border that highlights focus.
func (e Editor) View() string {
	border := theme.Border
	if e.area.Focused() {
		border = theme.Primary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(e.area.View())
}
