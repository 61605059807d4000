package components

import (
	"strconv"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pymaster/internal/ui/theme"
)

// NumberInput is a single-line input that accepts digits only, used to
// jump to a lesson by number.
type NumberInput struct {
	input textinput.Model
	max   int
}

// NewNumberInput returns a focused input for numbers in [1, max].
func NewNumberInput(placeholder string, max int) NumberInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = len(strconv.Itoa(max))
	ti.Focus()
	return NumberInput{input: ti, max: max}
}

func (n NumberInput) Init() tea.Cmd {
	return n.input.Focus()
}

// Update drops printable keys that are not digits.
func (n NumberInput) Update(msg tea.Msg) (NumberInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		if k := kmsg.String(); len(k) == 1 && (k[0] < '0' || k[0] > '9') {
			return n, nil
		}
	}
	var cmd tea.Cmd
	n.input, cmd = n.input.Update(msg)
	return n, cmd
}

func (n NumberInput) View() string {
	style := lipgloss.NewStyle().Foreground(theme.Primary)
	if _, ok := n.Number(); !ok && n.input.Value() != "" {
		style = style.Foreground(theme.Error)
	}
	return style.Render(n.input.View())
}

func (n NumberInput) Value() string {
	return n.input.Value()
}

// Number parses the input. ok is false when it is empty or out of range.
func (n NumberInput) Number() (int, bool) {
	v, err := strconv.Atoi(n.input.Value())
	if err != nil || v < 1 || (n.max > 0 && v > n.max) {
		return 0, false
	}
	return v, true
}
