package components

import (
	"github.com/abhisek/pymaster/internal/ui/theme"
)

// Button is a labelled action with its key binding. Disabled buttons show
// Reason instead of the key.
type Button struct {
	Label   string
	Key     string
	Enabled bool
	Reason  string
}

// View renders the button.
func (b Button) View() string {
	if !b.Enabled {
		label := b.Label
		if b.Reason != "" {
			label += " · " + b.Reason
		}
		return theme.ButtonInactive.Render(label)
	}
	label := b.Label
	if b.Key != "" {
		label += " [" + b.Key + "]"
	}
	return theme.ButtonActive.Render(label)
}
