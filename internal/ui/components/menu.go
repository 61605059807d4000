package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pymaster/internal/ui/theme"
)

// MenuItem is one row of a Menu.
type MenuItem struct {
	Label string

	// Marker is drawn before the label, e.g. a completion tick.
	Marker string

	// Detail is drawn dimmed after the label.
	Detail string

	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list with a cursor that skips disabled items.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, item := range items {
		if !item.Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

// Select moves the cursor to i if that item is enabled.
func (m Menu) Select(i int) Menu {
	if i >= 0 && i < len(m.Items) && !m.Items[i].Disabled {
		m.Selected = i
	}
	return m
}

// Update handles cursor movement and activation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}
	return m, nil
}

// View renders every item.
func (m Menu) View() string {
	return m.ViewWindow(len(m.Items))
}

// ViewWindow renders at most rows items, scrolled so the cursor is visible.
func (m Menu) ViewWindow(rows int) string {
	if rows <= 0 || len(m.Items) == 0 {
		return ""
	}
	start := 0
	if m.Selected >= rows {
		start = m.Selected - rows + 1
	}
	end := min(start+rows, len(m.Items))

	var b strings.Builder
	for i := start; i < end; i++ {
		item := m.Items[i]
		cursor := "  "
		style := theme.Unselected
		switch {
		case item.Disabled:
			style = theme.Locked
		case i == m.Selected:
			cursor = "▸ "
			style = theme.Selected
		}

		line := cursor
		if item.Marker != "" {
			line += item.Marker + " "
		}
		line += item.Label
		b.WriteString(style.Render(line))
		if item.Detail != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + item.Detail))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
