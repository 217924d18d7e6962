// Package fatal renders an unrecoverable-condition message. The only way
// out is quitting; no state is mutated.
package fatal

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pioneer-academy/nmotrain/internal/screen"
	"github.com/pioneer-academy/nmotrain/internal/ui/layout"
	"github.com/pioneer-academy/nmotrain/internal/ui/theme"
)

// FatalScreen shows a plain-language error and exits on any key.
type FatalScreen struct {
	message string
}

var _ screen.Screen = (*FatalScreen)(nil)

// New creates a FatalScreen with the given message.
func New(message string) *FatalScreen {
	return &FatalScreen{message: message}
}

func (f *FatalScreen) Title() string {
	return "Error"
}

func (f *FatalScreen) Init() tea.Cmd {
	return nil
}

func (f *FatalScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyPressMsg); ok {
		return f, tea.Quit
	}
	return f, nil
}

func (f *FatalScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "any key", Description: "Exit"},
	}
}

func (f *FatalScreen) View(width, height int) string {
	heading := theme.Rejected.Render("Something went wrong")
	body := lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(min(width-8, 72)).
		Render(f.message)

	card := theme.Card.Render(heading + "\n\n" + body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
