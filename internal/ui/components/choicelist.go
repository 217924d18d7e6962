package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pioneer-academy/nmotrain/internal/ui/theme"
)

// ChoiceList is an option selector. There is no right or wrong option;
// selection just resolves which path the trainee takes, so a chosen
// option renders highlighted rather than graded.
type ChoiceList struct {
	Prompt    string
	Options   []string
	Selected  int
	Submitted bool
	Chosen    int
}

// NewChoiceList creates a new option selector.
func NewChoiceList(prompt string, options []string) ChoiceList {
	return ChoiceList{
		Prompt:  prompt,
		Options: options,
		Chosen:  -1,
	}
}

// Init returns nil.
func (c ChoiceList) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	if c.Submitted {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter":
		c.Submitted = true
		c.Chosen = c.Selected
	}

	return c, nil
}

// View renders the option list.
func (c ChoiceList) View() string {
	var s string
	if c.Prompt != "" {
		s = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Prompt) + "\n\n"
	}

	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected && !c.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		switch {
		case c.Submitted && i == c.Chosen:
			s += theme.Selected.Render(line) + "\n"
		case c.Submitted:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == c.Selected:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}

	return s
}

// Choice returns the chosen option text, or "" before submission.
func (c ChoiceList) Choice() string {
	if !c.Submitted || c.Chosen < 0 || c.Chosen >= len(c.Options) {
		return ""
	}
	return c.Options[c.Chosen]
}

// Reset clears the submission so the list can be used again.
func (c *ChoiceList) Reset() {
	c.Submitted = false
	c.Chosen = -1
}
