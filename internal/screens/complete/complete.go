// Package complete renders the end-of-training summary and the guarded
// reset that starts a fresh run.
package complete

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pioneer-academy/nmotrain/internal/flow"
	"github.com/pioneer-academy/nmotrain/internal/router"
	"github.com/pioneer-academy/nmotrain/internal/screen"
	"github.com/pioneer-academy/nmotrain/internal/store"
	"github.com/pioneer-academy/nmotrain/internal/ui/layout"
	"github.com/pioneer-academy/nmotrain/internal/ui/theme"
)

// resetMsg confirms the saved run was cleared.
type resetMsg struct {
	err error
}

// CompleteScreen congratulates the trainee and offers a restart.
type CompleteScreen struct {
	state     *flow.SessionState
	store     *store.Store
	screenFor func() screen.Screen

	confirming bool
}

var _ screen.Screen = (*CompleteScreen)(nil)
var _ screen.KeyHintProvider = (*CompleteScreen)(nil)

// New creates a CompleteScreen.
func New(state *flow.SessionState, st *store.Store, screenFor func() screen.Screen) *CompleteScreen {
	return &CompleteScreen{
		state:     state,
		store:     st,
		screenFor: screenFor,
	}
}

func (c *CompleteScreen) Title() string {
	return "All Done"
}

func (c *CompleteScreen) Init() tea.Cmd {
	return nil
}

func (c *CompleteScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resetMsg:
		// Whether or not the delete landed, the in-memory run restarts.
		next := c.screenFor()
		return c, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}

	case tea.KeyPressMsg:
		key := msg.String()

		if c.confirming {
			switch key {
			case "y", "Y":
				flow.Reset(c.state)
				return c, c.clearSaved()
			case "n", "N", "esc":
				c.confirming = false
			}
			return c, nil
		}

		switch key {
		case "r":
			c.confirming = true
		case "q":
			return c, tea.Quit
		}
	}
	return c, nil
}

// clearSaved deletes the persisted run in the background.
func (c *CompleteScreen) clearSaved() tea.Cmd {
	return func() tea.Msg {
		return resetMsg{err: c.store.ClearProgress(context.Background())}
	}
}

func (c *CompleteScreen) KeyHints() []layout.KeyHint {
	if c.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Start over"},
			{Key: "N", Description: "Keep summary"},
		}
	}
	return []layout.KeyHint{
		{Key: "R", Description: "Start over"},
		{Key: "Q", Description: "Quit"},
	}
}

func (c *CompleteScreen) View(width, height int) string {
	if c.confirming {
		body := theme.Body.Render("Start over from the beginning?\n\nYour answers and progress will be erased.")
		card := theme.Card.Render(theme.Notice.Render("Reset training") + "\n\n" + body)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
	}

	var b strings.Builder
	b.WriteString(theme.Accepted.Render("🎉 Training complete!") + "\n\n")
	b.WriteString(theme.Body.Render("You worked through every question for your assignment.") + "\n\n")

	key := c.state.CatalogKey
	rows := []struct{ label, value string }{
		{"Program", key.Program},
		{"Format", key.Format},
		{"Questions answered", fmt.Sprintf("%d", c.state.CompletedCount())},
		{"Steps visited", fmt.Sprintf("%d", len(c.state.VisitedHistory))},
	}
	for _, r := range rows {
		label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(20).Render(r.label)
		b.WriteString(label + theme.Body.Render(r.value) + "\n")
	}

	b.WriteString("\n" + theme.Hint.Render("Press R to start over, Q to quit"))

	card := theme.Card.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
