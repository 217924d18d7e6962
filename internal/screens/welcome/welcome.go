// Package welcome shows the opening screen and performs the one-time
// progress restore before handing off to the phase's screen.
package welcome

import (
	"context"
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

// loadedMsg carries the result of the snapshot load.
type loadedMsg struct {
	snap *flow.Snapshot
}

// WelcomeScreen greets the trainee and restores saved progress. A saved
// run produces a "welcome back" toast; no save or an unreadable one
// starts fresh without comment.
type WelcomeScreen struct {
	state     *flow.SessionState
	store     *store.Store
	screenFor func() screen.Screen

	loaded       bool
	restored     bool
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that hands off to the screen produced by
// screenFor once the trainee continues.
func New(state *flow.SessionState, st *store.Store, screenFor func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		state:     state,
		store:     st,
		screenFor: screenFor,
	}
}

func (w *WelcomeScreen) Title() string {
	return "Welcome"
}

func (w *WelcomeScreen) Init() tea.Cmd {
	if w.state.ProgressLoaded {
		w.loaded = true
		return nil
	}
	return w.loadProgress()
}

// loadProgress reads the saved snapshot asynchronously. Load happens at
// most once per process; ProgressLoaded gates re-entry.
func (w *WelcomeScreen) loadProgress() tea.Cmd {
	return func() tea.Msg {
		snap, err := w.store.LoadProgress(context.Background())
		if err != nil {
			// A failing read starts a fresh run; it never blocks startup.
			return loadedMsg{}
		}
		return loadedMsg{snap: snap}
	}
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		w.loaded = true
		w.state.ProgressLoaded = true
		if msg.snap != nil {
			if err := w.state.Apply(*msg.snap); err == nil {
				w.restored = true
			}
		}
		return w, nil

	case tea.KeyPressMsg:
		if !w.loaded {
			return w, nil
		}
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.screenFor()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	if !w.loaded {
		return nil
	}
	return []layout.KeyHint{
		{Key: "any key", Description: "Continue"},
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, RenderBanner(width))
	sections = append(sections, "")

	tagline := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("New Missionary Orientation Training")
	sections = append(sections, tagline)

	subtitle := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("Self-paced onboarding for your assignment")
	sections = append(sections, subtitle)
	sections = append(sections, "")

	switch {
	case !w.loaded:
		sections = append(sections, theme.Hint.Render("loading…"))
	case w.restored:
		toast := lipgloss.NewStyle().
			Foreground(theme.Success).
			Render("✓ Welcome back — your progress was restored.")
		sections = append(sections, toast)
		sections = append(sections, "")
		sections = append(sections, theme.Hint.Render("press any key to continue"))
	default:
		sections = append(sections, theme.Hint.Render("press any key to begin"))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
