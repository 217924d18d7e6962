// Package app owns the root Bubble Tea model and the phase dispatch: the
// single place that decides which screen serves the current phase.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pioneer-academy/nmotrain/internal/catalog"
	"github.com/pioneer-academy/nmotrain/internal/evaluate"
	"github.com/pioneer-academy/nmotrain/internal/flow"
	"github.com/pioneer-academy/nmotrain/internal/router"
	"github.com/pioneer-academy/nmotrain/internal/screen"
	"github.com/pioneer-academy/nmotrain/internal/screens/complete"
	"github.com/pioneer-academy/nmotrain/internal/screens/fatal"
	"github.com/pioneer-academy/nmotrain/internal/screens/training"
	"github.com/pioneer-academy/nmotrain/internal/screens/welcome"
	"github.com/pioneer-academy/nmotrain/internal/screens/wizard"
	"github.com/pioneer-academy/nmotrain/internal/store"
	"github.com/pioneer-academy/nmotrain/internal/ui/layout"
)

// Options carries the dependencies the TUI runs on.
type Options struct {
	State     *flow.SessionState
	Store     *store.Store
	Catalogs  *catalog.Registry
	Evaluator *evaluate.Service
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int
}

// newAppModel creates the root model starting at the welcome screen.
func newAppModel(opts Options) AppModel {
	screenFor := phaseDispatch(opts)
	return AppModel{
		opts:   opts,
		router: router.New(welcome.New(opts.State, opts.Store, screenFor)),
	}
}

// phaseDispatch returns the factory that maps the current phase to its
// screen. Screens call it at phase transitions and replace themselves
// with the result, so this closure is the only place that routing lives.
func phaseDispatch(opts Options) func() screen.Screen {
	var screenFor func() screen.Screen
	screenFor = func() screen.Screen {
		switch opts.State.Phase {
		case flow.PhaseRouting:
			return wizard.New(opts.State, opts.Catalogs, opts.Store, screenFor)
		case flow.PhaseTraining:
			cat, err := opts.Catalogs.Load(opts.State.CatalogKey)
			if err != nil {
				return fatal.New("Your saved training run uses a question set that is no longer available. Run `nmotrain reset` to start over.")
			}
			return training.New(opts.State, cat, opts.Evaluator, opts.Store, screenFor)
		case flow.PhaseComplete:
			return complete.New(opts.State, opts.Store, screenFor)
		}
		return fatal.New("The saved training run is in an unrecognized state. Run `nmotrain reset` to start over.")
	}
	return screenFor
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	completed, total := m.progress()
	header := layout.RenderHeader(title, completed, total, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(hp.KeyHints(), footerHints...)
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// progress returns the header counter. Zero total hides it outside the
// training phase.
func (m AppModel) progress() (completed, total int) {
	if m.opts.State.Phase != flow.PhaseTraining {
		return 0, 0
	}
	cat, err := m.opts.Catalogs.Load(m.opts.State.CatalogKey)
	if err != nil {
		return 0, 0
	}
	return m.opts.State.CompletedCount(), cat.Len()
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
