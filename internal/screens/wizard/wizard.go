// Package wizard renders the routing phase: the fixed profile steps and
// the confirmation step that selects the question catalog.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pioneer-academy/nmotrain/internal/catalog"
	"github.com/pioneer-academy/nmotrain/internal/flow"
	"github.com/pioneer-academy/nmotrain/internal/router"
	"github.com/pioneer-academy/nmotrain/internal/routing"
	"github.com/pioneer-academy/nmotrain/internal/screen"
	"github.com/pioneer-academy/nmotrain/internal/store"
	"github.com/pioneer-academy/nmotrain/internal/ui/components"
	"github.com/pioneer-academy/nmotrain/internal/ui/layout"
	"github.com/pioneer-academy/nmotrain/internal/ui/theme"
)

// savedMsg confirms a background progress save. Saves are fire-and-forget;
// a failure never interrupts the wizard.
type savedMsg struct {
	err error
}

// WizardScreen collects the routing profile one step at a time.
type WizardScreen struct {
	state     *flow.SessionState
	catalogs  *catalog.Registry
	store     *store.Store
	screenFor func() screen.Screen

	input  components.TextInput
	choice components.ChoiceList
	errMsg string

	// notFound holds the registry miss message blocking the confirm step.
	notFound string
}

var _ screen.Screen = (*WizardScreen)(nil)
var _ screen.KeyHintProvider = (*WizardScreen)(nil)

// New creates a WizardScreen resuming at the state's current step.
func New(state *flow.SessionState, catalogs *catalog.Registry, st *store.Store, screenFor func() screen.Screen) *WizardScreen {
	w := &WizardScreen{
		state:     state,
		catalogs:  catalogs,
		store:     st,
		screenFor: screenFor,
	}
	w.syncStep()
	return w
}

func (w *WizardScreen) Title() string {
	return "Getting Started"
}

func (w *WizardScreen) Init() tea.Cmd {
	return w.input.Init()
}

// syncStep rebuilds the step components, pre-filled with any answer
// already collected so edit-and-restart re-renders each step filled in.
func (w *WizardScreen) syncStep() {
	w.errMsg = ""
	step, ok := routing.Current(w.state)
	if !ok {
		return
	}

	prior := w.state.RoutingAnswers[step.Attr]
	if len(step.Options) == 0 {
		w.input = components.NewTextInput("Type your answer…", 80)
		w.input.SetValue(prior)
		return
	}

	w.choice = components.NewChoiceList("", step.Options)
	for i, opt := range step.Options {
		if opt == prior {
			w.choice.Selected = i
		}
	}
}

func (w *WizardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		return w, nil

	case tea.KeyMsg:
		if w.state.RoutingStep >= routing.ConfirmStep() {
			return w.updateConfirm(msg)
		}
		return w.updateStep(msg)
	}

	if _, ok := routing.Current(w.state); ok {
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w *WizardScreen) updateStep(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	step, ok := routing.Current(w.state)
	if !ok {
		return w, nil
	}

	if len(step.Options) == 0 {
		if msg.String() == "enter" {
			return w, w.apply(w.input.Value())
		}
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		return w, cmd
	}

	var cmd tea.Cmd
	w.choice, cmd = w.choice.Update(msg)
	if w.choice.Submitted {
		return w, w.apply(w.choice.Choice())
	}
	return w, cmd
}

// apply records the step answer and moves on, persisting on success.
func (w *WizardScreen) apply(value string) tea.Cmd {
	if err := routing.Apply(w.state, value); err != nil {
		w.errMsg = err.Error()
		w.choice.Reset()
		return nil
	}
	w.syncStep()
	return tea.Batch(w.input.Init(), w.save())
}

func (w *WizardScreen) updateConfirm(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "e", "esc":
		w.notFound = ""
		routing.EditAnswers(w.state)
		w.syncStep()
		return w, tea.Batch(w.input.Init(), w.save())

	case "enter", "y":
		if w.notFound != "" {
			return w, nil
		}
		_, err := routing.Confirm(w.state, w.catalogs)
		if err != nil {
			var nf *catalog.NotFoundError
			if errors.As(err, &nf) {
				w.notFound = fmt.Sprintf(
					"No question set is available for %s (%s) yet. Press E to change your answers.",
					nf.Key.Program, nf.Key.Format)
				return w, nil
			}
			w.errMsg = err.Error()
			return w, nil
		}
		next := w.screenFor()
		return w, tea.Batch(w.save(), func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		})
	}
	return w, nil
}

// save persists the snapshot in the background.
func (w *WizardScreen) save() tea.Cmd {
	snap := w.state.ToSnapshot()
	return func() tea.Msg {
		return savedMsg{err: w.store.SaveProgress(context.Background(), snap)}
	}
}

func (w *WizardScreen) KeyHints() []layout.KeyHint {
	if w.state.RoutingStep >= routing.ConfirmStep() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start training"},
			{Key: "E", Description: "Edit answers"},
		}
	}
	step, ok := routing.Current(w.state)
	if ok && len(step.Options) > 0 {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Next"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Next"},
	}
}

func (w *WizardScreen) View(width, height int) string {
	if w.state.RoutingStep >= routing.ConfirmStep() {
		return w.viewConfirm(width, height)
	}
	return w.viewStep(width, height)
}

func (w *WizardScreen) viewStep(width, height int) string {
	step, ok := routing.Current(w.state)
	if !ok {
		return ""
	}

	var b strings.Builder

	progress := theme.Subtitle.Render(
		fmt.Sprintf("Step %d of %d", w.state.RoutingStep+1, routing.ConfirmStep()))
	b.WriteString(progress + "\n\n")

	b.WriteString(theme.Title.Render(step.Title) + "\n\n")
	b.WriteString(theme.Body.Render(step.Prompt) + "\n\n")

	if len(step.Options) == 0 {
		b.WriteString(w.input.View() + "\n")
	} else {
		b.WriteString(w.choice.View())
	}

	if w.errMsg != "" {
		b.WriteString("\n" + theme.Rejected.Render(w.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func (w *WizardScreen) viewConfirm(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Ready to start?") + "\n\n")

	rows := []struct{ label, attr string }{
		{"Area", routing.AttrArea},
		{"Program", routing.AttrProgram},
		{"Format", routing.AttrFormat},
		{"Experience", routing.AttrExperience},
	}
	for _, r := range rows {
		label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(12).Render(r.label)
		value := theme.Body.Render(w.state.RoutingAnswers[r.attr])
		b.WriteString(label + value + "\n")
	}

	key := routing.SelectedKey(w.state)
	b.WriteString("\n" + theme.Hint.Render(
		fmt.Sprintf("Your questions will cover %s · %s", key.Program, key.Format)))

	if w.notFound != "" {
		b.WriteString("\n\n" + theme.Rejected.Render(w.notFound))
	} else if w.errMsg != "" {
		b.WriteString("\n\n" + theme.Rejected.Render(w.errMsg))
	}

	card := theme.Card.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
