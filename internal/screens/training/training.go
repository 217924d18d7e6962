// Package training renders the training phase: one catalog node at a
// time, dispatched by kind, with evaluator calls for free-text questions.
package training

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/pioneer-academy/nmotrain/internal/catalog"
	"github.com/pioneer-academy/nmotrain/internal/evaluate"
	"github.com/pioneer-academy/nmotrain/internal/flow"
	"github.com/pioneer-academy/nmotrain/internal/navigator"
	"github.com/pioneer-academy/nmotrain/internal/router"
	"github.com/pioneer-academy/nmotrain/internal/screen"
	"github.com/pioneer-academy/nmotrain/internal/store"
	"github.com/pioneer-academy/nmotrain/internal/ui/components"
	"github.com/pioneer-academy/nmotrain/internal/ui/layout"
)

const spinnerInterval = 120 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// TrainingScreen walks the question catalog.
type TrainingScreen struct {
	state     *flow.SessionState
	cat       *catalog.Catalog
	evaluator *evaluate.Service
	store     *store.Store
	screenFor func() screen.Screen

	input  components.TextInput
	choice components.ChoiceList

	// nodeID tracks which node the components were built for.
	nodeID string

	// expandable-list cursor and open sections.
	sectionIdx int
	expanded   map[int]bool

	evaluating   bool
	spinnerFrame int
	errMsg       string
	nodeErr      string
}

var _ screen.Screen = (*TrainingScreen)(nil)
var _ screen.KeyHintProvider = (*TrainingScreen)(nil)

// New creates a TrainingScreen over the loaded catalog.
func New(state *flow.SessionState, cat *catalog.Catalog, evaluator *evaluate.Service, st *store.Store, screenFor func() screen.Screen) *TrainingScreen {
	t := &TrainingScreen{
		state:     state,
		cat:       cat,
		evaluator: evaluator,
		store:     st,
		screenFor: screenFor,
	}
	t.syncNode()
	return t
}

func (t *TrainingScreen) Title() string {
	return "Training"
}

func (t *TrainingScreen) Init() tea.Cmd {
	return t.input.Init()
}

// syncNode rebuilds per-node components when the current node changes.
func (t *TrainingScreen) syncNode() {
	t.errMsg = ""
	t.nodeErr = ""

	if t.cat.Len() == 0 || t.state.CurrentNodeID == catalog.DoneNodeID {
		return
	}

	node, err := navigator.Current(t.state, t.cat)
	if err != nil {
		t.nodeErr = "This training run points at a question that no longer exists. Run `nmotrain reset` to start over."
		return
	}
	if node.ID == t.nodeID {
		return
	}
	t.nodeID = node.ID

	switch node.Kind {
	case catalog.KindFreeText:
		t.input = components.NewTextInput("Type your answer…", 0)
	case catalog.KindSingleChoice:
		t.choice = components.NewChoiceList("", node.Choices)
	case catalog.KindExpandable:
		t.sectionIdx = 0
		t.expanded = make(map[int]bool)
	}
}

func (t *TrainingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case verdictMsg:
		return t.handleVerdict(msg)

	case spinnerTickMsg:
		if !t.evaluating {
			return t, nil
		}
		t.spinnerFrame++
		return t, spinnerTick()

	case savedMsg:
		return t, nil

	case tea.KeyMsg:
		return t.handleKey(msg)
	}

	if t.activeFreeText() {
		var cmd tea.Cmd
		t.input, cmd = t.input.Update(msg)
		return t, cmd
	}
	return t, nil
}

// activeFreeText reports whether keystrokes should feed the text input.
func (t *TrainingScreen) activeFreeText() bool {
	if t.evaluating || t.state.AwaitingConfirmation || t.nodeErr != "" {
		return false
	}
	node, err := navigator.Current(t.state, t.cat)
	return err == nil && node.Kind == catalog.KindFreeText
}

func (t *TrainingScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if t.nodeErr != "" || t.evaluating {
		return t, nil
	}

	// Empty catalog: nothing to walk; offer a way back to the wizard.
	if t.cat.Len() == 0 {
		if key == "e" || key == "enter" {
			flow.ReviewRouting(t.state)
			next := t.screenFor()
			return t, tea.Batch(t.save(), func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: next}
			})
		}
		return t, nil
	}

	node, err := navigator.Current(t.state, t.cat)
	if err != nil {
		t.nodeErr = "This training run points at a question that no longer exists. Run `nmotrain reset` to start over."
		return t, nil
	}

	if t.state.AwaitingConfirmation {
		return t.handlePendingKey(key, node)
	}

	switch node.Kind {
	case catalog.KindFreeText:
		if key == "enter" {
			return t.submitAnswer(node)
		}
		var cmd tea.Cmd
		t.input, cmd = t.input.Update(msg)
		return t, cmd

	case catalog.KindYesNo:
		switch key {
		case "y", "Y":
			return t.applyNav(navigator.AnswerYesNo(t.state, t.cat, node, true))
		case "n", "N":
			return t.applyNav(navigator.AnswerYesNo(t.state, t.cat, node, false))
		}

	case catalog.KindSingleChoice:
		var cmd tea.Cmd
		t.choice, cmd = t.choice.Update(msg)
		if t.choice.Submitted {
			option := t.choice.Choice()
			t.choice.Reset()
			return t.applyNav(navigator.SelectChoice(t.state, node, option))
		}
		return t, cmd

	case catalog.KindInformational:
		if key == "enter" {
			return t.applyNav(navigator.Continue(t.state, node))
		}

	case catalog.KindExpandable:
		switch key {
		case "up", "k":
			if t.sectionIdx > 0 {
				t.sectionIdx--
			}
		case "down", "j":
			if t.sectionIdx < len(node.Sections)-1 {
				t.sectionIdx++
			}
		case "enter", " ":
			t.expanded[t.sectionIdx] = !t.expanded[t.sectionIdx]
		case "c":
			return t.applyNav(navigator.Continue(t.state, node))
		}
	}

	return t, nil
}

// handlePendingKey acts on a displayed verdict, tip, escalation notice,
// or choice message.
func (t *TrainingScreen) handlePendingKey(key string, node catalog.Node) (screen.Screen, tea.Cmd) {
	pending := t.state.PendingVerdict
	if pending == nil {
		t.state.ClearVerdict()
		return t, nil
	}

	if pending.ShouldAdvance {
		switch key {
		case "enter", "c":
			return t.applyNav(navigator.ConfirmAdvance(t.state, node))
		case "r":
			// Another attempt is always allowed on a free-text question,
			// even when moving on was offered.
			if node.Kind == catalog.KindFreeText {
				return t.applyNav(navigator.Retry(t.state))
			}
		}
		return t, nil
	}

	switch key {
	case "enter", "r":
		return t.applyNav(navigator.Retry(t.state))
	}
	return t, nil
}

// submitAnswer validates locally, then hands the answer to the evaluator
// in the background.
func (t *TrainingScreen) submitAnswer(node catalog.Node) (screen.Screen, tea.Cmd) {
	answer := t.input.Value()
	if err := navigator.Submit(t.state, node, answer); err != nil {
		t.errMsg = err.Error()
		return t, nil
	}

	t.errMsg = ""
	t.evaluating = true
	return t, tea.Batch(t.evaluateCmd(node, answer), spinnerTick(), t.save())
}

// evaluateCmd runs the evaluator call off the UI loop. The history is
// copied up front so the verdict message is self-contained.
func (t *TrainingScreen) evaluateCmd(node catalog.Node, answer string) tea.Cmd {
	history := append([]flow.Turn(nil), t.state.History(node.ID)...)
	evaluator := t.evaluator
	return func() tea.Msg {
		v := evaluator.Evaluate(context.Background(), evaluate.Input{
			Question:     node.Prompt,
			Criteria:     node.Criteria,
			Answer:       answer,
			Instructions: node.WhatToDo,
			History:      history,
		})
		return verdictMsg{answer: answer, nodeID: node.ID, verdict: v}
	}
}

func (t *TrainingScreen) handleVerdict(msg verdictMsg) (screen.Screen, tea.Cmd) {
	t.evaluating = false

	// A verdict for a node the trainee already left is stale; drop it.
	if msg.nodeID != t.state.CurrentNodeID {
		return t, nil
	}

	node, err := navigator.Current(t.state, t.cat)
	if err != nil {
		return t, nil
	}

	navigator.RecordVerdict(t.state, node, msg.answer, msg.verdict)
	t.input.Clear()
	return t, t.save()
}

// applyNav runs a navigator mutation, persists, and follows a completed
// run to the next phase's screen.
func (t *TrainingScreen) applyNav(err error) (screen.Screen, tea.Cmd) {
	if err != nil {
		t.errMsg = err.Error()
		return t, nil
	}
	t.errMsg = ""
	t.syncNode()

	if t.state.Phase == flow.PhaseComplete {
		next := t.screenFor()
		return t, tea.Batch(t.save(), func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		})
	}
	return t, tea.Batch(t.save(), t.input.Init())
}

// save persists the snapshot in the background.
func (t *TrainingScreen) save() tea.Cmd {
	snap := t.state.ToSnapshot()
	return func() tea.Msg {
		return savedMsg{err: t.store.SaveProgress(context.Background(), snap)}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(tm time.Time) tea.Msg {
		return spinnerTickMsg(tm)
	})
}

func (t *TrainingScreen) KeyHints() []layout.KeyHint {
	if t.nodeErr != "" {
		return nil
	}
	if t.cat.Len() == 0 {
		return []layout.KeyHint{{Key: "E", Description: "Change answers"}}
	}
	if t.evaluating {
		return nil
	}

	if t.state.AwaitingConfirmation && t.state.PendingVerdict != nil {
		if t.state.PendingVerdict.ShouldAdvance {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Continue"},
				{Key: "R", Description: "Try again"},
			}
		}
		return []layout.KeyHint{{Key: "Enter", Description: "Try again"}}
	}

	node, err := navigator.Current(t.state, t.cat)
	if err != nil {
		return nil
	}
	switch node.Kind {
	case catalog.KindFreeText:
		return []layout.KeyHint{{Key: "Enter", Description: "Submit"}}
	case catalog.KindYesNo:
		return []layout.KeyHint{
			{Key: "Y", Description: "Yes"},
			{Key: "N", Description: "No"},
		}
	case catalog.KindSingleChoice:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Select"},
		}
	case catalog.KindInformational:
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
	case catalog.KindExpandable:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Sections"},
			{Key: "Enter", Description: "Expand"},
			{Key: "C", Description: "Continue"},
		}
	}
	return nil
}
