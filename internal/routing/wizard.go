// Package routing implements the fixed-length profile wizard that opens a
// trainee run: four attribute steps followed by a confirmation step that
// selects the question catalog.
package routing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pioneer-academy/nmotrain/internal/catalog"
	"github.com/pioneer-academy/nmotrain/internal/flow"
)

// Attribute names written into SessionState.RoutingAnswers.
const (
	AttrArea       = "area"
	AttrProgram    = "program"
	AttrFormat     = "format"
	AttrExperience = "experience"
)

// Step describes one wizard step. Steps with Options render a selector;
// steps without render a text input.
type Step struct {
	Attr    string
	Title   string
	Prompt  string
	Options []string
}

// steps is the fixed routing sequence. The confirmation step is not part
// of this slice; it begins at index len(Steps()).
var steps = []Step{
	{
		Attr:   AttrArea,
		Title:  "Your Area",
		Prompt: "Which area are you serving in?",
	},
	{
		Attr:    AttrProgram,
		Title:   "Program",
		Prompt:  "Which program will you be supporting?",
		Options: []string{"PathwayConnect", "EnglishConnect", "Institute"},
	},
	{
		Attr:    AttrFormat,
		Title:   "Gathering Format",
		Prompt:  "How will your gatherings be held?",
		Options: []string{"In-Person", "Virtual"},
	},
	{
		Attr:    AttrExperience,
		Title:   "Experience",
		Prompt:  "How familiar are you with this assignment?",
		Options: []string{"Brand new", "Some experience", "Very experienced"},
	},
}

// Steps returns the data-collection steps in order.
func Steps() []Step {
	return steps
}

// ConfirmStep is the RoutingStep index of the confirmation/preview step.
func ConfirmStep() int {
	return len(steps)
}

// Current returns the step the wizard is on, or false when the state is
// at the confirmation step.
func Current(s *flow.SessionState) (Step, bool) {
	if s.RoutingStep < 0 || s.RoutingStep >= len(steps) {
		return Step{}, false
	}
	return steps[s.RoutingStep], true
}

// ErrEmptyAnswer rejects a blank or whitespace-only wizard input locally.
var ErrEmptyAnswer = errors.New("an answer is required before continuing")

// Apply validates and records the answer for the current step, then
// advances the wizard. Steps cannot be skipped: the only way RoutingStep
// moves forward is through here. The caller persists after a nil return.
func Apply(s *flow.SessionState, value string) error {
	step, ok := Current(s)
	if !ok {
		return fmt.Errorf("routing step %d is out of range", s.RoutingStep)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyAnswer
	}
	if len(step.Options) > 0 && !contains(step.Options, value) {
		return fmt.Errorf("%q is not an option for %s", value, step.Attr)
	}

	s.RoutingAnswers[step.Attr] = value
	s.RoutingStep++
	return nil
}

// EditAnswers rewinds to the first data-collection step without clearing
// already-collected answers, so each step re-renders pre-filled.
func EditAnswers(s *flow.SessionState) {
	s.RoutingStep = 0
}

// SelectedKey maps the collected (program, format) answers to the catalog
// selection key.
func SelectedKey(s *flow.SessionState) catalog.Key {
	return catalog.Key{
		Program: s.RoutingAnswers[AttrProgram],
		Format:  s.RoutingAnswers[AttrFormat],
	}
}

// Confirm fires the routing → training transition from the confirmation
// step. If no catalog is registered for the selected key the wizard halts
// with the registry's NotFoundError — it never silently picks a default.
// The returned catalog may be empty; the training view handles that case.
func Confirm(s *flow.SessionState, reg *catalog.Registry) (*catalog.Catalog, error) {
	if s.RoutingStep != ConfirmStep() {
		return nil, fmt.Errorf("confirm called on step %d, want %d", s.RoutingStep, ConfirmStep())
	}

	key := SelectedKey(s)
	cat, err := reg.Load(key)
	if err != nil {
		return nil, err
	}

	if err := flow.BeginTraining(s, key, cat.EntryID); err != nil {
		return nil, err
	}
	return cat, nil
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
