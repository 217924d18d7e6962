package flow

import (
	"fmt"

	"github.com/pioneer-academy/nmotrain/internal/catalog"
)

// Phase is the top-level dispatch state of a trainee run.
type Phase int

const (
	// PhaseRouting collects profile attributes through the fixed wizard.
	PhaseRouting Phase = iota
	// PhaseTraining walks the selected question catalog.
	PhaseTraining
	// PhaseComplete shows the completion view.
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseRouting:
		return "routing"
	case PhaseTraining:
		return "training"
	case PhaseComplete:
		return "complete"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// ParsePhase converts the persisted phase string back to a Phase.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "routing":
		return PhaseRouting, nil
	case "training":
		return PhaseTraining, nil
	case "complete":
		return PhaseComplete, nil
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

// The functions below are the only writers of SessionState.Phase. Screens
// and the navigator request transitions through them; none may flip the
// phase directly.

// BeginTraining fires the routing → training transition. Only the routing
// wizard's final confirmation step calls this, after the catalog for key
// has been resolved.
func BeginTraining(s *SessionState, key catalog.Key, entryID string) error {
	if s.Phase != PhaseRouting {
		return fmt.Errorf("begin training: not in routing phase (phase=%s)", s.Phase)
	}
	s.Phase = PhaseTraining
	s.CatalogKey = key
	s.CurrentNodeID = entryID
	if entryID != "" {
		s.RecordVisit(entryID)
	}
	return nil
}

// Complete fires the training → complete transition. Only the navigator
// calls this, when a successor resolves to the DONE sentinel.
func Complete(s *SessionState) error {
	if s.Phase != PhaseTraining {
		return fmt.Errorf("complete training: not in training phase (phase=%s)", s.Phase)
	}
	s.Phase = PhaseComplete
	s.CurrentNodeID = catalog.DoneNodeID
	s.ClearVerdict()
	return nil
}

// ReviewRouting returns to the first data-collection step of the wizard
// without clearing collected answers. Used when a routing selection
// resolves to a catalog with no content, so the trainee can fix their
// answers instead of being stuck.
func ReviewRouting(s *SessionState) {
	s.Phase = PhaseRouting
	s.RoutingStep = 0
	s.CatalogKey = catalog.Key{}
	s.CurrentNodeID = ""
	s.ClearVerdict()
}

// Reset wipes the state back to its fresh-initial form. The only way out
// of the complete phase, and the only transition that discards answers.
func Reset(s *SessionState) {
	fresh := NewSessionState()
	fresh.ProgressLoaded = s.ProgressLoaded
	*s = *fresh
}
