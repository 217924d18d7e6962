package flow

import (
	"testing"

	"github.com/pioneer-academy/nmotrain/internal/catalog"
)

func TestBeginTrainingFromRouting(t *testing.T) {
	s := NewSessionState()
	key := catalog.Key{Program: "PathwayConnect", Format: "Virtual"}

	if err := BeginTraining(s, key, "welcome"); err != nil {
		t.Fatalf("BeginTraining: %v", err)
	}

	if s.Phase != PhaseTraining {
		t.Errorf("expected training phase, got %s", s.Phase)
	}
	if s.CurrentNodeID != "welcome" {
		t.Errorf("expected current node 'welcome', got %q", s.CurrentNodeID)
	}
	if len(s.VisitedHistory) != 1 || s.VisitedHistory[0] != "welcome" {
		t.Errorf("expected entry node in visit history, got %v", s.VisitedHistory)
	}
}

func TestBeginTrainingRejectedOutsideRouting(t *testing.T) {
	s := NewSessionState()
	s.Phase = PhaseComplete

	if err := BeginTraining(s, catalog.Key{}, "welcome"); err == nil {
		t.Fatal("expected error beginning training from complete phase")
	}
}

func TestBeginTrainingEmptyCatalog(t *testing.T) {
	s := NewSessionState()

	if err := BeginTraining(s, catalog.Key{Program: "X", Format: "Y"}, ""); err != nil {
		t.Fatalf("BeginTraining with empty entry: %v", err)
	}
	if len(s.VisitedHistory) != 0 {
		t.Errorf("empty entry must not be recorded as a visit, got %v", s.VisitedHistory)
	}
}

func TestCompleteOnlyFromTraining(t *testing.T) {
	s := NewSessionState()
	if err := Complete(s); err == nil {
		t.Fatal("expected error completing from routing phase")
	}

	s.Phase = PhaseTraining
	if err := Complete(s); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if s.Phase != PhaseComplete {
		t.Errorf("expected complete phase, got %s", s.Phase)
	}
	if s.CurrentNodeID != catalog.DoneNodeID {
		t.Errorf("complete phase must pin current node to DONE, got %q", s.CurrentNodeID)
	}
}

func TestReviewRoutingKeepsAnswers(t *testing.T) {
	s := NewSessionState()
	s.RoutingAnswers["program"] = "Institute"
	s.RoutingStep = 4
	s.Phase = PhaseTraining
	s.CatalogKey = catalog.Key{Program: "Institute", Format: "Virtual"}

	ReviewRouting(s)

	if s.Phase != PhaseRouting {
		t.Errorf("expected routing phase, got %s", s.Phase)
	}
	if s.RoutingStep != 0 {
		t.Errorf("expected step 0, got %d", s.RoutingStep)
	}
	if s.RoutingAnswers["program"] != "Institute" {
		t.Error("review must keep collected answers")
	}
	if s.CatalogKey != (catalog.Key{}) {
		t.Errorf("expected cleared catalog key, got %v", s.CatalogKey)
	}
}

func TestResetDiscardsEverything(t *testing.T) {
	s := NewSessionState()
	s.Phase = PhaseComplete
	s.RoutingAnswers["area"] = "Lima"
	s.Answers["q1"] = "something"
	s.MarkCompleted("q1")
	s.ProgressLoaded = true

	Reset(s)

	if s.Phase != PhaseRouting {
		t.Errorf("expected routing phase, got %s", s.Phase)
	}
	if len(s.RoutingAnswers) != 0 || len(s.Answers) != 0 || len(s.CompletedNodeIDs) != 0 {
		t.Error("reset must discard answers and progress")
	}
	if !s.ProgressLoaded {
		t.Error("reset must not re-arm the one-time snapshot restore")
	}
}

func TestParsePhaseRoundTrip(t *testing.T) {
	for _, p := range []Phase{PhaseRouting, PhaseTraining, PhaseComplete} {
		got, err := ParsePhase(p.String())
		if err != nil {
			t.Fatalf("ParsePhase(%q): %v", p.String(), err)
		}
		if got != p {
			t.Errorf("round trip %s: got %s", p, got)
		}
	}

	if _, err := ParsePhase("bogus"); err == nil {
		t.Error("expected error for unknown phase")
	}
}
