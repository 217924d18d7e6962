package flow

import (
	"testing"
)

func TestRecordVisitCollapsesConsecutiveDuplicates(t *testing.T) {
	s := NewSessionState()

	s.RecordVisit("a")
	s.RecordVisit("a")
	s.RecordVisit("b")
	s.RecordVisit("a")

	want := []string{"a", "b", "a"}
	if len(s.VisitedHistory) != len(want) {
		t.Fatalf("expected %v, got %v", want, s.VisitedHistory)
	}
	for i := range want {
		if s.VisitedHistory[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, s.VisitedHistory)
		}
	}
}

func TestMarkCompletedDeduplicates(t *testing.T) {
	s := NewSessionState()

	s.MarkCompleted("a")
	s.MarkCompleted("a")
	s.MarkCompleted("b")

	if got := s.CompletedCount(); got != 2 {
		t.Errorf("expected 2 completed, got %d", got)
	}
}

func TestConversationHistory(t *testing.T) {
	s := NewSessionState()

	s.AppendTurn("q1", Turn{Answer: "first try", Feedback: "not quite"})
	s.AppendTurn("q1", Turn{Answer: "second try", Feedback: "better"})

	h := s.History("q1")
	if len(h) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(h))
	}
	if h[0].Answer != "first try" || h[1].Feedback != "better" {
		t.Errorf("history out of order: %+v", h)
	}

	s.ClearHistory("q1")
	if len(s.History("q1")) != 0 {
		t.Error("expected empty history after clear")
	}
}

func TestClearVerdict(t *testing.T) {
	s := NewSessionState()
	s.PendingVerdict = &Verdict{Acceptable: true, Feedback: "ok", ShouldAdvance: true}
	s.AwaitingConfirmation = true

	s.ClearVerdict()

	if s.PendingVerdict != nil || s.AwaitingConfirmation {
		t.Error("expected verdict and confirmation gate cleared")
	}
}
