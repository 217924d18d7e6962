package navigator

import (
	"errors"
	"strings"
	"testing"

	"github.com/pioneer-academy/nmotrain/internal/catalog"
	"github.com/pioneer-academy/nmotrain/internal/flow"
)

const walkCSV = `question_id,question,question_type,correct_answer,choices,content,next_default,next_yes,next_no,refer_on_no,what_to_do
welcome,Welcome,info,,,Read me.,q_text,,,,
q_text,Explain your role.,text,Mentions hosting.,,,q_yes,,,,
q_yes,Got the manual?,yes_no,,,,,q_choice,q_text,,Bring it weekly.
q_choice,Pick a contact.,choice,,Director|Leader,"{""Director"": ""Right.""}",q_escalate,,,,
q_escalate,Room confirmed?,yes_no,,,,,q_end,q_end,yes,
q_end,Done reading?,info,,,Last one.,,,,,
`

func trainingState(t *testing.T) (*flow.SessionState, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.ParseCSV(strings.NewReader(walkCSV), catalog.Key{Program: "P", Format: "F"})
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}

	s := flow.NewSessionState()
	if err := flow.BeginTraining(s, cat.Key, cat.EntryID); err != nil {
		t.Fatal(err)
	}
	return s, cat
}

// moveTo fast-forwards the walk to a node without exercising the path.
func moveTo(s *flow.SessionState, id string) {
	s.CurrentNodeID = id
	s.RecordVisit(id)
}

func TestCurrentResolvesNode(t *testing.T) {
	s, cat := trainingState(t)

	node, err := Current(s, cat)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if node.ID != "welcome" {
		t.Errorf("expected welcome, got %q", node.ID)
	}
}

func TestCurrentDanglingID(t *testing.T) {
	s, cat := trainingState(t)
	s.CurrentNodeID = "ghost"

	_, err := Current(s, cat)
	var nf *catalog.NodeNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NodeNotFoundError, got %v", err)
	}
}

func TestInformationalContinue(t *testing.T) {
	s, cat := trainingState(t)
	node, _ := Current(s, cat)

	if err := Continue(s, node); err != nil {
		t.Fatalf("Continue: %v", err)
	}

	if s.CurrentNodeID != "q_text" {
		t.Errorf("expected q_text, got %q", s.CurrentNodeID)
	}
	if !s.CompletedNodeIDs["welcome"] {
		t.Error("advanced node must join the completed set")
	}
	if len(s.VisitedHistory) != 2 {
		t.Errorf("expected [welcome q_text], got %v", s.VisitedHistory)
	}
}

func TestSubmitRejectsBlank(t *testing.T) {
	s, cat := trainingState(t)
	moveTo(s, "q_text")
	node, _ := Current(s, cat)

	if err := Submit(s, node, "   "); !errors.Is(err, ErrBlankAnswer) {
		t.Fatalf("expected ErrBlankAnswer, got %v", err)
	}
	if _, ok := s.Answers["q_text"]; ok {
		t.Error("blank submission must not be recorded")
	}
}

// Scenario: evaluator passes the answer; confirming advances and clears
// the node's conversation history.
func TestFreeTextPassClearsHistory(t *testing.T) {
	s, cat := trainingState(t)
	moveTo(s, "q_text")
	node, _ := Current(s, cat)

	if err := Submit(s, node, "I host the weekly gathering"); err != nil {
		t.Fatal(err)
	}
	RecordVerdict(s, node, "I host the weekly gathering", flow.Verdict{
		Acceptable: true, Feedback: "Exactly right.", ShouldAdvance: true,
	})

	if !s.AwaitingConfirmation {
		t.Fatal("verdict must gate on confirmation")
	}
	if len(s.History("q_text")) != 1 {
		t.Fatalf("expected 1 turn in history, got %d", len(s.History("q_text")))
	}

	if err := ConfirmAdvance(s, node); err != nil {
		t.Fatalf("ConfirmAdvance: %v", err)
	}
	if s.CurrentNodeID != "q_yes" {
		t.Errorf("expected q_yes, got %q", s.CurrentNodeID)
	}
	if len(s.History("q_text")) != 0 {
		t.Error("history must be empty once the node is passed")
	}
	if s.PendingVerdict != nil {
		t.Error("pending verdict must be cleared on advance")
	}
}

// Scenario: evaluator rejects twice; the retry keeps the node and the
// history accumulates, so the evaluator sees prior attempts.
func TestFreeTextRetryAccumulatesHistory(t *testing.T) {
	s, cat := trainingState(t)
	moveTo(s, "q_text")
	node, _ := Current(s, cat)

	for i, answer := range []string{"dunno", "something vague"} {
		if err := Submit(s, node, answer); err != nil {
			t.Fatal(err)
		}
		RecordVerdict(s, node, answer, flow.Verdict{Acceptable: false, Feedback: "say more"})
		if err := Retry(s); err != nil {
			t.Fatalf("Retry %d: %v", i, err)
		}
		if s.CurrentNodeID != "q_text" {
			t.Fatalf("retry must stay on the node, got %q", s.CurrentNodeID)
		}
	}

	if len(s.History("q_text")) != 2 {
		t.Errorf("expected 2 turns, got %d", len(s.History("q_text")))
	}
	if s.CompletedNodeIDs["q_text"] {
		t.Error("a failed node must not join the completed set")
	}
}

// Scenario: incorrect but should_advance — confirm is offered and
// advancing still clears the history.
func TestFreeTextMercyAdvance(t *testing.T) {
	s, cat := trainingState(t)
	moveTo(s, "q_text")
	node, _ := Current(s, cat)

	if err := Submit(s, node, "third earnest attempt"); err != nil {
		t.Fatal(err)
	}
	RecordVerdict(s, node, "third earnest attempt", flow.Verdict{
		Acceptable: false, Feedback: "Close enough.", ShouldAdvance: true,
	})

	if err := ConfirmAdvance(s, node); err != nil {
		t.Fatalf("ConfirmAdvance: %v", err)
	}
	if s.CurrentNodeID != "q_yes" {
		t.Errorf("expected advance despite incorrectness, got %q", s.CurrentNodeID)
	}
	if len(s.History("q_text")) != 0 {
		t.Error("history must clear when the node is passed")
	}
}

func TestConfirmAdvanceRequiresAdvancingVerdict(t *testing.T) {
	s, cat := trainingState(t)
	moveTo(s, "q_text")
	node, _ := Current(s, cat)

	RecordVerdict(s, node, "nope", flow.Verdict{Acceptable: false, ShouldAdvance: false})
	if err := ConfirmAdvance(s, node); err == nil {
		t.Fatal("expected error confirming a non-advancing verdict")
	}
}

func TestYesNoWithTip(t *testing.T) {
	s, cat := trainingState(t)
	moveTo(s, "q_yes")
	node, _ := Current(s, cat)

	if err := AnswerYesNo(s, cat, node, true); err != nil {
		t.Fatal(err)
	}

	// The tip gates advancement.
	if s.CurrentNodeID != "q_yes" {
		t.Fatalf("tip must show before advancing, got %q", s.CurrentNodeID)
	}
	if s.PendingVerdict == nil || s.PendingVerdict.Feedback != "Bring it weekly." {
		t.Fatalf("expected tip pending, got %+v", s.PendingVerdict)
	}

	if err := ConfirmAdvance(s, node); err != nil {
		t.Fatal(err)
	}
	if s.CurrentNodeID != "q_choice" {
		t.Errorf("expected yes-successor q_choice, got %q", s.CurrentNodeID)
	}
	if s.Answers["q_yes"] != "Yes" {
		t.Errorf("expected recorded answer Yes, got %q", s.Answers["q_yes"])
	}
}

func TestYesNoBranchLoop(t *testing.T) {
	s, cat := trainingState(t)
	moveTo(s, "q_yes")
	node, _ := Current(s, cat)

	// "No" loops back to the free-text question.
	if err := AnswerYesNo(s, cat, node, false); err != nil {
		t.Fatal(err)
	}
	if s.CurrentNodeID != "q_text" {
		t.Errorf("expected no-successor q_text, got %q", s.CurrentNodeID)
	}

	// The loop revisit is recorded.
	wantTail := []string{"q_yes", "q_text"}
	tail := s.VisitedHistory[len(s.VisitedHistory)-2:]
	for i := range wantTail {
		if tail[i] != wantTail[i] {
			t.Fatalf("expected visit tail %v, got %v", wantTail, tail)
		}
	}
}

// Scenario: escalation — "No" blocks, the trainee stays put, and only a
// "Yes" moves on.
func TestYesNoEscalationBlocks(t *testing.T) {
	s, cat := trainingState(t)
	moveTo(s, "q_escalate")
	node, _ := Current(s, cat)

	if err := AnswerYesNo(s, cat, node, false); err != nil {
		t.Fatal(err)
	}
	if s.CurrentNodeID != "q_escalate" {
		t.Fatalf("escalation must not advance, got %q", s.CurrentNodeID)
	}
	if s.PendingVerdict == nil || s.PendingVerdict.ShouldAdvance {
		t.Fatalf("expected blocking notice, got %+v", s.PendingVerdict)
	}
	if s.PendingVerdict.Feedback != EscalationNotice {
		t.Errorf("expected escalation notice, got %q", s.PendingVerdict.Feedback)
	}

	if err := Retry(s); err != nil {
		t.Fatal(err)
	}
	if err := AnswerYesNo(s, cat, node, true); err != nil {
		t.Fatal(err)
	}
	if s.CurrentNodeID != "q_end" {
		t.Errorf("expected q_end after yes, got %q", s.CurrentNodeID)
	}
}

func TestSelectChoiceMessages(t *testing.T) {
	s, cat := trainingState(t)
	moveTo(s, "q_choice")
	node, _ := Current(s, cat)

	if err := SelectChoice(s, node, "Director"); err != nil {
		t.Fatal(err)
	}
	if s.PendingVerdict.Feedback != "Right." {
		t.Errorf("expected mapped message, got %q", s.PendingVerdict.Feedback)
	}

	if err := Retry(s); err != nil {
		t.Fatal(err)
	}

	// An option with no mapped message degrades to the fallback.
	if err := SelectChoice(s, node, "Leader"); err != nil {
		t.Fatal(err)
	}
	if s.PendingVerdict.Feedback != FallbackChoiceMessage {
		t.Errorf("expected fallback message, got %q", s.PendingVerdict.Feedback)
	}

	if err := ConfirmAdvance(s, node); err != nil {
		t.Fatal(err)
	}
	if s.CurrentNodeID != "q_escalate" {
		t.Errorf("expected q_escalate, got %q", s.CurrentNodeID)
	}
	if s.Answers["q_choice"] != "Leader" {
		t.Errorf("expected recorded option, got %q", s.Answers["q_choice"])
	}
}

func TestWalkCompletes(t *testing.T) {
	s, cat := trainingState(t)
	moveTo(s, "q_end")
	node, _ := Current(s, cat)

	if err := Continue(s, node); err != nil {
		t.Fatalf("Continue: %v", err)
	}

	if s.Phase != flow.PhaseComplete {
		t.Errorf("expected complete phase, got %s", s.Phase)
	}
	if s.CurrentNodeID != catalog.DoneNodeID {
		t.Errorf("expected DONE sentinel, got %q", s.CurrentNodeID)
	}
	if !s.CompletedNodeIDs["q_end"] {
		t.Error("final node must join the completed set")
	}
}

func TestLoopDoesNotInflateProgress(t *testing.T) {
	s, cat := trainingState(t)
	moveTo(s, "q_yes")
	node, _ := Current(s, cat)

	// Loop q_yes → q_text → (pass) → q_yes twice.
	for i := 0; i < 2; i++ {
		if err := AnswerYesNo(s, cat, node, false); err != nil {
			t.Fatal(err)
		}
		textNode, _ := Current(s, cat)
		if err := Submit(s, textNode, "I host the gathering"); err != nil {
			t.Fatal(err)
		}
		RecordVerdict(s, textNode, "I host the gathering", flow.Verdict{Acceptable: true, ShouldAdvance: true, Feedback: "ok"})
		if err := ConfirmAdvance(s, textNode); err != nil {
			t.Fatal(err)
		}
	}

	// q_yes and q_text each count once despite the loop.
	if got := s.CompletedCount(); got != 2 {
		t.Errorf("expected 2 distinct completed nodes, got %d", got)
	}
	if len(s.VisitedHistory) < 4 {
		t.Errorf("loop revisits must be recorded, got %v", s.VisitedHistory)
	}
}

func TestKindMismatchErrors(t *testing.T) {
	s, cat := trainingState(t)
	node, _ := Current(s, cat) // welcome, informational

	if err := Submit(s, node, "hello"); err == nil {
		t.Error("expected error submitting text to an informational node")
	}
	if err := AnswerYesNo(s, cat, node, true); err == nil {
		t.Error("expected error answering yes/no on an informational node")
	}
	if err := SelectChoice(s, node, "A"); err == nil {
		t.Error("expected error selecting a choice on an informational node")
	}

	moveTo(s, "q_text")
	textNode, _ := Current(s, cat)
	if err := Continue(s, textNode); err == nil {
		t.Error("expected error continuing a free-text node")
	}
}
