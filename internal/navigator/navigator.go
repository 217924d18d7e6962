// Package navigator walks the question catalog: it resolves the current
// node, dispatches trainee actions by node kind, and performs the
// advancement ritual. All functions mutate the shared SessionState and
// leave persistence to the caller, which saves after every nil return
// that changed state.
package navigator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pioneer-academy/nmotrain/internal/catalog"
	"github.com/pioneer-academy/nmotrain/internal/flow"
)

// EscalationNotice is shown when a yes/no node blocks advancement on a
// "No" answer.
const EscalationNotice = "Please contact your trainer for assistance with this question."

// FallbackChoiceMessage is shown when a selected option has no display
// message in the node's content mapping.
const FallbackChoiceMessage = "Details for this option are not available."

// ErrBlankAnswer rejects empty or whitespace-only free-text input before
// any evaluator call is made.
var ErrBlankAnswer = errors.New("please enter an answer before submitting")

// Current resolves the node the trainee is on. A dangling id yields
// *catalog.NodeNotFoundError and no state is mutated; the render cycle
// aborts with a user-facing error.
func Current(s *flow.SessionState, cat *catalog.Catalog) (catalog.Node, error) {
	node, ok := cat.LookupByID(s.CurrentNodeID)
	if !ok {
		return catalog.Node{}, &catalog.NodeNotFoundError{ID: s.CurrentNodeID}
	}
	return node, nil
}

// Submit validates a free-text answer locally and records it. Blank input
// is rejected here, with no evaluator call. The caller then runs the
// evaluator and reports back through RecordVerdict.
func Submit(s *flow.SessionState, node catalog.Node, answer string) error {
	if node.Kind != catalog.KindFreeText {
		return fmt.Errorf("submit: node %s is not a free-text question", node.ID)
	}
	if strings.TrimSpace(answer) == "" {
		return ErrBlankAnswer
	}
	s.Answers[node.ID] = answer
	return nil
}

// RecordVerdict stores an evaluator result: the attempt joins the node's
// conversation history and the verdict becomes pending, gating the UI on
// a confirm or retry action.
func RecordVerdict(s *flow.SessionState, node catalog.Node, answer string, v flow.Verdict) {
	s.AppendTurn(node.ID, flow.Turn{Answer: answer, Feedback: v.Feedback})
	s.PendingVerdict = &v
	s.AwaitingConfirmation = true
}

// AnswerYesNo handles the two direct actions of a yes/no node. No
// evaluator is involved.
//
// Yes with a tip present parks the tip as a pending result that must be
// confirmed before advancing; Yes without one advances immediately.
// No with escalation blocks: the notice becomes a non-advancing pending
// result and the trainee stays on the node. No without escalation
// advances to the no-successor.
func AnswerYesNo(s *flow.SessionState, cat *catalog.Catalog, node catalog.Node, yes bool) error {
	if node.Kind != catalog.KindYesNo {
		return fmt.Errorf("yes/no answer on node %s of kind %s", node.ID, node.Kind)
	}

	if yes {
		s.Answers[node.ID] = "Yes"
		if node.WhatToDo != "" {
			s.PendingVerdict = &flow.Verdict{Acceptable: true, Feedback: node.WhatToDo, ShouldAdvance: true}
			s.AwaitingConfirmation = true
			return nil
		}
		return advance(s, node.NextYes)
	}

	s.Answers[node.ID] = "No"
	if node.EscalateOnNo {
		s.PendingVerdict = &flow.Verdict{Acceptable: false, Feedback: EscalationNotice, ShouldAdvance: false}
		s.AwaitingConfirmation = true
		return nil
	}
	return advance(s, node.NextNo)
}

// SelectChoice records a single-choice selection and parks its display
// message as a confirmable pending result. A missing or malformed content
// mapping degrades to the fallback message and never blocks advancement.
func SelectChoice(s *flow.SessionState, node catalog.Node, option string) error {
	if node.Kind != catalog.KindSingleChoice {
		return fmt.Errorf("choice selection on node %s of kind %s", node.ID, node.Kind)
	}

	s.Answers[node.ID] = option
	message, ok := node.ChoiceMessages[option]
	if !ok {
		message = FallbackChoiceMessage
	}
	s.PendingVerdict = &flow.Verdict{Acceptable: true, Feedback: message, ShouldAdvance: true}
	s.AwaitingConfirmation = true
	return nil
}

// Continue advances an informational or expandable node to its default
// successor. These kinds take no input.
func Continue(s *flow.SessionState, node catalog.Node) error {
	switch node.Kind {
	case catalog.KindInformational, catalog.KindExpandable:
		return advance(s, node.NextDefault)
	}
	return fmt.Errorf("continue on node %s of kind %s", node.ID, node.Kind)
}

// ConfirmAdvance acts on a pending result that allows advancement. For a
// free-text node the conversation history is cleared on the way out, so
// histories are non-empty only while a retry is owed.
func ConfirmAdvance(s *flow.SessionState, node catalog.Node) error {
	if s.PendingVerdict == nil || !s.PendingVerdict.ShouldAdvance {
		return fmt.Errorf("confirm on node %s without an advancing verdict", node.ID)
	}

	switch node.Kind {
	case catalog.KindFreeText:
		s.ClearHistory(node.ID)
		return advance(s, node.NextDefault)
	case catalog.KindYesNo:
		return advance(s, node.NextYes)
	case catalog.KindSingleChoice:
		return advance(s, node.NextDefault)
	}
	return fmt.Errorf("confirm on node %s of kind %s", node.ID, node.Kind)
}

// Retry clears the pending result and re-prompts the same node. The
// conversation history is retained so the evaluator sees prior attempts.
func Retry(s *flow.SessionState) error {
	if s.PendingVerdict == nil {
		return errors.New("retry without a pending result")
	}
	s.ClearVerdict()
	return nil
}

// advance performs the advancement ritual: record the visit, add the node
// to the completed set, clear pending display state, then move to the
// successor — or complete the run when the successor is the sentinel. An
// empty successor is treated as DONE so a walk can never get stuck.
func advance(s *flow.SessionState, successor string) error {
	s.RecordVisit(s.CurrentNodeID)
	s.MarkCompleted(s.CurrentNodeID)
	s.ClearVerdict()

	if successor == "" || successor == catalog.DoneNodeID {
		return flow.Complete(s)
	}

	s.CurrentNodeID = successor
	s.RecordVisit(successor)
	return nil
}
