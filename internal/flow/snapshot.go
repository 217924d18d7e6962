package flow

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/pioneer-academy/nmotrain/internal/catalog"
)

// Snapshot is the exact externally-persisted projection of SessionState.
// Created on every state-changing transition, consumed once at process
// start. It must round-trip losslessly; transient display state
// (PendingVerdict, AwaitingConfirmation) is deliberately excluded.
type Snapshot struct {
	Phase                 string            `json:"phase"`
	RoutingStep           int               `json:"routingStep"`
	RoutingAnswers        map[string]string `json:"routingAnswers"`
	CatalogKey            catalog.Key       `json:"catalogKey"`
	CurrentNodeID         string            `json:"currentNodeId"`
	VisitedHistory        []string          `json:"visitedHistory"`
	CompletedNodeIDs      []string          `json:"completedNodeIds"`
	Answers               map[string]string `json:"answers"`
	ConversationHistories map[string][]Turn `json:"conversationHistories"`
}

// ToSnapshot projects the persisted fields of the state. The completed
// set is emitted sorted so equal states serialize identically. Maps and
// slices are copied: saves marshal the snapshot off the UI goroutine
// while the state keeps mutating, so the snapshot must not alias it.
func (s *SessionState) ToSnapshot() Snapshot {
	completed := make([]string, 0, len(s.CompletedNodeIDs))
	for id := range s.CompletedNodeIDs {
		completed = append(completed, id)
	}
	sort.Strings(completed)

	histories := make(map[string][]Turn, len(s.ConversationHistories))
	for id, turns := range s.ConversationHistories {
		histories[id] = slices.Clone(turns)
	}

	return Snapshot{
		Phase:                 s.Phase.String(),
		RoutingStep:           s.RoutingStep,
		RoutingAnswers:        maps.Clone(s.RoutingAnswers),
		CatalogKey:            s.CatalogKey,
		CurrentNodeID:         s.CurrentNodeID,
		VisitedHistory:        slices.Clone(s.VisitedHistory),
		CompletedNodeIDs:      completed,
		Answers:               maps.Clone(s.Answers),
		ConversationHistories: histories,
	}
}

// Apply overwrites the state's persisted fields from a snapshot. A
// snapshot carrying an unknown phase is rejected so a corrupt payload is
// treated as absent by the caller rather than half-applied.
func (s *SessionState) Apply(snap Snapshot) error {
	phase, err := ParsePhase(snap.Phase)
	if err != nil {
		return fmt.Errorf("apply snapshot: %w", err)
	}

	s.Phase = phase
	s.RoutingStep = snap.RoutingStep
	s.CatalogKey = snap.CatalogKey
	s.CurrentNodeID = snap.CurrentNodeID
	s.VisitedHistory = snap.VisitedHistory

	s.RoutingAnswers = snap.RoutingAnswers
	if s.RoutingAnswers == nil {
		s.RoutingAnswers = make(map[string]string)
	}
	s.Answers = snap.Answers
	if s.Answers == nil {
		s.Answers = make(map[string]string)
	}
	s.ConversationHistories = snap.ConversationHistories
	if s.ConversationHistories == nil {
		s.ConversationHistories = make(map[string][]Turn)
	}

	s.CompletedNodeIDs = make(map[string]bool, len(snap.CompletedNodeIDs))
	for _, id := range snap.CompletedNodeIDs {
		s.CompletedNodeIDs[id] = true
	}

	s.ClearVerdict()
	return nil
}
