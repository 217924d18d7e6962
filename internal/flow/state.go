package flow

import (
	"github.com/pioneer-academy/nmotrain/internal/catalog"
)

// Turn is one prior attempt on a free-text node: what the trainee
// submitted and what the evaluator said back.
type Turn struct {
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
}

// Verdict is the evaluator's (or a branch rule's) decision awaiting
// display. Not persisted beyond the conversation history entry it
// produced.
type Verdict struct {
	Acceptable    bool
	Feedback      string
	ShouldAdvance bool
}

// SessionState is the full mutable state of one trainee's run. It is the
// shared substrate every component reads and mutates; a single instance
// is passed by reference through the whole app — no ambient globals.
type SessionState struct {
	// Phase is the top-level dispatch state. Only the transition
	// functions in this package write it.
	Phase Phase

	// RoutingStep indexes the fixed routing sequence (routing phase only).
	RoutingStep int

	// RoutingAnswers maps profile attribute name to the selected value.
	// Immutable once training starts, except via edit-and-restart.
	RoutingAnswers map[string]string

	// CatalogKey selects the loaded question catalog. Set exactly once,
	// at the routing → training transition.
	CatalogKey catalog.Key

	// CurrentNodeID is the node currently presented. Always a member of
	// the active catalog once training is entered, or the DONE sentinel.
	CurrentNodeID string

	// VisitedHistory records node ids in visit order, append-only.
	// Branch loops append repeats.
	VisitedHistory []string

	// CompletedNodeIDs is the set of passed nodes. Progress display only;
	// never consulted for graph traversal.
	CompletedNodeIDs map[string]bool

	// Answers maps node id to the last submitted answer value.
	Answers map[string]string

	// ConversationHistories accumulates prior attempts per free-text
	// node. Reset to empty whenever that node is passed, so a history is
	// non-empty only while awaiting re-submission.
	ConversationHistories map[string][]Turn

	// PendingVerdict is the most recent evaluator/branch result awaiting
	// display, or nil.
	PendingVerdict *Verdict

	// AwaitingConfirmation is true while the UI is mid-display of a
	// verdict, tip, or choice message that has not yet been acted on.
	AwaitingConfirmation bool

	// ProgressLoaded gates the one-time snapshot restore at process start.
	ProgressLoaded bool
}

// NewSessionState returns a fresh state at the start of the routing phase.
func NewSessionState() *SessionState {
	return &SessionState{
		Phase:                 PhaseRouting,
		RoutingAnswers:        make(map[string]string),
		CompletedNodeIDs:      make(map[string]bool),
		Answers:               make(map[string]string),
		ConversationHistories: make(map[string][]Turn),
	}
}

// RecordVisit appends the node to the visit history. Consecutive
// duplicates (the same node re-rendered within one stay) are collapsed;
// revisits via branch loops are recorded.
func (s *SessionState) RecordVisit(id string) {
	if n := len(s.VisitedHistory); n > 0 && s.VisitedHistory[n-1] == id {
		return
	}
	s.VisitedHistory = append(s.VisitedHistory, id)
}

// MarkCompleted adds the node to the completed set. The set never holds
// duplicates, so loop revisits do not inflate progress totals.
func (s *SessionState) MarkCompleted(id string) {
	s.CompletedNodeIDs[id] = true
}

// CompletedCount returns the number of distinct passed nodes.
func (s *SessionState) CompletedCount() int {
	return len(s.CompletedNodeIDs)
}

// ClearVerdict drops any pending verdict and confirmation gate.
func (s *SessionState) ClearVerdict() {
	s.PendingVerdict = nil
	s.AwaitingConfirmation = false
}

// AppendTurn records one evaluated attempt on a node's conversation
// history.
func (s *SessionState) AppendTurn(nodeID string, t Turn) {
	s.ConversationHistories[nodeID] = append(s.ConversationHistories[nodeID], t)
}

// ClearHistory erases the conversation history for a node. Called when
// the node is passed.
func (s *SessionState) ClearHistory(nodeID string) {
	delete(s.ConversationHistories, nodeID)
}

// History returns the accumulated attempts for a node, oldest first.
func (s *SessionState) History(nodeID string) []Turn {
	return s.ConversationHistories[nodeID]
}
